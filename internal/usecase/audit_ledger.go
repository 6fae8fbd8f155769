package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
	"github.com/muzansiddig/Veritas-Legal/internal/infra/crypto"
)

// AuditLedger writes one immutable, hash-stamped record per sensitive action,
// independent of the evidence chain. Entries are never mutated or deleted.
type AuditLedger struct {
	Repo  AuditRepository
	Clock Clock
}

func NewAuditLedger(repo AuditRepository, clock Clock) *AuditLedger {
	if clock == nil {
		clock = time.Now
	}
	return &AuditLedger{Repo: repo, Clock: clock}
}

type RecordInput struct {
	ActorUserID string
	FirmID      string
	Action      domain.AuditAction
	TargetTable string
	TargetID    string
	Details     map[string]any
}

func (l *AuditLedger) Record(ctx context.Context, input RecordInput) (domain.SystemAuditEntry, error) {
	if l == nil || l.Repo == nil {
		return domain.SystemAuditEntry{}, errors.New("audit repository required")
	}
	if input.Action == "" || strings.TrimSpace(input.FirmID) == "" || strings.TrimSpace(input.ActorUserID) == "" {
		return domain.SystemAuditEntry{}, domain.ErrInvalidArgument
	}
	if input.Details == nil {
		input.Details = map[string]any{}
	}
	entry := domain.SystemAuditEntry{
		Action:      input.Action,
		TargetTable: input.TargetTable,
		TargetID:    input.TargetID,
		ActorUserID: input.ActorUserID,
		FirmID:      input.FirmID,
		Timestamp:   l.Clock().UTC(),
		Details:     input.Details,
	}
	hash, err := IntegrityHash(entry)
	if err != nil {
		return domain.SystemAuditEntry{}, err
	}
	entry.IntegrityHash = hash
	return l.Repo.Insert(ctx, entry)
}

// RecordBestEffort isolates ledger failures from the triggering business
// operation: a failed audit write is logged as a warning and never rolls back
// the already-committed mutation. Legal-workflow continuity is prioritized
// over audit completeness.
func (l *AuditLedger) RecordBestEffort(ctx context.Context, input RecordInput) {
	if _, err := l.Record(ctx, input); err != nil {
		log.Printf("WARN audit write failed (non-fatal): action=%s firm=%s target=%s/%s: %v",
			input.Action, input.FirmID, input.TargetTable, input.TargetID, err)
	}
}

// VerifyEntry recomputes the integrity hash from the stored fields. A false
// result signals the record was altered after creation.
func (l *AuditLedger) VerifyEntry(entry domain.SystemAuditEntry) bool {
	expected, err := IntegrityHash(entry)
	if err != nil {
		return false
	}
	return expected == entry.IntegrityHash
}

// VerifyFirmLedger enumerates every entry whose stored hash no longer
// recomputes, rather than stopping at the first break.
func (l *AuditLedger) VerifyFirmLedger(ctx context.Context, firmID string, limit int) ([]domain.LedgerBreak, error) {
	if l == nil || l.Repo == nil {
		return nil, errors.New("audit repository required")
	}
	entries, err := l.Repo.ListByFirm(ctx, firmID, limit)
	if err != nil {
		return nil, err
	}
	var breaks []domain.LedgerBreak
	for _, entry := range entries {
		expected, err := IntegrityHash(entry)
		if err != nil || expected != entry.IntegrityHash {
			breaks = append(breaks, domain.LedgerBreak{
				EntryID:  entry.ID,
				Expected: expected,
				Stored:   entry.IntegrityHash,
			})
		}
	}
	return breaks, nil
}

// fieldSeparator keeps adjacent fields of different lengths from colliding in
// the hash input. The concatenation order is fixed: actor, firm, action,
// target table, target id, canonical details JSON.
const fieldSeparator = "\x1f"

func IntegrityHash(entry domain.SystemAuditEntry) (string, error) {
	details := entry.Details
	if details == nil {
		details = map[string]any{}
	}
	detailsJSON, err := crypto.Canonicalize(details)
	if err != nil {
		return "", err
	}
	input := strings.Join([]string{
		entry.ActorUserID,
		entry.FirmID,
		string(entry.Action),
		entry.TargetTable,
		entry.TargetID,
		string(detailsJSON),
	}, fieldSeparator)
	return crypto.SHA256Hex([]byte(input)), nil
}
