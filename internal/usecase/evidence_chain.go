package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
	"github.com/muzansiddig/Veritas-Legal/internal/infra/crypto"
)

// EvidenceChainService maintains the per-case evidence hash chain and each
// record's append-only chain-of-custody log.
type EvidenceChainService struct {
	Cases    CaseRepository
	Evidence EvidenceRepository
	Blobs    domain.BlobStore
	Ledger   *AuditLedger
	Clock    Clock
}

func NewEvidenceChainService(cases CaseRepository, evidence EvidenceRepository, blobs domain.BlobStore, ledger *AuditLedger, clock Clock) *EvidenceChainService {
	if clock == nil {
		clock = time.Now
	}
	return &EvidenceChainService{
		Cases:    cases,
		Evidence: evidence,
		Blobs:    blobs,
		Ledger:   ledger,
		Clock:    clock,
	}
}

type AppendEvidenceInput struct {
	FirmID      string
	CaseID      string
	Title       string
	Type        string
	Source      string
	CollectedAt *time.Time
	FileName    string
	FileBytes   []byte
	ContentType string
	Actor       string
}

// AppendEvidence hashes the uploaded bytes, links the record to the current
// chain head of the case (or GENESIS), stores the raw bytes in the blob
// store, and initializes the custody log with a single Uploaded entry. The
// append is retried once when a concurrent insert moved the head.
func (s *EvidenceChainService) AppendEvidence(ctx context.Context, input AppendEvidenceInput) (domain.EvidenceRecord, error) {
	if strings.TrimSpace(input.CaseID) == "" || strings.TrimSpace(input.Actor) == "" {
		return domain.EvidenceRecord{}, domain.ErrInvalidArgument
	}
	if len(input.FileBytes) == 0 || strings.TrimSpace(input.FileName) == "" {
		return domain.EvidenceRecord{}, domain.ErrInvalidArgument
	}

	owning, err := s.Cases.Get(ctx, input.FirmID, input.CaseID)
	if err != nil {
		return domain.EvidenceRecord{}, err
	}
	if owning.Status == domain.CaseLocked {
		return domain.EvidenceRecord{}, domain.ErrCaseLocked
	}

	contentHash := crypto.SHA256Hex(input.FileBytes)

	// Content-addressed key; re-putting the same bytes on retry is a no-op.
	key := path.Join("evidence", input.CaseID, fmt.Sprintf("%s_%s", contentHash, path.Base(input.FileName)))
	locator, err := s.Blobs.Put(ctx, key, input.FileBytes, input.ContentType)
	if err != nil {
		return domain.EvidenceRecord{}, fmt.Errorf("store evidence bytes: %w", err)
	}

	var rec domain.EvidenceRecord
	for attempt := 0; ; attempt++ {
		previousHash := domain.GenesisHash
		head, err := s.Evidence.Head(ctx, input.FirmID, input.CaseID)
		switch {
		case err == nil:
			previousHash = head.ContentHash
		case errors.Is(err, domain.ErrNotFound):
		default:
			return domain.EvidenceRecord{}, err
		}

		now := s.Clock().UTC()
		candidate := domain.EvidenceRecord{
			FirmID:       input.FirmID,
			CaseID:       input.CaseID,
			Title:        input.Title,
			Type:         input.Type,
			Source:       input.Source,
			CollectedAt:  input.CollectedAt,
			ContentHash:  contentHash,
			PreviousHash: previousHash,
			StoragePath:  locator,
			Status:       domain.EvidencePending,
			CreatedAt:    now,
		}
		initial := domain.CustodyEntry{
			Action:       domain.CustodyUploaded,
			Timestamp:    now,
			Actor:        input.Actor,
			Hash:         contentHash,
			PreviousHash: previousHash,
		}
		rec, err = s.Evidence.Append(ctx, candidate, initial)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrChainConflict) && attempt == 0 {
			continue
		}
		return domain.EvidenceRecord{}, err
	}

	s.Ledger.RecordBestEffort(ctx, RecordInput{
		ActorUserID: input.Actor,
		FirmID:      input.FirmID,
		Action:      domain.AuditCreateEvidence,
		TargetTable: "evidence",
		TargetID:    rec.ID,
		Details: map[string]any{
			"case_id":   input.CaseID,
			"file_name": input.FileName,
		},
	})
	return rec, nil
}

// AppendCustodyEvent appends a structured entry to the evidence record's
// custody log without touching its content or chain linkage.
func (s *EvidenceChainService) AppendCustodyEvent(ctx context.Context, firmID, evidenceID string, entry domain.CustodyEntry) (domain.EvidenceRecord, error) {
	if strings.TrimSpace(evidenceID) == "" || entry.Action == "" {
		return domain.EvidenceRecord{}, domain.ErrInvalidArgument
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.Clock().UTC()
	}
	return s.Evidence.AppendCustody(ctx, firmID, evidenceID, entry)
}

// VerifyChain walks the case's evidence in chain order and recomputes the
// expected linkage of each record against its immediate predecessor. The
// first mismatch is reported; an empty case is trivially valid. Read-only.
func (s *EvidenceChainService) VerifyChain(ctx context.Context, firmID, caseID string) (domain.ChainVerification, error) {
	if _, err := s.Cases.Get(ctx, firmID, caseID); err != nil {
		return domain.ChainVerification{}, err
	}
	records, err := s.Evidence.ListByCase(ctx, firmID, caseID)
	if err != nil {
		return domain.ChainVerification{}, err
	}
	expected := domain.GenesisHash
	for _, rec := range records {
		if rec.PreviousHash != expected {
			return domain.ChainVerification{Valid: false, BrokenAt: rec.ID}, nil
		}
		expected = rec.ContentHash
	}
	return domain.ChainVerification{Valid: true}, nil
}
