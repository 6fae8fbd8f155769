package usecase

import (
	"context"
	"testing"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
)

func recordEntry(t *testing.T, ledger *AuditLedger, action domain.AuditAction, details map[string]any) domain.SystemAuditEntry {
	t.Helper()
	entry, err := ledger.Record(context.Background(), RecordInput{
		ActorUserID: "user-1",
		FirmID:      "firm-1",
		Action:      action,
		TargetTable: "cases",
		TargetID:    "case-1",
		Details:     details,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	return entry
}

func TestRecordVerifyRoundTrip(t *testing.T) {
	ledger := NewAuditLedger(&auditRepoStub{}, fixedClock())
	entry := recordEntry(t, ledger, domain.AuditCreateCase, map[string]any{"title": "Estate of Harmon", "n": 3})

	if entry.IntegrityHash == "" {
		t.Fatal("integrity hash not set")
	}
	if !ledger.VerifyEntry(entry) {
		t.Fatal("fresh entry failed verification")
	}
	// Idempotent.
	if !ledger.VerifyEntry(entry) {
		t.Fatal("second verification failed")
	}
}

func TestVerifyEntryDetectsMutation(t *testing.T) {
	ledger := NewAuditLedger(&auditRepoStub{}, fixedClock())
	base := recordEntry(t, ledger, domain.AuditLockCase, map[string]any{"reason": "trial"})

	mutations := []struct {
		name   string
		mutate func(e *domain.SystemAuditEntry)
	}{
		{"actor", func(e *domain.SystemAuditEntry) { e.ActorUserID = "user-2" }},
		{"firm", func(e *domain.SystemAuditEntry) { e.FirmID = "firm-2" }},
		{"action", func(e *domain.SystemAuditEntry) { e.Action = domain.AuditUpdateCase }},
		{"target table", func(e *domain.SystemAuditEntry) { e.TargetTable = "evidence" }},
		{"target id", func(e *domain.SystemAuditEntry) { e.TargetID = "case-2" }},
		{"details", func(e *domain.SystemAuditEntry) { e.Details = map[string]any{"reason": "tampered"} }},
		{"hash", func(e *domain.SystemAuditEntry) { e.IntegrityHash = "deadbeef" }},
	}
	for _, tc := range mutations {
		t.Run(tc.name, func(t *testing.T) {
			entry := base
			if base.Details != nil {
				entry.Details = map[string]any{}
				for k, v := range base.Details {
					entry.Details[k] = v
				}
			}
			tc.mutate(&entry)
			if ledger.VerifyEntry(entry) {
				t.Fatalf("mutation of %s not detected", tc.name)
			}
		})
	}
}

func TestIntegrityHashFieldBoundaries(t *testing.T) {
	// Without a separator, shifting a suffix between adjacent fields would
	// produce the same hash input.
	a := domain.SystemAuditEntry{ActorUserID: "user", FirmID: "Afirm", Action: "X", Details: map[string]any{}}
	b := domain.SystemAuditEntry{ActorUserID: "userA", FirmID: "firm", Action: "X", Details: map[string]any{}}
	hashA, err := IntegrityHash(a)
	if err != nil {
		t.Fatalf("hash a: %v", err)
	}
	hashB, err := IntegrityHash(b)
	if err != nil {
		t.Fatalf("hash b: %v", err)
	}
	if hashA == hashB {
		t.Fatal("field boundary collision")
	}
}

func TestIntegrityHashIgnoresDetailKeyOrder(t *testing.T) {
	first := domain.SystemAuditEntry{
		ActorUserID: "user-1", FirmID: "firm-1", Action: domain.AuditCreateCase,
		Details: map[string]any{"alpha": 1, "beta": "two", "gamma": true},
	}
	second := first
	second.Details = map[string]any{"gamma": true, "alpha": 1, "beta": "two"}

	hashFirst, err := IntegrityHash(first)
	if err != nil {
		t.Fatalf("hash first: %v", err)
	}
	hashSecond, err := IntegrityHash(second)
	if err != nil {
		t.Fatalf("hash second: %v", err)
	}
	if hashFirst != hashSecond {
		t.Fatal("detail key order changed the hash")
	}
}

func TestVerifyFirmLedgerEnumeratesBreaks(t *testing.T) {
	repo := &auditRepoStub{}
	ledger := NewAuditLedger(repo, fixedClock())

	good := recordEntry(t, ledger, domain.AuditCreateCase, nil)
	recordEntry(t, ledger, domain.AuditUpdateCase, nil)
	recordEntry(t, ledger, domain.AuditLockCase, nil)

	// Tamper with two of the three stored entries.
	repo.entries[0].ActorUserID = "intruder"
	repo.entries[2].IntegrityHash = "forged"

	breaks, err := ledger.VerifyFirmLedger(context.Background(), "firm-1", 0)
	if err != nil {
		t.Fatalf("verify firm ledger: %v", err)
	}
	if len(breaks) != 2 {
		t.Fatalf("breaks = %d, want 2", len(breaks))
	}
	for _, b := range breaks {
		if b.EntryID == good.ID {
			t.Fatal("untampered entry reported as broken")
		}
	}
}

func TestRecordValidatesInput(t *testing.T) {
	ledger := NewAuditLedger(&auditRepoStub{}, fixedClock())
	_, err := ledger.Record(context.Background(), RecordInput{
		FirmID: "firm-1", Action: domain.AuditCreateCase,
	})
	if err == nil {
		t.Fatal("expected error for missing actor")
	}
	_, err = ledger.Record(context.Background(), RecordInput{
		ActorUserID: "user-1", FirmID: "firm-1",
	})
	if err == nil {
		t.Fatal("expected error for missing action")
	}
}

func TestRecordBestEffortSwallowsFailure(t *testing.T) {
	repo := &auditRepoStub{failing: true}
	ledger := NewAuditLedger(repo, fixedClock())
	// Must not panic or propagate.
	ledger.RecordBestEffort(context.Background(), RecordInput{
		ActorUserID: "user-1",
		FirmID:      "firm-1",
		Action:      domain.AuditCreateCase,
	})
}
