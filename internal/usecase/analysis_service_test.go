package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
)

func newAnalysisFixture(t *testing.T, analyzer domain.Analyzer) (*AnalysisService, *caseRepoStub, *evidenceRepoStub, *jobRepoStub, domain.EvidenceRecord) {
	t.Helper()
	cases := newCaseRepoStub()
	evidence := newEvidenceRepoStub()
	jobs := newJobRepoStub()
	audits := &auditRepoStub{}
	ledger := NewAuditLedger(audits, fixedClock())
	chain := NewEvidenceChainService(cases, evidence, newBlobStoreStub(), ledger, fixedClock())

	svc := NewAnalysisService(cases, evidence, jobs, chain, ledger, analyzer)
	svc.Clock = fixedClock()
	svc.PollInterval = time.Millisecond

	owning, err := cases.Create(context.Background(), domain.Case{
		FirmID:     "firm-1",
		Title:      "Estate of Harmon",
		CaseNumber: "2026-CV-0042",
		Status:     domain.CaseOpen,
	})
	if err != nil {
		t.Fatalf("create case: %v", err)
	}
	rec, err := chain.AppendEvidence(context.Background(), AppendEvidenceInput{
		FirmID:    "firm-1",
		CaseID:    owning.ID,
		Title:     "ledger.xlsx",
		FileName:  "ledger.xlsx",
		FileBytes: []byte("spreadsheet"),
		Actor:     "user-1",
	})
	if err != nil {
		t.Fatalf("append evidence: %v", err)
	}
	return svc, cases, evidence, jobs, rec
}

func cleanOutcome() domain.AnalysisOutcome {
	return domain.AnalysisOutcome{
		Result: domain.AnalysisResult{
			Summary:   "No anomalies found.",
			Claims:    []domain.AnalysisClaim{{Finding: "consistent", Confidence: 0.9, Citation: "ev-1"}},
			ModelUsed: "test-model",
		},
		ReasoningPath: []domain.ReasoningStep{{Step: "ingest", Status: "done"}},
		TokensUsed:    128,
	}
}

func TestTriggerTransitionsJobAndEvidence(t *testing.T) {
	svc, _, evidence, _, rec := newAnalysisFixture(t, &analyzerStub{outcome: cleanOutcome()})

	job, handle, err := svc.Trigger(context.Background(), "firm-1", rec.ID, "user-1")
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if job.Status != domain.JobProcessing {
		t.Fatalf("job status after trigger = %q, want Processing", job.Status)
	}
	if handle.Ref == "" {
		t.Fatal("empty analyzer handle")
	}
	updated, err := evidence.Get(context.Background(), "firm-1", rec.ID)
	if err != nil {
		t.Fatalf("get evidence: %v", err)
	}
	if updated.Status != domain.EvidenceAnalyzing {
		t.Fatalf("evidence status after trigger = %q, want Analyzing", updated.Status)
	}
}

func TestRunAppliesCleanOutcome(t *testing.T) {
	svc, cases, evidence, jobs, rec := newAnalysisFixture(t, &analyzerStub{outcome: cleanOutcome(), polls: 2})

	job, handle, err := svc.Trigger(context.Background(), "firm-1", rec.ID, "user-1")
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if err := svc.Run(context.Background(), "firm-1", job.ID, rec.ID, handle); err != nil {
		t.Fatalf("run: %v", err)
	}

	done, err := jobs.Get(context.Background(), "firm-1", job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if done.Status != domain.JobCompleted {
		t.Fatalf("job status = %q, want Completed", done.Status)
	}
	if done.Result == nil || done.Result.Summary != "No anomalies found." {
		t.Fatalf("result not persisted: %+v", done.Result)
	}
	if done.TokensUsed != 128 || done.ModelName != "test-model" {
		t.Fatalf("job accounting not persisted: %+v", done)
	}

	updated, err := evidence.Get(context.Background(), "firm-1", rec.ID)
	if err != nil {
		t.Fatalf("get evidence: %v", err)
	}
	if updated.Status != domain.EvidenceVerified {
		t.Fatalf("evidence status = %q, want Verified", updated.Status)
	}
	last := updated.CustodyLog[len(updated.CustodyLog)-1]
	if last.Action != domain.CustodyReportGenerated {
		t.Fatalf("last custody action = %q, want XAI_REPORT_GENERATED", last.Action)
	}
	if last.Actor != systemActor {
		t.Fatalf("custody actor = %q", last.Actor)
	}

	owning, err := cases.Get(context.Background(), "firm-1", rec.CaseID)
	if err != nil {
		t.Fatalf("get case: %v", err)
	}
	reports, _ := owning.Metadata["xai_reports"].([]any)
	if len(reports) != 1 {
		t.Fatalf("aggregated reports = %d, want 1", len(reports))
	}
}

func TestRunMarksConflictOnHighRiskFlag(t *testing.T) {
	outcome := cleanOutcome()
	outcome.Result.RiskFlags = []domain.AnalysisRiskFlag{
		{Type: "INTEGRITY_RISK", Severity: "HIGH", Message: "contradicts chained evidence"},
	}
	svc, _, evidence, jobs, rec := newAnalysisFixture(t, &analyzerStub{outcome: outcome})

	job, handle, err := svc.Trigger(context.Background(), "firm-1", rec.ID, "user-1")
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if err := svc.Run(context.Background(), "firm-1", job.ID, rec.ID, handle); err != nil {
		t.Fatalf("run: %v", err)
	}

	done, _ := jobs.Get(context.Background(), "firm-1", job.ID)
	if done.Status != domain.JobConflictDetected {
		t.Fatalf("job status = %q, want ConflictDetected", done.Status)
	}
	updated, _ := evidence.Get(context.Background(), "firm-1", rec.ID)
	if updated.Status != domain.EvidenceConflictDetected {
		t.Fatalf("evidence status = %q, want ConflictDetected", updated.Status)
	}
}

func TestRunMarksFailureOnAnalyzerError(t *testing.T) {
	outcome := domain.AnalysisOutcome{Err: "model unavailable"}
	svc, _, _, jobs, rec := newAnalysisFixture(t, &analyzerStub{outcome: outcome})

	job, handle, err := svc.Trigger(context.Background(), "firm-1", rec.ID, "user-1")
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if err := svc.Run(context.Background(), "firm-1", job.ID, rec.ID, handle); err == nil {
		t.Fatal("expected error from failed analysis")
	}
	done, _ := jobs.Get(context.Background(), "firm-1", job.ID)
	if done.Status != domain.JobFailed {
		t.Fatalf("job status = %q, want Failed", done.Status)
	}
}

func TestTriggerMissingEvidence(t *testing.T) {
	svc, _, _, _, _ := newAnalysisFixture(t, &analyzerStub{outcome: cleanOutcome()})
	_, _, err := svc.Trigger(context.Background(), "firm-1", "ev-missing", "user-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("trigger on missing evidence: err = %v, want ErrNotFound", err)
	}
}

func TestStatusReturnsLatestJob(t *testing.T) {
	svc, _, _, _, rec := newAnalysisFixture(t, &analyzerStub{outcome: cleanOutcome()})

	first, handle, err := svc.Trigger(context.Background(), "firm-1", rec.ID, "user-1")
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if err := svc.Run(context.Background(), "firm-1", first.ID, rec.ID, handle); err != nil {
		t.Fatalf("run: %v", err)
	}
	second, _, err := svc.Trigger(context.Background(), "firm-1", rec.ID, "user-1")
	if err != nil {
		t.Fatalf("second trigger: %v", err)
	}

	latest, err := svc.Status(context.Background(), "firm-1", rec.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if latest.ID != second.ID {
		t.Fatalf("latest job = %s, want %s", latest.ID, second.ID)
	}
}
