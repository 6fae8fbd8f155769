package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
)

// AnalysisService coordinates the external analysis collaborator: it creates
// the job record, hands the work off, and persists whatever structured result
// comes back, appending the corresponding custody entry.
type AnalysisService struct {
	Cases        CaseRepository
	Evidence     EvidenceRepository
	Jobs         AnalysisJobRepository
	Chain        *EvidenceChainService
	Ledger       *AuditLedger
	Analyzer     domain.Analyzer
	Clock        Clock
	PollInterval time.Duration
}

func NewAnalysisService(cases CaseRepository, evidence EvidenceRepository, jobs AnalysisJobRepository, chain *EvidenceChainService, ledger *AuditLedger, analyzer domain.Analyzer) *AnalysisService {
	return &AnalysisService{
		Cases:        cases,
		Evidence:     evidence,
		Jobs:         jobs,
		Chain:        chain,
		Ledger:       ledger,
		Analyzer:     analyzer,
		Clock:        time.Now,
		PollInterval: 250 * time.Millisecond,
	}
}

// systemActor identifies custody entries written by the analysis pipeline
// rather than a user.
const systemActor = "veritas-system"

// Trigger creates a Pending job for the evidence record, submits it to the
// analyzer, and marks job and evidence as in flight. The returned handle is
// passed to Run by the caller's executor.
func (s *AnalysisService) Trigger(ctx context.Context, firmID, evidenceID, actor string) (domain.AnalysisJob, domain.JobHandle, error) {
	if strings.TrimSpace(evidenceID) == "" {
		return domain.AnalysisJob{}, domain.JobHandle{}, domain.ErrInvalidArgument
	}
	rec, err := s.Evidence.Get(ctx, firmID, evidenceID)
	if err != nil {
		return domain.AnalysisJob{}, domain.JobHandle{}, err
	}
	job, err := s.Jobs.Create(ctx, domain.AnalysisJob{
		EvidenceID: evidenceID,
		FirmID:     firmID,
		Status:     domain.JobPending,
		CreatedAt:  s.Clock().UTC(),
	})
	if err != nil {
		return domain.AnalysisJob{}, domain.JobHandle{}, err
	}

	handle, err := s.Analyzer.Submit(ctx, domain.AnalysisRequest{
		EvidenceID:    evidenceID,
		EvidenceTitle: rec.Title,
	})
	if err != nil {
		job.Status = domain.JobFailed
		if _, uerr := s.Jobs.Update(ctx, job); uerr != nil {
			log.Printf("WARN mark analysis job failed: %v", uerr)
		}
		return domain.AnalysisJob{}, domain.JobHandle{}, err
	}

	job.Status = domain.JobProcessing
	job, err = s.Jobs.Update(ctx, job)
	if err != nil {
		return domain.AnalysisJob{}, domain.JobHandle{}, err
	}
	if err := s.Evidence.UpdateStatus(ctx, firmID, evidenceID, domain.EvidenceAnalyzing); err != nil {
		return domain.AnalysisJob{}, domain.JobHandle{}, err
	}

	s.Ledger.RecordBestEffort(ctx, RecordInput{
		ActorUserID: actor,
		FirmID:      firmID,
		Action:      domain.AuditTriggerAnalysis,
		TargetTable: "analysis_jobs",
		TargetID:    job.ID,
		Details:     map[string]any{"evidence_id": evidenceID},
	})
	return job, handle, nil
}

// Run polls the analyzer until the job finishes, then applies the outcome.
// Intended to run on the caller's executor (a goroutine in this service).
func (s *AnalysisService) Run(ctx context.Context, firmID, jobID, evidenceID string, handle domain.JobHandle) error {
	started := s.Clock()
	for {
		outcome, err := s.Analyzer.Poll(ctx, handle)
		if err != nil {
			return s.fail(ctx, firmID, jobID, err)
		}
		if outcome.Done {
			latency := int(s.Clock().Sub(started).Milliseconds())
			return s.ApplyOutcome(ctx, firmID, jobID, evidenceID, outcome, latency)
		}
		select {
		case <-ctx.Done():
			return s.fail(ctx, firmID, jobID, ctx.Err())
		case <-time.After(s.PollInterval):
		}
	}
}

// ApplyOutcome persists the analyzer's structured result: job fields, the
// evidence status transition, one XAI_REPORT_GENERATED custody entry, and the
// aggregated report on the owning case's metadata.
func (s *AnalysisService) ApplyOutcome(ctx context.Context, firmID, jobID, evidenceID string, outcome domain.AnalysisOutcome, latencyMS int) error {
	job, err := s.Jobs.Get(ctx, firmID, jobID)
	if err != nil {
		return err
	}
	if outcome.Err != "" {
		return s.fail(ctx, firmID, jobID, errors.New(outcome.Err))
	}

	result := outcome.Result
	conflict := hasIntegrityRisk(result)

	job.Result = &result
	job.ReasoningPath = outcome.ReasoningPath
	job.ModelName = result.ModelUsed
	job.LatencyMS = latencyMS
	job.TokensUsed = outcome.TokensUsed
	job.UpdatedAt = s.Clock().UTC()
	if conflict {
		job.Status = domain.JobConflictDetected
	} else {
		job.Status = domain.JobCompleted
	}
	if _, err := s.Jobs.Update(ctx, job); err != nil {
		return err
	}

	evidenceStatus := domain.EvidenceVerified
	if conflict {
		evidenceStatus = domain.EvidenceConflictDetected
	}
	if err := s.Evidence.UpdateStatus(ctx, firmID, evidenceID, evidenceStatus); err != nil {
		return err
	}

	if _, err := s.Chain.AppendCustodyEvent(ctx, firmID, evidenceID, domain.CustodyEntry{
		Action:    domain.CustodyReportGenerated,
		Timestamp: s.Clock().UTC(),
		Actor:     systemActor,
		Details: map[string]any{
			"summary":    result.Summary,
			"model_used": result.ModelUsed,
			"claims":     len(result.Claims),
			"risk_flags": len(result.RiskFlags),
		},
	}); err != nil {
		return err
	}

	return s.aggregateReport(ctx, firmID, evidenceID, result)
}

// Status returns the most recent analysis job for the evidence record.
func (s *AnalysisService) Status(ctx context.Context, firmID, evidenceID string) (domain.AnalysisJob, error) {
	return s.Jobs.LatestByEvidence(ctx, firmID, evidenceID)
}

func (s *AnalysisService) fail(ctx context.Context, firmID, jobID string, cause error) error {
	job, err := s.Jobs.Get(ctx, firmID, jobID)
	if err != nil {
		return err
	}
	job.Status = domain.JobFailed
	job.UpdatedAt = s.Clock().UTC()
	if _, err := s.Jobs.Update(ctx, job); err != nil {
		return err
	}
	return cause
}

// aggregateReport appends the result to the owning case's xai_reports list.
func (s *AnalysisService) aggregateReport(ctx context.Context, firmID, evidenceID string, result domain.AnalysisResult) error {
	rec, err := s.Evidence.Get(ctx, firmID, evidenceID)
	if err != nil {
		return err
	}
	owning, err := s.Cases.Get(ctx, firmID, rec.CaseID)
	if err != nil {
		return err
	}
	if owning.Metadata == nil {
		owning.Metadata = map[string]any{}
	}
	reports, _ := owning.Metadata["xai_reports"].([]any)
	reports = append(reports, map[string]any{
		"evidence_id": evidenceID,
		"summary":     result.Summary,
		"model_used":  result.ModelUsed,
		"claims":      len(result.Claims),
		"risk_flags":  len(result.RiskFlags),
	})
	owning.Metadata["xai_reports"] = reports
	_, err = s.Cases.Update(ctx, owning)
	return err
}

func hasIntegrityRisk(result domain.AnalysisResult) bool {
	for _, flag := range result.RiskFlags {
		if flag.Severity == "HIGH" {
			return true
		}
	}
	return false
}
