package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
)

// MockAnalyzer stands in for the external analysis engine. Submit records the
// request and a deadline; Poll reports Done once the configured latency has
// elapsed and returns a deterministic structured result. Titles containing
// RiskMarker produce a HIGH severity INTEGRITY_RISK flag, which downstream
// marks the evidence ConflictDetected.
type MockAnalyzer struct {
	Latency    time.Duration
	RiskMarker string
	Now        func() time.Time

	mu   sync.Mutex
	jobs map[string]pendingJob
}

type pendingJob struct {
	req     domain.AnalysisRequest
	readyAt time.Time
}

func NewMockAnalyzer(latency time.Duration) *MockAnalyzer {
	return &MockAnalyzer{
		Latency:    latency,
		RiskMarker: "Tech",
		Now:        time.Now,
		jobs:       make(map[string]pendingJob),
	}
}

var _ domain.Analyzer = (*MockAnalyzer)(nil)

func (m *MockAnalyzer) Submit(_ context.Context, req domain.AnalysisRequest) (domain.JobHandle, error) {
	if req.EvidenceID == "" {
		return domain.JobHandle{}, domain.ErrInvalidArgument
	}
	now := m.now()
	handle := domain.JobHandle{Ref: uuid.NewString(), SubmittedAt: now}
	m.mu.Lock()
	m.jobs[handle.Ref] = pendingJob{req: req, readyAt: now.Add(m.Latency)}
	m.mu.Unlock()
	return handle, nil
}

func (m *MockAnalyzer) Poll(_ context.Context, handle domain.JobHandle) (domain.AnalysisOutcome, error) {
	m.mu.Lock()
	job, ok := m.jobs[handle.Ref]
	m.mu.Unlock()
	if !ok {
		return domain.AnalysisOutcome{}, domain.ErrNotFound
	}
	if m.now().Before(job.readyAt) {
		return domain.AnalysisOutcome{Done: false}, nil
	}
	m.mu.Lock()
	delete(m.jobs, handle.Ref)
	m.mu.Unlock()

	outcome := domain.AnalysisOutcome{
		Done: true,
		Result: domain.AnalysisResult{
			Summary: fmt.Sprintf("Automated review of %q completed.", job.req.EvidenceTitle),
			Claims: []domain.AnalysisClaim{
				{
					Finding:    fmt.Sprintf("Document %q is internally consistent with the case record.", job.req.EvidenceTitle),
					Confidence: 0.91,
					Citation:   job.req.EvidenceID,
				},
			},
			ModelUsed:     "veritas-mock-1",
			PromptVersion: "v1",
		},
		ReasoningPath: []domain.ReasoningStep{
			{Step: "ingest", Status: "done"},
			{Step: "extract_claims", Status: "done"},
			{Step: "cross_reference", Status: "done"},
		},
		TokensUsed: 640 + len(job.req.EvidenceTitle),
	}
	if m.RiskMarker != "" && strings.Contains(job.req.EvidenceTitle, m.RiskMarker) {
		outcome.Result.RiskFlags = append(outcome.Result.RiskFlags, domain.AnalysisRiskFlag{
			Type:     "INTEGRITY_RISK",
			Severity: "HIGH",
			Message:  "Document content conflicts with previously chained evidence.",
			Citation: job.req.EvidenceID,
		})
	}
	return outcome, nil
}

func (m *MockAnalyzer) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}
