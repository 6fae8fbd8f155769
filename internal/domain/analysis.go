package domain

import (
	"context"
	"time"
)

type JobStatus string

const (
	JobPending          JobStatus = "Pending"
	JobProcessing       JobStatus = "Processing"
	JobCompleted        JobStatus = "Completed"
	JobConflictDetected JobStatus = "ConflictDetected"
	JobFailed           JobStatus = "Failed"
)

// AnalysisClaim is a single finding; Citation pins it to the evidence record
// it was derived from.
type AnalysisClaim struct {
	Finding    string  `json:"finding"`
	Confidence float64 `json:"confidence"`
	Citation   string  `json:"citation"`
}

type AnalysisRiskFlag struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Citation string `json:"citation"`
}

// AnalysisResult is the opaque structured output of the external analysis
// collaborator. The core stores and chains it; it never inspects or
// reproduces the generation logic.
type AnalysisResult struct {
	Summary       string             `json:"summary"`
	Claims        []AnalysisClaim    `json:"claims"`
	RiskFlags     []AnalysisRiskFlag `json:"risk_flags"`
	ModelUsed     string             `json:"model_used,omitempty"`
	PromptVersion string             `json:"prompt_version,omitempty"`
}

type ReasoningStep struct {
	Step    string `json:"step"`
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

type AnalysisJob struct {
	ID            string
	EvidenceID    string
	FirmID        string
	Status        JobStatus
	Result        *AnalysisResult
	ReasoningPath []ReasoningStep
	ModelName     string
	LatencyMS     int
	TokensUsed    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type AnalysisRequest struct {
	EvidenceID    string
	EvidenceTitle string
}

type JobHandle struct {
	Ref         string
	SubmittedAt time.Time
}

// AnalysisOutcome is what Poll returns once the external executor finishes.
type AnalysisOutcome struct {
	Done          bool
	Result        AnalysisResult
	ReasoningPath []ReasoningStep
	TokensUsed    int
	Err           string
}

// Analyzer is the pluggable external analysis collaborator. Submit hands the
// work to an external executor; Poll reports progress. The core only persists
// whatever structured result comes back.
type Analyzer interface {
	Submit(ctx context.Context, req AnalysisRequest) (JobHandle, error)
	Poll(ctx context.Context, handle JobHandle) (AnalysisOutcome, error)
}
