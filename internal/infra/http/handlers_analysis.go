package http

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
)

type analysisJobResponse struct {
	ID            string                 `json:"id"`
	EvidenceID    string                 `json:"evidence_id"`
	Status        string                 `json:"status"`
	Result        *domain.AnalysisResult `json:"result,omitempty"`
	ReasoningPath []domain.ReasoningStep `json:"reasoning_path,omitempty"`
	ModelName     string                 `json:"model_name,omitempty"`
	LatencyMS     int                    `json:"latency_ms,omitempty"`
	TokensUsed    int                    `json:"tokens_used,omitempty"`
	CreatedAt     string                 `json:"created_at"`
}

func toAnalysisJobResponse(job domain.AnalysisJob) analysisJobResponse {
	return analysisJobResponse{
		ID:            job.ID,
		EvidenceID:    job.EvidenceID,
		Status:        string(job.Status),
		Result:        job.Result,
		ReasoningPath: job.ReasoningPath,
		ModelName:     job.ModelName,
		LatencyMS:     job.LatencyMS,
		TokensUsed:    job.TokensUsed,
		CreatedAt:     formatTime(job.CreatedAt),
	}
}

// handleTriggerAnalysis creates the job synchronously and applies the result
// on a background goroutine; the response carries the Processing job for the
// client to poll via the status endpoint.
func (s *Server) handleTriggerAnalysis(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	evidenceID, ok := parseUUIDParam(c, "evidence_id")
	if !ok {
		return
	}
	job, handle, err := s.analysis.Trigger(c.Request.Context(), principal.FirmID, evidenceID, principal.Subject)
	if err != nil {
		writeError(c, err)
		return
	}

	// Detached from the request context: an aborted request must not strand
	// the job in Processing.
	go func(firmID, jobID, evidenceID string, handle domain.JobHandle) {
		if err := s.analysis.Run(context.Background(), firmID, jobID, evidenceID, handle); err != nil {
			log.Printf("WARN analysis job %s failed: %v", jobID, err)
		}
	}(principal.FirmID, job.ID, evidenceID, handle)

	c.JSON(http.StatusAccepted, gin.H{"job": toAnalysisJobResponse(job)})
}

func (s *Server) handleAnalysisStatus(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	evidenceID, ok := parseUUIDParam(c, "evidence_id")
	if !ok {
		return
	}
	job, err := s.analysis.Status(c.Request.Context(), principal.FirmID, evidenceID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": toAnalysisJobResponse(job)})
}
