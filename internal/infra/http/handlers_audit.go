package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
)

const auditPageSize = 100

type auditEntryResponse struct {
	ID            string         `json:"id"`
	Action        string         `json:"action"`
	TargetTable   string         `json:"target_table"`
	TargetID      string         `json:"target_id,omitempty"`
	ActorUserID   string         `json:"actor_user_id"`
	Timestamp     string         `json:"timestamp"`
	Details       map[string]any `json:"details,omitempty"`
	IntegrityHash string         `json:"integrity_hash"`
}

func toAuditEntryResponse(entry domain.SystemAuditEntry) auditEntryResponse {
	return auditEntryResponse{
		ID:            entry.ID,
		Action:        string(entry.Action),
		TargetTable:   entry.TargetTable,
		TargetID:      entry.TargetID,
		ActorUserID:   entry.ActorUserID,
		Timestamp:     formatTime(entry.Timestamp),
		Details:       entry.Details,
		IntegrityHash: entry.IntegrityHash,
	}
}

func (s *Server) handleListAudit(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	entries, err := s.ledger.Repo.ListByFirm(c.Request.Context(), principal.FirmID, auditPageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]auditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, toAuditEntryResponse(entry))
	}
	c.JSON(http.StatusOK, gin.H{"items": resp})
}

// handleVerifyLedger recomputes every entry's integrity hash for the firm and
// reports the breaks. An empty list means the ledger is intact.
func (s *Server) handleVerifyLedger(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	breaks, err := s.ledger.VerifyFirmLedger(c.Request.Context(), principal.FirmID, 0)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":  len(breaks) == 0,
		"breaks": breaks,
	})
}
