package http

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
	"github.com/muzansiddig/Veritas-Legal/internal/usecase"
)

// maxEvidenceBytes bounds one multipart upload.
const maxEvidenceBytes = 64 << 20

type evidenceResponse struct {
	ID           string                `json:"id"`
	CaseID       string                `json:"case_id"`
	Title        string                `json:"title"`
	Type         string                `json:"type,omitempty"`
	Source       string                `json:"source,omitempty"`
	CollectedAt  *string               `json:"collected_at,omitempty"`
	ContentHash  string                `json:"content_hash"`
	PreviousHash string                `json:"previous_hash"`
	ChainIndex   int64                 `json:"chain_index"`
	Status       string                `json:"status"`
	CustodyLog   []domain.CustodyEntry `json:"custody_log,omitempty"`
	CreatedAt    string                `json:"created_at"`
}

func toEvidenceResponse(rec domain.EvidenceRecord) evidenceResponse {
	return evidenceResponse{
		ID:           rec.ID,
		CaseID:       rec.CaseID,
		Title:        rec.Title,
		Type:         rec.Type,
		Source:       rec.Source,
		CollectedAt:  formatTimePtr(rec.CollectedAt),
		ContentHash:  rec.ContentHash,
		PreviousHash: rec.PreviousHash,
		ChainIndex:   rec.ChainIndex,
		Status:       string(rec.Status),
		CustodyLog:   rec.CustodyLog,
		CreatedAt:    formatTime(rec.CreatedAt),
	}
}

func (s *Server) handleUploadEvidence(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "multipart field 'file' is required")
		return
	}
	if fileHeader.Size > maxEvidenceBytes {
		writeErrorCode(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "evidence file exceeds size limit")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "unreadable upload")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxEvidenceBytes+1))
	if err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "unreadable upload")
		return
	}
	if len(data) > maxEvidenceBytes {
		writeErrorCode(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "evidence file exceeds size limit")
		return
	}

	input := usecase.AppendEvidenceInput{
		FirmID:      principal.FirmID,
		CaseID:      caseID,
		Title:       strings.TrimSpace(c.PostForm("title")),
		Type:        strings.TrimSpace(c.PostForm("type")),
		Source:      strings.TrimSpace(c.PostForm("source")),
		FileName:    fileHeader.Filename,
		FileBytes:   data,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Actor:       principal.Subject,
	}
	if input.Title == "" {
		input.Title = fileHeader.Filename
	}
	if raw := strings.TrimSpace(c.PostForm("collected_at")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "collected_at must be RFC3339")
			return
		}
		input.CollectedAt = &parsed
	}

	rec, err := s.chain.AppendEvidence(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"evidence": toEvidenceResponse(rec)})
}

func (s *Server) handleListEvidence(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := s.cases.GetCase(c.Request.Context(), principal.FirmID, caseID); err != nil {
		writeError(c, err)
		return
	}
	records, err := s.chain.Evidence.ListByCase(c.Request.Context(), principal.FirmID, caseID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]evidenceResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toEvidenceResponse(rec))
	}
	c.JSON(http.StatusOK, gin.H{"items": resp})
}

func (s *Server) handleGetEvidence(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	evidenceID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	rec, err := s.chain.Evidence.Get(c.Request.Context(), principal.FirmID, evidenceID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"evidence": toEvidenceResponse(rec)})
}
