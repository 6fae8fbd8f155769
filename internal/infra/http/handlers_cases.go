package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
	"github.com/muzansiddig/Veritas-Legal/internal/usecase"
)

type caseResponse struct {
	ID           string         `json:"id"`
	FirmID       string         `json:"firm_id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	CaseNumber   string         `json:"case_number"`
	Court        string         `json:"court,omitempty"`
	Judge        string         `json:"judge,omitempty"`
	Status       string         `json:"status"`
	CaseTypes    []string       `json:"case_types,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	RegisteredAt string         `json:"registered_at"`
}

func toCaseResponse(c domain.Case) caseResponse {
	return caseResponse{
		ID:           c.ID,
		FirmID:       c.FirmID,
		Title:        c.Title,
		Description:  c.Description,
		CaseNumber:   c.CaseNumber,
		Court:        c.Court,
		Judge:        c.Judge,
		Status:       string(c.Status),
		CaseTypes:    c.CaseTypes,
		Metadata:     c.Metadata,
		RegisteredAt: formatTime(c.RegisteredAt),
	}
}

func (s *Server) handleCreateCase(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	var req struct {
		Title       string         `json:"title"`
		Description string         `json:"description"`
		CaseNumber  string         `json:"case_number"`
		Court       string         `json:"court"`
		Judge       string         `json:"judge"`
		CaseTypes   []string       `json:"case_types"`
		Metadata    map[string]any `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	created, err := s.cases.CreateCase(c.Request.Context(), usecase.CreateCaseInput{
		FirmID:      principal.FirmID,
		Title:       req.Title,
		Description: req.Description,
		CaseNumber:  req.CaseNumber,
		Court:       req.Court,
		Judge:       req.Judge,
		CaseTypes:   req.CaseTypes,
		Metadata:    req.Metadata,
		Actor:       principal.Subject,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"case": toCaseResponse(created)})
}

func (s *Server) handleGetCase(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	found, err := s.cases.GetCase(c.Request.Context(), principal.FirmID, caseID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"case": toCaseResponse(found)})
}

func (s *Server) handleListCases(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	cursor := strings.TrimSpace(c.Query("cursor"))
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	items, next, err := s.cases.ListCases(c.Request.Context(), principal.FirmID, cursor, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]caseResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toCaseResponse(item))
	}
	c.JSON(http.StatusOK, gin.H{"items": resp, "next_cursor": next})
}

func (s *Server) handleUpdateCase(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Title       *string        `json:"title"`
		Description *string        `json:"description"`
		Court       *string        `json:"court"`
		Judge       *string        `json:"judge"`
		CaseTypes   []string       `json:"case_types"`
		Metadata    map[string]any `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	updated, err := s.cases.UpdateCase(c.Request.Context(), usecase.UpdateCaseInput{
		FirmID:      principal.FirmID,
		CaseID:      caseID,
		Title:       req.Title,
		Description: req.Description,
		Court:       req.Court,
		Judge:       req.Judge,
		CaseTypes:   req.CaseTypes,
		Metadata:    req.Metadata,
		Actor:       principal.Subject,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"case": toCaseResponse(updated)})
}

func (s *Server) handleLockCase(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	locked, err := s.cases.LockCase(c.Request.Context(), principal.FirmID, caseID, principal.Subject)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"case": toCaseResponse(locked)})
}

func (s *Server) handleTimeline(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	events, err := s.cases.Timeline(c.Request.Context(), principal.FirmID, caseID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeline": events})
}

func (s *Server) handleExportDossier(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	rendered, contentType, err := s.cases.ExportDossier(c.Request.Context(), principal.FirmID, caseID, principal.Subject)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="dossier_`+caseID+`.pdf"`)
	c.Data(http.StatusOK, contentType, rendered)
}

func (s *Server) handleVerifyChain(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	verification, err := s.chain.VerifyChain(c.Request.Context(), principal.FirmID, caseID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, verification)
}
