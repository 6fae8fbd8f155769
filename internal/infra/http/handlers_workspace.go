package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
	"github.com/muzansiddig/Veritas-Legal/internal/usecase"
)

func (s *Server) handleCreateTask(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	var req struct {
		CaseID      string  `json:"case_id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		DueDate     *string `json:"due_date"`
		AssignedTo  string  `json:"assigned_to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	input := usecase.CreateTaskInput{
		FirmID:      principal.FirmID,
		CaseID:      req.CaseID,
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Actor:       principal.Subject,
	}
	if req.DueDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "due_date must be RFC3339")
			return
		}
		input.DueDate = &parsed
	}
	created, err := s.workspace.CreateTask(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": toTaskResponse(created)})
}

func (s *Server) handleListTasks(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	tasks, err := s.workspace.ListTasks(c.Request.Context(), principal.FirmID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]gin.H, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, toTaskResponse(t))
	}
	c.JSON(http.StatusOK, gin.H{"items": resp})
}

func toTaskResponse(t domain.Task) gin.H {
	return gin.H{
		"id":          t.ID,
		"case_id":     t.CaseID,
		"title":       t.Title,
		"description": t.Description,
		"due_date":    formatTimePtr(t.DueDate),
		"status":      string(t.Status),
		"assigned_to": t.AssignedTo,
		"created_at":  formatTime(t.CreatedAt),
	}
}

func (s *Server) handleCreateEvent(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	var req struct {
		CaseID      string `json:"case_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		StartTime   string `json:"start_time"`
		EndTime     string `json:"end_time"`
		Location    string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "start_time must be RFC3339")
		return
	}
	var end time.Time
	if req.EndTime != "" {
		end, err = time.Parse(time.RFC3339, req.EndTime)
		if err != nil {
			writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "end_time must be RFC3339")
			return
		}
	}
	created, err := s.workspace.CreateEvent(c.Request.Context(), usecase.CreateEventInput{
		FirmID:      principal.FirmID,
		CaseID:      req.CaseID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   start,
		EndTime:     end,
		Location:    req.Location,
		Actor:       principal.Subject,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": toEventResponse(created)})
}

func (s *Server) handleListEvents(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	events, err := s.workspace.ListEvents(c.Request.Context(), principal.FirmID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]gin.H, 0, len(events))
	for _, ev := range events {
		resp = append(resp, toEventResponse(ev))
	}
	c.JSON(http.StatusOK, gin.H{"items": resp})
}

func toEventResponse(ev domain.CalendarEvent) gin.H {
	out := gin.H{
		"id":          ev.ID,
		"case_id":     ev.CaseID,
		"title":       ev.Title,
		"description": ev.Description,
		"start_time":  formatTime(ev.StartTime),
		"location":    ev.Location,
		"created_at":  formatTime(ev.CreatedAt),
	}
	if !ev.EndTime.IsZero() {
		out["end_time"] = formatTime(ev.EndTime)
	}
	return out
}

func (s *Server) handleCreateInvoice(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	var req struct {
		CaseID  string  `json:"case_id"`
		Status  string  `json:"status"`
		DueDate *string `json:"due_date"`
		Items   []struct {
			Description string `json:"description"`
			AmountCents int64  `json:"amount_cents"`
		} `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	input := usecase.CreateInvoiceInput{
		FirmID: principal.FirmID,
		CaseID: req.CaseID,
		Status: domain.InvoiceStatus(req.Status),
		Actor:  principal.Subject,
	}
	if req.DueDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "due_date must be RFC3339")
			return
		}
		input.DueDate = &parsed
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, domain.InvoiceItem{
			Description: item.Description,
			AmountCents: item.AmountCents,
		})
	}
	created, err := s.workspace.CreateInvoice(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invoice": toInvoiceResponse(created)})
}

func (s *Server) handleListInvoices(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		return
	}
	invoices, err := s.workspace.ListInvoices(c.Request.Context(), principal.FirmID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]gin.H, 0, len(invoices))
	for _, inv := range invoices {
		resp = append(resp, toInvoiceResponse(inv))
	}
	c.JSON(http.StatusOK, gin.H{"items": resp})
}

func toInvoiceResponse(inv domain.Invoice) gin.H {
	items := make([]gin.H, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, gin.H{
			"id":           item.ID,
			"description":  item.Description,
			"amount_cents": item.AmountCents,
		})
	}
	return gin.H{
		"id":          inv.ID,
		"case_id":     inv.CaseID,
		"total_cents": inv.TotalCents,
		"status":      string(inv.Status),
		"due_date":    formatTimePtr(inv.DueDate),
		"items":       items,
		"created_at":  formatTime(inv.CreatedAt),
	}
}
