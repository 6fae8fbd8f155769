package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
)

// WorkspaceService covers the firm's day-to-day entities around a case:
// tasks, calendar events, and invoices.
type WorkspaceService struct {
	Tasks    TaskRepository
	Events   CalendarRepository
	Invoices InvoiceRepository
	Ledger   *AuditLedger
	Clock    Clock
}

func NewWorkspaceService(tasks TaskRepository, events CalendarRepository, invoices InvoiceRepository, ledger *AuditLedger) *WorkspaceService {
	return &WorkspaceService{
		Tasks:    tasks,
		Events:   events,
		Invoices: invoices,
		Ledger:   ledger,
		Clock:    time.Now,
	}
}

type CreateTaskInput struct {
	FirmID      string
	CaseID      string
	Title       string
	Description string
	DueDate     *time.Time
	AssignedTo  string
	Actor       string
}

func (s *WorkspaceService) CreateTask(ctx context.Context, input CreateTaskInput) (domain.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return domain.Task{}, domain.ErrInvalidArgument
	}
	created, err := s.Tasks.Create(ctx, domain.Task{
		FirmID:      input.FirmID,
		CaseID:      input.CaseID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      domain.TaskPending,
		AssignedTo:  input.AssignedTo,
		CreatedAt:   s.Clock().UTC(),
	})
	if err != nil {
		return domain.Task{}, err
	}
	s.Ledger.RecordBestEffort(ctx, RecordInput{
		ActorUserID: input.Actor,
		FirmID:      input.FirmID,
		Action:      domain.AuditCreateTask,
		TargetTable: "tasks",
		TargetID:    created.ID,
		Details:     map[string]any{"title": created.Title},
	})
	return created, nil
}

func (s *WorkspaceService) ListTasks(ctx context.Context, firmID string) ([]domain.Task, error) {
	return s.Tasks.ListByFirm(ctx, firmID)
}

type CreateEventInput struct {
	FirmID      string
	CaseID      string
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	Actor       string
}

func (s *WorkspaceService) CreateEvent(ctx context.Context, input CreateEventInput) (domain.CalendarEvent, error) {
	if strings.TrimSpace(input.Title) == "" || input.StartTime.IsZero() {
		return domain.CalendarEvent{}, domain.ErrInvalidArgument
	}
	if !input.EndTime.IsZero() && input.EndTime.Before(input.StartTime) {
		return domain.CalendarEvent{}, domain.ErrInvalidArgument
	}
	created, err := s.Events.Create(ctx, domain.CalendarEvent{
		FirmID:      input.FirmID,
		CaseID:      input.CaseID,
		Title:       input.Title,
		Description: input.Description,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Location:    input.Location,
		CreatedAt:   s.Clock().UTC(),
	})
	if err != nil {
		return domain.CalendarEvent{}, err
	}
	s.Ledger.RecordBestEffort(ctx, RecordInput{
		ActorUserID: input.Actor,
		FirmID:      input.FirmID,
		Action:      domain.AuditCreateEvent,
		TargetTable: "calendar_events",
		TargetID:    created.ID,
		Details:     map[string]any{"title": created.Title},
	})
	return created, nil
}

func (s *WorkspaceService) ListEvents(ctx context.Context, firmID string) ([]domain.CalendarEvent, error) {
	return s.Events.ListByFirm(ctx, firmID)
}

type CreateInvoiceInput struct {
	FirmID  string
	CaseID  string
	Status  domain.InvoiceStatus
	DueDate *time.Time
	Items   []domain.InvoiceItem
	Actor   string
}

func (s *WorkspaceService) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (domain.Invoice, error) {
	if strings.TrimSpace(input.CaseID) == "" || len(input.Items) == 0 {
		return domain.Invoice{}, domain.ErrInvalidArgument
	}
	status := input.Status
	if status == "" {
		status = domain.InvoiceDraft
	}
	var total int64
	for _, item := range input.Items {
		if item.AmountCents < 0 {
			return domain.Invoice{}, domain.ErrInvalidArgument
		}
		total += item.AmountCents
	}
	created, err := s.Invoices.Create(ctx, domain.Invoice{
		FirmID:     input.FirmID,
		CaseID:     input.CaseID,
		TotalCents: total,
		Status:     status,
		DueDate:    input.DueDate,
		Items:      input.Items,
		CreatedAt:  s.Clock().UTC(),
	})
	if err != nil {
		return domain.Invoice{}, err
	}
	s.Ledger.RecordBestEffort(ctx, RecordInput{
		ActorUserID: input.Actor,
		FirmID:      input.FirmID,
		Action:      domain.AuditCreateInvoice,
		TargetTable: "invoices",
		TargetID:    created.ID,
		Details:     map[string]any{"total_cents": total},
	})
	return created, nil
}

func (s *WorkspaceService) ListInvoices(ctx context.Context, firmID string) ([]domain.Invoice, error) {
	return s.Invoices.ListByFirm(ctx, firmID)
}
