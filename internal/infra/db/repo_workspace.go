package db

import (
	"context"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"

	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	if r.db == nil {
		return domain.Task{}, errDBUnavailable
	}
	if t.ID == "" {
		t.ID = newID()
	}
	model := TaskModel{
		ID:          t.ID,
		FirmID:      t.FirmID,
		CaseID:      stringPtrIfNotEmpty(t.CaseID),
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      string(t.Status),
		AssignedTo:  stringPtrIfNotEmpty(t.AssignedTo),
		CreatedAt:   t.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Task{}, err
	}
	return taskFromModel(model), nil
}

func (r *TaskRepository) ListByFirm(ctx context.Context, firmID string) ([]domain.Task, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []TaskModel
	if err := r.db.WithContext(ctx).
		Where("firm_id = ?", firmID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Task, 0, len(models))
	for _, model := range models {
		out = append(out, taskFromModel(model))
	}
	return out, nil
}

func taskFromModel(model TaskModel) domain.Task {
	return domain.Task{
		ID:          model.ID,
		FirmID:      model.FirmID,
		CaseID:      stringValue(model.CaseID),
		Title:       model.Title,
		Description: model.Description,
		DueDate:     model.DueDate,
		Status:      domain.TaskStatus(model.Status),
		AssignedTo:  stringValue(model.AssignedTo),
		CreatedAt:   model.CreatedAt,
	}
}

type CalendarRepository struct {
	db *gorm.DB
}

func NewCalendarRepository(db *gorm.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

func (r *CalendarRepository) Create(ctx context.Context, ev domain.CalendarEvent) (domain.CalendarEvent, error) {
	if r.db == nil {
		return domain.CalendarEvent{}, errDBUnavailable
	}
	if ev.ID == "" {
		ev.ID = newID()
	}
	model := CalendarEventModel{
		ID:          ev.ID,
		FirmID:      ev.FirmID,
		CaseID:      stringPtrIfNotEmpty(ev.CaseID),
		Title:       ev.Title,
		Description: ev.Description,
		StartTime:   ev.StartTime,
		EndTime:     ev.EndTime,
		Location:    ev.Location,
		CreatedAt:   ev.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.CalendarEvent{}, err
	}
	return eventFromModel(model), nil
}

func (r *CalendarRepository) ListByFirm(ctx context.Context, firmID string) ([]domain.CalendarEvent, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []CalendarEventModel
	if err := r.db.WithContext(ctx).
		Where("firm_id = ?", firmID).
		Order("start_time ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.CalendarEvent, 0, len(models))
	for _, model := range models {
		out = append(out, eventFromModel(model))
	}
	return out, nil
}

func eventFromModel(model CalendarEventModel) domain.CalendarEvent {
	return domain.CalendarEvent{
		ID:          model.ID,
		FirmID:      model.FirmID,
		CaseID:      stringValue(model.CaseID),
		Title:       model.Title,
		Description: model.Description,
		StartTime:   model.StartTime,
		EndTime:     model.EndTime,
		Location:    model.Location,
		CreatedAt:   model.CreatedAt,
	}
}

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts the invoice and its line items in one transaction.
func (r *InvoiceRepository) Create(ctx context.Context, inv domain.Invoice) (domain.Invoice, error) {
	if r.db == nil {
		return domain.Invoice{}, errDBUnavailable
	}
	if inv.ID == "" {
		inv.ID = newID()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := InvoiceModel{
			ID:         inv.ID,
			FirmID:     inv.FirmID,
			CaseID:     inv.CaseID,
			TotalCents: inv.TotalCents,
			Status:     string(inv.Status),
			DueDate:    inv.DueDate,
			CreatedAt:  inv.CreatedAt,
		}
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		for i := range inv.Items {
			if inv.Items[i].ID == "" {
				inv.Items[i].ID = newID()
			}
			inv.Items[i].InvoiceID = inv.ID
			item := InvoiceItemModel{
				ID:          inv.Items[i].ID,
				InvoiceID:   inv.ID,
				Description: inv.Items[i].Description,
				AmountCents: inv.Items[i].AmountCents,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceRepository) ListByFirm(ctx context.Context, firmID string) ([]domain.Invoice, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("firm_id = ?", firmID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Invoice, 0, len(models))
	for _, model := range models {
		inv := domain.Invoice{
			ID:         model.ID,
			FirmID:     model.FirmID,
			CaseID:     model.CaseID,
			TotalCents: model.TotalCents,
			Status:     domain.InvoiceStatus(model.Status),
			DueDate:    model.DueDate,
			CreatedAt:  model.CreatedAt,
		}
		var items []InvoiceItemModel
		if err := r.db.WithContext(ctx).
			Where("invoice_id = ?", model.ID).
			Order("id ASC").
			Find(&items).Error; err != nil {
			return nil, err
		}
		for _, item := range items {
			inv.Items = append(inv.Items, domain.InvoiceItem{
				ID:          item.ID,
				InvoiceID:   item.InvoiceID,
				Description: item.Description,
				AmountCents: item.AmountCents,
			})
		}
		out = append(out, inv)
	}
	return out, nil
}
