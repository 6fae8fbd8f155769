package db

import (
	"context"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, entry domain.SystemAuditEntry) (domain.SystemAuditEntry, error) {
	if r.db == nil {
		return domain.SystemAuditEntry{}, errDBUnavailable
	}
	if entry.ID == "" {
		entry.ID = newID()
	}
	details, err := toJSON(entry.Details)
	if err != nil {
		return domain.SystemAuditEntry{}, err
	}
	model := SystemAuditModel{
		ID:            entry.ID,
		Action:        string(entry.Action),
		TargetTable:   entry.TargetTable,
		TargetID:      stringPtrIfNotEmpty(entry.TargetID),
		ActorUserID:   entry.ActorUserID,
		FirmID:        entry.FirmID,
		Timestamp:     entry.Timestamp,
		Details:       details,
		IntegrityHash: entry.IntegrityHash,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.SystemAuditEntry{}, err
	}
	return auditFromModel(model), nil
}

func (r *AuditRepository) ListByFirm(ctx context.Context, firmID string, limit int) ([]domain.SystemAuditEntry, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	q := r.db.WithContext(ctx).
		Where("firm_id = ?", firmID).
		Order("timestamp DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var models []SystemAuditModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.SystemAuditEntry, 0, len(models))
	for _, model := range models {
		out = append(out, auditFromModel(model))
	}
	return out, nil
}

func auditFromModel(model SystemAuditModel) domain.SystemAuditEntry {
	return domain.SystemAuditEntry{
		ID:            model.ID,
		Action:        domain.AuditAction(model.Action),
		TargetTable:   model.TargetTable,
		TargetID:      stringValue(model.TargetID),
		ActorUserID:   model.ActorUserID,
		FirmID:        model.FirmID,
		Timestamp:     model.Timestamp,
		Details:       fromJSONMap(model.Details),
		IntegrityHash: model.IntegrityHash,
	}
}
