package db

import (
	"context"
	"errors"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"

	"gorm.io/gorm"
)

type CaseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) Create(ctx context.Context, c domain.Case) (domain.Case, error) {
	if r.db == nil {
		return domain.Case{}, errDBUnavailable
	}
	if c.ID == "" {
		c.ID = newID()
	}
	model, err := caseModelFromDomain(c)
	if err != nil {
		return domain.Case{}, err
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Case{}, err
	}
	return caseFromModel(model), nil
}

func (r *CaseRepository) Get(ctx context.Context, firmID, caseID string) (domain.Case, error) {
	if r.db == nil {
		return domain.Case{}, errDBUnavailable
	}
	var model CaseModel
	err := r.db.WithContext(ctx).
		Where("firm_id = ? AND id = ?", firmID, caseID).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Case{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Case{}, err
	}
	return caseFromModel(model), nil
}

// List pages firm cases with a simple id-based cursor.
func (r *CaseRepository) List(ctx context.Context, firmID, cursor string, limit int) ([]domain.Case, string, error) {
	if r.db == nil {
		return nil, "", errDBUnavailable
	}
	q := r.db.WithContext(ctx).Where("firm_id = ?", firmID)
	if cursor != "" {
		q = q.Where("id > ?", cursor)
	}
	var models []CaseModel
	if err := q.Order("id ASC").Limit(limit).Find(&models).Error; err != nil {
		return nil, "", err
	}
	out := make([]domain.Case, 0, len(models))
	for _, model := range models {
		out = append(out, caseFromModel(model))
	}
	next := ""
	if len(models) == limit {
		next = models[len(models)-1].ID
	}
	return out, next, nil
}

func (r *CaseRepository) Update(ctx context.Context, c domain.Case) (domain.Case, error) {
	if r.db == nil {
		return domain.Case{}, errDBUnavailable
	}
	model, err := caseModelFromDomain(c)
	if err != nil {
		return domain.Case{}, err
	}
	result := r.db.WithContext(ctx).
		Where("firm_id = ? AND id = ?", c.FirmID, c.ID).
		Select("title", "description", "court", "judge", "status", "case_types", "metadata").
		Updates(&model)
	if result.Error != nil {
		return domain.Case{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.Case{}, domain.ErrNotFound
	}
	return r.Get(ctx, c.FirmID, c.ID)
}

func caseModelFromDomain(c domain.Case) (CaseModel, error) {
	caseTypes, err := toJSON(c.CaseTypes)
	if err != nil {
		return CaseModel{}, err
	}
	metadata, err := toJSON(c.Metadata)
	if err != nil {
		return CaseModel{}, err
	}
	return CaseModel{
		ID:           c.ID,
		FirmID:       c.FirmID,
		Title:        c.Title,
		Description:  c.Description,
		CaseNumber:   c.CaseNumber,
		Court:        c.Court,
		Judge:        c.Judge,
		Status:       string(c.Status),
		CaseTypes:    caseTypes,
		Metadata:     metadata,
		RegisteredAt: c.RegisteredAt,
	}, nil
}

func caseFromModel(model CaseModel) domain.Case {
	return domain.Case{
		ID:           model.ID,
		FirmID:       model.FirmID,
		Title:        model.Title,
		Description:  model.Description,
		CaseNumber:   model.CaseNumber,
		Court:        model.Court,
		Judge:        model.Judge,
		Status:       domain.CaseStatus(model.Status),
		CaseTypes:    fromJSONStrings(model.CaseTypes),
		Metadata:     fromJSONMap(model.Metadata),
		RegisteredAt: model.RegisteredAt,
	}
}
