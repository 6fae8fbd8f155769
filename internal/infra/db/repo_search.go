package db

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/muzansiddig/Veritas-Legal/internal/usecase"
)

type SearchRepository struct {
	db *gorm.DB
}

func NewSearchRepository(db *gorm.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// likePattern widens the query so the database does the coarse filtering and
// the search service does the ranking.
func likePattern(query string) string {
	return "%" + strings.TrimSpace(query) + "%"
}

func (r *SearchRepository) SearchCases(ctx context.Context, firmID, query string) ([]usecase.SearchRow, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []CaseModel
	pattern := likePattern(query)
	if err := r.db.WithContext(ctx).
		Where("firm_id = ? AND (title ILIKE ? OR description ILIKE ? OR case_number ILIKE ?)", firmID, pattern, pattern, pattern).
		Limit(50).
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]usecase.SearchRow, 0, len(models))
	for _, model := range models {
		out = append(out, usecase.SearchRow{
			Type:        "case",
			ID:          model.ID,
			Title:       model.Title,
			Description: model.Description,
			Haystack:    model.Title + " " + model.Description + " " + model.CaseNumber,
		})
	}
	return out, nil
}

func (r *SearchRepository) SearchTasks(ctx context.Context, firmID, query string) ([]usecase.SearchRow, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []TaskModel
	pattern := likePattern(query)
	if err := r.db.WithContext(ctx).
		Where("firm_id = ? AND (title ILIKE ? OR description ILIKE ?)", firmID, pattern, pattern).
		Limit(50).
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]usecase.SearchRow, 0, len(models))
	for _, model := range models {
		out = append(out, usecase.SearchRow{
			Type:        "task",
			ID:          model.ID,
			Title:       model.Title,
			Description: model.Description,
			Haystack:    model.Title + " " + model.Description,
		})
	}
	return out, nil
}

func (r *SearchRepository) SearchEvidence(ctx context.Context, firmID, query string) ([]usecase.SearchRow, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []EvidenceModel
	pattern := likePattern(query)
	if err := r.db.WithContext(ctx).
		Where("firm_id = ? AND (title ILIKE ? OR source ILIKE ?)", firmID, pattern, pattern).
		Limit(50).
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]usecase.SearchRow, 0, len(models))
	for _, model := range models {
		out = append(out, usecase.SearchRow{
			Type:        "evidence",
			ID:          model.ID,
			Title:       model.Title,
			Description: model.Source,
			Haystack:    model.Title + " " + model.Source + " " + model.ContentHash,
		})
	}
	return out, nil
}
