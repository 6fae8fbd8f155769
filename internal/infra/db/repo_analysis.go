package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"

	"gorm.io/gorm"
)

type AnalysisJobRepository struct {
	db *gorm.DB
}

func NewAnalysisJobRepository(db *gorm.DB) *AnalysisJobRepository {
	return &AnalysisJobRepository{db: db}
}

func (r *AnalysisJobRepository) Create(ctx context.Context, job domain.AnalysisJob) (domain.AnalysisJob, error) {
	if r.db == nil {
		return domain.AnalysisJob{}, errDBUnavailable
	}
	if job.ID == "" {
		job.ID = newID()
	}
	model, err := jobModelFromDomain(job)
	if err != nil {
		return domain.AnalysisJob{}, err
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.AnalysisJob{}, err
	}
	return jobFromModel(model)
}

func (r *AnalysisJobRepository) Get(ctx context.Context, firmID, jobID string) (domain.AnalysisJob, error) {
	if r.db == nil {
		return domain.AnalysisJob{}, errDBUnavailable
	}
	var model AnalysisJobModel
	err := r.db.WithContext(ctx).
		Where("firm_id = ? AND id = ?", firmID, jobID).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.AnalysisJob{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.AnalysisJob{}, err
	}
	return jobFromModel(model)
}

func (r *AnalysisJobRepository) LatestByEvidence(ctx context.Context, firmID, evidenceID string) (domain.AnalysisJob, error) {
	if r.db == nil {
		return domain.AnalysisJob{}, errDBUnavailable
	}
	var model AnalysisJobModel
	err := r.db.WithContext(ctx).
		Where("firm_id = ? AND evidence_id = ?", firmID, evidenceID).
		Order("created_at DESC").
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.AnalysisJob{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.AnalysisJob{}, err
	}
	return jobFromModel(model)
}

func (r *AnalysisJobRepository) Update(ctx context.Context, job domain.AnalysisJob) (domain.AnalysisJob, error) {
	if r.db == nil {
		return domain.AnalysisJob{}, errDBUnavailable
	}
	model, err := jobModelFromDomain(job)
	if err != nil {
		return domain.AnalysisJob{}, err
	}
	result := r.db.WithContext(ctx).
		Where("firm_id = ? AND id = ?", job.FirmID, job.ID).
		Select("status", "result", "reasoning_path", "model_name", "latency_ms", "tokens_used", "updated_at").
		Updates(&model)
	if result.Error != nil {
		return domain.AnalysisJob{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.AnalysisJob{}, domain.ErrNotFound
	}
	return r.Get(ctx, job.FirmID, job.ID)
}

func jobModelFromDomain(job domain.AnalysisJob) (AnalysisJobModel, error) {
	result, err := toJSON(job.Result)
	if err != nil {
		return AnalysisJobModel{}, err
	}
	path, err := toJSON(job.ReasoningPath)
	if err != nil {
		return AnalysisJobModel{}, err
	}
	return AnalysisJobModel{
		ID:            job.ID,
		EvidenceID:    job.EvidenceID,
		FirmID:        job.FirmID,
		Status:        string(job.Status),
		Result:        result,
		ReasoningPath: path,
		ModelName:     job.ModelName,
		LatencyMS:     job.LatencyMS,
		TokensUsed:    job.TokensUsed,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
	}, nil
}

func jobFromModel(model AnalysisJobModel) (domain.AnalysisJob, error) {
	job := domain.AnalysisJob{
		ID:         model.ID,
		EvidenceID: model.EvidenceID,
		FirmID:     model.FirmID,
		Status:     domain.JobStatus(model.Status),
		ModelName:  model.ModelName,
		LatencyMS:  model.LatencyMS,
		TokensUsed: model.TokensUsed,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
	if len(model.Result) > 0 && string(model.Result) != "null" && string(model.Result) != "{}" {
		var res domain.AnalysisResult
		if err := json.Unmarshal(model.Result, &res); err != nil {
			return domain.AnalysisJob{}, err
		}
		job.Result = &res
	}
	if len(model.ReasoningPath) > 0 && string(model.ReasoningPath) != "null" {
		var path []domain.ReasoningStep
		if err := json.Unmarshal(model.ReasoningPath, &path); err != nil {
			return domain.AnalysisJob{}, err
		}
		job.ReasoningPath = path
	}
	return job, nil
}
