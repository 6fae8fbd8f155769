package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
)

type CaseService struct {
	Cases    CaseRepository
	Evidence EvidenceRepository
	Audits   AuditRepository
	Ledger   *AuditLedger
	Renderer DossierRenderer
	Clock    Clock
}

func NewCaseService(cases CaseRepository, evidence EvidenceRepository, audits AuditRepository, ledger *AuditLedger, renderer DossierRenderer) *CaseService {
	return &CaseService{
		Cases:    cases,
		Evidence: evidence,
		Audits:   audits,
		Ledger:   ledger,
		Renderer: renderer,
		Clock:    time.Now,
	}
}

type CreateCaseInput struct {
	FirmID      string
	Title       string
	Description string
	CaseNumber  string
	Court       string
	Judge       string
	CaseTypes   []string
	Metadata    map[string]any
	Actor       string
}

func (s *CaseService) CreateCase(ctx context.Context, input CreateCaseInput) (domain.Case, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.CaseNumber) == "" {
		return domain.Case{}, domain.ErrInvalidArgument
	}
	if input.Metadata == nil {
		input.Metadata = map[string]any{}
	}
	created, err := s.Cases.Create(ctx, domain.Case{
		FirmID:       input.FirmID,
		Title:        input.Title,
		Description:  input.Description,
		CaseNumber:   input.CaseNumber,
		Court:        input.Court,
		Judge:        input.Judge,
		Status:       domain.CaseOpen,
		CaseTypes:    input.CaseTypes,
		Metadata:     input.Metadata,
		RegisteredAt: s.Clock().UTC(),
	})
	if err != nil {
		return domain.Case{}, err
	}
	s.Ledger.RecordBestEffort(ctx, RecordInput{
		ActorUserID: input.Actor,
		FirmID:      input.FirmID,
		Action:      domain.AuditCreateCase,
		TargetTable: "cases",
		TargetID:    created.ID,
		Details:     map[string]any{"title": created.Title},
	})
	return created, nil
}

func (s *CaseService) GetCase(ctx context.Context, firmID, caseID string) (domain.Case, error) {
	return s.Cases.Get(ctx, firmID, caseID)
}

func (s *CaseService) ListCases(ctx context.Context, firmID, cursor string, limit int) ([]domain.Case, string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Cases.List(ctx, firmID, cursor, limit)
}

type UpdateCaseInput struct {
	FirmID      string
	CaseID      string
	Title       *string
	Description *string
	Court       *string
	Judge       *string
	CaseTypes   []string
	Metadata    map[string]any
	Actor       string
}

// UpdateCase edits case metadata. Locked cases are frozen: edits are rejected
// the same way evidence appends are.
func (s *CaseService) UpdateCase(ctx context.Context, input UpdateCaseInput) (domain.Case, error) {
	existing, err := s.Cases.Get(ctx, input.FirmID, input.CaseID)
	if err != nil {
		return domain.Case{}, err
	}
	if existing.Status == domain.CaseLocked {
		return domain.Case{}, domain.ErrCaseLocked
	}
	if input.Title != nil {
		existing.Title = *input.Title
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.Court != nil {
		existing.Court = *input.Court
	}
	if input.Judge != nil {
		existing.Judge = *input.Judge
	}
	if input.CaseTypes != nil {
		existing.CaseTypes = input.CaseTypes
	}
	if input.Metadata != nil {
		existing.Metadata = input.Metadata
	}
	updated, err := s.Cases.Update(ctx, existing)
	if err != nil {
		return domain.Case{}, err
	}
	s.Ledger.RecordBestEffort(ctx, RecordInput{
		ActorUserID: input.Actor,
		FirmID:      input.FirmID,
		Action:      domain.AuditUpdateCase,
		TargetTable: "cases",
		TargetID:    updated.ID,
		Details:     map[string]any{"title": updated.Title},
	})
	return updated, nil
}

// LockCase performs the one-way Open -> Locked transition. There is no
// unlock; a second lock attempt is a conflict.
func (s *CaseService) LockCase(ctx context.Context, firmID, caseID, actor string) (domain.Case, error) {
	existing, err := s.Cases.Get(ctx, firmID, caseID)
	if err != nil {
		return domain.Case{}, err
	}
	if existing.Status == domain.CaseLocked {
		return domain.Case{}, domain.ErrConflict
	}
	existing.Status = domain.CaseLocked
	locked, err := s.Cases.Update(ctx, existing)
	if err != nil {
		return domain.Case{}, err
	}
	s.Ledger.RecordBestEffort(ctx, RecordInput{
		ActorUserID: actor,
		FirmID:      firmID,
		Action:      domain.AuditLockCase,
		TargetTable: "cases",
		TargetID:    caseID,
		Details:     map[string]any{},
	})
	return locked, nil
}

// Timeline assembles the chronological view of a case from its registration
// and evidence collection dates.
func (s *CaseService) Timeline(ctx context.Context, firmID, caseID string) ([]domain.TimelineEvent, error) {
	c, err := s.Cases.Get(ctx, firmID, caseID)
	if err != nil {
		return nil, err
	}
	records, err := s.Evidence.ListByCase(ctx, firmID, caseID)
	if err != nil {
		return nil, err
	}
	events := []domain.TimelineEvent{
		{
			Date:        c.RegisteredAt,
			Title:       "Case Registered",
			Description: fmt.Sprintf("Case %s registered.", c.CaseNumber),
			Type:        "system",
		},
	}
	for _, rec := range records {
		date := rec.CreatedAt
		if rec.CollectedAt != nil {
			date = *rec.CollectedAt
		}
		events = append(events, domain.TimelineEvent{
			Date:        date,
			Title:       "Evidence: " + rec.Title,
			Description: fmt.Sprintf("Status: %s. Citation: %s", rec.Status, rec.ID),
			Type:        "evidence",
			EvidenceID:  rec.ID,
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}

// ExportDossier renders the judicial dossier for the case and audits the
// export. Returns the rendered bytes and their content type.
func (s *CaseService) ExportDossier(ctx context.Context, firmID, caseID, actor string) ([]byte, string, error) {
	c, err := s.Cases.Get(ctx, firmID, caseID)
	if err != nil {
		return nil, "", err
	}
	records, err := s.Evidence.ListByCase(ctx, firmID, caseID)
	if err != nil {
		return nil, "", err
	}
	audits, err := s.Audits.ListByFirm(ctx, firmID, 100)
	if err != nil {
		return nil, "", err
	}
	rendered, contentType, err := s.Renderer.Render(c, records, audits)
	if err != nil {
		return nil, "", fmt.Errorf("render dossier: %w", err)
	}
	s.Ledger.RecordBestEffort(ctx, RecordInput{
		ActorUserID: actor,
		FirmID:      firmID,
		Action:      domain.AuditExportDossier,
		TargetTable: "cases",
		TargetID:    caseID,
		Details:     map[string]any{},
	})
	return rendered, contentType, nil
}
