package usecase

import (
	"context"
	"time"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
)

type Clock func() time.Time

type CaseRepository interface {
	Create(ctx context.Context, c domain.Case) (domain.Case, error)
	Get(ctx context.Context, firmID, caseID string) (domain.Case, error)
	List(ctx context.Context, firmID, cursor string, limit int) ([]domain.Case, string, error)
	Update(ctx context.Context, c domain.Case) (domain.Case, error)
}

type EvidenceRepository interface {
	// Append inserts the record as the new chain head. The per-case chain
	// index is allocated under a row lock; if the record's PreviousHash no
	// longer matches the current head's ContentHash the insert is rejected
	// with domain.ErrChainConflict and nothing is written.
	Append(ctx context.Context, rec domain.EvidenceRecord, initial domain.CustodyEntry) (domain.EvidenceRecord, error)
	Get(ctx context.Context, firmID, evidenceID string) (domain.EvidenceRecord, error)
	ListByCase(ctx context.Context, firmID, caseID string) ([]domain.EvidenceRecord, error)
	// Head returns the most recently chained record of the case, or
	// domain.ErrNotFound when the case has no evidence yet.
	Head(ctx context.Context, firmID, caseID string) (domain.EvidenceRecord, error)
	// AppendCustody appends one entry to the record's custody log, assigning
	// the next entry index under a row lock on the evidence record.
	AppendCustody(ctx context.Context, firmID, evidenceID string, entry domain.CustodyEntry) (domain.EvidenceRecord, error)
	UpdateStatus(ctx context.Context, firmID, evidenceID string, status domain.EvidenceStatus) error
}

type AuditRepository interface {
	Insert(ctx context.Context, entry domain.SystemAuditEntry) (domain.SystemAuditEntry, error)
	ListByFirm(ctx context.Context, firmID string, limit int) ([]domain.SystemAuditEntry, error)
}

type TaskRepository interface {
	Create(ctx context.Context, t domain.Task) (domain.Task, error)
	ListByFirm(ctx context.Context, firmID string) ([]domain.Task, error)
}

type CalendarRepository interface {
	Create(ctx context.Context, ev domain.CalendarEvent) (domain.CalendarEvent, error)
	ListByFirm(ctx context.Context, firmID string) ([]domain.CalendarEvent, error)
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv domain.Invoice) (domain.Invoice, error)
	ListByFirm(ctx context.Context, firmID string) ([]domain.Invoice, error)
}

type AnalysisJobRepository interface {
	Create(ctx context.Context, job domain.AnalysisJob) (domain.AnalysisJob, error)
	Get(ctx context.Context, firmID, jobID string) (domain.AnalysisJob, error)
	LatestByEvidence(ctx context.Context, firmID, evidenceID string) (domain.AnalysisJob, error)
	Update(ctx context.Context, job domain.AnalysisJob) (domain.AnalysisJob, error)
}

// SearchRow is the minimal projection the search service ranks.
type SearchRow struct {
	Type        string
	ID          string
	Title       string
	Description string
	Haystack    string
}

type SearchRepository interface {
	SearchCases(ctx context.Context, firmID, query string) ([]SearchRow, error)
	SearchTasks(ctx context.Context, firmID, query string) ([]SearchRow, error)
	SearchEvidence(ctx context.Context, firmID, query string) ([]SearchRow, error)
}

// DossierRenderer turns a case and its evidence into an exportable report.
// Rendering is an external collaborator; the service only audits the export
// and streams the bytes back.
type DossierRenderer interface {
	Render(c domain.Case, evidence []domain.EvidenceRecord, audits []domain.SystemAuditEntry) ([]byte, string, error)
}
