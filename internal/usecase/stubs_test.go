package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
)

// fixedClock returns a deterministic, strictly increasing clock.
func fixedClock() Clock {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var calls int
	return func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
}

type caseRepoStub struct {
	mu    sync.Mutex
	cases map[string]domain.Case
	next  int
}

func newCaseRepoStub() *caseRepoStub {
	return &caseRepoStub{cases: make(map[string]domain.Case)}
}

func (r *caseRepoStub) Create(_ context.Context, c domain.Case) (domain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		r.next++
		c.ID = fmt.Sprintf("case-%d", r.next)
	}
	r.cases[c.ID] = c
	return c, nil
}

func (r *caseRepoStub) Get(_ context.Context, firmID, caseID string) (domain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[caseID]
	if !ok || c.FirmID != firmID {
		return domain.Case{}, domain.ErrNotFound
	}
	return c, nil
}

func (r *caseRepoStub) List(_ context.Context, firmID, cursor string, limit int) ([]domain.Case, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.cases))
	for id, c := range r.cases {
		if c.FirmID == firmID && id > cursor {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]domain.Case, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.cases[id])
	}
	next := ""
	if len(out) == limit && limit > 0 {
		next = out[len(out)-1].ID
	}
	return out, next, nil
}

func (r *caseRepoStub) Update(_ context.Context, c domain.Case) (domain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.cases[c.ID]
	if !ok || existing.FirmID != c.FirmID {
		return domain.Case{}, domain.ErrNotFound
	}
	r.cases[c.ID] = c
	return c, nil
}

// evidenceRepoStub reproduces the store's chain semantics: per-case index
// allocation and predecessor validation under one lock.
type evidenceRepoStub struct {
	mu      sync.Mutex
	records map[string]domain.EvidenceRecord
	byCase  map[string][]string
	next    int

	failAppends int // first N appends fail with ErrChainConflict
}

func newEvidenceRepoStub() *evidenceRepoStub {
	return &evidenceRepoStub{
		records: make(map[string]domain.EvidenceRecord),
		byCase:  make(map[string][]string),
	}
}

func (r *evidenceRepoStub) Append(_ context.Context, rec domain.EvidenceRecord, initial domain.CustodyEntry) (domain.EvidenceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAppends > 0 {
		r.failAppends--
		return domain.EvidenceRecord{}, domain.ErrChainConflict
	}
	ids := r.byCase[rec.CaseID]
	headHash := domain.GenesisHash
	if len(ids) > 0 {
		headHash = r.records[ids[len(ids)-1]].ContentHash
	}
	if rec.PreviousHash != headHash {
		return domain.EvidenceRecord{}, domain.ErrChainConflict
	}
	r.next++
	rec.ID = fmt.Sprintf("ev-%d", r.next)
	rec.ChainIndex = int64(len(ids) + 1)
	initial.EntryIndex = 1
	rec.CustodyLog = []domain.CustodyEntry{initial}
	r.records[rec.ID] = rec
	r.byCase[rec.CaseID] = append(ids, rec.ID)
	return rec, nil
}

func (r *evidenceRepoStub) Get(_ context.Context, firmID, evidenceID string) (domain.EvidenceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[evidenceID]
	if !ok || rec.FirmID != firmID {
		return domain.EvidenceRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

func (r *evidenceRepoStub) ListByCase(_ context.Context, firmID, caseID string) ([]domain.EvidenceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EvidenceRecord, 0, len(r.byCase[caseID]))
	for _, id := range r.byCase[caseID] {
		rec := r.records[id]
		if rec.FirmID == firmID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *evidenceRepoStub) Head(_ context.Context, firmID, caseID string) (domain.EvidenceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.byCase[caseID]
	if len(ids) == 0 {
		return domain.EvidenceRecord{}, domain.ErrNotFound
	}
	rec := r.records[ids[len(ids)-1]]
	if rec.FirmID != firmID {
		return domain.EvidenceRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

func (r *evidenceRepoStub) AppendCustody(_ context.Context, firmID, evidenceID string, entry domain.CustodyEntry) (domain.EvidenceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[evidenceID]
	if !ok || rec.FirmID != firmID {
		return domain.EvidenceRecord{}, domain.ErrNotFound
	}
	entry.EntryIndex = int64(len(rec.CustodyLog) + 1)
	rec.CustodyLog = append(rec.CustodyLog, entry)
	r.records[evidenceID] = rec
	return rec, nil
}

func (r *evidenceRepoStub) UpdateStatus(_ context.Context, firmID, evidenceID string, status domain.EvidenceStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[evidenceID]
	if !ok || rec.FirmID != firmID {
		return domain.ErrNotFound
	}
	rec.Status = status
	r.records[evidenceID] = rec
	return nil
}

// corrupt overwrites a stored record's previous hash, simulating post-write
// tampering.
func (r *evidenceRepoStub) corrupt(evidenceID, previousHash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.records[evidenceID]
	rec.PreviousHash = previousHash
	r.records[evidenceID] = rec
}

type auditRepoStub struct {
	mu      sync.Mutex
	entries []domain.SystemAuditEntry
	next    int
	failing bool
}

func (r *auditRepoStub) Insert(_ context.Context, entry domain.SystemAuditEntry) (domain.SystemAuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return domain.SystemAuditEntry{}, fmt.Errorf("audit store down")
	}
	r.next++
	entry.ID = fmt.Sprintf("audit-%d", r.next)
	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *auditRepoStub) ListByFirm(_ context.Context, firmID string, limit int) ([]domain.SystemAuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.SystemAuditEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		if entry.FirmID == firmID {
			out = append(out, entry)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type blobStoreStub struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newBlobStoreStub() *blobStoreStub {
	return &blobStoreStub{blobs: make(map[string][]byte)}
}

func (b *blobStoreStub) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[key] = data
	return "mem://" + key, nil
}

func (b *blobStoreStub) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.blobs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

type jobRepoStub struct {
	mu   sync.Mutex
	jobs map[string]domain.AnalysisJob
	next int
}

func newJobRepoStub() *jobRepoStub {
	return &jobRepoStub{jobs: make(map[string]domain.AnalysisJob)}
}

func (r *jobRepoStub) Create(_ context.Context, job domain.AnalysisJob) (domain.AnalysisJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	job.ID = fmt.Sprintf("job-%d", r.next)
	r.jobs[job.ID] = job
	return job, nil
}

func (r *jobRepoStub) Get(_ context.Context, firmID, jobID string) (domain.AnalysisJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok || job.FirmID != firmID {
		return domain.AnalysisJob{}, domain.ErrNotFound
	}
	return job, nil
}

func (r *jobRepoStub) LatestByEvidence(_ context.Context, firmID, evidenceID string) (domain.AnalysisJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest domain.AnalysisJob
	found := false
	for _, job := range r.jobs {
		if job.FirmID != firmID || job.EvidenceID != evidenceID {
			continue
		}
		if !found || job.CreatedAt.After(latest.CreatedAt) {
			latest = job
			found = true
		}
	}
	if !found {
		return domain.AnalysisJob{}, domain.ErrNotFound
	}
	return latest, nil
}

func (r *jobRepoStub) Update(_ context.Context, job domain.AnalysisJob) (domain.AnalysisJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.jobs[job.ID]
	if !ok || existing.FirmID != job.FirmID {
		return domain.AnalysisJob{}, domain.ErrNotFound
	}
	r.jobs[job.ID] = job
	return job, nil
}

type analyzerStub struct {
	outcome domain.AnalysisOutcome
	polls   int // Poll returns not-done this many times first
}

func (a *analyzerStub) Submit(_ context.Context, req domain.AnalysisRequest) (domain.JobHandle, error) {
	if req.EvidenceID == "" {
		return domain.JobHandle{}, domain.ErrInvalidArgument
	}
	return domain.JobHandle{Ref: "handle-" + req.EvidenceID}, nil
}

func (a *analyzerStub) Poll(_ context.Context, _ domain.JobHandle) (domain.AnalysisOutcome, error) {
	if a.polls > 0 {
		a.polls--
		return domain.AnalysisOutcome{Done: false}, nil
	}
	out := a.outcome
	out.Done = true
	return out, nil
}

type rendererStub struct{}

func (rendererStub) Render(c domain.Case, evidence []domain.EvidenceRecord, _ []domain.SystemAuditEntry) ([]byte, string, error) {
	var b strings.Builder
	b.WriteString("dossier " + c.ID + "\n")
	for _, rec := range evidence {
		b.WriteString(rec.ContentHash + "\n")
	}
	return []byte(b.String()), "text/plain", nil
}
