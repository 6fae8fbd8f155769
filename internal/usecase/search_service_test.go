package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
)

type searchRepoStub struct {
	cases    []SearchRow
	tasks    []SearchRow
	evidence []SearchRow
}

func (r *searchRepoStub) SearchCases(_ context.Context, _, _ string) ([]SearchRow, error) {
	return r.cases, nil
}

func (r *searchRepoStub) SearchTasks(_ context.Context, _, _ string) ([]SearchRow, error) {
	return r.tasks, nil
}

func (r *searchRepoStub) SearchEvidence(_ context.Context, _, _ string) ([]SearchRow, error) {
	return r.evidence, nil
}

func TestSearchRanksResults(t *testing.T) {
	repo := &searchRepoStub{
		cases: []SearchRow{
			{Type: "case", ID: "c1", Title: "Harmon estate dispute", Haystack: "Harmon estate dispute"},
		},
		tasks: []SearchRow{
			{Type: "task", ID: "t1", Title: "File estate inventory", Haystack: "File estate inventory"},
		},
		evidence: []SearchRow{
			{Type: "evidence", ID: "e1", Title: "bank records", Haystack: "bank records 4f2a"},
		},
	}
	svc := NewSearchService(repo)

	results, err := svc.Search(context.Background(), "firm-1", "estate dispute")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	// Exact substring match first, word match next, floor last.
	if results[0].ID != "c1" || results[0].Relevance != 0.95 {
		t.Fatalf("top result = %+v", results[0])
	}
	if results[1].ID != "t1" || results[1].Relevance != 0.5 {
		t.Fatalf("second result = %+v", results[1])
	}
	if results[2].ID != "e1" || results[2].Relevance != 0.1 {
		t.Fatalf("third result = %+v", results[2])
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	svc := NewSearchService(&searchRepoStub{})
	if _, err := svc.Search(context.Background(), "firm-1", "   "); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("empty query: err = %v, want ErrInvalidArgument", err)
	}
}

func TestRelevanceCaseInsensitive(t *testing.T) {
	if got := relevance("Harmon Estate Dispute", "harmon estate"); got != 0.95 {
		t.Fatalf("relevance = %v, want 0.95", got)
	}
}
