package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/muzansiddig/Veritas-Legal/internal/domain"
)

type SearchService struct {
	Repo SearchRepository
}

func NewSearchService(repo SearchRepository) *SearchService {
	return &SearchService{Repo: repo}
}

// Search queries cases, tasks and evidence within the firm and ranks matches
// by a simple relevance score, highest first.
func (s *SearchService) Search(ctx context.Context, firmID, query string) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidArgument
	}

	var rows []SearchRow
	caseRows, err := s.Repo.SearchCases(ctx, firmID, query)
	if err != nil {
		return nil, err
	}
	rows = append(rows, caseRows...)
	taskRows, err := s.Repo.SearchTasks(ctx, firmID, query)
	if err != nil {
		return nil, err
	}
	rows = append(rows, taskRows...)
	evidenceRows, err := s.Repo.SearchEvidence(ctx, firmID, query)
	if err != nil {
		return nil, err
	}
	rows = append(rows, evidenceRows...)

	lowered := strings.ToLower(query)
	results := make([]domain.SearchResult, 0, len(rows))
	for _, row := range rows {
		haystack := row.Haystack
		if haystack == "" {
			haystack = row.Title
		}
		results = append(results, domain.SearchResult{
			Type:        row.Type,
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Relevance:   relevance(haystack, lowered),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	return results, nil
}

// relevance scores exact substring matches highest, then any-word matches,
// then a floor for rows the store matched on other columns.
func relevance(text, loweredQuery string) float64 {
	if text == "" {
		return 0
	}
	text = strings.ToLower(text)
	if strings.Contains(text, loweredQuery) {
		return 0.95
	}
	for _, word := range strings.Fields(loweredQuery) {
		if strings.Contains(text, word) {
			return 0.5
		}
	}
	return 0.1
}
