package domain

type SearchResult struct {
	Type        string  `json:"type"`
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Relevance   float64 `json:"relevance"`
}
