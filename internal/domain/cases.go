package domain

import "time"

type CaseStatus string

const (
	CaseOpen   CaseStatus = "Open"
	CaseClosed CaseStatus = "Closed"
	// CaseLocked is terminal for evidence mutation: a locked case accepts no
	// new evidence or metadata edits, preserving a frozen evidentiary snapshot.
	// There is no unlock transition.
	CaseLocked CaseStatus = "Locked"
)

type Case struct {
	ID           string
	FirmID       string
	Title        string
	Description  string
	CaseNumber   string
	Court        string
	Judge        string
	Status       CaseStatus
	CaseTypes    []string
	Metadata     map[string]any
	RegisteredAt time.Time
}

// TimelineEvent is one entry of a case's chronological view, assembled from
// the case header and its evidence records.
type TimelineEvent struct {
	Date        time.Time `json:"date"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	EvidenceID  string    `json:"evidence_id,omitempty"`
}
