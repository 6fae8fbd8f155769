package domain

import "time"

// GenesisHash is the sentinel previous-hash value for the first evidence
// record of a case, where no real predecessor exists.
const GenesisHash = "GENESIS"

type EvidenceStatus string

const (
	EvidencePending          EvidenceStatus = "Pending"
	EvidenceAnalyzing        EvidenceStatus = "Analyzing"
	EvidenceAccepted         EvidenceStatus = "Accepted"
	EvidenceRejected         EvidenceStatus = "Rejected"
	EvidenceVerified         EvidenceStatus = "Verified"
	EvidenceConflictDetected EvidenceStatus = "ConflictDetected"
)

type CustodyAction string

const (
	CustodyUploaded        CustodyAction = "Uploaded"
	CustodyReportGenerated CustodyAction = "XAI_REPORT_GENERATED"
	CustodyReviewed        CustodyAction = "Reviewed"
)

// CustodyEntry is one element of an evidence record's append-only
// chain-of-custody log. Entries are assigned a monotonically increasing
// EntryIndex on insert and are never rewritten or reordered.
type CustodyEntry struct {
	EntryIndex   int64          `json:"entry_index"`
	Action       CustodyAction  `json:"action"`
	Timestamp    time.Time      `json:"timestamp"`
	Actor        string         `json:"actor"`
	Hash         string         `json:"hash,omitempty"`
	PreviousHash string         `json:"previous_hash,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

// EvidenceRecord links each uploaded file into a per-case singly-linked hash
// chain: ContentHash is SHA-256 over the raw bytes, PreviousHash is the
// ContentHash of the immediate predecessor in the same case (GenesisHash for
// the first record). ChainIndex is the authoritative ordering key, assigned
// transactionally; CreatedAt is display-only.
type EvidenceRecord struct {
	ID           string
	FirmID       string
	CaseID       string
	Title        string
	Type         string
	Source       string
	CollectedAt  *time.Time
	ContentHash  string
	PreviousHash string
	ChainIndex   int64
	StoragePath  string
	Status       EvidenceStatus
	CustodyLog   []CustodyEntry
	CreatedAt    time.Time
}

// ChainVerification reports the outcome of a chain walk. A break is a result,
// not an error, so periodic integrity audits can enumerate every broken case
// instead of stopping at the first.
type ChainVerification struct {
	Valid    bool   `json:"valid"`
	BrokenAt string `json:"broken_at,omitempty"`
}
