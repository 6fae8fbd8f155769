package db

import (
	"time"

	"gorm.io/datatypes"
)

type FirmModel struct {
	ID             string         `gorm:"type:uuid;primaryKey"`
	Name           string         `gorm:"index;not null"`
	Jurisdiction   string
	Timezone       string
	Currency       string         `gorm:"default:USD"`
	PracticeAreas  datatypes.JSON `gorm:"type:jsonb"`
	EmployeeCounts datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"not null"`
}

func (FirmModel) TableName() string {
	return "firms"
}

type UserModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"uniqueIndex;not null"`
	FirstName string
	LastName  string
	Role      string    `gorm:"not null"`
	IsActive  bool      `gorm:"default:true"`
	FirmID    string    `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

type CaseModel struct {
	ID           string         `gorm:"type:uuid;primaryKey"`
	FirmID       string         `gorm:"type:uuid;index;not null"`
	Title        string         `gorm:"index;not null"`
	Description  string
	CaseNumber   string         `gorm:"uniqueIndex;not null"`
	Court        string
	Judge        string
	Status       string         `gorm:"not null"`
	CaseTypes    datatypes.JSON `gorm:"type:jsonb"`
	Metadata     datatypes.JSON `gorm:"type:jsonb"`
	RegisteredAt time.Time      `gorm:"not null"`
}

func (CaseModel) TableName() string {
	return "cases"
}

// CaseChainSeqModel is the per-case chain counter; the seq row is locked
// FOR UPDATE while a new evidence record is linked, so two concurrent appends
// on the same case cannot read the same predecessor.
type CaseChainSeqModel struct {
	CaseID string `gorm:"type:uuid;primaryKey"`
	Seq    int64  `gorm:"not null"`
}

func (CaseChainSeqModel) TableName() string {
	return "case_chain_seq"
}

type EvidenceModel struct {
	ID           string     `gorm:"type:uuid;primaryKey"`
	FirmID       string     `gorm:"type:uuid;index;not null"`
	CaseID       string     `gorm:"type:uuid;index:idx_evidence_case_chain,unique,priority:1;not null"`
	ChainIndex   int64      `gorm:"index:idx_evidence_case_chain,unique,priority:2;not null"`
	Title        string     `gorm:"index"`
	Type         string
	Source       string
	CollectedAt  *time.Time
	ContentHash  string     `gorm:"not null"`
	PreviousHash string     `gorm:"not null"`
	StoragePath  string
	Status       string     `gorm:"not null"`
	CreatedAt    time.Time  `gorm:"not null"`
}

func (EvidenceModel) TableName() string {
	return "evidence"
}

// CustodyLogModel is the append-only chain-of-custody log, one row per entry.
// Entries are never updated or deleted; EntryIndex orders them per record.
type CustodyLogModel struct {
	ID           string         `gorm:"type:uuid;primaryKey"`
	EvidenceID   string         `gorm:"type:uuid;index:idx_custody_evidence_entry,unique,priority:1;not null"`
	EntryIndex   int64          `gorm:"index:idx_custody_evidence_entry,unique,priority:2;not null"`
	Action       string         `gorm:"not null"`
	Actor        string         `gorm:"not null"`
	Hash         *string
	PreviousHash *string
	Details      datatypes.JSON `gorm:"type:jsonb"`
	Timestamp    time.Time      `gorm:"not null"`
}

func (CustodyLogModel) TableName() string {
	return "evidence_custody_log"
}

type SystemAuditModel struct {
	ID            string         `gorm:"type:uuid;primaryKey"`
	Action        string         `gorm:"not null"`
	TargetTable   string         `gorm:"not null"`
	TargetID      *string
	ActorUserID   string         `gorm:"not null"`
	FirmID        string         `gorm:"type:uuid;index;not null"`
	Timestamp     time.Time      `gorm:"not null"`
	Details       datatypes.JSON `gorm:"type:jsonb"`
	IntegrityHash string         `gorm:"not null"`
}

func (SystemAuditModel) TableName() string {
	return "system_audits"
}

type TaskModel struct {
	ID          string     `gorm:"type:uuid;primaryKey"`
	FirmID      string     `gorm:"type:uuid;index;not null"`
	CaseID      *string    `gorm:"type:uuid;index"`
	Title       string     `gorm:"index;not null"`
	Description string
	DueDate     *time.Time
	Status      string     `gorm:"not null"`
	AssignedTo  *string    `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"not null"`
}

func (TaskModel) TableName() string {
	return "tasks"
}

type CalendarEventModel struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	FirmID      string    `gorm:"type:uuid;index;not null"`
	CaseID      *string   `gorm:"type:uuid;index"`
	Title       string    `gorm:"index;not null"`
	Description string
	StartTime   time.Time `gorm:"not null"`
	EndTime     time.Time
	Location    string
	CreatedAt   time.Time `gorm:"not null"`
}

func (CalendarEventModel) TableName() string {
	return "calendar_events"
}

type InvoiceModel struct {
	ID         string     `gorm:"type:uuid;primaryKey"`
	FirmID     string     `gorm:"type:uuid;index;not null"`
	CaseID     string     `gorm:"type:uuid;index;not null"`
	TotalCents int64      `gorm:"not null"`
	Status     string     `gorm:"not null"`
	DueDate    *time.Time
	CreatedAt  time.Time  `gorm:"not null"`
}

func (InvoiceModel) TableName() string {
	return "invoices"
}

type InvoiceItemModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	InvoiceID   string `gorm:"type:uuid;index;not null"`
	Description string `gorm:"not null"`
	AmountCents int64  `gorm:"not null"`
}

func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

type AnalysisJobModel struct {
	ID            string         `gorm:"type:uuid;primaryKey"`
	EvidenceID    string         `gorm:"type:uuid;index;not null"`
	FirmID        string         `gorm:"type:uuid;index;not null"`
	Status        string         `gorm:"not null"`
	Result        datatypes.JSON `gorm:"type:jsonb"`
	ReasoningPath datatypes.JSON `gorm:"type:jsonb"`
	ModelName     string
	LatencyMS     int
	TokensUsed    int
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time
}

func (AnalysisJobModel) TableName() string {
	return "analysis_jobs"
}
