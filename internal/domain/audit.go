package domain

import "time"

type AuditAction string

const (
	AuditCreateCase      AuditAction = "CREATE_CASE"
	AuditUpdateCase      AuditAction = "UPDATE_CASE"
	AuditLockCase        AuditAction = "LOCK_CASE"
	AuditCreateEvidence  AuditAction = "CREATE_EVIDENCE"
	AuditTriggerAnalysis AuditAction = "TRIGGER_ANALYSIS"
	AuditExportDossier   AuditAction = "EXPORT_DOSSIER"
	AuditCreateTask      AuditAction = "CREATE_TASK"
	AuditCreateEvent     AuditAction = "CREATE_EVENT"
	AuditCreateInvoice   AuditAction = "CREATE_INVOICE"
)

// SystemAuditEntry is one immutable record of a sensitive action, written
// independently of the evidence chain. IntegrityHash is computed over the
// other fields at write time and is recomputable at any later time; a
// mismatch signals post-write tampering.
type SystemAuditEntry struct {
	ID            string
	Action        AuditAction
	TargetTable   string
	TargetID      string
	ActorUserID   string
	FirmID        string
	Timestamp     time.Time
	Details       map[string]any
	IntegrityHash string
}

// LedgerBreak identifies one audit entry whose stored integrity hash no
// longer matches its fields.
type LedgerBreak struct {
	EntryID  string `json:"entry_id"`
	Expected string `json:"expected"`
	Stored   string `json:"stored"`
}
