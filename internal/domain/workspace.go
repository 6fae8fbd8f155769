package domain

import "time"

type TaskStatus string

const (
	TaskPending    TaskStatus = "Pending"
	TaskInProgress TaskStatus = "InProgress"
	TaskCompleted  TaskStatus = "Completed"
)

type Task struct {
	ID          string
	FirmID      string
	CaseID      string
	Title       string
	Description string
	DueDate     *time.Time
	Status      TaskStatus
	AssignedTo  string
	CreatedAt   time.Time
}

type CalendarEvent struct {
	ID          string
	FirmID      string
	CaseID      string
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	CreatedAt   time.Time
}

type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "Draft"
	InvoiceSent    InvoiceStatus = "Sent"
	InvoicePaid    InvoiceStatus = "Paid"
	InvoiceOverdue InvoiceStatus = "Overdue"
)

type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Description string
	AmountCents int64
}

type Invoice struct {
	ID          string
	FirmID      string
	CaseID      string
	TotalCents  int64
	Status      InvoiceStatus
	DueDate     *time.Time
	Items       []InvoiceItem
	CreatedAt   time.Time
}
