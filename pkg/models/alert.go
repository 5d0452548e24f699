package models

import "time"

// Priority ranks how urgently an alert needs attention
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DoseState is the classifier's verdict for one medication at one instant
type DoseState string

const (
	DoseStateNotDue      DoseState = "not-due"
	DoseStateApproaching DoseState = "approaching"
	DoseStateDueNow      DoseState = "due-now"
	DoseStateOverdue     DoseState = "overdue"
	DoseStateResolved    DoseState = "resolved"
)

// Severity orders states for tie-breaking when a medication has several dose
// times: due-now > overdue > approaching > not-due. Resolved short-circuits
// before severity ever matters.
func (s DoseState) Severity() int {
	switch s {
	case DoseStateDueNow:
		return 3
	case DoseStateOverdue:
		return 2
	case DoseStateApproaching:
		return 1
	default:
		return 0
	}
}

// Alertable reports whether the state should produce an alert.
func (s DoseState) Alertable() bool {
	return s == DoseStateDueNow || s == DoseStateOverdue || s == DoseStateApproaching
}

// Alert is an ephemeral notification of a due/overdue dose. At most one
// alert is live per medication; a reminder re-alert replaces the original
// under the same medication id.
type Alert struct {
	ID           string // unique instance id (UUID)
	MedicationID string // owning medication; the store key
	Title        string
	Body         string
	CreatedAt    time.Time
	Priority     Priority
	State        DoseState // state that triggered this alert
	Acknowledged bool
	Reminder     bool // true for escalation re-alerts
}
