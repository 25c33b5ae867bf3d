package evaluation

import (
	"time"
)

// Status is the compliance state of one requirement within one project.
// Closed enum; presentation concerns (labels, colors) live outside the core.
type Status string

const (
	StatusImplemented    Status = "implemented"
	StatusPartial        Status = "partial"
	StatusNotImplemented Status = "not_implemented"
	StatusNotApplicable  Status = "not_applicable"
	// StatusNotEvaluated is the default: the absence of a stored evaluation
	// is equivalent to this status with all other fields empty.
	StatusNotEvaluated Status = "not_evaluated"
)

// Valid reports whether s is one of the five known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusImplemented, StatusPartial, StatusNotImplemented, StatusNotApplicable, StatusNotEvaluated:
		return true
	}
	return false
}

// Priority ranks follow-up urgency. Meaningful mainly when the status is
// neither implemented nor not_applicable; empty means unset.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the three known priorities or unset.
func (p Priority) Valid() bool {
	switch p {
	case "", PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ActionItem is one entry of an evaluation's ordered action list.
type ActionItem struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// StatusChange is one entry of the evaluation-local status timeline.
// History is append-only: one entry per status change, never rewritten.
type StatusChange struct {
	Date       time.Time `json:"date"`
	FromStatus Status    `json:"fromStatus"`
	ToStatus   Status    `json:"toStatus"`
}

// Evaluation is the mutable compliance record an organization maintains for
// one requirement within one project. Records are replaced wholesale on each
// save; the diff engine derives field-level audit history from the
// replacement (see Diff).
type Evaluation struct {
	Status          Status         `json:"status"`
	Notes           string         `json:"notes,omitempty"`
	Priority        Priority       `json:"priority,omitempty"`
	Responsible     string         `json:"responsible,omitempty"`
	Deadline        string         `json:"deadline,omitempty"` // YYYY-MM-DD, empty = unset
	Actions         []ActionItem   `json:"actions,omitempty"`
	EvidenceNotes   []string       `json:"evidenceNotes,omitempty"`
	AuditNotes      string         `json:"auditNotes,omitempty"`
	NAJustification string         `json:"naJustification,omitempty"` // advisory: populated when status is not_applicable
	History         []StatusChange `json:"history,omitempty"`
}

// Default returns the canonical empty evaluation. Reads for requirements
// that were never saved return this, so callers never see nil and the
// aggregator counts "no record" and explicit not_evaluated identically.
func Default() Evaluation {
	return Evaluation{Status: StatusNotEvaluated}
}

// Normalize coerces an absent status to the default so that incoming
// records and stored records compare on equal terms.
func (e *Evaluation) Normalize() {
	if e.Status == "" {
		e.Status = StatusNotEvaluated
	}
}

// Clone returns a deep copy so stored records cannot be mutated through
// returned references.
func (e Evaluation) Clone() Evaluation {
	clone := e
	if len(e.Actions) > 0 {
		clone.Actions = append([]ActionItem(nil), e.Actions...)
	}
	if len(e.EvidenceNotes) > 0 {
		clone.EvidenceNotes = append([]string(nil), e.EvidenceNotes...)
	}
	if len(e.History) > 0 {
		clone.History = append([]StatusChange(nil), e.History...)
	}
	return clone
}

// CarryHistory copies the status timeline forward from prev and appends one
// transition entry when the status changed. The previous status defaults to
// not_evaluated when no record existed. History on the incoming record is
// ignored: clients cannot rewrite the timeline.
func CarryHistory(prev *Evaluation, next *Evaluation, now time.Time) {
	fromStatus := StatusNotEvaluated
	next.History = nil
	if prev != nil {
		fromStatus = prev.Status
		if len(prev.History) > 0 {
			next.History = append([]StatusChange(nil), prev.History...)
		}
	}
	if next.Status != fromStatus {
		next.History = append(next.History, StatusChange{
			Date:       now,
			FromStatus: fromStatus,
			ToStatus:   next.Status,
		})
	}
}
