package evaluation

import (
	"encoding/json"
	"sort"
)

// Tracked field identifiers as they appear on changelog entries. These are
// persisted audit identifiers: renaming one would break reconstruction of
// historical transitions, so they keep the original camelCase form.
const (
	FieldStatus          = "status"
	FieldNotes           = "notes"
	FieldPriority        = "priority"
	FieldResponsible     = "responsible"
	FieldDeadline        = "deadline"
	FieldAuditNotes      = "auditNotes"
	FieldNAJustification = "naJustification"
	FieldActions         = "actions"
	FieldEvidenceNotes   = "evidenceNotes"
)

// FieldChange is one field's old→new transition, string-serialized the way
// it is persisted on a changelog entry.
type FieldChange struct {
	Field    string
	OldValue string
	NewValue string
}

// Diff compares the previously stored evaluation (nil when none existed)
// against the incoming replacement and emits one FieldChange per changed
// tracked field, in a fixed field order.
//
// Evaluations are replaced wholesale per save to keep the write path simple;
// this diff pass is what reconstructs field-level audit history from those
// coarse-grained writes.
//
// Rules:
//   - No previous record: at most one synthetic status change from
//     not_evaluated, and none at all when the new record is itself still
//     not_evaluated, since a brand-new unevaluated record is changelog noise.
//   - Scalars compare after string coercion, so absent and empty are the
//     same value and never flagged against each other.
//   - actions compares its full serialized form: reordering is a change.
//   - evidenceNotes compares a sorted serialization: only membership
//     changes are recorded.
func Diff(prev *Evaluation, next *Evaluation) []FieldChange {
	if prev == nil {
		if next.Status == StatusNotEvaluated {
			return nil
		}
		return []FieldChange{{
			Field:    FieldStatus,
			OldValue: string(StatusNotEvaluated),
			NewValue: string(next.Status),
		}}
	}

	var changes []FieldChange
	scalar := func(field, oldValue, newValue string) {
		if oldValue != newValue {
			changes = append(changes, FieldChange{Field: field, OldValue: oldValue, NewValue: newValue})
		}
	}

	scalar(FieldStatus, string(prev.Status), string(next.Status))
	scalar(FieldNotes, prev.Notes, next.Notes)
	scalar(FieldPriority, string(prev.Priority), string(next.Priority))
	scalar(FieldResponsible, prev.Responsible, next.Responsible)
	scalar(FieldDeadline, prev.Deadline, next.Deadline)
	scalar(FieldAuditNotes, prev.AuditNotes, next.AuditNotes)
	scalar(FieldNAJustification, prev.NAJustification, next.NAJustification)

	scalar(FieldActions, serializeActions(prev.Actions), serializeActions(next.Actions))
	scalar(FieldEvidenceNotes, serializeEvidenceNotes(prev.EvidenceNotes), serializeEvidenceNotes(next.EvidenceNotes))

	return changes
}

// serializeActions keeps declaration order: reordering actions is itself a
// recorded change.
func serializeActions(actions []ActionItem) string {
	if len(actions) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(actions)
	if err != nil {
		// []ActionItem cannot fail to marshal; guard stays for safety.
		return "[]"
	}
	return string(raw)
}

// serializeEvidenceNotes sorts before serializing: evidence notes are a set,
// only membership changes are audit-relevant.
func serializeEvidenceNotes(notes []string) string {
	if len(notes) == 0 {
		return "[]"
	}
	sorted := append([]string(nil), notes...)
	sort.Strings(sorted)
	raw, err := json.Marshal(sorted)
	if err != nil {
		return "[]"
	}
	return string(raw)
}
