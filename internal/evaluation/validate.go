package evaluation

import (
	"fmt"
	"unicode/utf8"

	dErrors "conforma/pkg/domain-errors"
)

// maxFreeTextLen caps every free-text field on an evaluation, counted in
// characters, not bytes.
const maxFreeTextLen = 5000

// Validate checks enum fields and free-text lengths, collecting every
// violated field rather than stopping at the first. A non-nil result is a
// CodeValidation domain error carrying the full field list.
//
// naJustification being empty for not_applicable and missing deadlines for
// partial/not_implemented are advisory UI conventions, deliberately not
// enforced here.
func (e *Evaluation) Validate() error {
	var fields []string

	if !e.Status.Valid() {
		fields = append(fields, "status")
	}
	if !e.Priority.Valid() {
		fields = append(fields, "priority")
	}
	if utf8.RuneCountInString(e.Notes) > maxFreeTextLen {
		fields = append(fields, "notes")
	}
	if utf8.RuneCountInString(e.Responsible) > maxFreeTextLen {
		fields = append(fields, "responsible")
	}
	if utf8.RuneCountInString(e.Deadline) > maxFreeTextLen {
		fields = append(fields, "deadline")
	}
	if utf8.RuneCountInString(e.AuditNotes) > maxFreeTextLen {
		fields = append(fields, "auditNotes")
	}
	if utf8.RuneCountInString(e.NAJustification) > maxFreeTextLen {
		fields = append(fields, "naJustification")
	}
	for i, action := range e.Actions {
		if utf8.RuneCountInString(action.Text) > maxFreeTextLen {
			fields = append(fields, fmt.Sprintf("actions[%d].text", i))
		}
	}
	for i, note := range e.EvidenceNotes {
		if utf8.RuneCountInString(note) > maxFreeTextLen {
			fields = append(fields, fmt.Sprintf("evidenceNotes[%d]", i))
		}
	}

	if len(fields) > 0 {
		return dErrors.NewValidation("evaluation has invalid fields", fields)
	}
	return nil
}
