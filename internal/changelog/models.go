package changelog

import (
	"time"

	"github.com/google/uuid"

	id "conforma/pkg/domain"
)

// Entry is one immutable record of a single field's old→new transition,
// attributed to an actor and timestamp. Entries are never updated or deleted
// by normal operation: the changelog is the sole source of audit truth and
// must be able to reconstruct, for any requirement, the exact sequence of
// field transitions.
type Entry struct {
	ID               uuid.UUID        `json:"id"`
	ProjectID        id.ProjectID     `json:"projectId"`
	RequirementID    id.RequirementID `json:"requirementId"`
	ActorID          string           `json:"actorId"`
	ActorDisplayName string           `json:"actorDisplayName"`
	Field            string           `json:"field"`
	OldValue         string           `json:"oldValue"`
	NewValue         string           `json:"newValue"`
	CreatedAt        time.Time        `json:"createdAt"`
}
