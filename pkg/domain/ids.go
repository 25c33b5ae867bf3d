package domain

import (
	"github.com/google/uuid"

	dErrors "conforma/pkg/domain-errors"
)

// ProjectID identifies a compliance project (one organization working toward
// one certification). Distinct type so it cannot be confused with other UUIDs
// at compile time.
type ProjectID uuid.UUID

func (id ProjectID) String() string { return uuid.UUID(id).String() }

func (id ProjectID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the canonical UUID form so JSON encoding produces a
// string, not a byte array.
func (id ProjectID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ProjectID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = ProjectID(parsed)
	return nil
}

// ParseProjectID validates and returns a ProjectID.
// IDs must be valid, non-empty, non-nil UUIDs.
func ParseProjectID(s string) (ProjectID, error) {
	if s == "" {
		return ProjectID{}, dErrors.New(dErrors.CodeInvalidInput, "project id is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return ProjectID{}, dErrors.New(dErrors.CodeInvalidInput, "project id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return ProjectID{}, dErrors.New(dErrors.CodeInvalidInput, "project id must not be the nil UUID")
	}
	return ProjectID(parsed), nil
}

// CertificationID identifies a certification standard in the catalog,
// e.g. "iso9001". Catalog-defined, not user-generated.
type CertificationID string

func (id CertificationID) String() string { return string(id) }

// RequirementID is the dotted hierarchical identifier of a requirement node
// within a certification catalog, e.g. "7.1.5.2". The dot-separated prefix
// chain encodes ancestry.
type RequirementID string

func (id RequirementID) String() string { return string(id) }
