package project

import (
	"time"
	"unicode/utf8"

	id "conforma/pkg/domain"
	dErrors "conforma/pkg/domain-errors"
)

// Project is one organization's progress toward one certification.
//
// Invariants:
//   - Name is non-empty and at most 200 characters
//   - CertificationID references a catalog certification and is immutable
//   - UpdatedAt is touched by every evaluation save
//
// Evaluations live inside the project record as a document keyed by
// requirement id; they are read and written through the Store, never
// exposed as a mutable map.
type Project struct {
	ID              id.ProjectID       `json:"id"`
	Name            string             `json:"name"`
	CertificationID id.CertificationID `json:"certificationId"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

func New(projectID id.ProjectID, name string, certID id.CertificationID, now time.Time) (*Project, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "project name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "project name must be 200 characters or less")
	}
	if certID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "project certification cannot be empty")
	}
	return &Project{
		ID:              projectID,
		Name:            name,
		CertificationID: certID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
