package catalog

import (
	id "conforma/pkg/domain"
)

// Certification is one certification standard's full normative catalog.
// Catalogs are loaded once at process start and never mutated afterward;
// every consumer receives them by reference through the Library.
type Certification struct {
	ID      id.CertificationID `json:"id" yaml:"id"`
	Name    string             `json:"name" yaml:"name"`
	Version string             `json:"version" yaml:"version"`
	Clauses []Clause           `json:"clauses" yaml:"clauses"`
}

// Available reports whether the certification has normative content yet.
// A certification with no clauses is listed as "coming soon": projects may
// select it, but no statistics can be derived.
func (c *Certification) Available() bool { return len(c.Clauses) > 0 }

// Clause is a top-level normative section of the standard
// (e.g. clause 7, "Support"). Clauses carry no evaluation of their own; they group
// requirements and own every descendant for statistics bucketing.
type Clause struct {
	Number       string            `json:"number" yaml:"number"`
	Title        string            `json:"title" yaml:"title"`
	Requirements []RequirementNode `json:"requirements" yaml:"requirements"`
}

// RequirementNode is a single normative obligation, possibly containing
// nested sub-requirements.
//
// Invariants (enforced at load time):
//   - ID is globally unique within a certification
//   - a child's ID is its parent's ID plus "." and exactly one more segment
type RequirementNode struct {
	ID                 id.RequirementID  `json:"id" yaml:"id"`
	Title              string            `json:"title" yaml:"title"`
	NormativeText      string            `json:"normativeText" yaml:"normativeText"`
	MandatoryDocuments []string          `json:"mandatoryDocuments,omitempty" yaml:"mandatoryDocuments"`
	EvidenceHints      []string          `json:"evidenceHints,omitempty" yaml:"evidenceHints"`
	SubRequirements    []RequirementNode `json:"subRequirements,omitempty" yaml:"subRequirements"`
}

// FlattenedRequirement is a RequirementNode projected with the number of the
// top-level clause that owns it, regardless of nesting depth.
type FlattenedRequirement struct {
	RequirementNode `yaml:",inline"`
	ClauseNumber    string `json:"clauseNumber" yaml:"clauseNumber"`
}
