package catalog

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	id "conforma/pkg/domain"
)

//go:embed data/*.yaml
var catalogFS embed.FS

// Library holds every certification catalog known to the process, loaded
// once at startup. It is read-only after Load returns.
type Library struct {
	certifications map[id.CertificationID]*Certification
	ordered        []*Certification
}

// Load parses and validates all embedded catalogs. Any structural violation
// (duplicate id, broken ancestry prefix) fails startup: a catalog that
// cannot uphold its invariants must never be served.
func Load() (*Library, error) {
	entries, err := catalogFS.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("read catalog dir: %w", err)
	}

	lib := &Library{certifications: make(map[id.CertificationID]*Certification)}

	// ReadDir order is lexical already, but sorting keeps the listing order
	// independent of embed implementation details.
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		raw, err := catalogFS.ReadFile("data/" + name)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", name, err)
		}
		var cert Certification
		if err := yaml.Unmarshal(raw, &cert); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", name, err)
		}
		if err := validate(&cert); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", name, err)
		}
		if _, exists := lib.certifications[cert.ID]; exists {
			return nil, fmt.Errorf("catalog %s: duplicate certification id %q", name, cert.ID)
		}
		lib.certifications[cert.ID] = &cert
		lib.ordered = append(lib.ordered, &cert)
	}
	return lib, nil
}

// Certification returns the catalog for a certification id, or false when
// the id is unknown.
func (l *Library) Certification(certID id.CertificationID) (*Certification, bool) {
	cert, ok := l.certifications[certID]
	return cert, ok
}

// Certifications lists all known certifications in stable (file) order.
func (l *Library) Certifications() []*Certification {
	return l.ordered
}

func validate(cert *Certification) error {
	if cert.ID == "" {
		return fmt.Errorf("certification id is required")
	}
	if cert.Name == "" {
		return fmt.Errorf("certification name is required")
	}
	seen := make(map[id.RequirementID]struct{})
	for _, clause := range cert.Clauses {
		if clause.Number == "" {
			return fmt.Errorf("clause number is required")
		}
		for i := range clause.Requirements {
			if err := validateNode(&clause.Requirements[i], "", seen); err != nil {
				return fmt.Errorf("clause %s: %w", clause.Number, err)
			}
		}
	}
	return nil
}

func validateNode(node *RequirementNode, parentID id.RequirementID, seen map[id.RequirementID]struct{}) error {
	if node.ID == "" {
		return fmt.Errorf("requirement id is required (parent %q)", parentID)
	}
	if _, dup := seen[node.ID]; dup {
		return fmt.Errorf("duplicate requirement id %q", node.ID)
	}
	seen[node.ID] = struct{}{}

	if parentID != "" {
		rest, ok := strings.CutPrefix(string(node.ID), string(parentID)+".")
		if !ok {
			return fmt.Errorf("requirement %q does not extend parent id %q", node.ID, parentID)
		}
		if rest == "" || strings.Contains(rest, ".") {
			return fmt.Errorf("requirement %q must add exactly one segment to parent %q", node.ID, parentID)
		}
	}
	for i := range node.SubRequirements {
		if err := validateNode(&node.SubRequirements[i], node.ID, seen); err != nil {
			return err
		}
	}
	return nil
}
