package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	lib, err := Load()
	require.NoError(t, err)

	t.Run("iso9001 is available with its seven clauses", func(t *testing.T) {
		cert, ok := lib.Certification("iso9001")
		require.True(t, ok)
		assert.True(t, cert.Available())
		assert.Len(t, cert.Clauses, 7)
		assert.Equal(t, "4", cert.Clauses[0].Number)
		assert.Equal(t, "10", cert.Clauses[6].Number)
	})

	t.Run("iso27001 is listed but not yet available", func(t *testing.T) {
		cert, ok := lib.Certification("iso27001")
		require.True(t, ok)
		assert.False(t, cert.Available())
		assert.Empty(t, Flatten(cert))
	})

	t.Run("unknown certification is not found", func(t *testing.T) {
		_, ok := lib.Certification("iso99999")
		assert.False(t, ok)
	})

	t.Run("listing order is stable", func(t *testing.T) {
		first := lib.Certifications()
		second := lib.Certifications()
		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
		}
	})
}

func TestValidate(t *testing.T) {
	base := func() *Certification {
		return &Certification{
			ID:   "fixture",
			Name: "Fixture Standard",
			Clauses: []Clause{{
				Number: "1",
				Title:  "First",
				Requirements: []RequirementNode{{
					ID:    "1.1",
					Title: "Parent",
					SubRequirements: []RequirementNode{
						{ID: "1.1.1", Title: "Child"},
					},
				}},
			}},
		}
	}

	t.Run("accepts well-formed tree", func(t *testing.T) {
		require.NoError(t, validate(base()))
	})

	t.Run("rejects child id that does not extend its parent", func(t *testing.T) {
		cert := base()
		cert.Clauses[0].Requirements[0].SubRequirements[0].ID = "1.2.1"
		err := validate(cert)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not extend parent")
	})

	t.Run("rejects child id that adds more than one segment", func(t *testing.T) {
		cert := base()
		cert.Clauses[0].Requirements[0].SubRequirements[0].ID = "1.1.1.1"
		err := validate(cert)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one segment")
	})

	t.Run("rejects duplicate ids across clauses", func(t *testing.T) {
		cert := base()
		cert.Clauses = append(cert.Clauses, Clause{
			Number:       "2",
			Title:        "Second",
			Requirements: []RequirementNode{{ID: "1.1", Title: "Duplicate"}},
		})
		err := validate(cert)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate requirement id")
	})

	t.Run("rejects missing requirement id", func(t *testing.T) {
		cert := base()
		cert.Clauses[0].Requirements[0].SubRequirements[0].ID = ""
		require.Error(t, validate(cert))
	})
}
