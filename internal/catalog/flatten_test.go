package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureCert is small enough to count by hand: 6 nodes carrying an id.
func fixtureCert() *Certification {
	return &Certification{
		ID:   "fixture",
		Name: "Fixture Standard",
		Clauses: []Clause{
			{
				Number: "1",
				Title:  "First",
				Requirements: []RequirementNode{
					{
						ID:    "1.1",
						Title: "Parent",
						SubRequirements: []RequirementNode{
							{ID: "1.1.1", Title: "Child A"},
							{
								ID:    "1.1.2",
								Title: "Child B",
								SubRequirements: []RequirementNode{
									{ID: "1.1.2.1", Title: "Grandchild"},
								},
							},
						},
					},
					{ID: "1.2", Title: "Sibling"},
				},
			},
			{
				Number: "2",
				Title:  "Second",
				Requirements: []RequirementNode{
					{ID: "2.1", Title: "Other clause"},
				},
			},
		},
	}
}

func TestFlatten(t *testing.T) {
	t.Run("pre-order traversal includes internal nodes", func(t *testing.T) {
		flat := Flatten(fixtureCert())
		ids := make([]string, 0, len(flat))
		for _, req := range flat {
			ids = append(ids, string(req.ID))
		}
		assert.Equal(t, []string{"1.1", "1.1.1", "1.1.2", "1.1.2.1", "1.2", "2.1"}, ids)
	})

	t.Run("owning clause number is inherited at every depth", func(t *testing.T) {
		flat := Flatten(fixtureCert())
		for _, req := range flat[:5] {
			assert.Equal(t, "1", req.ClauseNumber, "requirement %s", req.ID)
		}
		assert.Equal(t, "2", flat[5].ClauseNumber)
	})

	t.Run("flattening twice yields identical sequences", func(t *testing.T) {
		cert := fixtureCert()
		assert.Equal(t, Flatten(cert), Flatten(cert))
	})

	t.Run("empty clause list flattens to empty sequence", func(t *testing.T) {
		assert.Empty(t, Flatten(&Certification{ID: "empty", Name: "Empty"}))
	})
}

func TestFlattenEmbeddedCatalog(t *testing.T) {
	lib, err := Load()
	require.NoError(t, err)
	cert, ok := lib.Certification("iso9001")
	require.True(t, ok)

	flat := Flatten(cert)

	t.Run("count matches the number of nodes carrying an id", func(t *testing.T) {
		var count func(nodes []RequirementNode) int
		count = func(nodes []RequirementNode) int {
			n := 0
			for i := range nodes {
				n += 1 + count(nodes[i].SubRequirements)
			}
			return n
		}
		total := 0
		for _, clause := range cert.Clauses {
			total += count(clause.Requirements)
		}
		assert.Equal(t, total, len(flat))
		assert.Equal(t, 78, len(flat))
	})

	t.Run("nested measurement traceability node is owned by clause 7", func(t *testing.T) {
		index := RequirementIndex(cert)
		req, ok := index["7.1.5.2"]
		require.True(t, ok)
		assert.Equal(t, "7", req.ClauseNumber)
		assert.Equal(t, "Measurement traceability", req.Title)
	})
}
