package catalog

// Flatten projects a certification's clause tree into the ordered linear
// sequence of all requirement nodes, leaves and internal nodes alike, each
// annotated with its owning top-level clause number.
//
// Traversal is pre-order depth-first: each clause's requirements in
// declaration order, each node before its sub-requirements. The resulting
// order is stable across calls and is relied on by listing, export, and the
// statistics bucketing, so it must never depend on anything but catalog
// declaration order.
//
// A certification with no clauses flattens to an empty sequence; callers
// treat that as "no statistics available", not an error.
func Flatten(cert *Certification) []FlattenedRequirement {
	var out []FlattenedRequirement
	for _, clause := range cert.Clauses {
		for i := range clause.Requirements {
			out = appendSubtree(out, &clause.Requirements[i], clause.Number)
		}
	}
	return out
}

func appendSubtree(out []FlattenedRequirement, node *RequirementNode, clauseNumber string) []FlattenedRequirement {
	out = append(out, FlattenedRequirement{RequirementNode: *node, ClauseNumber: clauseNumber})
	for i := range node.SubRequirements {
		out = appendSubtree(out, &node.SubRequirements[i], clauseNumber)
	}
	return out
}

// RequirementIndex maps every requirement id of a certification to its
// flattened projection, for O(1) existence checks on evaluation writes.
func RequirementIndex(cert *Certification) map[string]FlattenedRequirement {
	flattened := Flatten(cert)
	index := make(map[string]FlattenedRequirement, len(flattened))
	for _, req := range flattened {
		index[string(req.ID)] = req
	}
	return index
}
