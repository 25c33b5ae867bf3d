// Package stats derives compliance statistics from the flattened catalog and
// a project's evaluation store. Statistics are recomputed on every read and
// never cached across writes: the evaluation store is the single source of
// truth and a dashboard render is allowed to cost one aggregation pass.
package stats

import (
	"math"

	"conforma/internal/catalog"
	"conforma/internal/evaluation"
)

// partialCreditWeight is the fixed share a partially implemented requirement
// contributes to progress. Policy constant, not configurable per project.
const partialCreditWeight = 0.5

// Counts tallies evaluations by status, plus the two derived percentages.
type Counts struct {
	Total          int `json:"total"`
	Implemented    int `json:"implemented"`
	Partial        int `json:"partial"`
	NotImplemented int `json:"notImplemented"`
	NotApplicable  int `json:"notApplicable"`
	NotEvaluated   int `json:"notEvaluated"`
	// CompliancePercent is the share of applicable requirements fully
	// implemented; ProgressPercent counts partial implementations at half
	// weight. Both are 0 when nothing is applicable.
	CompliancePercent int `json:"compliancePercent"`
	ProgressPercent   int `json:"progressPercent"`
}

// ClauseStats is one top-level clause's bucket.
type ClauseStats struct {
	ClauseNumber string `json:"clauseNumber"`
	Counts
}

// ProjectStats is the derived, never-persisted statistics object for one
// project. Clause buckets appear in catalog order.
type ProjectStats struct {
	Counts
	Clauses []ClauseStats `json:"clauses"`
}

// Compute walks the flattened catalog against the evaluation document and
// tallies overall and per-clause counts. A requirement with no stored
// evaluation counts as not_evaluated, identically to an explicitly saved
// not_evaluated record.
//
// Returns nil when the catalog is empty (a not-yet-available standard):
// callers must distinguish "no data available" from "zero compliance".
func Compute(flattened []catalog.FlattenedRequirement, evaluations map[string]evaluation.Evaluation) *ProjectStats {
	if len(flattened) == 0 {
		return nil
	}

	result := &ProjectStats{}
	buckets := make(map[string]*Counts)
	var clauseOrder []string

	for _, req := range flattened {
		bucket, ok := buckets[req.ClauseNumber]
		if !ok {
			bucket = &Counts{}
			buckets[req.ClauseNumber] = bucket
			clauseOrder = append(clauseOrder, req.ClauseNumber)
		}

		status := evaluation.StatusNotEvaluated
		if eval, ok := evaluations[string(req.ID)]; ok && eval.Status != "" {
			status = eval.Status
		}
		tally(&result.Counts, status)
		tally(bucket, status)
	}

	finalize(&result.Counts)
	for _, number := range clauseOrder {
		counts := buckets[number]
		finalize(counts)
		result.Clauses = append(result.Clauses, ClauseStats{ClauseNumber: number, Counts: *counts})
	}
	return result
}

func tally(c *Counts, status evaluation.Status) {
	c.Total++
	switch status {
	case evaluation.StatusImplemented:
		c.Implemented++
	case evaluation.StatusPartial:
		c.Partial++
	case evaluation.StatusNotImplemented:
		c.NotImplemented++
	case evaluation.StatusNotApplicable:
		c.NotApplicable++
	default:
		c.NotEvaluated++
	}
}

// finalize derives the percentages. Rounding is round-half-up on the final
// percentage, never on intermediate sums.
func finalize(c *Counts) {
	applicable := c.Total - c.NotApplicable
	if applicable <= 0 {
		return
	}
	c.CompliancePercent = roundHalfUp(100 * float64(c.Implemented) / float64(applicable))
	c.ProgressPercent = roundHalfUp(100 * (float64(c.Implemented) + partialCreditWeight*float64(c.Partial)) / float64(applicable))
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
