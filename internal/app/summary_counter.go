package app

import (
	"context"

	"grading_overview_bot/internal/domain/grading"
)

// count tallies the working set with the same evaluation the row listing uses.
// Pairs without a start fact are not counted at all.
func (r *gradingRun) count(ctx context.Context, pairs []grading.Pair) grading.Counts {
	var counts grading.Counts
	for _, p := range pairs {
		facts := r.pairFacts(ctx, p)
		if !facts.Started() {
			continue
		}
		counts.Record(grading.Evaluate(facts))
	}
	return counts
}
