package dispatch

import "github.com/goliatone/go-interactions/core"

// Match selects the single best entry for an event from a registry snapshot.
// Candidates are entries whose constraint fields are all wildcard or
// satisfied. The highest specificity wins; equal specificity falls back to
// the earliest registration. The result is deterministic for a fixed
// snapshot and event.
func Match(evt core.Event, entries []core.HandlerEntry) (core.HandlerEntry, bool) {
	best := core.HandlerEntry{}
	bestSpecificity := -1
	for _, entry := range entries {
		if !entry.Constraint.Matches(evt) {
			continue
		}
		specificity := entry.Constraint.Specificity()
		// strict inequality keeps the earliest registration on ties
		if specificity > bestSpecificity {
			best = entry
			bestSpecificity = specificity
		}
	}
	return best, bestSpecificity >= 0
}
