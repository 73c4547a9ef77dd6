package view

import (
	"github.com/tejasvp/resultboard/internal/domain/model"
	"github.com/tejasvp/resultboard/internal/domain/rank"
	"github.com/tejasvp/resultboard/internal/domain/tier"
)

// Options carries the rendering collaborators the pipeline annotates rows
// with. Both are optional; the zero value produces rows with no deep links
// and nothing highlighted.
type Options struct {
	// LinkFor builds the outbound deep-link for a record identifier.
	LinkFor func(usn string) string
	// Highlighted marks identifiers the hosting UI styles distinctly.
	Highlighted map[string]bool
}

// Build runs the full table pipeline: filter by query, stable-sort by
// state, competition-rank the result and annotate each row with its tier,
// deep link and highlight flag. The input slice is never mutated and the
// output is a fresh snapshot, so independent views may be built from the
// same record list without coordination.
func Build(records []model.StudentRecord, query string, state SortState, opts Options) []model.RankedRow {
	sorted := Sort(Filter(records, query), state)
	ranks := rank.Competition(sorted)

	rows := make([]model.RankedRow, len(sorted))
	for i, r := range sorted {
		row := model.RankedRow{
			StudentRecord: r,
			Rank:          ranks[i],
			Tier:          tier.Classify(r.SGPA),
			Highlighted:   opts.Highlighted[r.USN],
		}
		if opts.LinkFor != nil {
			row.ResultURL = opts.LinkFor(r.USN)
		}
		rows[i] = row
	}
	return rows
}
