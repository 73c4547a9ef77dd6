package view

import (
	"math"
	"slices"
	"strings"

	"github.com/tejasvp/resultboard/internal/domain/model"
)

// comparator is an ascending three-way comparison over two records.
type comparator func(a, b model.StudentRecord) int

// comparators is the closed set of per-key ordering strategies. String keys
// compare case-insensitively by code point; the score key compares
// numerically with non-comparable (NaN) scores placed below every real
// score, so they sink to the bottom of the default descending view.
var comparators = map[SortKey]comparator{
	ByUSN: func(a, b model.StudentRecord) int {
		return strings.Compare(strings.ToLower(a.USN), strings.ToLower(b.USN))
	},
	ByName: func(a, b model.StudentRecord) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	},
	BySGPA: func(a, b model.StudentRecord) int {
		return compareSGPA(a.SGPA, b.SGPA)
	},
}

func compareSGPA(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Compare orders a before b under state, returning -1, 0 or 1.
func Compare(a, b model.StudentRecord, state SortState) int {
	c := comparators[state.Key](a, b)
	if state.Direction == Descending {
		return -c
	}
	return c
}

// Sort returns a new slice ordered by state. The sort is stable: records
// that compare equal keep their relative input order, which makes ranks
// deterministic when the incoming order is itself meaningful.
func Sort(records []model.StudentRecord, state SortState) []model.StudentRecord {
	out := make([]model.StudentRecord, len(records))
	copy(out, records)
	slices.SortStableFunc(out, func(a, b model.StudentRecord) int {
		return Compare(a, b, state)
	})
	return out
}
