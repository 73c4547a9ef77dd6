// Package rank assigns competition ranks to a score-ordered record list.
package rank

import "github.com/tejasvp/resultboard/internal/domain/model"

// Competition returns the 1-based rank for each position of sorted.
// Tied scores share the rank of the first record of the tie group and the
// next distinct score resumes at its positional index + 1, leaving gaps:
// scores [9.5, 9.5, 9.0, 8.0] rank as [1, 1, 3, 4]. Ties are detected by
// exact float64 equality; an epsilon tolerance is deliberately not applied
// because the portal reports SGPA at fixed precision.
//
// Ranks are positional, so the result is only semantically meaningful when
// sorted is ordered by score.
func Competition(sorted []model.StudentRecord) []int {
	ranks := make([]int, len(sorted))
	for i := range sorted {
		if i > 0 && sorted[i].SGPA == sorted[i-1].SGPA {
			ranks[i] = ranks[i-1]
			continue
		}
		ranks[i] = i + 1
	}
	return ranks
}
