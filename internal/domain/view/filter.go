package view

import (
	"strings"

	"github.com/tejasvp/resultboard/internal/domain/model"
)

// Filter returns the records whose USN or name contains query,
// case-insensitively. An empty query matches everything. Input order is
// preserved; the input slice is never mutated.
func Filter(records []model.StudentRecord, query string) []model.StudentRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		out := make([]model.StudentRecord, len(records))
		copy(out, records)
		return out
	}

	out := make([]model.StudentRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.USN), q) ||
			strings.Contains(strings.ToLower(r.Name), q) {
			out = append(out, r)
		}
	}
	return out
}
