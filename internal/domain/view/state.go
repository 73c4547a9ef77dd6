// Package view implements the pure presentation pipeline that turns a raw
// record list into a searchable, sortable, competition-ranked table.
//
// Every function here is a side-effect-free transformation over immutable
// inputs; callers re-run the pipeline whenever the query or sort state
// changes. View state is an explicit value, never ambient.
package view

// SortKey selects the record field a view is ordered by.
type SortKey int

const (
	ByUSN SortKey = iota
	ByName
	BySGPA
)

// String returns the wire name of the key.
func (k SortKey) String() string {
	switch k {
	case ByUSN:
		return "usn"
	case ByName:
		return "name"
	default:
		return "sgpa"
	}
}

// ParseSortKey maps a wire name to a SortKey. Unknown names fall back to
// the score column, which is the default table ordering.
func ParseSortKey(s string) SortKey {
	switch s {
	case "usn":
		return ByUSN
	case "name":
		return ByName
	default:
		return BySGPA
	}
}

// Direction orders a sorted view ascending or descending.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

// String returns the wire name of the direction.
func (d Direction) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// ParseDirection maps a wire name to a Direction, defaulting to descending.
func ParseDirection(s string) Direction {
	if s == "asc" {
		return Ascending
	}
	return Descending
}

// SortState is the single active ordering of a view.
type SortState struct {
	Key       SortKey
	Direction Direction
}

// DefaultSortState orders by score descending, the initial table view.
func DefaultSortState() SortState {
	return SortState{Key: BySGPA, Direction: Descending}
}

// Toggle returns the state after the user activates key: re-activating the
// current key flips the direction, choosing a new key resets to descending.
func (s SortState) Toggle(key SortKey) SortState {
	if key == s.Key {
		if s.Direction == Descending {
			return SortState{Key: key, Direction: Ascending}
		}
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{Key: key, Direction: Descending}
}
