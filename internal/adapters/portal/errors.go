package portal

import "errors"

// Sentinel kinds for portal errors. ErrNoResult marks a USN with no
// published sheet; the batch walker counts it as a miss rather than a
// failure.
var (
	ErrNoResult = errors.New("no result sheet for usn")
	ErrFetch    = errors.New("portal fetch failed")
	ErrExtract  = errors.New("result extraction failed")
)
