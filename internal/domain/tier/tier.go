// Package tier maps a numeric score to a discrete visual category.
package tier

// The closed set of tier labels, in descending order of the score bands
// they cover. Rendering styles key off these exact strings.
const (
	Excellent = "excellent"
	Great     = "great"
	Good      = "good"
	Average   = "average"
	Low       = "low"
)

// Classify buckets score by fixed thresholds, evaluated highest first.
// Each band is inclusive on its lower bound. A NaN score fails every
// comparison and lands in the lowest tier.
func Classify(score float64) string {
	switch {
	case score >= 9.0:
		return Excellent
	case score >= 8.0:
		return Great
	case score >= 7.0:
		return Good
	case score >= 6.0:
		return Average
	default:
		return Low
	}
}
