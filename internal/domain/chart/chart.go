// Package chart scales distribution buckets into proportional bar widths.
package chart

import "github.com/tejasvp/resultboard/internal/domain/model"

// minWidthPercent keeps zero-count buckets visible as a thin bar instead
// of collapsing entirely. The raw count is always rendered alongside the
// bar, so the floor is presentation only, not a data distortion.
const minWidthPercent = 5.0

// Normalize maps each bucket to a bar whose width is proportional to the
// largest count, preserving the input's display order. An empty bucket
// list yields an empty chart; callers render a no-data state for it.
func Normalize(buckets []model.DistributionBucket) []model.ChartBar {
	if len(buckets) == 0 {
		return nil
	}

	maxCount := 0
	for _, b := range buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	bars := make([]model.ChartBar, len(buckets))
	for i, b := range buckets {
		width := float64(b.Count) / float64(maxCount) * 100
		if width == 0 {
			width = minWidthPercent
		}
		bars[i] = model.ChartBar{Label: b.Label, Count: b.Count, WidthPercent: width}
	}
	return bars
}
