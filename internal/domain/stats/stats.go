// Package stats aggregates batch-level summary statistics over a fetched
// result set. The numbers are computed once per analysis and passed through
// to views for display.
package stats

import (
	"math"
	"slices"

	"github.com/tejasvp/resultboard/internal/domain/model"
)

// Distribution band labels, in display order.
var bucketLabels = []string{">= 9.0", "8.0 - 8.99", "7.0 - 7.99", "6.0 - 6.99", "< 6.0"}

// topBottomCount bounds the top/lowest performer lists.
const topBottomCount = 5

// Summarize computes the batch summary for records. Records with a
// non-comparable (NaN) score are excluded from the numeric aggregates but
// still counted in TotalStudents. An empty batch yields a zero Summary.
func Summarize(records []model.StudentRecord) model.Summary {
	sgpas := collectSGPAs(records)
	s := model.Summary{
		TotalStudents: len(records),
		Distribution:  Distribution(sgpas),
	}
	if len(sgpas) == 0 {
		return s
	}

	slices.Sort(sgpas)
	s.MinSGPA = sgpas[0]
	s.MaxSGPA = sgpas[len(sgpas)-1]
	s.AverageSGPA = round2(mean(sgpas))
	s.MedianSGPA = round2(median(sgpas))
	s.StdDevSGPA = round3(stdDev(sgpas))
	s.Percentiles = model.Percentiles{
		P25: round2(percentile(sgpas, 0.25)),
		P50: round2(percentile(sgpas, 0.50)),
		P75: round2(percentile(sgpas, 0.75)),
	}
	return s
}

// Distribution buckets scores into the fixed SGPA bands. All bands are
// always present so the chart keeps a stable shape even for empty counts.
func Distribution(sgpas []float64) []model.DistributionBucket {
	counts := make(map[string]int, len(bucketLabels))
	for _, s := range sgpas {
		switch {
		case s >= 9.0:
			counts[bucketLabels[0]]++
		case s >= 8.0:
			counts[bucketLabels[1]]++
		case s >= 7.0:
			counts[bucketLabels[2]]++
		case s >= 6.0:
			counts[bucketLabels[3]]++
		default:
			counts[bucketLabels[4]]++
		}
	}

	buckets := make([]model.DistributionBucket, len(bucketLabels))
	for i, label := range bucketLabels {
		buckets[i] = model.DistributionBucket{Label: label, Count: counts[label]}
	}
	return buckets
}

// TopPerformers returns up to n records with the highest scores, best
// first. Non-comparable records never make the cut.
func TopPerformers(records []model.StudentRecord, n int) []model.StudentRecord {
	sorted := sortBySGPA(records)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// LowestPerformers returns up to n records with the lowest scores, worst
// first.
func LowestPerformers(records []model.StudentRecord, n int) []model.StudentRecord {
	sorted := sortBySGPA(records)
	slices.Reverse(sorted)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// TopBottom returns the default-sized performer lists plus the single
// topper and lowest record. ok is false when no record is comparable.
func TopBottom(records []model.StudentRecord) (topper, lowest model.StudentRecord, top, bottom []model.StudentRecord, ok bool) {
	top = TopPerformers(records, topBottomCount)
	bottom = LowestPerformers(records, topBottomCount)
	if len(top) == 0 {
		return model.StudentRecord{}, model.StudentRecord{}, nil, nil, false
	}
	return top[0], bottom[0], top, bottom, true
}

func sortBySGPA(records []model.StudentRecord) []model.StudentRecord {
	out := make([]model.StudentRecord, 0, len(records))
	for _, r := range records {
		if r.Comparable() {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b model.StudentRecord) int {
		switch {
		case a.SGPA > b.SGPA:
			return -1
		case a.SGPA < b.SGPA:
			return 1
		default:
			return 0
		}
	})
	return out
}

func collectSGPAs(records []model.StudentRecord) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Comparable() {
			out = append(out, r.SGPA)
		}
	}
	return out
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// stdDev is the sample standard deviation; a single observation has none.
func stdDev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	sum := 0.0
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vals)-1))
}

// percentile linearly interpolates the p-th quantile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	k := float64(n-1) * p
	f := int(k)
	c := f + 1
	if c > n-1 {
		c = n - 1
	}
	if f == c {
		return sorted[f]
	}
	return sorted[f]*(float64(c)-k) + sorted[c]*(k-float64(f))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
