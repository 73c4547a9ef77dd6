// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"math"
)

// StudentRecord is one student's result as extracted from the portal.
// SGPA is NaN when the portal sheet existed but no SGPA/CGPA figure
// could be parsed from it.
type StudentRecord struct {
	USN  string  `json:"usn"`  // unique, stable identifier (roll/registration number)
	Name string  `json:"name"` // display name
	SGPA float64 `json:"sgpa"` // numeric score for the period
}

// Comparable reports whether the record carries a usable numeric score.
func (r StudentRecord) Comparable() bool {
	return !math.IsNaN(r.SGPA)
}

// MarshalJSON encodes a missing score as null; encoding/json rejects NaN.
func (r StudentRecord) MarshalJSON() ([]byte, error) {
	type alias struct {
		USN  string   `json:"usn"`
		Name string   `json:"name"`
		SGPA *float64 `json:"sgpa"`
	}
	a := alias{USN: r.USN, Name: r.Name}
	if r.Comparable() {
		a.SGPA = &r.SGPA
	}
	return json.Marshal(a)
}

// UnmarshalJSON mirrors MarshalJSON: a null score decodes to NaN.
func (r *StudentRecord) UnmarshalJSON(data []byte) error {
	var a struct {
		USN  string   `json:"usn"`
		Name string   `json:"name"`
		SGPA *float64 `json:"sgpa"`
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	r.USN = a.USN
	r.Name = a.Name
	if a.SGPA != nil {
		r.SGPA = *a.SGPA
	} else {
		r.SGPA = math.NaN()
	}
	return nil
}

// RankedRow is a StudentRecord annotated for tabular rendering. It is
// derived per view and never written back onto the source record.
type RankedRow struct {
	StudentRecord
	Rank        int    `json:"rank"`
	Tier        string `json:"tier"`
	ResultURL   string `json:"result_url"`
	Highlighted bool   `json:"highlighted"`
}

// MarshalJSON flattens the embedded record alongside the annotations.
// Without it the promoted StudentRecord marshaler would swallow them.
func (r RankedRow) MarshalJSON() ([]byte, error) {
	type alias struct {
		USN         string   `json:"usn"`
		Name        string   `json:"name"`
		SGPA        *float64 `json:"sgpa"`
		Rank        int      `json:"rank"`
		Tier        string   `json:"tier"`
		ResultURL   string   `json:"result_url"`
		Highlighted bool     `json:"highlighted"`
	}
	a := alias{
		USN:         r.USN,
		Name:        r.Name,
		Rank:        r.Rank,
		Tier:        r.Tier,
		ResultURL:   r.ResultURL,
		Highlighted: r.Highlighted,
	}
	if r.Comparable() {
		a.SGPA = &r.SGPA
	}
	return json.Marshal(a)
}

// UnmarshalJSON mirrors the flattened encoding above.
func (r *RankedRow) UnmarshalJSON(data []byte) error {
	var a struct {
		USN         string   `json:"usn"`
		Name        string   `json:"name"`
		SGPA        *float64 `json:"sgpa"`
		Rank        int      `json:"rank"`
		Tier        string   `json:"tier"`
		ResultURL   string   `json:"result_url"`
		Highlighted bool     `json:"highlighted"`
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	r.USN = a.USN
	r.Name = a.Name
	if a.SGPA != nil {
		r.SGPA = *a.SGPA
	} else {
		r.SGPA = math.NaN()
	}
	r.Rank = a.Rank
	r.Tier = a.Tier
	r.ResultURL = a.ResultURL
	r.Highlighted = a.Highlighted
	return nil
}

// DistributionBucket is a named score band with its aggregated count.
type DistributionBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ChartBar describes one proportional bar of the distribution chart.
type ChartBar struct {
	Label        string  `json:"label"`
	Count        int     `json:"count"`
	WidthPercent float64 `json:"width_percent"`
}

// Percentiles holds the quartile cut points of a score distribution.
type Percentiles struct {
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
}

// Summary aggregates batch-level statistics. It is computed once per
// analysis and passed through for display, never recomputed by views.
type Summary struct {
	TotalStudents int                  `json:"total_students"`
	AverageSGPA   float64              `json:"average_sgpa"`
	MedianSGPA    float64              `json:"median_sgpa"`
	StdDevSGPA    float64              `json:"std_dev_sgpa"`
	MinSGPA       float64              `json:"min_sgpa"`
	MaxSGPA       float64              `json:"max_sgpa"`
	Percentiles   Percentiles          `json:"percentiles"`
	Distribution  []DistributionBucket `json:"distribution"`
}
