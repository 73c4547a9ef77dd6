package model

import "time"

// AnalysisJob describes one requested batch analysis.
type AnalysisJob struct {
	ID    string // job identifier, assigned at submission
	Dept  string // department code, e.g. "CG", "CS"
	Year  string // admission year, e.g. "23"
	Delay time.Duration
}

// Job states reported while an analysis moves through the worker pool.
const (
	JobPending   = "pending"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// BatchInput echoes back what was analyzed.
type BatchInput struct {
	Dept              string `json:"dept"`
	Year              string `json:"year"`
	RollRange         string `json:"roll_range"`
	TotalRollsChecked int    `json:"total_rolls_checked"`
}

// AnalysisResult is the full outcome of one batch analysis. Records arrive
// once per analysis and are treated as immutable for its lifetime.
type AnalysisResult struct {
	ID               string          `json:"id"`
	Status           string          `json:"status"`
	Error            string          `json:"error,omitempty"`
	Input            BatchInput      `json:"input"`
	Summary          Summary         `json:"summary"`
	Topper           StudentRecord   `json:"topper"`
	Lowest           StudentRecord   `json:"lowest"`
	TopPerformers    []StudentRecord `json:"top_performers"`
	LowestPerformers []StudentRecord `json:"lowest_performers"`
	Records          []StudentRecord `json:"records"`
	CompletedAt      time.Time       `json:"completed_at,omitzero"`
}
