package entity

import "time"

// Mode selects which view of the aggregated matches a run reports.
type Mode string

const (
	ModeDetail  Mode = "detail"
	ModeSummary Mode = "summary"
)

// Valid reports whether m is a known mode. The empty mode is treated as detail.
func (m Mode) Valid() bool {
	return m == "" || m == ModeDetail || m == ModeSummary
}

// FailedKeyword records a keyword whose payload could not be fetched or decoded.
type FailedKeyword struct {
	Keyword       string    `json:"keyword"`
	ErrorType     string    `json:"error_type"` // "fetch", "provider", "decode", "not_tree"
	FailureReason string    `json:"failure_reason"`
	AttemptedAt   time.Time `json:"attempted_at"`
}

// RunResult is everything one run produced. A result cut short by cancellation is
// still well-formed and has Partial set.
type RunResult struct {
	RunID     string             `json:"run_id"`
	Brand     string             `json:"brand"`
	Mode      Mode               `json:"mode"`
	Records   []VisibilityRecord `json:"records,omitempty"`
	Summaries []SummaryRecord    `json:"summaries,omitempty"`
	Failed    []FailedKeyword    `json:"failed,omitempty"`
	Scanned   int                `json:"keywords_scanned"`
	Mentions  int                `json:"mentions"`
	Partial   bool               `json:"partial"`
	StartedAt time.Time          `json:"started_at"`
	Duration  time.Duration      `json:"duration_ns"`
}
