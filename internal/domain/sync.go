package domain

import "time"

// Outcome is the result of reconciling one remote record.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeCreated
	OutcomeUpdated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	default:
		return "failed"
	}
}

// StepRequest addresses one page of one target.
type StepRequest struct {
	TargetIndex int `json:"target_index"`
	Page        int `json:"page"`
}

// StepResult reports one completed step.
type StepResult struct {
	Page               int      `json:"page"`
	TotalPages         int      `json:"total_pages"`
	TotalPosts         int      `json:"total_posts"`
	SyncedCount        int      `json:"synced_count"`
	Errors             []string `json:"errors"`
	IsDone             bool     `json:"is_done"`
	Target             string   `json:"target"`
	Targets            []string `json:"targets"`
	CurrentTargetIndex int      `json:"current_target_index"`
	Progress           float64  `json:"progress"`
}

// SyncCursor is the caller-held position of a multi-target sync.
type SyncCursor struct {
	TargetIndex int
	Page        int
	TotalPages  int
	Synced      int
}

// NewSyncCursor returns the cursor for a fresh run.
func NewSyncCursor() SyncCursor {
	return SyncCursor{Page: 1}
}

// RunSummary holds the totals of a complete caller-driven run.
type RunSummary struct {
	RunID    string
	Steps    int
	Synced   int
	Errors   []string
	Progress float64
	Duration time.Duration
}

// StepRecord is the audit entry written for each completed step.
type StepRecord struct {
	ID          int64     `db:"id"`
	SourceURL   string    `db:"source_url"`
	Target      string    `db:"target"`
	Page        int       `db:"page"`
	TotalPages  int       `db:"total_pages"`
	SyncedCount int       `db:"synced_count"`
	ErrorCount  int       `db:"error_count"`
	CompletedAt time.Time `db:"completed_at"`
}
