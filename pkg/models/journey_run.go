package models

import "maps"

// RunStatus represents the lifecycle state of a journey run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// IsTerminal reports whether no further state is expected after this status.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// ResultStatusCompleted is the status recorded for a state that ran to completion.
const ResultStatusCompleted = "completed"

// RunListItem is the recorded outcome of one state of a run.
type RunListItem struct {
	Name        string         `json:"name"`
	Result      map[string]any `json:"result"`
	Status      string         `json:"status"`
	TimeStarted int64          `json:"time_started"`
	TimeEnded   int64          `json:"time_ended"`
}

// JourneyRun is one execution of a journey for one contact.
type JourneyRun struct {
	ID           string                 `json:"id"`
	Account      string                 `json:"account"`
	Contact      string                 `json:"contact"`
	Journey      string                 `json:"journey"`
	Status       RunStatus              `json:"status"`
	TimeStarted  int64                  `json:"time_started"`
	TimeEnded    *int64                 `json:"time_ended,omitempty"`
	TriggerEvent map[string]any         `json:"trigger_event"`
	Results      map[string]RunListItem `json:"results"`
	Version      int                    `json:"version"`
}

// CloneResults returns a shallow copy of the run's results, safe to modify
// and hand back to the repository as a full replacement map.
func (r *JourneyRun) CloneResults() map[string]RunListItem {
	results := make(map[string]RunListItem, len(r.Results)+1)
	maps.Copy(results, r.Results)

	return results
}

// RunUpdate carries the top-level fields to merge into a stored run.
// Nil fields are left untouched. Results replaces the whole map.
type RunUpdate struct {
	Status    *RunStatus
	TimeEnded *int64
	Results   map[string]RunListItem

	// ExpectedVersion, when set, makes the update fail unless the stored
	// run still has this version.
	ExpectedVersion *int
}

// Apply merges the update into the run and bumps its version.
func (u RunUpdate) Apply(run *JourneyRun) {
	if u.Status != nil {
		run.Status = *u.Status
	}

	if u.TimeEnded != nil {
		timeEnded := *u.TimeEnded
		run.TimeEnded = &timeEnded
	}

	if u.Results != nil {
		run.Results = u.Results
	}

	run.Version++
}
