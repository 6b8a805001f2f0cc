package scheduler

import (
	"context"
	"time"
)

// Job is a unit of scheduled work
type Job interface {
	Name() string

	// Schedule is a six-field cron spec, seconds first ("0 30 18 * * 1-5"),
	// or a descriptor such as "@daily"
	Schedule() string

	Run(ctx context.Context) error
}

// JobResult is the outcome of one job execution, retries included
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// historyLimit bounds the results kept per job
const historyLimit = 100

// JobHistory holds the most recent results of one job, oldest first
type JobHistory struct {
	Results []JobResult
}

// AddResult appends result, dropping the oldest beyond historyLimit
func (h *JobHistory) AddResult(result JobResult) {
	h.Results = append(h.Results, result)
	if over := len(h.Results) - historyLimit; over > 0 {
		h.Results = append([]JobResult(nil), h.Results[over:]...)
	}
}

// Latest returns up to n of the newest results
func (h *JobHistory) Latest(n int) []JobResult {
	if n > len(h.Results) {
		n = len(h.Results)
	}
	if n <= 0 {
		return []JobResult{}
	}
	return h.Results[len(h.Results)-n:]
}

// Failed returns the failed results
func (h *JobHistory) Failed() []JobResult {
	failed := make([]JobResult, 0)
	for _, result := range h.Results {
		if !result.Success {
			failed = append(failed, result)
		}
	}
	return failed
}

// SuccessRate is the share of successful runs in [0, 1]
func (h *JobHistory) SuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0
	}
	ok := len(h.Results) - len(h.Failed())
	return float64(ok) / float64(len(h.Results))
}

// JobStats summarizes a job's history
type JobStats struct {
	JobName      string        `json:"job_name"`
	Schedule     string        `json:"schedule"`
	TotalRuns    int           `json:"total_runs"`
	SuccessCount int           `json:"success_count"`
	FailureCount int           `json:"failure_count"`
	SuccessRate  float64       `json:"success_rate"`
	AvgDuration  time.Duration `json:"avg_duration"`
	LastRun      *time.Time    `json:"last_run,omitempty"`
	LastSuccess  *time.Time    `json:"last_success,omitempty"`
	LastFailure  *time.Time    `json:"last_failure,omitempty"`
}

// Stats rolls the history up for the named job
func (h *JobHistory) Stats(name, schedule string) JobStats {
	stats := JobStats{
		JobName:     name,
		Schedule:    schedule,
		TotalRuns:   len(h.Results),
		SuccessRate: h.SuccessRate(),
	}

	var total time.Duration
	for i := range h.Results {
		started := h.Results[i].StartTime
		if h.Results[i].Success {
			stats.SuccessCount++
			stats.LastSuccess = &started
		} else {
			stats.FailureCount++
			stats.LastFailure = &started
		}
		stats.LastRun = &started
		total += h.Results[i].Duration
	}
	if stats.TotalRuns > 0 {
		stats.AvgDuration = total / time.Duration(stats.TotalRuns)
	}
	return stats
}
