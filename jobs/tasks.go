package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStatsWarmup pre-populates the dashboard caches.
	TaskStatsWarmup = "stats:warmup"
	// TaskPendingDigest summarises outstanding pending orders per company.
	TaskPendingDigest = "orders:pending_digest"
)

// StatsWarmupPayload selects which tenants to warm. Empty means everyone.
type StatsWarmupPayload struct {
	ProviderIDs []string `json:"provider_ids,omitempty"`
}

// PendingDigestPayload carries digest options.
type PendingDigestPayload struct {
	DryRun bool `json:"dry_run,omitempty"`
}

// NewStatsWarmupTask constructs an Asynq task for cache warmup.
func NewStatsWarmupTask(payload StatsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStatsWarmup, data), nil
}

// NewPendingDigestTask constructs an Asynq task for the pending digest.
func NewPendingDigestTask(payload PendingDigestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPendingDigest, data), nil
}
