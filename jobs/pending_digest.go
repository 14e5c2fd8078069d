package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/WebLink-Company/mi-comida/internal/masterdata"
	"github.com/WebLink-Company/mi-comida/internal/stats"
)

// PendingDigestJob reports the outstanding pending-order backlog per
// company so supervisors can be nudged before the ordering cutoff.
type PendingDigestJob struct {
	Repo      stats.Repository
	Directory masterdata.Repository
	Logger    *slog.Logger
}

// NewPendingDigestJob wires dependencies for the digest handler.
func NewPendingDigestJob(repo stats.Repository, directory masterdata.Repository, logger *slog.Logger) *PendingDigestJob {
	return &PendingDigestJob{Repo: repo, Directory: directory, Logger: logger}
}

// Handle processes pending digest tasks.
func (j *PendingDigestJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Repo == nil {
		return errors.New("pending digest: handler not configured")
	}
	var payload PendingDigestPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	companies, err := j.Directory.ListCompanies(ctx, nil)
	if err != nil {
		j.Logger.Error("load companies", slog.Any("error", err))
		return err
	}

	notified := 0
	for _, company := range companies {
		pending, err := j.Repo.CountPending(ctx, stats.CompanySet(company.ID))
		if err != nil {
			j.Logger.Error("count pending",
				slog.String("company_id", company.ID.String()), slog.Any("error", err))
			return err
		}
		if pending == 0 {
			continue
		}
		notified++
		// Notification delivery rides the upstream messaging integration;
		// the digest records what would be sent.
		j.Logger.Info("pending digest",
			slog.String("company", company.Name),
			slog.Int("pending_orders", pending),
			slog.Bool("dry_run", payload.DryRun))
	}

	j.Logger.Info("pending digest complete",
		slog.Int("companies", len(companies)), slog.Int("notified", notified))
	return nil
}
