package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/WebLink-Company/mi-comida/internal/masterdata"
	"github.com/WebLink-Company/mi-comida/internal/stats"
)

// StatsWarmupJob pre-populates the dashboard caches so the first morning
// request per tenant is served hot.
type StatsWarmupJob struct {
	Stats     *stats.Service
	Directory masterdata.Repository
	Logger    *slog.Logger
}

// NewStatsWarmupJob wires dependencies for the warmup handler.
func NewStatsWarmupJob(statsSvc *stats.Service, directory masterdata.Repository, logger *slog.Logger) *StatsWarmupJob {
	return &StatsWarmupJob{Stats: statsSvc, Directory: directory, Logger: logger}
}

// Handle processes stats warmup tasks.
func (j *StatsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Stats == nil {
		return errors.New("stats warmup: handler not configured")
	}
	var payload StatsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	providerIDs, err := j.resolveProviders(ctx, payload)
	if err != nil {
		j.Logger.Error("load warmup providers", slog.Any("error", err))
		return err
	}
	if len(providerIDs) == 0 {
		j.Logger.Info("no providers discovered for warmup")
		return nil
	}

	// The admin bundle is shared by every platform operator; warm it first.
	if _, err := j.Stats.ForAdmin(ctx); err != nil {
		j.Logger.Error("warm admin bundle", slog.Any("error", err))
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, providerID := range providerIDs {
		g.Go(func() error {
			if _, err := j.Stats.ForProvider(gctx, providerID); err != nil {
				j.Logger.Error("warm provider bundle",
					slog.String("provider_id", providerID.String()), slog.Any("error", err))
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	j.Logger.Info("stats warmup complete", slog.Int("providers", len(providerIDs)))
	return nil
}

func (j *StatsWarmupJob) resolveProviders(ctx context.Context, payload StatsWarmupPayload) ([]uuid.UUID, error) {
	if len(payload.ProviderIDs) > 0 {
		ids := make([]uuid.UUID, 0, len(payload.ProviderIDs))
		for _, raw := range payload.ProviderIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	}
	providers, err := j.Directory.ListProviders(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ID)
	}
	return ids, nil
}
