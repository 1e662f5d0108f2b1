package refreshwkr

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"potionportal.dev/backend/internal/app/appconfig"
	"potionportal.dev/backend/internal/pkg/pperr"
	"potionportal.dev/backend/internal/service"
)

type WorkerDeps struct {
	fx.In
	RefreshService  *service.Refresh
	PipelineService *service.Pipeline
}

type Worker struct {
	// count counts batches worker has completed so far
	count int

	// interval describes the interval in-between scheduled refreshes
	interval time.Duration

	// deps
	WorkerDeps
}

func Start(conf *appconfig.Config, deps WorkerDeps, lc fx.Lifecycle) {
	if conf.RefreshInterval <= 0 {
		log.Debug().Str("evt.name", "worker.refresh.disabled").Msg("scheduled refresh disabled")
		return
	}

	w := &Worker{
		interval:   conf.RefreshInterval,
		WorkerDeps: deps,
	}

	var cancel context.CancelFunc
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			cancel = w.do()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})
}

func (w *Worker) do() context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			w.batch(ctx)

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return cancel
}

// batch refreshes the dataset once and warms the snapshot cache for it.
func (w *Worker) batch(ctx context.Context) {
	log.Info().Int("count", w.count).Msg("worker batch started")

	err := observeRefreshDuration(func() error {
		d, err := w.RefreshService.Refresh(ctx)
		if err != nil {
			return err
		}
		_, err = w.PipelineService.Compute(ctx, d)
		return err
	})
	switch {
	case errors.Is(err, pperr.ErrRefreshInFlight):
		log.Debug().Int("count", w.count).Msg("worker batch skipped: refresh already in flight")
	case err != nil:
		log.Warn().Err(err).Int("count", w.count).Msg("worker batch failed")
	default:
		log.Info().Int("count", w.count).Msg("worker batch finished")
	}

	w.count++
}

func (w *Worker) Count() int {
	return w.count
}
