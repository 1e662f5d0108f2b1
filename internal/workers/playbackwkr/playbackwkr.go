// Package playbackwkr advances the playback cursor by one simulated minute per tick while
// playback is running.
package playbackwkr

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"potionportal.dev/backend/internal/pkg/observability"
	"potionportal.dev/backend/internal/service"
)

type Worker struct {
	playback *service.Playback
	tick     time.Duration
}

func Start(playback *service.Playback, lc fx.Lifecycle) {
	w := &Worker{
		playback: playback,
		tick:     playback.Tick(),
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
		log.Debug().Dur("tick", w.tick).Msg("playback worker started")

		ticker := time.NewTicker(w.tick)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if w.playback.Advance() {
					observability.PlaybackMinute.Set(float64(w.playback.State().Minute))
				}
			}
		}
	}()

	return cancel
}
