package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/guregu/null.v3"

	"potionportal.dev/backend/internal/app/appconfig"
	"potionportal.dev/backend/internal/constant"
	"potionportal.dev/backend/internal/core/synth"
	"potionportal.dev/backend/internal/model"
	"potionportal.dev/backend/internal/pkg/observability"
	"potionportal.dev/backend/internal/pkg/pperr"
	"potionportal.dev/backend/internal/pkg/upstream"
)

const refreshMutexName = "portal:dataset:refresh"

// Fetcher reads dataset content from the upstream source.
type Fetcher interface {
	Fetch(ctx context.Context) (*model.DatasetContent, error)
}

type RefreshStatus struct {
	InFlight      bool      `json:"inFlight"`
	LastAttemptAt null.Time `json:"lastAttemptAt"`
	LastSuccessAt null.Time `json:"lastSuccessAt"`
	LastError     string    `json:"lastError,omitempty"`
}

// Refresh replaces the current dataset with upstream data. At most one refresh runs at a
// time per process, and per deployment when a distributed lock is available.
type Refresh struct {
	datasets *Dataset
	fetcher  Fetcher
	strategy synth.Strategy
	window   int
	rs       *redsync.Redsync

	// inflight is held for the whole duration of a refresh
	inflight sync.Mutex

	mu     sync.RWMutex
	status RefreshStatus
}

func NewRefresh(conf *appconfig.Config, datasets *Dataset, client *upstream.Client, rs *redsync.Redsync) (*Refresh, error) {
	strategy, err := synth.ByName(conf.SynthStrategy, conf.SynthSeed, conf.SynthFixedMinute)
	if err != nil {
		return nil, err
	}
	return NewRefreshWith(datasets, client, strategy, conf.SynthWindow, rs), nil
}

func NewRefreshWith(datasets *Dataset, fetcher Fetcher, strategy synth.Strategy, window int, rs *redsync.Redsync) *Refresh {
	return &Refresh{
		datasets: datasets,
		fetcher:  fetcher,
		strategy: strategy,
		window:   window,
		rs:       rs,
	}
}

func (s *Refresh) Status() RefreshStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Refresh) setInFlight(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.InFlight = true
	s.status.LastAttemptAt = null.TimeFrom(at)
}

func (s *Refresh) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.InFlight = false
	if err != nil {
		s.status.LastError = err.Error()
		return
	}
	s.status.LastError = ""
	s.status.LastSuccessAt = null.TimeFrom(time.Now())
}

// Refresh fetches upstream data and swaps it in. It fails with REFRESH_IN_FLIGHT while
// another refresh runs and with UPSTREAM_UNAVAILABLE when the upstream cannot be read; in
// both cases the current dataset stays in place.
func (s *Refresh) Refresh(ctx context.Context) (*model.Dataset, error) {
	if !s.inflight.TryLock() {
		observability.DatasetRefreshes.WithLabelValues("rejected").Inc()
		return nil, pperr.ErrRefreshInFlight
	}
	defer s.inflight.Unlock()

	if s.rs != nil {
		mutex := s.rs.NewMutex(refreshMutexName, redsync.WithExpiry(time.Minute), redsync.WithTries(1))
		if err := mutex.LockContext(ctx); err != nil {
			observability.DatasetRefreshes.WithLabelValues("rejected").Inc()
			log.Info().Err(err).Str("evt.name", "refresh.locked").Msg("another replica is refreshing the dataset")
			return nil, pperr.ErrRefreshInFlight
		}
		defer func() {
			if _, err := mutex.UnlockContext(context.Background()); err != nil {
				log.Warn().Err(err).Str("evt.name", "refresh.unlock").Msg("failed to release refresh lock")
			}
		}()
	}

	s.setInFlight(time.Now())
	d, err := s.refresh(ctx)
	s.finish(err)
	if err != nil {
		observability.DatasetRefreshes.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("evt.name", "refresh.failed").Msg("dataset refresh failed, keeping previous dataset")
		return nil, err
	}
	observability.DatasetRefreshes.WithLabelValues("succeeded").Inc()
	return d, nil
}

func (s *Refresh) refresh(ctx context.Context) (*model.Dataset, error) {
	content, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, pperr.ErrUpstreamUnavailable.Msg("upstream data source is unavailable: %s", err)
	}

	content.Drains = append(content.Drains, synth.Synthesize(content.Tickets, s.strategy, s.window)...)

	d, err := s.datasets.Replace(*content, constant.DatasetOriginUpstream)
	if err != nil {
		var pe *pperr.PortalError
		if errors.As(err, &pe) && pe.ErrorCode == pperr.CodeInvalidRequest {
			e := pperr.ErrUpstreamUnavailable.Msg("upstream returned an invalid dataset: %s", pe.Message)
			if pe.Extras != nil {
				e = e.WithExtras(*pe.Extras)
			}
			return nil, e
		}
		return nil, err
	}
	return d, nil
}
