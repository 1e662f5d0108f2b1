package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"potionportal.dev/backend/internal/app/appconfig"
	"potionportal.dev/backend/internal/core/detect"
	"potionportal.dev/backend/internal/core/history"
	"potionportal.dev/backend/internal/core/reconcile"
	"potionportal.dev/backend/internal/model"
	"potionportal.dev/backend/internal/pkg/cache"
	"potionportal.dev/backend/internal/pkg/observability"
	"potionportal.dev/backend/internal/util"
)

// Pipeline runs reconstruct, detect and reconcile over a dataset. Snapshots are memoized
// per dataset version and engine options, so repeated reads and playback never recompute.
type Pipeline struct {
	datasets   *Dataset
	alerts     *Alert
	detector   *detect.Detector
	reconciler *reconcile.Reconciler

	fingerprint string
	ttl         time.Duration
	snapshots   *cache.Set[*model.Snapshot]

	// dispatched is the snapshot key alerts were last raised for; a recompute of the
	// same key after expiry or purge raises nothing
	dmu        sync.Mutex
	dispatched string
}

func NewPipeline(conf *appconfig.Config, datasets *Dataset, alerts *Alert) (*Pipeline, error) {
	return NewPipelineWith(EngineOptionsFromConfig(conf), conf.SnapshotTTL, datasets, alerts)
}

// NewPipelineWith builds a pipeline from explicit options. datasets and alerts may be nil
// for offline use through Compute.
func NewPipelineWith(opts EngineOptions, ttl time.Duration, datasets *Dataset, alerts *Alert) (*Pipeline, error) {
	detector, reconciler, err := opts.build()
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		datasets:    datasets,
		alerts:      alerts,
		detector:    detector,
		reconciler:  reconciler,
		fingerprint: opts.Fingerprint(),
		ttl:         ttl,
		snapshots:   cache.NewSet[*model.Snapshot]("snapshot"),
	}, nil
}

// Current returns the dataset in use together with its snapshot.
func (p *Pipeline) Current(ctx context.Context) (*model.Dataset, *model.Snapshot, error) {
	d := p.datasets.Current()
	snapshot, err := p.Compute(ctx, d)
	if err != nil {
		return nil, nil, err
	}
	return d, snapshot, nil
}

func (p *Pipeline) Compute(ctx context.Context, d *model.Dataset) (*model.Snapshot, error) {
	key := d.Version + ":" + p.fingerprint
	snapshot, calculated, err := p.snapshots.MutexGetSet(key, func() (*model.Snapshot, error) {
		return p.compute(d), nil
	}, p.ttl)
	if err != nil {
		return nil, err
	}

	if !calculated {
		observability.PipelineCacheLookups.WithLabelValues("hit").Inc()
		return snapshot, nil
	}
	observability.PipelineCacheLookups.WithLabelValues("miss").Inc()
	observability.DetectedDrains.Set(float64(snapshot.Summary.DetectedDrains))
	observability.SuspiciousTickets.Set(float64(snapshot.Summary.Suspicious))

	if p.alerts != nil && p.claimDispatch(key) {
		p.alerts.Dispatch(ctx, snapshot)
	}
	return snapshot, nil
}

func (p *Pipeline) claimDispatch(key string) bool {
	p.dmu.Lock()
	defer p.dmu.Unlock()

	if p.dispatched == key {
		log.Debug().Str("evt.name", "alert.skipped").Str("key", key).Msg("alerts already raised for snapshot")
		return false
	}
	p.dispatched = key
	return true
}

func (p *Pipeline) compute(d *model.Dataset) *model.Snapshot {
	start := time.Now()

	cauldrons := d.SimulatedCauldrons()
	trajectories := history.ReconstructAll(d)
	detected := p.detector.DetectAll(cauldrons, trajectories)
	matches := p.reconciler.Reconcile(d.Tickets, d.Drains, detected)

	snapshot := &model.Snapshot{
		DatasetVersion: d.Version,
		ComputedAt:     time.Now(),
		CauldronIDs:    lo.Map(cauldrons, func(c *model.Cauldron, _ int) string { return c.ID }),
		Trajectories:   trajectories,
		DetectedDrains: detected,
		Matches:        matches,
		Summary: model.SnapshotSummary{
			Cauldrons:      len(cauldrons),
			DetectedDrains: len(detected),
			Tickets:        len(matches),
			Matched:        lo.CountBy(matches, func(m *model.MatchResult) bool { return m.Matched() }),
			Suspicious:     lo.CountBy(matches, func(m *model.MatchResult) bool { return m.Suspicious }),
		},
	}

	elapsed := time.Since(start)
	observability.PipelineComputeDuration.Observe(elapsed.Seconds())
	log.Debug().
		Str("evt.name", "pipeline.computed").
		Str("version", d.Version).
		Dur("duration", elapsed).
		Int("detected", snapshot.Summary.DetectedDrains).
		Int("suspicious", snapshot.Summary.Suspicious).
		Msg("snapshot computed")

	return snapshot
}

// Purge drops every memoized snapshot.
func (p *Pipeline) Purge() int {
	n := p.snapshots.Len()
	p.snapshots.Clear()
	return n
}

// Levels reports every simulated cauldron's volume at minute, in dataset order. minute
// must already be validated.
func Levels(d *model.Dataset, snapshot *model.Snapshot, minute int) []*model.Level {
	levels := make([]*model.Level, 0, len(snapshot.CauldronIDs))
	for _, id := range snapshot.CauldronIDs {
		c, ok := d.CauldronByID(id)
		if !ok {
			continue
		}
		v := snapshot.Trajectories[id].At(minute)
		levels = append(levels, &model.Level{
			CauldronID: id,
			Name:       c.Name,
			Minute:     minute,
			Volume:     util.RoundFloat64(v, 2),
			MaxVolume:  c.MaxVolume,
			Percent:    util.RoundFloat64(v/c.MaxVolume*100, 2),
		})
	}
	return levels
}
