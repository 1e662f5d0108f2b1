package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"potionportal.dev/backend/internal/constant"
)

func newPipeline(t *testing.T, opts EngineOptions) (*Pipeline, *Dataset) {
	t.Helper()
	datasets := newDatasets(t)
	p, err := NewPipelineWith(opts, time.Minute, datasets, nil)
	require.NoError(t, err)
	return p, datasets
}

func TestPipelineDemoSnapshot(t *testing.T) {
	p, _ := newPipeline(t, DefaultEngineOptions())

	_, snapshot, err := p.Current(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "c2", "c3"}, snapshot.CauldronIDs)
	assert.NotContains(t, snapshot.Trajectories, constant.MarketNodeID)
	assert.InDelta(t, 158.0, snapshot.Trajectories["c1"].At(179), 1e-9)
	assert.InDelta(t, 11.6, snapshot.Trajectories["c1"].At(185), 1e-9)

	// six drop minutes per declared drain, in minute order
	require.Len(t, snapshot.DetectedDrains, 18, spew.Sdump(snapshot.DetectedDrains))
	assert.Equal(t, 180, snapshot.DetectedDrains[0].Minute)
	assert.Equal(t, 905, snapshot.DetectedDrains[17].Minute)
	for i := 1; i < len(snapshot.DetectedDrains); i++ {
		assert.LessOrEqual(t, snapshot.DetectedDrains[i-1].Minute, snapshot.DetectedDrains[i].Minute)
	}

	require.Len(t, snapshot.Matches, 3)
	assert.False(t, snapshot.Matches[0].Suspicious)
	assert.Equal(t, 0.0, snapshot.Matches[0].Difference.Float64)
	assert.False(t, snapshot.Matches[1].Suspicious)
	assert.Equal(t, 15.0, snapshot.Matches[1].Difference.Float64)
	assert.True(t, snapshot.Matches[2].Suspicious)
	assert.Equal(t, 100.0, snapshot.Matches[2].Difference.Float64)
	assert.Equal(t, 300.0, snapshot.Matches[2].Candidate.Amount)

	assert.Equal(t, 3, snapshot.Summary.Cauldrons)
	assert.Equal(t, 18, snapshot.Summary.DetectedDrains)
	assert.Equal(t, 3, snapshot.Summary.Matched)
	assert.Equal(t, 1, snapshot.Summary.Suspicious)
}

func TestPipelineMemoizesPerVersion(t *testing.T) {
	p, datasets := newPipeline(t, DefaultEngineOptions())
	ctx := context.Background()

	_, first, err := p.Current(ctx)
	require.NoError(t, err)
	_, second, err := p.Current(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = datasets.Upload([]byte(`{"tickets":[]}`))
	require.NoError(t, err)
	_, third, err := p.Current(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Empty(t, third.Matches)

	_, err = datasets.Reset()
	require.NoError(t, err)
	_, fourth, err := p.Current(ctx)
	require.NoError(t, err)
	assert.Same(t, first, fourth)

	assert.Equal(t, 2, p.Purge())
	_, fifth, err := p.Current(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, fifth)
	assert.Equal(t, first.Summary, fifth.Summary)
}

func TestPipelineRaisesAlertsOncePerSnapshot(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.WarnLevel)
	t.Cleanup(func() { log.Logger = prev })

	alerts, err := NewAlertWith("suspicious", nil)
	require.NoError(t, err)
	datasets := newDatasets(t)
	p, err := NewPipelineWith(DefaultEngineOptions(), time.Minute, datasets, alerts)
	require.NoError(t, err)

	raised := func() int { return strings.Count(buf.String(), `"evt.name":"alert.raised"`) }
	ctx := context.Background()

	_, _, err = p.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, raised())

	// recomputing the same dataset after a purge raises nothing new
	p.Purge()
	_, _, err = p.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, raised())

	_, err = datasets.Upload([]byte(`{"tickets":[{"id":"x1","date":"2025-11-08","amount":5000}]}`))
	require.NoError(t, err)
	_, _, err = p.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, raised())
}

func TestPipelineOptionsChangeResults(t *testing.T) {
	opts := DefaultEngineOptions()
	opts.ThresholdPolicy = constant.ThresholdPolicyFixed
	opts.FixedThreshold = 30
	p, _ := newPipeline(t, opts)

	_, snapshot, err := p.Current(context.Background())
	require.NoError(t, err)
	// only c2 (49.1 per minute) and c3 (~41.27 per minute) drop by more than 30
	assert.Len(t, snapshot.DetectedDrains, 12)

	assert.NotEqual(t, DefaultEngineOptions().Fingerprint(), opts.Fingerprint())
}

func TestPipelineRejectsUnknownOptions(t *testing.T) {
	opts := DefaultEngineOptions()
	opts.MatchMode = "fuzzy"
	_, err := NewPipelineWith(opts, time.Minute, nil, nil)
	assert.Error(t, err)

	opts = DefaultEngineOptions()
	opts.ThresholdPolicy = "learned"
	_, err = NewPipelineWith(opts, time.Minute, nil, nil)
	assert.Error(t, err)
}

func TestLevels(t *testing.T) {
	p, _ := newPipeline(t, DefaultEngineOptions())
	d, snapshot, err := p.Current(context.Background())
	require.NoError(t, err)

	levels := Levels(d, snapshot, 0)
	require.Len(t, levels, 3)
	assert.Equal(t, "c1", levels[0].CauldronID)
	assert.Equal(t, "North Cauldron", levels[0].Name)
	assert.Equal(t, 50.6, levels[0].Volume)
	assert.Equal(t, 5.06, levels[0].Percent)
	assert.Equal(t, 0, levels[0].Minute)
}
