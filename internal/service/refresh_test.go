package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"potionportal.dev/backend/internal/constant"
	"potionportal.dev/backend/internal/core/synth"
	"potionportal.dev/backend/internal/model"
	"potionportal.dev/backend/internal/pkg/pperr"
)

type fakeFetcher struct {
	content func() *model.DatasetContent
	err     error

	// block, when set, is waited on before returning
	block chan struct{}
	began chan struct{}
}

func (f *fakeFetcher) Fetch(ctx context.Context) (*model.DatasetContent, error) {
	if f.began != nil {
		close(f.began)
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.content(), nil
}

func upstreamContent() *model.DatasetContent {
	return &model.DatasetContent{
		Cauldrons: []*model.Cauldron{
			{ID: "cauldron_001", Name: "Crimson Brew", MaxVolume: 1000, FillRatePerMin: 1.5, InitialVolume: null.FloatFrom(500)},
		},
		Drains: []*model.DrainEvent{},
		Tickets: []*model.Ticket{
			{ID: "TT_1", Date: "2025-10-30", Amount: 90, CauldronID: null.StringFrom("cauldron_001")},
			{ID: "TT_2", Date: "2025-10-30", Amount: 40},
		},
	}
}

func TestRefreshReplacesDataset(t *testing.T) {
	datasets := newDatasets(t)
	s := NewRefreshWith(datasets, &fakeFetcher{content: upstreamContent}, synth.FixedMinute{Minute: 600}, 15, nil)

	d, err := s.Refresh(context.Background())
	require.NoError(t, err)

	assert.Same(t, d, datasets.Current())
	assert.Equal(t, constant.DatasetOriginUpstream, d.Origin)
	require.Len(t, d.Drains, 1)
	assert.Equal(t, model.DrainEvent{
		CauldronID:    "cauldron_001",
		StartMin:      600,
		EndMin:        615,
		RemovedVolume: 90,
		TicketID:      null.StringFrom("TT_1"),
		Source:        constant.DrainSourceSynthesized,
	}, *d.Drains[0])

	status := s.Status()
	assert.False(t, status.InFlight)
	assert.True(t, status.LastSuccessAt.Valid)
	assert.Empty(t, status.LastError)
}

func TestRefreshUpstreamFailureKeepsDataset(t *testing.T) {
	datasets := newDatasets(t)
	before := datasets.Current()
	s := NewRefreshWith(datasets, &fakeFetcher{err: errors.New("dial tcp: connection refused")}, synth.None{}, 15, nil)

	_, err := s.Refresh(context.Background())
	require.Error(t, err)

	var pe *pperr.PortalError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, pperr.CodeUpstreamUnavailable, pe.ErrorCode)
	assert.Equal(t, 502, pe.StatusCode)
	assert.Same(t, before, datasets.Current())

	status := s.Status()
	assert.Contains(t, status.LastError, "connection refused")
	assert.True(t, status.LastAttemptAt.Valid)
	assert.False(t, status.LastSuccessAt.Valid)
}

func TestRefreshInvalidUpstreamData(t *testing.T) {
	datasets := newDatasets(t)
	before := datasets.Current()
	s := NewRefreshWith(datasets, &fakeFetcher{content: func() *model.DatasetContent {
		c := upstreamContent()
		c.Cauldrons[0].MaxVolume = 0
		return c
	}}, synth.None{}, 15, nil)

	_, err := s.Refresh(context.Background())
	var pe *pperr.PortalError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, pperr.CodeUpstreamUnavailable, pe.ErrorCode)
	assert.Same(t, before, datasets.Current())
}

func TestRefreshRejectsConcurrentRefresh(t *testing.T) {
	datasets := newDatasets(t)
	fetcher := &fakeFetcher{content: upstreamContent, block: make(chan struct{}), began: make(chan struct{})}
	s := NewRefreshWith(datasets, fetcher, synth.None{}, 15, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := s.Refresh(context.Background())
		assert.NoError(t, err)
	}()

	<-fetcher.began
	assert.True(t, s.Status().InFlight)
	_, err := s.Refresh(context.Background())
	assert.ErrorIs(t, err, pperr.ErrRefreshInFlight)

	close(fetcher.block)
	wg.Wait()
	assert.Equal(t, constant.DatasetOriginUpstream, datasets.Current().Origin)
}
