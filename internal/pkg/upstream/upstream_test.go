package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

const (
	cauldronsBody = `[
		{"id":"cauldron_001","name":"Crimson Brew","latitude":33.2148,"longitude":-97.1331,"max_volume":1000},
		{"id":"cauldron_002","name":"Azure Mix","latitude":33.2155,"longitude":-97.1298,"max_volume":800}
	]`
	networkBody = `{"edges":[{"from":"market_001","to":"cauldron_001","travel_time_minutes":12}]}`
	ticketsBody = `{"transport_tickets":[
		{"ticket_id":"TT_20251030_001","date":"2025-10-30T00:00:00Z","amount_collected":97.5,"cauldron_id":"cauldron_001","courier_id":"courier_witch_01"},
		{"ticket_id":"TT_20251030_002","date":"2025-10-30","amount":40,"cauldron_id":null}
	]}`
	dataBody = `[
		{"timestamp":"2025-10-30T00:02:00Z","cauldron_levels":{"cauldron_001":503.0,"cauldron_002":401.0}},
		{"timestamp":"2025-10-30T00:00:00Z","cauldron_levels":{"cauldron_001":500.0,"cauldron_002":400.0}}
	]`
)

func fakeUpstream(t *testing.T, overrides map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	bodies := map[string]string{
		PathCauldrons: cauldronsBody,
		PathNetwork:   networkBody,
		PathTickets:   ticketsBody,
		PathData:      dataBody,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := overrides[r.URL.Path]; ok {
			h(w, r)
			return
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	srv := fakeUpstream(t, nil)
	c := NewClient(srv.URL, time.Second, 1)

	content, err := c.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, content.Cauldrons, 2)
	c1 := content.Cauldrons[0]
	assert.Equal(t, "cauldron_001", c1.ID)
	assert.Equal(t, 1000.0, c1.MaxVolume)
	assert.InDelta(t, 1.5, c1.FillRatePerMin, 1e-9)
	assert.Equal(t, null.FloatFrom(500), c1.InitialVolume)
	assert.InDelta(t, 0.5, content.Cauldrons[1].FillRatePerMin, 1e-9)

	require.Len(t, content.Edges, 1)
	assert.Equal(t, 12.0, content.Edges[0].TravelMin)

	require.Len(t, content.Tickets, 2)
	assert.Equal(t, "2025-10-30", content.Tickets[0].Date)
	assert.Equal(t, 97.5, content.Tickets[0].Amount)
	assert.Equal(t, null.StringFrom("cauldron_001"), content.Tickets[0].CauldronID)
	assert.Equal(t, null.StringFrom("courier_witch_01"), content.Tickets[0].CourierID)
	assert.Equal(t, 40.0, content.Tickets[1].Amount)
	assert.False(t, content.Tickets[1].CauldronID.Valid)

	assert.NotNil(t, content.Drains)
	assert.Empty(t, content.Drains)
}

func TestFetchOptionalEndpointsMissing(t *testing.T) {
	srv := fakeUpstream(t, map[string]http.HandlerFunc{
		PathNetwork: func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) },
		PathData:    func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) },
	})
	c := NewClient(srv.URL, time.Second, 1)

	content, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, content.Edges)
	assert.Zero(t, content.Cauldrons[0].FillRatePerMin)
	assert.False(t, content.Cauldrons[0].InitialVolume.Valid)
}

func TestFetchRequiredEndpointFails(t *testing.T) {
	srv := fakeUpstream(t, map[string]http.HandlerFunc{
		PathCauldrons: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) },
	})
	c := NewClient(srv.URL, time.Second, 2)
	c.delay = time.Millisecond

	_, err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCannotGetFromRemote)
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := fakeUpstream(t, map[string]http.HandlerFunc{
		PathData: func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(dataBody))
		},
	})
	c := NewClient(srv.URL, time.Second, 3)
	c.delay = time.Millisecond

	b, err := c.Get(context.Background(), PathData)
	require.NoError(t, err)
	assert.JSONEq(t, dataBody, string(b))
	assert.EqualValues(t, 3, calls.Load())
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := fakeUpstream(t, map[string]http.HandlerFunc{
		PathTickets: func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		},
	})
	c := NewClient(srv.URL, time.Second, 3)
	c.delay = time.Millisecond

	_, err := c.Get(context.Background(), PathTickets)
	assert.ErrorIs(t, err, ErrCannotGetFromRemote)
	assert.EqualValues(t, 1, calls.Load())
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := ParseCauldrons([]byte(`{"oops":`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ParseTickets([]byte(`{"count":3}`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseLevelsSingleSnapshot(t *testing.T) {
	levels, err := ParseLevels([]byte(`[{"timestamp":"2025-10-30T00:00:00Z","cauldron_levels":{"c1":-3}}]`))
	require.NoError(t, err)
	assert.Equal(t, -3.0, levels.Seed["c1"])
	assert.Empty(t, levels.Rate)
}
