package synth

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"potionportal.dev/backend/internal/constant"
	"potionportal.dev/backend/internal/model"
)

func tickets(n int) []*model.Ticket {
	ts := make([]*model.Ticket, 0, n)
	for i := 0; i < n; i++ {
		ts = append(ts, &model.Ticket{
			ID:         fmt.Sprintf("TT_%04d", i),
			Date:       "2025-10-30",
			Amount:     float64(50 + i),
			CauldronID: null.StringFrom(fmt.Sprintf("cauldron_%03d", i%3)),
		})
	}
	return ts
}

func TestSynthesizeNone(t *testing.T) {
	drains := Synthesize(tickets(5), None{}, DefaultWindow)
	assert.NotNil(t, drains)
	assert.Empty(t, drains)
}

func TestSynthesizeWindowsStayInDay(t *testing.T) {
	for _, s := range []Strategy{Hashed{}, Seeded{Seed: 7}, FixedMinute{Minute: 1430}, FixedMinute{Minute: -3}} {
		drains := Synthesize(tickets(40), s, DefaultWindow)
		require.Lenf(t, drains, 40, "strategy %s", s.Name())
		for _, d := range drains {
			assert.GreaterOrEqual(t, d.StartMin, 0)
			assert.LessOrEqual(t, d.EndMin, constant.LastMinute)
			assert.LessOrEqual(t, d.StartMin, d.EndMin)
			assert.Equal(t, constant.DrainSourceSynthesized, d.Source)
			assert.True(t, d.TicketID.Valid)
		}
	}
}

func TestSynthesizeCopiesTicket(t *testing.T) {
	ts := tickets(1)
	drains := Synthesize(ts, FixedMinute{Minute: 600}, DefaultWindow)

	require.Len(t, drains, 1)
	assert.Equal(t, model.DrainEvent{
		CauldronID:    "cauldron_000",
		StartMin:      600,
		EndMin:        615,
		RemovedVolume: 50,
		TicketID:      null.StringFrom("TT_0000"),
		Source:        constant.DrainSourceSynthesized,
	}, *drains[0])
}

func TestSynthesizeFixedCutsAtDayEnd(t *testing.T) {
	drains := Synthesize(tickets(1), FixedMinute{Minute: 1435}, DefaultWindow)
	require.Len(t, drains, 1)
	assert.Equal(t, 1435, drains[0].StartMin)
	assert.Equal(t, constant.LastMinute, drains[0].EndMin)
}

func TestSynthesizeReproducible(t *testing.T) {
	for _, s := range []Strategy{Hashed{}, Seeded{Seed: 42}} {
		a := Synthesize(tickets(20), s, DefaultWindow)
		b := Synthesize(tickets(20), s, DefaultWindow)
		assert.Equalf(t, a, b, "strategy %s", s.Name())
	}
}

func TestHashedIgnoresOrder(t *testing.T) {
	ts := tickets(10)
	reversed := make([]*model.Ticket, len(ts))
	for i, tk := range ts {
		reversed[len(ts)-1-i] = tk
	}

	forward := map[string]int{}
	for _, d := range Synthesize(ts, Hashed{}, DefaultWindow) {
		forward[d.TicketID.String] = d.StartMin
	}
	for _, d := range Synthesize(reversed, Hashed{}, DefaultWindow) {
		assert.Equal(t, forward[d.TicketID.String], d.StartMin)
	}
}

func TestSynthesizeSkipsUnattributed(t *testing.T) {
	ts := []*model.Ticket{
		{ID: "a", Amount: 10},
		{ID: "b", Amount: 10, CauldronID: null.StringFrom("")},
		{ID: "c", Amount: -1, CauldronID: null.StringFrom("c1")},
		{ID: "d", Amount: 10, CauldronID: null.StringFrom("c1")},
	}
	drains := Synthesize(ts, Hashed{}, DefaultWindow)
	require.Len(t, drains, 1)
	assert.Equal(t, "d", drains[0].TicketID.String)
}

func TestByName(t *testing.T) {
	s, err := ByName("", 1, 720)
	require.NoError(t, err)
	assert.Equal(t, None{}, s)

	s, err = ByName(constant.SynthStrategySeeded, 9, 720)
	require.NoError(t, err)
	assert.Equal(t, Seeded{Seed: 9}, s)

	s, err = ByName(constant.SynthStrategyFixed, 9, 720)
	require.NoError(t, err)
	assert.Equal(t, FixedMinute{Minute: 720}, s)

	_, err = ByName("random", 0, 0)
	assert.Error(t, err)
}
