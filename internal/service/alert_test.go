package service

import (
	"context"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/guregu/null.v3"

	"potionportal.dev/backend/internal/model"
)

func demoMatches(t *testing.T) *model.Snapshot {
	t.Helper()
	p, _ := newPipeline(t, DefaultEngineOptions())
	_, snapshot, err := p.Current(context.Background())
	require.NoError(t, err)
	return snapshot
}

func ticketIDs(matches []*model.MatchResult) []string {
	return lo.Map(matches, func(m *model.MatchResult, _ int) string { return m.Ticket.ID })
}

func TestAlertSelect(t *testing.T) {
	snapshot := demoMatches(t)

	cases := map[string][]string{
		"suspicious":                     {"t3"},
		"difference > 10":                {"t2", "t3"},
		"matched && candidate >= 300":    {"t2", "t3"},
		"ticket.Amount < 200":            {"t1"},
		"suspicious && amount > 1000":    {},
		`cauldronId == "c1" || !matched`: {"t1"},
	}
	for rule, want := range cases {
		t.Run(rule, func(t *testing.T) {
			a, err := NewAlertWith(rule, nil)
			require.NoError(t, err)

			selected, err := a.Select(snapshot.Matches)
			require.NoError(t, err)
			assert.Equal(t, want, ticketIDs(selected))
		})
	}
}

func TestAlertSelectEmptyPool(t *testing.T) {
	a, err := NewAlertWith("difference > 1000000", nil)
	require.NoError(t, err)

	selected, err := a.Select([]*model.MatchResult{{Ticket: &model.Ticket{ID: "lonely", Amount: 5}, Suspicious: true}})
	require.NoError(t, err)
	assert.Equal(t, []string{"lonely"}, ticketIDs(selected))
}

func TestAlertRejectsInvalidRule(t *testing.T) {
	_, err := NewAlertWith("suspicious &&", nil)
	assert.Error(t, err)

	_, err = NewAlertWith("amount", nil)
	assert.Error(t, err)
}

func TestAlertDispatchWithoutNATS(t *testing.T) {
	a, err := NewAlertWith("suspicious", nil)
	require.NoError(t, err)
	assert.NotPanics(t, func() { a.Dispatch(context.Background(), demoMatches(t)) })
}

func TestTicketAlertEncoding(t *testing.T) {
	r := &model.MatchResult{Ticket: &model.Ticket{ID: "t9", Amount: 12, CauldronID: null.StringFrom("c1")}, Suspicious: true}
	b, err := msgpack.Marshal(newTicketAlert("v1", r, demoMatches(t).ComputedAt))
	require.NoError(t, err)

	var decoded TicketAlert
	require.NoError(t, msgpack.Unmarshal(b, &decoded))
	assert.Nil(t, decoded.Difference)
	assert.Equal(t, "t9", decoded.Ticket.ID)
	assert.Empty(t, decoded.CandidateKind)
	assert.Len(t, decoded.ID, 26)
	assert.Equal(t, strings.ToLower(decoded.ID), decoded.ID)
}
