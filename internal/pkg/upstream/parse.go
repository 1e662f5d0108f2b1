package upstream

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"gopkg.in/guregu/null.v3"

	"potionportal.dev/backend/internal/model"
)

var ErrMalformed = errors.New("upstream: malformed payload")

// list returns the array at the document root, or under the first of keys that holds one.
func list(raw []byte, keys ...string) (gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, errors.Wrap(ErrMalformed, "invalid json")
	}
	root := gjson.ParseBytes(raw)
	if root.IsArray() {
		return root, nil
	}
	for _, k := range keys {
		if r := root.Get(k); r.IsArray() {
			return r, nil
		}
	}
	return gjson.Result{}, errors.Wrapf(ErrMalformed, "expected an array or one of %v", keys)
}

// first returns the first of paths present on r.
func first(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func optionalString(r gjson.Result) null.String {
	if !r.Exists() || r.Type == gjson.Null || r.String() == "" {
		return null.String{}
	}
	return null.StringFrom(r.String())
}

func ParseCauldrons(raw []byte) ([]*model.Cauldron, error) {
	arr, err := list(raw, "cauldrons")
	if err != nil {
		return nil, errors.Wrap(err, "cauldrons")
	}

	cauldrons := make([]*model.Cauldron, 0)
	for _, r := range arr.Array() {
		id := r.Get("id").String()
		if id == "" {
			continue
		}
		cauldrons = append(cauldrons, &model.Cauldron{
			ID:        id,
			Name:      r.Get("name").String(),
			Lat:       first(r, "latitude", "lat").Float(),
			Lon:       first(r, "longitude", "lon").Float(),
			MaxVolume: first(r, "max_volume", "maxVolume").Float(),
		})
	}
	return cauldrons, nil
}

func ParseEdges(raw []byte) ([]*model.Edge, error) {
	arr, err := list(raw, "edges")
	if err != nil {
		return nil, errors.Wrap(err, "network")
	}

	edges := make([]*model.Edge, 0)
	for _, r := range arr.Array() {
		edges = append(edges, &model.Edge{
			From:      r.Get("from").String(),
			To:        r.Get("to").String(),
			TravelMin: first(r, "travel_time_minutes", "travelMin").Float(),
		})
	}
	return edges, nil
}

func ParseTickets(raw []byte) ([]*model.Ticket, error) {
	arr, err := list(raw, "transport_tickets", "tickets")
	if err != nil {
		return nil, errors.Wrap(err, "tickets")
	}

	tickets := make([]*model.Ticket, 0)
	for _, r := range arr.Array() {
		id := first(r, "ticket_id", "id").String()
		if id == "" {
			continue
		}
		tickets = append(tickets, &model.Ticket{
			ID:         id,
			Date:       dateOnly(r.Get("date").String()),
			Amount:     first(r, "amount_collected", "amount").Float(),
			CauldronID: optionalString(first(r, "cauldron_id", "cauldronId")),
			CourierID:  optionalString(first(r, "courier_id", "courierId")),
		})
	}
	return tickets, nil
}

// dateOnly trims a timestamp down to its ISO 8601 calendar date.
func dateOnly(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}

// Levels holds, per cauldron, the level of the first snapshot and the per-minute rate
// between the first two snapshots.
type Levels struct {
	Seed map[string]float64
	Rate map[string]float64
}

type levelSnapshot struct {
	at     time.Time
	levels map[string]float64
}

func ParseLevels(raw []byte) (*Levels, error) {
	arr, err := list(raw, "data")
	if err != nil {
		return nil, errors.Wrap(err, "data")
	}

	snapshots := make([]levelSnapshot, 0)
	for _, r := range arr.Array() {
		s := levelSnapshot{levels: map[string]float64{}}
		s.at, _ = time.Parse(time.RFC3339, r.Get("timestamp").String())
		r.Get("cauldron_levels").ForEach(func(k, v gjson.Result) bool {
			s.levels[k.String()] = v.Float()
			return true
		})
		snapshots = append(snapshots, s)
	}
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].at.Before(snapshots[j].at)
	})

	levels := &Levels{Seed: map[string]float64{}, Rate: map[string]float64{}}
	if len(snapshots) == 0 {
		return levels, nil
	}
	for id, l := range snapshots[0].levels {
		levels.Seed[id] = l
	}
	if len(snapshots) < 2 {
		return levels, nil
	}

	t0, t1 := snapshots[0], snapshots[1]
	minutes := t1.at.Sub(t0.at).Minutes()
	if minutes <= 0 {
		minutes = 1
	}
	for id, l0 := range t0.levels {
		if l1, ok := t1.levels[id]; ok {
			levels.Rate[id] = (l1 - l0) / minutes
		}
	}
	return levels, nil
}

// Apply sets fill rates and seed volumes on the cauldrons that appear in the history.
func (l *Levels) Apply(cauldrons []*model.Cauldron) {
	for _, c := range cauldrons {
		if rate, ok := l.Rate[c.ID]; ok {
			c.FillRatePerMin = rate
		}
		if seed, ok := l.Seed[c.ID]; ok {
			c.InitialVolume = null.FloatFrom(math.Max(seed, 0))
		}
	}
}
