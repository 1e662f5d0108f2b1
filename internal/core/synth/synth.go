// Package synth turns ticket records into drain events when upstream data carries tickets
// but no drain timing. Where in the day a synthesized drain lands is decided by a
// pluggable Strategy.
package synth

import (
	"fmt"
	"math/rand"

	"github.com/zeebo/xxh3"
	"gopkg.in/guregu/null.v3"

	"potionportal.dev/backend/internal/constant"
	"potionportal.dev/backend/internal/model"
)

// DefaultWindow is the number of minutes after the start minute a synthesized drain lasts.
const DefaultWindow = 15

// Placer picks the start minute of the drain synthesized for ticket. latest is the last
// start minute that keeps the whole window inside the day. ok=false skips the ticket.
type Placer func(ticket *model.Ticket, latest int) (start int, ok bool)

type Strategy interface {
	Name() string

	// Placer returns a fresh placement function for one synthesis run, so stateful
	// strategies replay identically on every run.
	Placer() Placer
}

// None never synthesizes drains: tickets are matched by amount only.
type None struct{}

func (None) Name() string { return constant.SynthStrategyNone }

func (None) Placer() Placer {
	return func(*model.Ticket, int) (int, bool) { return 0, false }
}

// Hashed derives the start minute from the ticket id, so a ticket always lands on the same
// minute regardless of the order tickets arrive in.
type Hashed struct{}

func (Hashed) Name() string { return constant.SynthStrategyHashed }

func (Hashed) Placer() Placer {
	return func(t *model.Ticket, latest int) (int, bool) {
		return int(xxh3.HashString(t.ID) % uint64(latest+1)), true
	}
}

// Seeded draws start minutes from a pseudo-random source seeded with Seed, in ticket order.
type Seeded struct {
	Seed int64
}

func (Seeded) Name() string { return constant.SynthStrategySeeded }

func (s Seeded) Placer() Placer {
	rng := rand.New(rand.NewSource(s.Seed))
	return func(_ *model.Ticket, latest int) (int, bool) {
		return rng.Intn(latest + 1), true
	}
}

// FixedMinute starts every synthesized drain at Minute. Windows running past the end of
// the day are cut at the last minute.
type FixedMinute struct {
	Minute int
}

func (FixedMinute) Name() string { return constant.SynthStrategyFixed }

func (f FixedMinute) Placer() Placer {
	return func(*model.Ticket, int) (int, bool) {
		m := f.Minute
		if m < 0 {
			m = 0
		}
		if m > constant.LastMinute {
			m = constant.LastMinute
		}
		return m, true
	}
}

func ByName(name string, seed int64, fixedMinute int) (Strategy, error) {
	switch name {
	case "", constant.SynthStrategyNone:
		return None{}, nil
	case constant.SynthStrategyHashed:
		return Hashed{}, nil
	case constant.SynthStrategySeeded:
		return Seeded{Seed: seed}, nil
	case constant.SynthStrategyFixed:
		return FixedMinute{Minute: fixedMinute}, nil
	default:
		return nil, fmt.Errorf("synth: unknown strategy %q", name)
	}
}

// Synthesize builds one drain per ticket that names a cauldron and claims a non-negative
// amount: {cauldron, start, start+window, amount}. End minutes are capped at the last
// minute of the day.
func Synthesize(tickets []*model.Ticket, strategy Strategy, window int) []*model.DrainEvent {
	if window < 0 {
		window = 0
	}
	if window > constant.LastMinute {
		window = constant.LastMinute
	}
	latest := constant.LastMinute - window
	place := strategy.Placer()

	drains := make([]*model.DrainEvent, 0)
	for _, t := range tickets {
		if !t.CauldronID.Valid || t.CauldronID.String == "" || t.Amount < 0 {
			continue
		}
		start, ok := place(t, latest)
		if !ok {
			continue
		}
		end := start + window
		if end > constant.LastMinute {
			end = constant.LastMinute
		}
		drains = append(drains, &model.DrainEvent{
			CauldronID:    t.CauldronID.String,
			StartMin:      start,
			EndMin:        end,
			RemovedVolume: t.Amount,
			TicketID:      null.StringFrom(t.ID),
			Source:        constant.DrainSourceSynthesized,
		})
	}
	return drains
}
