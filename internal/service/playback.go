package service

import (
	"sync"
	"time"

	"potionportal.dev/backend/internal/app/appconfig"
	"potionportal.dev/backend/internal/constant"
	"potionportal.dev/backend/internal/pkg/pperr"
)

type PlaybackState struct {
	Minute  int   `json:"minute"`
	Playing bool  `json:"playing"`
	TickMs  int64 `json:"tickMs"`
}

// Playback is the display cursor over the simulated day. It is independent of the data:
// moving it never triggers a recomputation.
type Playback struct {
	mu      sync.RWMutex
	minute  int
	playing bool

	tick time.Duration
}

func NewPlayback(conf *appconfig.Config) *Playback {
	return NewPlaybackWith(conf.PlaybackTick)
}

func NewPlaybackWith(tick time.Duration) *Playback {
	return &Playback{tick: tick}
}

func (p *Playback) Tick() time.Duration {
	return p.tick
}

func (p *Playback) State() PlaybackState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stateLocked()
}

func (p *Playback) stateLocked() PlaybackState {
	return PlaybackState{Minute: p.minute, Playing: p.playing, TickMs: p.tick.Milliseconds()}
}

func (p *Playback) update(f func()) PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	f()
	return p.stateLocked()
}

func (p *Playback) Play() PlaybackState {
	return p.update(func() { p.playing = true })
}

func (p *Playback) Pause() PlaybackState {
	return p.update(func() { p.playing = false })
}

func (p *Playback) Toggle() PlaybackState {
	return p.update(func() { p.playing = !p.playing })
}

// Reset stops playback and rewinds to minute zero.
func (p *Playback) Reset() PlaybackState {
	return p.update(func() {
		p.playing = false
		p.minute = 0
	})
}

// Seek moves the cursor without changing whether it plays.
func (p *Playback) Seek(minute int) (PlaybackState, error) {
	if minute < 0 || minute > constant.LastMinute {
		return PlaybackState{}, pperr.ErrInvalidReq.Msg("minute %d is outside the day [0, %d]", minute, constant.LastMinute)
	}
	return p.update(func() { p.minute = minute }), nil
}

// Advance moves a playing cursor one minute forward, wrapping at the end of the day.
// It reports whether the cursor moved.
func (p *Playback) Advance() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return false
	}
	p.minute = (p.minute + 1) % constant.MinutesPerDay
	return true
}
