package model

import (
	"fmt"

	"github.com/goccy/go-json"

	"potionportal.dev/backend/internal/constant"
)

// Trajectory is the minute-by-minute volume history of one cauldron over the fixed
// 24-hour horizon. It is read-only once built.
type Trajectory struct {
	samples []float64
}

// NewTrajectory copies samples into a Trajectory. It panics unless exactly one sample per
// minute-of-day is given.
func NewTrajectory(samples []float64) Trajectory {
	if len(samples) != constant.MinutesPerDay {
		panic(fmt.Sprintf("model: trajectory needs %d samples, got %d", constant.MinutesPerDay, len(samples)))
	}
	cp := make([]float64, len(samples))
	copy(cp, samples)
	return Trajectory{samples: cp}
}

// At returns the sample for minute m. Minutes outside [0, 1439] are a contract violation
// and panic.
func (t Trajectory) At(m int) float64 {
	if m < 0 || m >= len(t.samples) {
		panic(fmt.Sprintf("model: minute %d out of trajectory bounds [0, %d)", m, len(t.samples)))
	}
	return t.samples[m]
}

func (t Trajectory) Len() int {
	return len(t.samples)
}

// Samples returns a copy of the underlying samples.
func (t Trajectory) Samples() []float64 {
	cp := make([]float64, len(t.samples))
	copy(cp, t.samples)
	return cp
}

func (t Trajectory) MarshalJSON() ([]byte, error) {
	if t.samples == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.samples)
}
