// Package history reconstructs minute-resolution volume trajectories from a cauldron's
// fill rate and its sparse drain events.
package history

import (
	"potionportal.dev/backend/internal/constant"
	"potionportal.dev/backend/internal/model"
	"potionportal.dev/backend/internal/util"
)

// InitialVolume is the volume a cauldron starts the day with: its own seed when known,
// half of its capacity otherwise.
func InitialVolume(cauldron *model.Cauldron) float64 {
	if cauldron.InitialVolume.Valid {
		return cauldron.InitialVolume.Float64
	}
	return cauldron.MaxVolume * constant.DefaultSeedPct
}

// Reconstruct integrates fill and drains minute by minute over the whole day.
//
// Each minute first adds the fill rate, then subtracts the per-minute share of every drain
// of this cauldron whose inclusive window covers the minute. The running volume is clamped
// to [0, MaxVolume] once per minute, after all of that minute's updates, and the clamped
// value is carried forward. Drains belonging to other cauldrons are ignored, and drains
// with StartMin > EndMin cover no minute so they remove nothing.
func Reconstruct(cauldron *model.Cauldron, drains []*model.DrainEvent, initialVolume float64) model.Trajectory {
	own := make([]*model.DrainEvent, 0, len(drains))
	for _, d := range drains {
		if d.CauldronID == cauldron.ID && d.StartMin <= d.EndMin {
			own = append(own, d)
		}
	}

	samples := make([]float64, constant.MinutesPerDay)
	cur := initialVolume
	for m := 0; m < constant.MinutesPerDay; m++ {
		cur += cauldron.FillRatePerMin
		for _, d := range own {
			if d.Covers(m) {
				cur -= d.PerMinute()
			}
		}
		cur = util.Clamp(cur, 0, cauldron.MaxVolume)
		samples[m] = cur
	}

	return model.NewTrajectory(samples)
}

// ReconstructAll builds trajectories for every simulated cauldron of the dataset, keyed by
// cauldron id.
func ReconstructAll(dataset *model.Dataset) map[string]model.Trajectory {
	trajectories := make(map[string]model.Trajectory, len(dataset.Cauldrons))
	for _, c := range dataset.SimulatedCauldrons() {
		trajectories[c.ID] = Reconstruct(c, dataset.Drains, InitialVolume(c))
	}
	return trajectories
}
