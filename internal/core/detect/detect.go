// Package detect finds significant one-minute drops in reconstructed trajectories.
package detect

import (
	"fmt"
	"math"
	"sort"

	"potionportal.dev/backend/internal/constant"
	"potionportal.dev/backend/internal/model"
	"potionportal.dev/backend/internal/util"
)

// MagnitudePrecision is the number of decimals detected magnitudes are rounded to.
const MagnitudePrecision = 2

// ThresholdPolicy decides how large a one-minute drop must be to count as a drain.
type ThresholdPolicy interface {
	Threshold(cauldron *model.Cauldron) float64
}

// CapacityRelative scales the threshold with the cauldron size: max(Floor, Ratio*MaxVolume).
type CapacityRelative struct {
	Floor float64
	Ratio float64
}

func (p CapacityRelative) Threshold(cauldron *model.Cauldron) float64 {
	return math.Max(p.Floor, p.Ratio*cauldron.MaxVolume)
}

// Fixed applies the same threshold to every cauldron.
type Fixed struct {
	Value float64
}

func (p Fixed) Threshold(*model.Cauldron) float64 {
	return p.Value
}

// DefaultPolicy is max(5, 1% of capacity).
var DefaultPolicy ThresholdPolicy = CapacityRelative{Floor: 5, Ratio: 0.01}

// PolicyByName resolves a configured policy name.
func PolicyByName(name string, fixed, floor, ratio float64) (ThresholdPolicy, error) {
	switch name {
	case "", constant.ThresholdPolicyCapacity:
		return CapacityRelative{Floor: floor, Ratio: ratio}, nil
	case constant.ThresholdPolicyFixed:
		return Fixed{Value: fixed}, nil
	default:
		return nil, fmt.Errorf("detect: unknown threshold policy %q", name)
	}
}

type Detector struct {
	Policy ThresholdPolicy
}

func New(policy ThresholdPolicy) *Detector {
	if policy == nil {
		policy = DefaultPolicy
	}
	return &Detector{Policy: policy}
}

// Detect scans adjacent samples and reports every minute m where the drop from m-1 to m
// strictly exceeds the policy threshold. Results are in minute order.
func (d *Detector) Detect(cauldron *model.Cauldron, trajectory model.Trajectory) []*model.DetectedDrain {
	threshold := d.Policy.Threshold(cauldron)
	results := make([]*model.DetectedDrain, 0)
	for m := 1; m < trajectory.Len(); m++ {
		delta := trajectory.At(m-1) - trajectory.At(m)
		if delta > threshold {
			results = append(results, &model.DetectedDrain{
				CauldronID: cauldron.ID,
				Minute:     m,
				Magnitude:  util.RoundFloat64(delta, MagnitudePrecision),
			})
		}
	}
	return results
}

// DetectAll runs Detect for every cauldron having a trajectory and merges the results
// chronologically. Observations at the same minute keep the cauldron order.
func (d *Detector) DetectAll(cauldrons []*model.Cauldron, trajectories map[string]model.Trajectory) []*model.DetectedDrain {
	results := make([]*model.DetectedDrain, 0)
	for _, c := range cauldrons {
		traj, ok := trajectories[c.ID]
		if !ok {
			continue
		}
		results = append(results, d.Detect(c, traj)...)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Minute < results[j].Minute
	})
	return results
}
