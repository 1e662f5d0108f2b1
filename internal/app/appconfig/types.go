package appconfig

import (
	"fmt"

	"github.com/samber/lo"

	"potionportal.dev/backend/internal/constant"
)

var (
	thresholdPolicies = []string{constant.ThresholdPolicyCapacity, constant.ThresholdPolicyFixed}
	matchModes        = []string{constant.MatchModeLoose, constant.MatchModeStrict}
	synthStrategies   = []string{constant.SynthStrategyNone, constant.SynthStrategyHashed, constant.SynthStrategySeeded, constant.SynthStrategyFixed}
)

// Validate rejects enumerated options that envconfig cannot check by itself.
func (c *ConfigSpec) Validate() error {
	if !lo.Contains(thresholdPolicies, c.DetectThresholdPolicy) {
		return fmt.Errorf("invalid DetectThresholdPolicy %q: expect one of %v", c.DetectThresholdPolicy, thresholdPolicies)
	}
	if !lo.Contains(matchModes, c.MatchMode) {
		return fmt.Errorf("invalid MatchMode %q: expect one of %v", c.MatchMode, matchModes)
	}
	if !lo.Contains(synthStrategies, c.SynthStrategy) {
		return fmt.Errorf("invalid SynthStrategy %q: expect one of %v", c.SynthStrategy, synthStrategies)
	}
	if c.SynthWindow < 0 || c.SynthWindow > constant.LastMinute {
		return fmt.Errorf("invalid SynthWindow %d: expect a value within [0, %d]", c.SynthWindow, constant.LastMinute)
	}
	if c.PlaybackTick <= 0 {
		return fmt.Errorf("invalid PlaybackTick %s: must be positive", c.PlaybackTick)
	}
	return nil
}
