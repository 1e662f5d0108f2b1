package service

import (
	"fmt"
	"strconv"

	"github.com/zeebo/xxh3"

	"potionportal.dev/backend/internal/app/appconfig"
	"potionportal.dev/backend/internal/constant"
	"potionportal.dev/backend/internal/core/detect"
	"potionportal.dev/backend/internal/core/reconcile"
)

// EngineOptions are the tunables of the detect and reconcile stages. Two pipelines with
// equal options produce equal snapshots for equal datasets.
type EngineOptions struct {
	ThresholdPolicy string
	FixedThreshold  float64
	DetectFloor     float64
	DetectRatio     float64

	MatchMode      string
	SuspicionFloor float64
	SuspicionRatio float64
}

func EngineOptionsFromConfig(conf *appconfig.Config) EngineOptions {
	return EngineOptions{
		ThresholdPolicy: conf.DetectThresholdPolicy,
		FixedThreshold:  conf.DetectFixedThreshold,
		DetectFloor:     conf.DetectFloor,
		DetectRatio:     conf.DetectCapacityRatio,
		MatchMode:       conf.MatchMode,
		SuspicionFloor:  conf.SuspicionFloor,
		SuspicionRatio:  conf.SuspicionRatio,
	}
}

// DefaultEngineOptions are the canonical thresholds: max(5, 1% capacity) for detection,
// max(20, 10% of the candidate) for suspicion, loose matching.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		ThresholdPolicy: constant.ThresholdPolicyCapacity,
		FixedThreshold:  5,
		DetectFloor:     5,
		DetectRatio:     0.01,
		MatchMode:       constant.MatchModeLoose,
		SuspicionFloor:  reconcile.DefaultTolerance.Floor,
		SuspicionRatio:  reconcile.DefaultTolerance.Ratio,
	}
}

func (o EngineOptions) Fingerprint() string {
	return strconv.FormatUint(xxh3.HashString(fmt.Sprintf("%+v", o)), 16)
}

func (o EngineOptions) build() (*detect.Detector, *reconcile.Reconciler, error) {
	policy, err := detect.PolicyByName(o.ThresholdPolicy, o.FixedThreshold, o.DetectFloor, o.DetectRatio)
	if err != nil {
		return nil, nil, err
	}
	reconciler, err := reconcile.New(o.MatchMode, reconcile.Tolerance{Floor: o.SuspicionFloor, Ratio: o.SuspicionRatio})
	if err != nil {
		return nil, nil, err
	}
	return detect.New(policy), reconciler, nil
}
