package model

import "time"

// Snapshot is everything the presentation layer consumes for one dataset version.
type Snapshot struct {
	DatasetVersion string    `json:"datasetVersion"`
	ComputedAt     time.Time `json:"computedAt"`

	// CauldronIDs lists simulated cauldrons in dataset order; Trajectories is keyed by them.
	CauldronIDs    []string              `json:"cauldronIds"`
	Trajectories   map[string]Trajectory `json:"trajectories"`
	DetectedDrains []*DetectedDrain      `json:"detectedDrains"`
	Matches        []*MatchResult        `json:"matches"`
	Summary        SnapshotSummary       `json:"summary"`
}

type SnapshotSummary struct {
	Cauldrons      int `json:"cauldrons"`
	DetectedDrains int `json:"detectedDrains"`
	Tickets        int `json:"tickets"`
	Matched        int `json:"matched"`
	Suspicious     int `json:"suspicious"`
}

// Level is one cauldron's volume at a given minute.
type Level struct {
	CauldronID string  `json:"cauldronId"`
	Name       string  `json:"name"`
	Minute     int     `json:"minute"`
	Volume     float64 `json:"volume"`
	MaxVolume  float64 `json:"maxVolume"`
	Percent    float64 `json:"percent"`
}
