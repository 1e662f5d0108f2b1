package model

import (
	"gopkg.in/guregu/null.v3"

	"potionportal.dev/backend/internal/constant"
)

type Cauldron struct {
	ID             string  `json:"id" validate:"required"`
	Name           string  `json:"name"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	MaxVolume      float64 `json:"maxVolume" validate:"gt=0"`
	FillRatePerMin float64 `json:"fillRatePerMin"`

	// InitialVolume is the container-specific seed volume at minute zero. Upstream data
	// fills it from the first level snapshot; when absent the reconstructor starts at
	// half capacity.
	InitialVolume null.Float `json:"initialVolume" validate:"omitempty,gte=0"`

	// Kind is empty for regular cauldrons. Market nodes are carried for the network view
	// but never simulated.
	Kind string `json:"kind,omitempty"`
}

func (c *Cauldron) IsMarket() bool {
	return c.Kind == constant.MarketKind || c.ID == constant.MarketNodeID
}

type Edge struct {
	From      string  `json:"from" validate:"required"`
	To        string  `json:"to" validate:"required"`
	TravelMin float64 `json:"travelMin" validate:"gte=0"`
}
