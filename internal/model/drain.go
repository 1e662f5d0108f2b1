package model

import (
	"gopkg.in/guregu/null.v3"
)

// DrainEvent removes RemovedVolume from a cauldron, spread uniformly over every minute of
// the inclusive window [StartMin, EndMin].
type DrainEvent struct {
	CauldronID    string  `json:"cauldronId" validate:"required"`
	StartMin      int     `json:"startMin" validate:"gte=0,lte=1439"`
	EndMin        int     `json:"endMin" validate:"gte=0,lte=1439"`
	RemovedVolume float64 `json:"removedVolume" validate:"gte=0"`

	// TicketID is set on drains synthesized from a ticket record.
	TicketID null.String `json:"ticketId"`
	Source   string      `json:"source,omitempty"`
}

// Covers reports whether minute m lies within the inclusive drain window. A window with
// StartMin > EndMin covers no minute at all.
func (d *DrainEvent) Covers(m int) bool {
	return m >= d.StartMin && m <= d.EndMin
}

// PerMinute is the volume removed in each covered minute.
func (d *DrainEvent) PerMinute() float64 {
	return d.RemovedVolume / float64(d.EndMin-d.StartMin+1)
}

// DetectedDrain is a drop inferred purely from trajectory deltas.
type DetectedDrain struct {
	CauldronID string  `json:"cauldronId" msgpack:"cauldronId"`
	Minute     int     `json:"minute" msgpack:"minute"`
	Magnitude  float64 `json:"magnitude" msgpack:"magnitude"`
}
