package model

import (
	"gopkg.in/guregu/null.v3"
)

type Ticket struct {
	ID         string      `json:"id" validate:"required" msgpack:"id"`
	Date       string      `json:"date" msgpack:"date"`
	Amount     float64     `json:"amount" msgpack:"amount"`
	CauldronID null.String `json:"cauldronId" msgpack:"cauldronId"`
	CourierID  null.String `json:"courierId" msgpack:"courierId"`
}

// Candidate is one entry of the reconciliation pool: either a declared drain or a detected
// drain, reduced to the amount tickets are compared against.
type Candidate struct {
	Kind       string         `json:"kind"`
	CauldronID string         `json:"cauldronId"`
	Amount     float64        `json:"amount"`
	Declared   *DrainEvent    `json:"declared,omitempty"`
	Detected   *DetectedDrain `json:"detected,omitempty"`
}

type MatchResult struct {
	Ticket    *Ticket    `json:"ticket"`
	Candidate *Candidate `json:"candidate"`

	// Difference is the absolute amount difference rounded to 2 decimals. It is null when
	// the candidate pool was empty, which stands for an infinite difference.
	Difference null.Float `json:"difference"`
	Suspicious bool       `json:"suspicious"`
}

func (r *MatchResult) Matched() bool {
	return r.Candidate != nil
}
