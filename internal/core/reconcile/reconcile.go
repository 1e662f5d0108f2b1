// Package reconcile pairs ticket records with the drain whose amount is closest to the
// ticket's claim and flags tickets whose best match is still too far off.
package reconcile

import (
	"fmt"
	"math"

	"gopkg.in/guregu/null.v3"

	"potionportal.dev/backend/internal/constant"
	"potionportal.dev/backend/internal/model"
	"potionportal.dev/backend/internal/util"
)

// DifferencePrecision is the number of decimals reported differences are rounded to.
const DifferencePrecision = 2

// Tolerance is the largest difference a match may have before its ticket is suspicious:
// max(Floor, Ratio*candidateAmount).
type Tolerance struct {
	Floor float64
	Ratio float64
}

func (t Tolerance) Allowed(candidateAmount float64) float64 {
	return math.Max(t.Floor, t.Ratio*candidateAmount)
}

var DefaultTolerance = Tolerance{Floor: 20, Ratio: 0.1}

type Reconciler struct {
	// Mode is constant.MatchModeLoose to compare every ticket with every candidate, or
	// constant.MatchModeStrict to restrict tickets that name a cauldron to that cauldron's
	// candidates.
	Mode      string
	Tolerance Tolerance
}

func New(mode string, tolerance Tolerance) (*Reconciler, error) {
	switch mode {
	case "":
		mode = constant.MatchModeLoose
	case constant.MatchModeLoose, constant.MatchModeStrict:
	default:
		return nil, fmt.Errorf("reconcile: unknown match mode %q", mode)
	}
	return &Reconciler{Mode: mode, Tolerance: tolerance}, nil
}

func Default() *Reconciler {
	return &Reconciler{Mode: constant.MatchModeLoose, Tolerance: DefaultTolerance}
}

// Candidates builds the pool: declared drains first, then detected drains, each list in
// its own order. That order decides ties.
func Candidates(declared []*model.DrainEvent, detected []*model.DetectedDrain) []*model.Candidate {
	pool := make([]*model.Candidate, 0, len(declared)+len(detected))
	for _, d := range declared {
		pool = append(pool, &model.Candidate{
			Kind:       constant.CandidateKindDeclared,
			CauldronID: d.CauldronID,
			Amount:     d.RemovedVolume,
			Declared:   d,
		})
	}
	for _, d := range detected {
		pool = append(pool, &model.Candidate{
			Kind:       constant.CandidateKindDetected,
			CauldronID: d.CauldronID,
			Amount:     d.Magnitude,
			Detected:   d,
		})
	}
	return pool
}

// Reconcile returns one MatchResult per ticket, in ticket order.
func (r *Reconciler) Reconcile(tickets []*model.Ticket, declared []*model.DrainEvent, detected []*model.DetectedDrain) []*model.MatchResult {
	pool := Candidates(declared, detected)
	results := make([]*model.MatchResult, 0, len(tickets))
	for _, t := range tickets {
		results = append(results, r.Match(t, pool))
	}
	return results
}

// Match picks the candidate minimizing |amount - ticket.Amount|; the first one wins a tie.
// The ticket is suspicious iff that difference strictly exceeds the tolerance allowed for
// the chosen candidate. An empty pool yields an infinite difference and no candidate.
func (r *Reconciler) Match(ticket *model.Ticket, pool []*model.Candidate) *model.MatchResult {
	var best *model.Candidate
	bestDiff := math.Inf(1)
	for _, c := range pool {
		if !r.eligible(ticket, c) {
			continue
		}
		diff := math.Abs(c.Amount - ticket.Amount)
		if diff < bestDiff {
			bestDiff = diff
			best = c
		}
	}

	result := &model.MatchResult{Ticket: ticket, Candidate: best}
	if best == nil {
		result.Suspicious = true
		return result
	}
	result.Difference = null.FloatFrom(util.RoundFloat64(bestDiff, DifferencePrecision))
	result.Suspicious = bestDiff > r.Tolerance.Allowed(best.Amount)
	return result
}

func (r *Reconciler) eligible(ticket *model.Ticket, c *model.Candidate) bool {
	// an empty cauldron id names no cauldron
	if r.Mode != constant.MatchModeStrict || ticket.CauldronID.String == "" {
		return true
	}
	return ticket.CauldronID.String == c.CauldronID
}
