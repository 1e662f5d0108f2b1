package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"

	"potionportal.dev/backend/internal/app/appconfig"
	"potionportal.dev/backend/internal/constant"
	"potionportal.dev/backend/internal/model"
	"potionportal.dev/backend/internal/pkg/jetstream"
	"potionportal.dev/backend/internal/pkg/observability"
)

// TicketAlert is the message published for a match result selected by the alert rule.
type TicketAlert struct {
	// ID identifies this raise of the alert. Redelivery deduplication uses the message id
	// instead, which is stable per dataset version and ticket.
	ID             string        `msgpack:"id"`
	DatasetVersion string        `msgpack:"datasetVersion"`
	Ticket         *model.Ticket `msgpack:"ticket"`

	CandidateKind       string  `msgpack:"candidateKind,omitempty"`
	CandidateCauldronID string  `msgpack:"candidateCauldronId,omitempty"`
	CandidateAmount     float64 `msgpack:"candidateAmount"`

	// Difference is nil when there was no candidate at all.
	Difference *float64 `msgpack:"difference"`
	Suspicious bool     `msgpack:"suspicious"`

	RaisedAt time.Time `msgpack:"raisedAt"`
}

// Alert selects match results with an expr rule and publishes them to JetStream. Without
// a JetStream context alerts are only logged.
type Alert struct {
	rule    string
	program *vm.Program
	js      nats.JetStreamContext
}

func alertEnv(r *model.MatchResult) map[string]any {
	difference := math.Inf(1)
	if r.Difference.Valid {
		difference = r.Difference.Float64
	}
	env := map[string]any{
		"ticket":     r.Ticket,
		"amount":     r.Ticket.Amount,
		"difference": difference,
		"suspicious": r.Suspicious,
		"matched":    r.Matched(),
		"cauldronId": "",
		"candidate":  0.0,
	}
	if r.Candidate != nil {
		env["cauldronId"] = r.Candidate.CauldronID
		env["candidate"] = r.Candidate.Amount
	}
	return env
}

func NewAlert(conf *appconfig.Config, js nats.JetStreamContext) (*Alert, error) {
	return NewAlertWith(conf.AlertRule, js)
}

func NewAlertWith(rule string, js nats.JetStreamContext) (*Alert, error) {
	program, err := expr.Compile(rule, expr.Env(alertEnv(&model.MatchResult{Ticket: &model.Ticket{}})), expr.AsBool())
	if err != nil {
		return nil, errors.Wrapf(err, "invalid alert rule %q", rule)
	}
	return &Alert{rule: rule, program: program, js: js}, nil
}

// Select returns the match results the rule yields true for, in input order.
func (s *Alert) Select(matches []*model.MatchResult) ([]*model.MatchResult, error) {
	selected := make([]*model.MatchResult, 0)
	for _, m := range matches {
		out, err := expr.Run(s.program, alertEnv(m))
		if err != nil {
			return nil, errors.Wrapf(err, "alert rule failed for ticket %s", m.Ticket.ID)
		}
		if out.(bool) {
			selected = append(selected, m)
		}
	}
	return selected, nil
}

func newTicketAlert(version string, r *model.MatchResult, at time.Time) *TicketAlert {
	a := &TicketAlert{
		ID:             strings.ToLower(ulid.Make().String()),
		DatasetVersion: version,
		Ticket:         r.Ticket,
		Suspicious:     r.Suspicious,
		RaisedAt:       at,
	}
	if r.Candidate != nil {
		a.CandidateKind = r.Candidate.Kind
		a.CandidateCauldronID = r.Candidate.CauldronID
		a.CandidateAmount = r.Candidate.Amount
	}
	if r.Difference.Valid {
		d := r.Difference.Float64
		a.Difference = &d
	}
	return a
}

// Dispatch raises alerts for a freshly computed snapshot. Failures are logged and never
// fail the computation.
func (s *Alert) Dispatch(ctx context.Context, snapshot *model.Snapshot) {
	selected, err := s.Select(snapshot.Matches)
	if err != nil {
		log.Error().Err(err).Str("evt.name", "alert.rule").Str("rule", s.rule).Msg("failed to evaluate alert rule")
		return
	}

	for _, m := range selected {
		alert := newTicketAlert(snapshot.DatasetVersion, m, snapshot.ComputedAt)
		if s.js == nil {
			log.Warn().
				Str("evt.name", "alert.raised").
				Str("alertId", alert.ID).
				Str("ticketId", m.Ticket.ID).
				Float64("amount", m.Ticket.Amount).
				Bool("suspicious", m.Suspicious).
				Msg("ticket alert")
			observability.AlertsPublished.WithLabelValues("log").Inc()
			continue
		}

		if err := s.publish(ctx, alert); err != nil {
			log.Error().Err(err).Str("evt.name", "alert.publish").Str("ticketId", m.Ticket.ID).Msg("failed to publish ticket alert")
			continue
		}
		observability.AlertsPublished.WithLabelValues("nats").Inc()
	}
}

func (s *Alert) publish(ctx context.Context, alert *TicketAlert) error {
	b, err := msgpack.Marshal(alert)
	if err != nil {
		return errors.Wrap(err, "failed to encode alert")
	}
	_, err = s.js.Publish(constant.AlertSubjectSuspicious, b,
		nats.Context(ctx),
		nats.MsgId(jetstream.MessageID(alert.DatasetVersion, alert.Ticket.ID)),
	)
	return err
}
