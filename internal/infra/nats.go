package infra

import (
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"potionportal.dev/backend/internal/app/appconfig"
	"potionportal.dev/backend/internal/pkg/jetstream"
)

// NATS connects to the configured NATS server and ensures the alert stream exists. Both
// returned handles are nil when no NATS URL is configured.
func NATS(conf *appconfig.Config) (*nats.Conn, nats.JetStreamContext, error) {
	if conf.NatsURL == "" {
		log.Info().Str("evt.name", "infra.nats.disabled").Msg("NATS is disabled due to missing URL; alerts will only be logged")
		return nil, nil, nil
	}

	errorHandler := func(conn *nats.Conn, sub *nats.Subscription, err error) {
		evt := log.Error().
			Str("evt.name", "nats.error").
			Err(err).
			Str("conn.url", conn.ConnectedUrlRedacted())
		if sub != nil {
			evt = evt.Str("sub.subject", sub.Subject)
		}
		evt.Msg("nats error")
	}

	nc, err := nats.Connect(conf.NatsURL, nats.PingInterval(time.Second*20), nats.ErrorHandler(errorHandler))
	if err != nil {
		log.Error().Err(err).Msg("infra: nats: failed to connect to NATS")
		return nil, nil, err
	}

	js, err := nc.JetStream(nats.PublishAsyncMaxPending(128))
	if err != nil {
		log.Error().Err(err).Msg("infra: nats: failed to initialize NATS JetStream")
		return nil, nil, err
	}

	if _, err = js.AddStream(jetstream.AlertStream()); err != nil {
		log.Warn().Err(err).Msg("infra: nats: failed to create jetstream stream: is it already created?")
	}

	return nc, js, nil
}
