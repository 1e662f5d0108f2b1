package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"potionportal.dev/backend/cmd/app/cli/fetch"
	"potionportal.dev/backend/cmd/app/cli/simulate"
	"potionportal.dev/backend/cmd/app/server"
	"potionportal.dev/backend/internal/pkg/bininfo"
)

func Run() {
	app := &cli.App{
		Name:        "portal",
		Description: "Potion Portal backend. Reconstructs cauldron level histories, detects drains and reconciles transport tickets. Built with Go, fiber and go.uber.org/fx. Uses NATS for alerts and Redis for refresh coordination.",
		Version:     bininfo.Version,
		Commands: []*cli.Command{
			server.Command(),
			simulate.Command(),
			fetch.Command(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run app")
	}
}
