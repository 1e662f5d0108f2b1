package fetch

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "potionportal.dev/backend/cmd/app/cli"
	"potionportal.dev/backend/internal/service"
)

type CommandDeps struct {
	fx.In

	RefreshService *service.Refresh
}

func Command() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "fetch the dataset from the upstream source and print it as JSON",
		Action: func(c *cli.Context) error {
			deps, stop, err := cliapp.Deps[CommandDeps](c.Context)
			if err != nil {
				return err
			}
			defer stop()

			d, err := deps.RefreshService.Refresh(c.Context)
			if err != nil {
				return err
			}
			return cliapp.PrintJSON(d)
		},
	}
}
