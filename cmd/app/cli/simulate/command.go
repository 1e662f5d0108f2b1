package simulate

import (
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "potionportal.dev/backend/cmd/app/cli"
	"potionportal.dev/backend/internal/constant"
	"potionportal.dev/backend/internal/model"
	"potionportal.dev/backend/internal/service"
	"potionportal.dev/backend/internal/util/rekuest"
)

type CommandDeps struct {
	fx.In

	DatasetService  *service.Dataset
	PipelineService *service.Pipeline
}

type Result struct {
	DatasetVersion string                 `json:"datasetVersion"`
	Summary        model.SnapshotSummary  `json:"summary"`
	DetectedDrains []*model.DetectedDrain `json:"detectedDrains"`
	Matches        []*model.MatchResult   `json:"matches"`
	Levels         []*model.Level         `json:"levels,omitempty"`
}

func Command() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "run the reconstruct, detect and reconcile pipeline offline and print the result as JSON",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "dataset document to merge onto the demo dataset; lists it omits are kept",
			},
			&cli.IntFlag{
				Name:  "minute",
				Usage: "also report every cauldron's level at this minute of day",
				Value: -1,
			},
		},
		Action: func(c *cli.Context) error {
			minute := c.Int("minute")
			if minute != -1 {
				if err := rekuest.ValidVar(minute, "gte=0,lte="+constant.LastMinuteString); err != nil {
					return err
				}
			}

			deps, stop, err := cliapp.Deps[CommandDeps](c.Context)
			if err != nil {
				return err
			}
			defer stop()

			if path := c.Path("file"); path != "" {
				raw, err := os.ReadFile(path)
				if err != nil {
					return errors.Wrap(err, "failed to read dataset file")
				}
				if _, err := deps.DatasetService.Upload(raw); err != nil {
					return err
				}
			}

			d, snapshot, err := deps.PipelineService.Current(c.Context)
			if err != nil {
				return err
			}

			result := &Result{
				DatasetVersion: snapshot.DatasetVersion,
				Summary:        snapshot.Summary,
				DetectedDrains: snapshot.DetectedDrains,
				Matches:        snapshot.Matches,
			}
			if minute != -1 {
				result.Levels = service.Levels(d, snapshot, minute)
			}
			return cliapp.PrintJSON(result)
		},
	}
}
