package cli

import (
	"context"
	"os"

	"github.com/goccy/go-json"
	"go.uber.org/fx"

	"potionportal.dev/backend/internal/app"
	"potionportal.dev/backend/internal/app/appcontext"
)

// Start builds the CLI flavor of the application graph and starts it. module usually
// carries an fx.Populate for the dependencies a command needs.
func Start(ctx context.Context, module fx.Option) (stop func(), err error) {
	a := app.New(appcontext.Declare(appcontext.EnvCLI), module)
	if err := a.Start(ctx); err != nil {
		return nil, err
	}
	return func() { _ = a.Stop(context.Background()) }, nil
}

// Deps populates a fresh T from the CLI application graph.
func Deps[T any](ctx context.Context) (deps T, stop func(), err error) {
	stop, err = Start(ctx, fx.Populate(&deps))
	return deps, stop, err
}

func PrintJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = os.Stdout.Write(b)
	return err
}
