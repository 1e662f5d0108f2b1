package service

import (
	"go.uber.org/fx"

	"potionportal.dev/backend/internal/pkg/upstream"
)

func Module() fx.Option {
	return fx.Module("service", fx.Provide(
		upstream.New,
		NewAlert,
		NewHealth,
		NewDataset,
		NewRefresh,
		NewPipeline,
		NewPlayback,
	))
}
