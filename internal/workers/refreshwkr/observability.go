package refreshwkr

import (
	"time"

	"potionportal.dev/backend/internal/pkg/observability"
)

func observeRefreshDuration(f func() error) error {
	start := time.Now()
	defer func() {
		dur := time.Since(start)
		observability.WorkerRefreshDuration.Set(dur.Seconds())
	}()
	return f()
}
