package appconfig

import (
	"time"

	"potionportal.dev/backend/internal/app/appcontext"
)

type ConfigSpec struct {
	// ServiceAddress is the listen address would listen on for serving normal service requests.
	ServiceAddress string `required:"true" split_words:"true" default:"localhost:9010"`

	// LogJsonStdout is whether to log JSON logs (instead of pretty-print logs) to stdout for the ease of log collection.
	LogJsonStdout bool `split_words:"true" default:"false"`

	// LogFile is the path of the rotated log file. Leaving this empty disables file logging.
	LogFile string `split_words:"true" default:"logs/app.log"`

	// LogFileMaxSizeMB is the size in megabytes at which the log file is rotated.
	LogFileMaxSizeMB int `split_words:"true" default:"100"`

	// TrustedProxies is a list of trusted proxies that are trusted to report a real IP via the X-Forwarded-For header.
	TrustedProxies []string `required:"true" split_words:"true" default:"::1,127.0.0.1,10.0.0.0/8"`

	// DevMode to indicate development mode. When true, the program would spin up utilities for debugging and
	// provide a more contextual message when encountered a panic. See internal/server/httpserver/http.go for the
	// actual implementation details.
	DevMode bool `split_words:"true"`

	// infrastructure components connection instructions

	// NatsURL is the URL of the NATS server. Leaving this empty disables alert publishing, alerts are then only logged.
	// See https://pkg.go.dev/github.com/nats-io/nats.go#Connect for more information on how to construct a NATS URL.
	NatsURL string `split_words:"true"`

	// RedisURL is the URL of the Redis server. When set, dataset refreshes are serialized across replicas with a
	// distributed lock. See https://pkg.go.dev/github.com/redis/go-redis/v9#ParseURL.
	RedisURL string `split_words:"true"`

	// SentryDSN is the DSN of the Sentry server. See https://pkg.go.dev/github.com/getsentry/sentry-go#ClientOptions
	SentryDSN string `split_words:"true"`

	// AdminKey is the bearer key required by the admin API. Leaving this empty leaves the admin API open.
	AdminKey string `split_words:"true"`

	// HTTPServerShutdownTimeout is the timeout for the HTTP server to shut down gracefully.
	HTTPServerShutdownTimeout time.Duration `required:"true" split_words:"true" default:"60s"`

	// upstream data source

	// UpstreamBaseURL is the base URL of the cauldron telemetry API.
	UpstreamBaseURL string `split_words:"true" default:"https://hackutd2025.eog.systems"`

	// UpstreamTimeout is the timeout of every single upstream request.
	UpstreamTimeout time.Duration `split_words:"true" default:"10s"`

	// UpstreamRetryAttempts is the number of attempts made for each upstream request.
	UpstreamRetryAttempts uint `split_words:"true" default:"3"`

	// RefreshInterval describes the interval in-between scheduled upstream refreshes. Zero disables the worker.
	RefreshInterval time.Duration `split_words:"true" default:"0"`

	// PlaybackTick is the wall-clock duration of one simulated minute while playing.
	PlaybackTick time.Duration `split_words:"true" default:"66ms"`

	// engine options

	// DetectThresholdPolicy selects the drain detection threshold: capacity or fixed.
	DetectThresholdPolicy string `split_words:"true" default:"capacity"`

	// DetectFixedThreshold is the flat threshold used by the fixed policy.
	DetectFixedThreshold float64 `split_words:"true" default:"5"`

	// DetectFloor and DetectCapacityRatio define the capacity policy threshold max(floor, ratio*maxVolume).
	DetectFloor         float64 `split_words:"true" default:"5"`
	DetectCapacityRatio float64 `split_words:"true" default:"0.01"`

	// MatchMode selects the reconciliation candidate pool: loose or strict.
	MatchMode string `split_words:"true" default:"loose"`

	// SuspicionFloor and SuspicionRatio define the allowed difference max(floor, ratio*candidateAmount).
	SuspicionFloor float64 `split_words:"true" default:"20"`
	SuspicionRatio float64 `split_words:"true" default:"0.1"`

	// SynthStrategy selects how upstream tickets are turned into drains: none, hashed, seeded or fixed.
	SynthStrategy string `split_words:"true" default:"none"`

	SynthSeed        int64 `split_words:"true" default:"1"`
	SynthFixedMinute int   `split_words:"true" default:"720"`
	SynthWindow      int   `split_words:"true" default:"15"`

	// SnapshotTTL is how long a computed snapshot stays cached for a dataset version.
	SnapshotTTL time.Duration `split_words:"true" default:"1h"`

	// AlertRule is an expr expression evaluated against every match result after a recompute.
	// Results for which it yields true are published as alerts.
	// See https://expr-lang.org/docs/language-definition for the syntax.
	AlertRule string `split_words:"true" default:"suspicious"`
}

type Config struct {
	// ConfigSpec is the configuration specification injected to the config.
	ConfigSpec

	// AppContext is the application context
	AppContext appcontext.Ctx
}
