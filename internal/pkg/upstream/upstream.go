// Package upstream reads cauldron telemetry from the remote Information, Tickets and Data
// endpoints and turns it into dataset content.
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"potionportal.dev/backend/internal/app/appconfig"
	"potionportal.dev/backend/internal/model"
)

const (
	PathCauldrons = "/api/Information/cauldrons"
	PathNetwork   = "/api/Information/network"
	PathTickets   = "/api/Tickets"
	PathData      = "/api/Data"
)

var ErrCannotGetFromRemote = errors.New("cannot get from remote")

type Client struct {
	baseURL  string
	attempts uint
	delay    time.Duration

	client *http.Client
}

func New(conf *appconfig.Config) *Client {
	return NewClient(conf.UpstreamBaseURL, conf.UpstreamTimeout, conf.UpstreamRetryAttempts)
}

func NewClient(baseURL string, timeout time.Duration, attempts uint) *Client {
	if attempts == 0 {
		attempts = 1
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		attempts: attempts,
		delay:    200 * time.Millisecond,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get fetches path relative to the base URL. Transport errors and 5xx responses are
// retried; other non-200 responses fail immediately.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	u := c.baseURL + path

	var body []byte
	err := retry.Do(
		func() error {
			b, err := c.getOnce(ctx, u)
			if err != nil {
				return err
			}
			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().
				Str("evt.name", "upstream.retry").
				Str("url", u).
				Uint("attempt", n+1).
				Err(err).
				Msg("upstream request failed, retrying")
		}),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "upstream: GET %s", path)
	}
	return body, nil
}

func (c *Client) getOnce(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: status %d", ErrCannotGetFromRemote, res.StatusCode)
		if res.StatusCode < http.StatusInternalServerError {
			return nil, retry.Unrecoverable(err)
		}
		return nil, err
	}

	return io.ReadAll(res.Body)
}

// Fetch reads every endpoint concurrently. Cauldrons and tickets are required; the network
// and level history only enrich the result and are skipped with a warning when unavailable.
func (c *Client) Fetch(ctx context.Context) (*model.DatasetContent, error) {
	var (
		cauldronsRaw, networkRaw, ticketsRaw, dataRaw []byte
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cauldronsRaw, err = c.Get(gctx, PathCauldrons)
		return err
	})
	g.Go(func() (err error) {
		ticketsRaw, err = c.Get(gctx, PathTickets)
		return err
	})
	g.Go(func() error {
		b, err := c.Get(gctx, PathNetwork)
		if err != nil {
			log.Warn().Str("evt.name", "upstream.optional").Err(err).Msg("network topology unavailable, continuing without edges")
			return nil
		}
		networkRaw = b
		return nil
	})
	g.Go(func() error {
		b, err := c.Get(gctx, PathData)
		if err != nil {
			log.Warn().Str("evt.name", "upstream.optional").Err(err).Msg("level history unavailable, continuing without fill rates")
			return nil
		}
		dataRaw = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cauldrons, err := ParseCauldrons(cauldronsRaw)
	if err != nil {
		return nil, err
	}
	tickets, err := ParseTickets(ticketsRaw)
	if err != nil {
		return nil, err
	}

	edges := []*model.Edge{}
	if networkRaw != nil {
		if edges, err = ParseEdges(networkRaw); err != nil {
			log.Warn().Str("evt.name", "upstream.optional").Err(err).Msg("malformed network topology, continuing without edges")
			edges = []*model.Edge{}
		}
	}
	if dataRaw != nil {
		levels, err := ParseLevels(dataRaw)
		if err != nil {
			log.Warn().Str("evt.name", "upstream.optional").Err(err).Msg("malformed level history, continuing without fill rates")
		} else {
			levels.Apply(cauldrons)
		}
	}

	return &model.DatasetContent{
		Cauldrons: cauldrons,
		Edges:     edges,
		Drains:    []*model.DrainEvent{},
		Tickets:   tickets,
	}, nil
}
