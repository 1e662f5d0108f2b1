package v1

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"potionportal.dev/backend/internal/model"
	"potionportal.dev/backend/internal/pkg/cachectrl"
	"potionportal.dev/backend/internal/pkg/flog"
	"potionportal.dev/backend/internal/server/svr"
	"potionportal.dev/backend/internal/service"
)

type Dataset struct {
	fx.In

	DatasetService  *service.Dataset
	RefreshService  *service.Refresh
	PipelineService *service.Pipeline
	PlaybackService *service.Playback
}

func RegisterDataset(v1 *svr.V1, c Dataset) {
	v1.Get("/dataset", c.GetDataset)
	v1.Post("/dataset", c.UploadDataset)
	v1.Post("/dataset/reset", c.ResetDataset)
	v1.Post("/dataset/refresh", c.RefreshDataset)

	v1.Get("/status", c.GetStatus)
}

type DatasetInfo struct {
	Version   string    `json:"version"`
	Origin    string    `json:"origin"`
	LoadedAt  time.Time `json:"loadedAt"`
	Cauldrons int       `json:"cauldrons"`
	Edges     int       `json:"edges"`
	Drains    int       `json:"drains"`
	Tickets   int       `json:"tickets"`
}

func datasetInfo(d *model.Dataset) *DatasetInfo {
	return &DatasetInfo{
		Version:   d.Version,
		Origin:    d.Origin,
		LoadedAt:  d.LoadedAt,
		Cauldrons: len(d.Cauldrons),
		Edges:     len(d.Edges),
		Drains:    len(d.Drains),
		Tickets:   len(d.Tickets),
	}
}

// GetDataset returns the dataset currently in use, as it would be uploaded.
func (c *Dataset) GetDataset(ctx *fiber.Ctx) error {
	d := c.DatasetService.Current()
	cachectrl.Versioned(ctx, d.Version, d.LoadedAt)

	return ctx.JSON(d)
}

// UploadDataset merges a partial dataset document into the current one. Lists absent
// from the document are kept. The playback cursor rewinds to minute zero.
func (c *Dataset) UploadDataset(ctx *fiber.Ctx) error {
	d, err := c.DatasetService.Upload(ctx.Body())
	if err != nil {
		return err
	}
	c.PlaybackService.Reset()
	flog.InfoFrom(ctx).
		Str("evt.name", "dataset.uploaded").
		Str("version", d.Version).
		Msg("dataset uploaded")

	return ctx.JSON(datasetInfo(d))
}

func (c *Dataset) ResetDataset(ctx *fiber.Ctx) error {
	d, err := c.DatasetService.Reset()
	if err != nil {
		return err
	}
	c.PlaybackService.Reset()

	return ctx.JSON(datasetInfo(d))
}

func (c *Dataset) RefreshDataset(ctx *fiber.Ctx) error {
	d, err := c.RefreshService.Refresh(ctx.UserContext())
	if err != nil {
		return err
	}
	c.PlaybackService.Reset()

	return ctx.JSON(datasetInfo(d))
}

func (c *Dataset) GetStatus(ctx *fiber.Ctx) error {
	d, snapshot, err := c.PipelineService.Current(ctx.UserContext())
	if err != nil {
		return err
	}
	cachectrl.OptOut(ctx)

	return ctx.JSON(fiber.Map{
		"dataset":  datasetInfo(d),
		"summary":  snapshot.Summary,
		"refresh":  c.RefreshService.Status(),
		"playback": c.PlaybackService.State(),
	})
}
