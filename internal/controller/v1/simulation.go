package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"go.uber.org/fx"

	"potionportal.dev/backend/internal/model"
	"potionportal.dev/backend/internal/pkg/cachectrl"
	"potionportal.dev/backend/internal/pkg/pperr"
	"potionportal.dev/backend/internal/server/svr"
	"potionportal.dev/backend/internal/service"
	"potionportal.dev/backend/internal/util/rekuest"
)

type Simulation struct {
	fx.In

	PipelineService *service.Pipeline
	PlaybackService *service.Playback
}

func RegisterSimulation(v1 *svr.V1, c Simulation) {
	v1.Get("/cauldrons", c.GetCauldrons)
	v1.Get("/cauldrons/:cauldronId", c.GetCauldron)
	v1.Get("/network", c.GetNetwork)

	v1.Get("/trajectories", c.GetTrajectories)
	v1.Get("/trajectories/:cauldronId", c.GetTrajectory)
	v1.Get("/levels", c.GetLevels)

	v1.Get("/drains/declared", c.GetDeclaredDrains)
	v1.Get("/drains/detected", c.GetDetectedDrains)
	v1.Get("/matches", c.GetMatches)
}

func (c *Simulation) current(ctx *fiber.Ctx) (*model.Dataset, *model.Snapshot, error) {
	d, snapshot, err := c.PipelineService.Current(ctx.UserContext())
	if err != nil {
		return nil, nil, err
	}
	cachectrl.Versioned(ctx, snapshot.DatasetVersion, d.LoadedAt)
	return d, snapshot, nil
}

func (c *Simulation) GetCauldrons(ctx *fiber.Ctx) error {
	d, _, err := c.current(ctx)
	if err != nil {
		return err
	}

	return ctx.JSON(d.Cauldrons)
}

// GetCauldron returns one cauldron with its drains, the tickets attributed to it and its
// level at the playback cursor. Market nodes carry no level.
func (c *Simulation) GetCauldron(ctx *fiber.Ctx) error {
	id := ctx.Params("cauldronId")
	d, snapshot, err := c.PipelineService.Current(ctx.UserContext())
	if err != nil {
		return err
	}
	cauldron, ok := d.CauldronByID(id)
	if !ok {
		return pperr.ErrNotFound.Msg("cauldron %q not found", id)
	}
	cachectrl.OptOut(ctx)

	var level *model.Level
	minute := c.PlaybackService.State().Minute
	if !cauldron.IsMarket() {
		level, _ = lo.Find(service.Levels(d, snapshot, minute), func(l *model.Level) bool {
			return l.CauldronID == id
		})
	}

	return ctx.JSON(fiber.Map{
		"cauldron": cauldron,
		"level":    level,
		"declaredDrains": lo.Filter(d.Drains, func(e *model.DrainEvent, _ int) bool {
			return e.CauldronID == id
		}),
		"detectedDrains": lo.Filter(snapshot.DetectedDrains, func(e *model.DetectedDrain, _ int) bool {
			return e.CauldronID == id
		}),
		"matches": lo.Filter(snapshot.Matches, func(m *model.MatchResult, _ int) bool {
			return m.Ticket.CauldronID.Valid && m.Ticket.CauldronID.String == id
		}),
	})
}

func (c *Simulation) GetNetwork(ctx *fiber.Ctx) error {
	d, _, err := c.current(ctx)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"cauldrons": d.Cauldrons,
		"edges":     d.Edges,
	})
}

func (c *Simulation) GetTrajectories(ctx *fiber.Ctx) error {
	_, snapshot, err := c.current(ctx)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"datasetVersion": snapshot.DatasetVersion,
		"cauldronIds":    snapshot.CauldronIDs,
		"trajectories":   snapshot.Trajectories,
	})
}

func (c *Simulation) GetTrajectory(ctx *fiber.Ctx) error {
	id := ctx.Params("cauldronId")
	_, snapshot, err := c.current(ctx)
	if err != nil {
		return err
	}
	trajectory, ok := snapshot.Trajectories[id]
	if !ok {
		return pperr.ErrNotFound.Msg("no trajectory for cauldron %q", id)
	}

	return ctx.JSON(fiber.Map{
		"cauldronId": id,
		"samples":    trajectory,
	})
}

// GetLevels reports every cauldron's level at the minute query parameter, or at the
// playback cursor when it is absent.
func (c *Simulation) GetLevels(ctx *fiber.Ctx) error {
	minute, ok, err := rekuest.ValidMinute(ctx, "minute")
	if err != nil {
		return err
	}
	if !ok {
		minute = c.PlaybackService.State().Minute
	}

	d, snapshot, err := c.PipelineService.Current(ctx.UserContext())
	if err != nil {
		return err
	}
	cachectrl.OptOut(ctx)

	return ctx.JSON(fiber.Map{
		"datasetVersion": snapshot.DatasetVersion,
		"minute":         minute,
		"levels":         service.Levels(d, snapshot, minute),
	})
}

func (c *Simulation) GetDeclaredDrains(ctx *fiber.Ctx) error {
	d, _, err := c.current(ctx)
	if err != nil {
		return err
	}

	return ctx.JSON(d.Drains)
}

func (c *Simulation) GetDetectedDrains(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 0)
	if err := rekuest.ValidVar(limit, "gte=0"); err != nil {
		return err
	}

	_, snapshot, err := c.current(ctx)
	if err != nil {
		return err
	}

	drains := snapshot.DetectedDrains
	if limit > 0 && limit < len(drains) {
		drains = drains[:limit]
	}
	return ctx.JSON(drains)
}

// GetMatches lists one reconciliation result per ticket. The suspicious query parameter,
// when given, keeps only tickets with that flag.
func (c *Simulation) GetMatches(ctx *fiber.Ctx) error {
	filter := ctx.Query("suspicious")
	if err := rekuest.ValidVar(filter, "omitempty,oneof=true false"); err != nil {
		return err
	}

	_, snapshot, err := c.current(ctx)
	if err != nil {
		return err
	}

	matches := snapshot.Matches
	if filter != "" {
		want := filter == "true"
		matches = lo.Filter(matches, func(m *model.MatchResult, _ int) bool {
			return m.Suspicious == want
		})
	}
	return ctx.JSON(matches)
}
