package model

import (
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/zeebo/xxh3"
)

// DatasetContent is the raw input of the simulation: the shape accepted by uploads and
// produced by the upstream adapter.
type DatasetContent struct {
	Cauldrons []*Cauldron   `json:"cauldrons" validate:"dive,required"`
	Edges     []*Edge       `json:"edges" validate:"dive,required"`
	Drains    []*DrainEvent `json:"drains" validate:"dive,required"`
	Tickets   []*Ticket     `json:"tickets" validate:"dive,required"`
}

// Dataset is an immutable, versioned DatasetContent. A refresh or upload never mutates a
// Dataset; it builds a new one and swaps it in.
type Dataset struct {
	DatasetContent

	// Version is the xxh3 digest of the canonical JSON encoding of the content. Two
	// datasets with equal content share a version, which keys pipeline memoization.
	Version  string    `json:"version"`
	Origin   string    `json:"origin"`
	LoadedAt time.Time `json:"loadedAt"`
}

func NewDataset(content DatasetContent, origin string, loadedAt time.Time) (*Dataset, error) {
	var cp DatasetContent
	if err := copier.CopyWithOption(&cp, &content, copier.Option{DeepCopy: true}); err != nil {
		return nil, errors.Wrap(err, "failed to copy dataset content")
	}
	cp.normalize()

	version, err := cp.Fingerprint()
	if err != nil {
		return nil, err
	}

	return &Dataset{
		DatasetContent: cp,
		Version:        version,
		Origin:         origin,
		LoadedAt:       loadedAt,
	}, nil
}

func (c *DatasetContent) normalize() {
	if c.Cauldrons == nil {
		c.Cauldrons = []*Cauldron{}
	}
	if c.Edges == nil {
		c.Edges = []*Edge{}
	}
	if c.Drains == nil {
		c.Drains = []*DrainEvent{}
	}
	if c.Tickets == nil {
		c.Tickets = []*Ticket{}
	}
}

// Fingerprint hashes the canonical JSON encoding of the content.
func (c *DatasetContent) Fingerprint() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode dataset content")
	}
	return strconv.FormatUint(xxh3.Hash(b), 16), nil
}

// DuplicateIDs lists the cauldron and ticket ids that appear more than once, each
// reported once in first-seen order. Every element must be non-nil.
func (c *DatasetContent) DuplicateIDs() (cauldrons []string, tickets []string) {
	cauldrons = lo.Map(lo.FindDuplicatesBy(c.Cauldrons, func(v *Cauldron) string { return v.ID }),
		func(v *Cauldron, _ int) string { return v.ID })
	tickets = lo.Map(lo.FindDuplicatesBy(c.Tickets, func(v *Ticket) string { return v.ID }),
		func(v *Ticket, _ int) string { return v.ID })
	return cauldrons, tickets
}

// Merge returns the content of c with every non-nil list of patch replacing the
// corresponding list. Lists absent from the patch keep their current value.
func (c DatasetContent) Merge(patch *DatasetContent) DatasetContent {
	if patch.Cauldrons != nil {
		c.Cauldrons = patch.Cauldrons
	}
	if patch.Edges != nil {
		c.Edges = patch.Edges
	}
	if patch.Drains != nil {
		c.Drains = patch.Drains
	}
	if patch.Tickets != nil {
		c.Tickets = patch.Tickets
	}
	return c
}

func (d *Dataset) CauldronByID(id string) (*Cauldron, bool) {
	for _, c := range d.Cauldrons {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// SimulatedCauldrons lists the cauldrons that get a trajectory, in dataset order.
func (d *Dataset) SimulatedCauldrons() []*Cauldron {
	cauldrons := make([]*Cauldron, 0, len(d.Cauldrons))
	for _, c := range d.Cauldrons {
		if c.IsMarket() {
			continue
		}
		cauldrons = append(cauldrons, c)
	}
	return cauldrons
}
