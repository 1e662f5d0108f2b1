package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"potionportal.dev/backend/internal/constant"
	"potionportal.dev/backend/internal/model"
	"potionportal.dev/backend/internal/pkg/pperr"
	"potionportal.dev/backend/internal/util/rekuest"
)

// Dataset holds the dataset every read is served from. Readers never block; writers
// build a complete new dataset and swap it in.
type Dataset struct {
	current atomic.Pointer[model.Dataset]

	// wmu serializes read-modify-write updates such as partial uploads
	wmu sync.Mutex

	now func() time.Time
}

func NewDataset() (*Dataset, error) {
	s := &Dataset{now: time.Now}
	if _, err := s.Reset(); err != nil {
		return nil, errors.Wrap(err, "failed to load demo dataset")
	}
	return s, nil
}

func (s *Dataset) Current() *model.Dataset {
	return s.current.Load()
}

// Replace validates content and swaps it in as a new dataset of the given origin.
func (s *Dataset) Replace(content model.DatasetContent, origin string) (*model.Dataset, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	return s.replaceLocked(content, origin)
}

func (s *Dataset) replaceLocked(content model.DatasetContent, origin string) (*model.Dataset, error) {
	if err := rekuest.ValidStruct(&content); err != nil {
		return nil, err
	}
	if cauldrons, tickets := content.DuplicateIDs(); len(cauldrons) > 0 || len(tickets) > 0 {
		return nil, pperr.NewInvalidViolations(map[string][]string{
			"duplicateCauldronIds": cauldrons,
			"duplicateTicketIds":   tickets,
		})
	}

	d, err := model.NewDataset(content, origin, s.now())
	if err != nil {
		return nil, err
	}

	prev := s.current.Swap(d)
	evt := log.Info().
		Str("evt.name", "dataset.replaced").
		Str("origin", origin).
		Str("version", d.Version).
		Int("cauldrons", len(d.Cauldrons)).
		Int("drains", len(d.Drains)).
		Int("tickets", len(d.Tickets))
	if prev != nil {
		evt = evt.Str("previousVersion", prev.Version)
	}
	evt.Msg("dataset replaced")

	return d, nil
}

// Upload merges a JSON document of the form {cauldrons?, edges?, drains?, tickets?} into
// the current dataset. Lists that are absent or null keep their current value. Nothing
// changes when the document is malformed or any value is invalid.
func (s *Dataset) Upload(raw []byte) (*model.Dataset, error) {
	var patch model.DatasetContent
	if err := json.Unmarshal(raw, &patch); err != nil {
		return nil, pperr.ErrInvalidReq.Msg("invalid dataset document: %s", err)
	}
	for _, d := range patch.Drains {
		if d != nil && d.Source == "" {
			d.Source = constant.DrainSourceDeclared
		}
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	merged := s.current.Load().DatasetContent.Merge(&patch)
	return s.replaceLocked(merged, constant.DatasetOriginUpload)
}

// Reset restores the built-in sample day.
func (s *Dataset) Reset() (*model.Dataset, error) {
	return s.Replace(model.DemoContent(), constant.DatasetOriginDemo)
}
