package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"potionportal.dev/backend/internal/constant"
	"potionportal.dev/backend/internal/model"
	"potionportal.dev/backend/internal/pkg/pperr"
)

func newDatasets(t *testing.T) *Dataset {
	t.Helper()
	s, err := NewDataset()
	require.NoError(t, err)
	return s
}

func TestDatasetLoadsDemo(t *testing.T) {
	s := newDatasets(t)
	d := s.Current()

	assert.Equal(t, constant.DatasetOriginDemo, d.Origin)
	assert.Len(t, d.Cauldrons, 4)
	assert.Len(t, d.Edges, 6)
	assert.Len(t, d.Drains, 3)
	assert.Len(t, d.Tickets, 3)
	assert.NotEmpty(t, d.Version)
}

func TestDatasetUploadMergesPartialDocument(t *testing.T) {
	s := newDatasets(t)
	before := s.Current()

	d, err := s.Upload([]byte(`{"tickets":[{"id":"x1","date":"2025-11-08","amount":10}],"drains":null}`))
	require.NoError(t, err)

	assert.Equal(t, constant.DatasetOriginUpload, d.Origin)
	assert.NotEqual(t, before.Version, d.Version)
	assert.Equal(t, before.Cauldrons, d.Cauldrons)
	assert.Equal(t, before.Drains, d.Drains)
	require.Len(t, d.Tickets, 1)
	assert.Equal(t, "x1", d.Tickets[0].ID)
	assert.Same(t, d, s.Current())
}

func TestDatasetUploadDefaultsDrainSource(t *testing.T) {
	s := newDatasets(t)
	d, err := s.Upload([]byte(`{"drains":[{"cauldronId":"c1","startMin":10,"endMin":12,"removedVolume":30}]}`))
	require.NoError(t, err)
	require.Len(t, d.Drains, 1)
	assert.Equal(t, constant.DrainSourceDeclared, d.Drains[0].Source)
}

func TestDatasetUploadRejectsWithoutChange(t *testing.T) {
	cases := map[string]string{
		"malformed":          `{"cauldrons": [`,
		"not an object":      `[1,2,3]`,
		"zero capacity":      `{"cauldrons":[{"id":"c9","maxVolume":0}]}`,
		"minute overrun":     `{"drains":[{"cauldronId":"c1","startMin":10,"endMin":1440,"removedVolume":5}]}`,
		"negative drain":     `{"drains":[{"cauldronId":"c1","startMin":10,"endMin":20,"removedVolume":-5}]}`,
		"missing id":         `{"tickets":[{"date":"2025-11-08","amount":5}]}`,
		"null cauldron":      `{"cauldrons":[null]}`,
		"duplicate cauldron": `{"cauldrons":[{"id":"c1","maxVolume":1000,"initialVolume":500},{"id":"c1","maxVolume":1000,"initialVolume":500}]}`,
		"duplicate ticket":   `{"tickets":[{"id":"t1","date":"2025-11-08","amount":5},{"id":"t1","date":"2025-11-08","amount":7}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			s := newDatasets(t)
			before := s.Current()

			_, err := s.Upload([]byte(doc))
			require.Error(t, err)

			var pe *pperr.PortalError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, pperr.CodeInvalidRequest, pe.ErrorCode)
			assert.Same(t, before, s.Current())
		})
	}
}

func TestDatasetReplaceRejectsDuplicateIDs(t *testing.T) {
	s := newDatasets(t)
	before := s.Current()

	content := before.DatasetContent
	content.Cauldrons = append([]*model.Cauldron{}, before.Cauldrons...)
	content.Cauldrons = append(content.Cauldrons, before.Cauldrons[0])

	_, err := s.Replace(content, constant.DatasetOriginUpstream)
	var pe *pperr.PortalError
	require.True(t, errors.As(err, &pe))
	require.NotNil(t, pe.Extras)
	assert.Equal(t, []string{before.Cauldrons[0].ID}, (*pe.Extras)["violations"].(map[string][]string)["duplicateCauldronIds"])
	assert.Same(t, before, s.Current())
}

func TestDatasetResetRestoresDemo(t *testing.T) {
	s := newDatasets(t)
	demo := s.Current()

	_, err := s.Upload([]byte(`{"tickets":[]}`))
	require.NoError(t, err)
	assert.NotEqual(t, demo.Version, s.Current().Version)

	d, err := s.Reset()
	require.NoError(t, err)
	assert.Equal(t, demo.Version, d.Version)
	assert.Equal(t, constant.DatasetOriginDemo, d.Origin)
}
