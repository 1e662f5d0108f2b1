package rekuest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"potionportal.dev/backend/internal/model"
	"potionportal.dev/backend/internal/pkg/pperr"
)

func TestValidStructReportsWireNames(t *testing.T) {
	err := ValidStruct(&model.Cauldron{ID: "c1", MaxVolume: 0, InitialVolume: null.FloatFrom(-1)})
	require.Error(t, err)

	var pe *pperr.PortalError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, pperr.CodeInvalidRequest, pe.ErrorCode)

	violations := (*pe.Extras)["violations"].([]*ErrorResponse)
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
		assert.NotEmpty(t, v.Message)
	}
	assert.ElementsMatch(t, []string{"Cauldron.maxVolume", "Cauldron.initialVolume"}, fields)
}

func TestValidStructDrainWindow(t *testing.T) {
	assert.NoError(t, ValidStruct(&model.DrainEvent{CauldronID: "c1", StartMin: 0, EndMin: 1439, RemovedVolume: 0}))
	assert.Error(t, ValidStruct(&model.DrainEvent{CauldronID: "c1", StartMin: 0, EndMin: 1440, RemovedVolume: 1}))
	assert.Error(t, ValidStruct(&model.DrainEvent{CauldronID: "c1", StartMin: 10, EndMin: 20, RemovedVolume: -5}))
}

func TestValidStructDivesIntoDataset(t *testing.T) {
	content := &model.DatasetContent{
		Cauldrons: []*model.Cauldron{{ID: "c1", MaxVolume: 100}, {ID: "", MaxVolume: 100}},
	}
	assert.Error(t, ValidStruct(content))

	content.Cauldrons[1].ID = "c2"
	assert.NoError(t, ValidStruct(content))
}

func TestValidVar(t *testing.T) {
	assert.NoError(t, ValidVar(0, "gte=0,lte=1439"))
	assert.Error(t, ValidVar(1440, "gte=0,lte=1439"))
}
