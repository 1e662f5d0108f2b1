package pperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImmutable(t *testing.T) {
	e := New(400, CodeInvalidRequest, "invalid request: some or all request parameters are invalid")
	changedE := e.Msg("%s", "changed")
	assert.NotEqual(t, "changed", e.Message)
	assert.Equal(t, "changed", changedE.Message)

	withExtras := e.WithExtras(Extras{"minute": 1500})
	assert.Nil(t, e.Extras)
	assert.Equal(t, 1500, (*withExtras.Extras)["minute"])
}

func TestInvalidViolations(t *testing.T) {
	e := NewInvalidViolations([]string{"maxVolume"})
	assert.Equal(t, CodeInvalidRequest, e.ErrorCode)
	assert.Equal(t, 400, e.StatusCode)
	assert.Nil(t, ErrInvalidReq.Extras)
}

func TestErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("refresh: %w", ErrUpstreamUnavailable.Msg("cauldrons: status 503"))

	var e *PortalError
	assert.True(t, errors.As(wrapped, &e))
	assert.Equal(t, 502, e.StatusCode)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE: cauldrons: status 503", e.Error())
}
