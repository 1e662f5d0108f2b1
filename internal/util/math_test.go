package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundFloat64(t *testing.T) {
	assert.Equal(t, 24.4, RoundFloat64(24.400000000000006, 2))
	assert.Equal(t, 1.24, RoundFloat64(1.2449, 2))
	assert.Equal(t, 1.25, RoundFloat64(1.245001, 2))
	assert.Equal(t, 100.0, RoundFloat64(100, 2))
	assert.Equal(t, -3.5, RoundFloat64(-3.499999, 2))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 10))
	assert.Equal(t, 10.0, Clamp(11, 0, 10))
	assert.Equal(t, 5.5, Clamp(5.5, 0, 10))
}
