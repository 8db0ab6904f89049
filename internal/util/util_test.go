package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	base := errors.New("boom")
	wrapped := WrapError("open config", base)
	assert.EqualError(t, wrapped, "failed to open config: boom")
	assert.ErrorIs(t, wrapped, base)

	assert.Nil(t, WrapError("anything", nil))
}

func TestIsConfigured(t *testing.T) {
	assert.True(t, IsConfigured("a", "b"))
	assert.False(t, IsConfigured("a", ""))
	assert.True(t, IsConfigured())
}

func TestValidatePort(t *testing.T) {
	assert.Nil(t, ValidatePort("port", 8080))
	assert.NotNil(t, ValidatePort("port", 0))
	assert.NotNil(t, ValidatePort("port", 70000))
}

func TestFormatHumanTime(t *testing.T) {
	assert.Equal(t, "unknown", FormatHumanTime("unknown"))
	assert.NotEmpty(t, FormatHumanTime("2026-01-02T15:04:05Z"))
}
