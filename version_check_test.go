package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVersion(t *testing.T) {
	assert.Equal(t, "1.2.3", normalizeVersion("v1.2.3"))
	assert.Equal(t, "1.2.3", normalizeVersion(" 1.2.3 "))
	assert.Equal(t, "dev", normalizeVersion("dev"))
}

func TestIsNewerVersion(t *testing.T) {
	assert.True(t, isNewerVersion("1.1.0", "1.0.0"))
	assert.True(t, isNewerVersion("v2.0.0", "1.9.9"))
	assert.False(t, isNewerVersion("1.0.0", "1.0.0"))
	assert.False(t, isNewerVersion("1.0.0", "1.1.0"))
}
