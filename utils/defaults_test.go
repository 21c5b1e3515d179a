package utils

import (
	"gotest.tools/assert"
	"testing"
)

func TestStringOrDefault(t *testing.T) {
	assert.Equal(t, "sh", StringOrDefault("sh", "bash"))
	assert.Equal(t, "bash", StringOrDefault("", "bash"))
}

func TestIntOrDefault(t *testing.T) {
	assert.Equal(t, 16, IntOrDefault(16, 4096))
	assert.Equal(t, 4096, IntOrDefault(0, 4096))
}
