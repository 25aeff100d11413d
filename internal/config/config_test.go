package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"LSCVM_MAX_VARIABLES", "LSCVM_VARIABLE_OFFSET", "LSCVM_MAX_ARRAY",
		"LSCVM_ARRAY_OFFSET", "LSCVM_FUNCTION_OFFSET_START", "LSCVM_LOG_LEVEL",
	} {
		os.Unsetenv(key)
	}

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 32, c.MaxVariables)
	assert.Equal(t, 0, c.VariableOffset)
	assert.Equal(t, 128, c.MaxArray)
	assert.Equal(t, 32, c.ArrayOffset)
	assert.Equal(t, 10, c.FunctionOffsetStart)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadOverride(t *testing.T) {
	os.Setenv("LSCVM_MAX_VARIABLES", "64")
	defer os.Unsetenv("LSCVM_MAX_VARIABLES")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 64, c.MaxVariables)
}

func TestLimitsConversion(t *testing.T) {
	c := Config{MaxVariables: 10, VariableOffset: 1, MaxArray: 20, ArrayOffset: 11, FunctionOffsetStart: 5}
	lim := c.Limits()
	assert.Equal(t, 10, lim.MaxVariables)
	assert.Equal(t, 1, lim.VariableOffset)
	assert.Equal(t, 20, lim.MaxArray)
	assert.Equal(t, 11, lim.ArrayOffset)
	assert.Equal(t, 5, lim.FunctionOffsetStart)
}
