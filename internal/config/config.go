// Package config loads the compiler's user-adjustable capacity constants
// (spec §3, §7) from the environment, so a deployment can raise
// MAX_VARIABLES/MAX_ARRAY/etc. without a rebuild.
package config

import (
	"github.com/caarlos0/env/v6"

	"github.com/corvidhall/lscvm/lang/heap"
)

// Config mirrors heap.Limits with env struct tags. Unset variables fall
// back to the envDefault values, which equal the spec §3 defaults in
// heap.NewLimits.
type Config struct {
	MaxVariables        int `env:"LSCVM_MAX_VARIABLES" envDefault:"32"`
	VariableOffset      int `env:"LSCVM_VARIABLE_OFFSET" envDefault:"0"`
	MaxArray            int `env:"LSCVM_MAX_ARRAY" envDefault:"128"`
	ArrayOffset         int `env:"LSCVM_ARRAY_OFFSET" envDefault:"32"`
	FunctionOffsetStart int `env:"LSCVM_FUNCTION_OFFSET_START" envDefault:"10"`

	LogLevel string `env:"LSCVM_LOG_LEVEL" envDefault:"info"`
}

// Load reads Config from the process environment.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Limits converts c into a heap.Limits for use by lang/compiler.
func (c Config) Limits() heap.Limits {
	return heap.Limits{
		FunctionOffsetStart: c.FunctionOffsetStart,
		MaxVariables:        c.MaxVariables,
		VariableOffset:      c.VariableOffset,
		MaxArray:            c.MaxArray,
		ArrayOffset:         c.ArrayOffset,
	}
}
