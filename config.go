package restep

import (
	"fmt"
	"io"
	"os"

	"github.com/coregx/restep/literal"
	"github.com/coregx/restep/nfa"
)

// Config controls compilation and session behavior.
//
// Example:
//
//	config := restep.DefaultConfig()
//	config.Verbose = true
//	re, err := restep.CompileWithConfig("(a|b)*c", config)
type Config struct {
	// Verbose enables a trace of every pipeline stage.
	// Default: false
	Verbose bool

	// LogOutput receives the verbose trace.
	// Default: os.Stderr
	LogOutput io.Writer

	// MaxNodes limits the size of the automaton.
	// Default: 10000
	MaxNodes int

	// HistoryLimit caps the number of steps a Session keeps; older steps
	// are discarded first. Zero keeps every step.
	// Default: 1000
	HistoryLimit int

	// EnablePrefilter lets a Session skip start positions where no literal
	// prefix of the pattern occurs.
	// Default: true
	EnablePrefilter bool

	// MaxLiterals limits the number of prefix literals to extract.
	// Default: 64
	MaxLiterals int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Verbose:         false,
		LogOutput:       os.Stderr,
		MaxNodes:        nfa.DefaultCompilerConfig().MaxNodes,
		HistoryLimit:    1000,
		EnablePrefilter: true,
		MaxLiterals:     literal.DefaultConfig().MaxLiterals,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if err := (nfa.CompilerConfig{MaxNodes: c.MaxNodes}).Validate(); err != nil {
		return &ConfigError{Field: "MaxNodes", Message: err.Error()}
	}
	if c.HistoryLimit < 0 {
		return &ConfigError{
			Field:   "HistoryLimit",
			Message: fmt.Sprintf("must be >= 0, got %d", c.HistoryLimit),
		}
	}
	if c.EnablePrefilter && c.MaxLiterals < 1 {
		return &ConfigError{
			Field:   "MaxLiterals",
			Message: fmt.Sprintf("must be >= 1 when the prefilter is enabled, got %d", c.MaxLiterals),
		}
	}
	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "restep: invalid config: " + e.Field + ": " + e.Message
}

// Unwrap returns ErrInvalidConfig.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
