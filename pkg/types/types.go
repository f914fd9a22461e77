package types

import (
	"fmt"
	"time"
)

// Dialect settings for standard_conforming_strings
const (
	DialectAuto = "auto" // ask the server, fall back to on
	DialectOn   = "on"
	DialectOff  = "off"
)

// Config holds runtime configuration combining flags, environment variables, config file and defaults
type Config struct {
	// PostgreSQL connection
	ConnectionString string

	// Scanning
	StandardConformingStrings string // auto, on or off
	StripComments             bool   // Remove comments from printed statements
	KeepEmpty                 bool   // Print statements that are empty once comments are removed

	// Execution
	Timeout           time.Duration // Per-statement timeout
	Parallelism       int           // Max concurrent files (1 = sequential)
	SingleTransaction bool          // Run each file in one transaction
	TempDatabase      bool          // Run each file in its own scratch database

	// Output
	Format  string // text or json
	Output  string // Output path (- for stdout)
	Verbose bool   // Enable debug logging
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks that every configuration value is usable
func (c *Config) Validate() error {
	switch c.StandardConformingStrings {
	case DialectAuto, DialectOn, DialectOff:
	default:
		return &ConfigError{Field: "standard-conforming-strings", Message: fmt.Sprintf("%q (want auto, on or off)", c.StandardConformingStrings)}
	}
	if c.Timeout < 0 {
		return &ConfigError{Field: "timeout", Message: "must not be negative"}
	}
	if c.Parallelism < 1 {
		return &ConfigError{Field: "parallel", Message: fmt.Sprintf("%d (must be at least 1)", c.Parallelism)}
	}
	switch c.Format {
	case "text", "json":
	default:
		return &ConfigError{Field: "format", Message: fmt.Sprintf("%q (want text or json)", c.Format)}
	}
	return nil
}

// Dialect resolves the standard_conforming_strings setting when it does not
// depend on a server. The second result is false for auto.
func (c *Config) Dialect() (standardConformingStrings bool, known bool) {
	switch c.StandardConformingStrings {
	case DialectOn:
		return true, true
	case DialectOff:
		return false, true
	default:
		return true, false
	}
}
