// Package config holds per-invocation settings shared by the CLI commands.
package config

import (
	"os"

	"github.com/mattn/go-isatty"
)

// Config holds all application configuration settings. The command layer
// binds flags into it; ResolveColors finishes it off once flags are parsed.
type Config struct {
	// Directory settings
	Dir string

	// Logging settings
	Verbose  bool
	Quiet    bool
	LogLevel string
	NoColor  bool

	// Computed from NoColor and terminal detection
	UseColors bool

	// Scan settings
	NoGitignore    bool
	IgnorePatterns []string
	Lenient        bool

	// Output settings
	JSONOutput  bool
	ShowSkipped bool
}

// New creates a Config with defaults; flag binding fills the rest.
func New() *Config {
	return &Config{
		Dir:      ".",
		LogLevel: "INFO",
	}
}

// ResolveColors determines whether colors should be used, from the
// --no-color flag and whether stderr is a terminal.
func (c *Config) ResolveColors() {
	c.UseColors = !c.NoColor && isatty.IsTerminal(os.Stderr.Fd())
}
