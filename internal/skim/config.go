package skim

// Config controls a transformation. Zero value is not useful; use
// DefaultConfig or WithMode.
type Config struct {
	// Mode selects the transformation strategy.
	Mode Mode

	// PreserveComments keeps structural comments (doc comments,
	// docstrings) in structure mode output.
	PreserveComments bool
}

// DefaultConfig returns the default configuration: structure mode with
// comments preserved.
func DefaultConfig() *Config {
	return &Config{
		Mode:             ModeStructure,
		PreserveComments: true,
	}
}

// WithMode returns a default configuration with the given mode.
func WithMode(mode Mode) *Config {
	cfg := DefaultConfig()
	cfg.Mode = mode
	return cfg
}

// SetPreserveComments sets comment preservation and returns the config for
// chaining.
func (c *Config) SetPreserveComments(preserve bool) *Config {
	c.PreserveComments = preserve
	return c
}
