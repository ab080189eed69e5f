package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xll-gen/webtoc/internal/codec"
	"github.com/xll-gen/webtoc/internal/emitter"
)

// Config represents the configuration structure parsed from webtoc.yaml.
type Config struct {
	// Emit controls encoding and formatting of the array literal.
	Emit EmitConfig `yaml:"emit"`
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`
}

// EmitConfig configures how a file is encoded and printed.
type EmitConfig struct {
	// Compress selects the compressed encoding instead of a NUL-terminated copy.
	Compress bool `yaml:"compress"`
	// Codec is the compression codec used when Compress is set (gzip, zstd).
	Codec string `yaml:"codec"`
	// Level is the compression level. 0 selects the codec default.
	Level int `yaml:"level"`
	// Width is the number of values per output line.
	Width int `yaml:"width"`
	// Prefix is prepended to the declared name.
	Prefix *string `yaml:"prefix"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level"`
	// Path is the log file path. Empty logs to stderr.
	Path string `yaml:"path"`
}

// Load reads and decodes the YAML file at path. Unknown keys are rejected.
// Defaults are not applied.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// An empty file means "all defaults".
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyDefaults sets default values for configuration fields that are missing.
//
// Parameters:
//   - config: The Config object to modify.
func ApplyDefaults(config *Config) {
	if config.Emit.Codec == "" {
		config.Emit.Codec = codec.NameGzip
	}
	if config.Emit.Width == 0 {
		config.Emit.Width = emitter.DefaultWidth
	}
	if config.Emit.Prefix == nil {
		p := emitter.DefaultPrefix
		config.Emit.Prefix = &p
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
}

// Validate checks the configuration for errors, such as an unknown codec or a
// level the codec does not accept.
//
// Parameters:
//   - config: The Config object to validate.
//
// Returns:
//   - error: An error if the configuration is invalid, or nil otherwise.
func Validate(config *Config) error {
	// Codec and level only matter when compressing.
	if config.Emit.Compress {
		switch strings.ToLower(config.Emit.Codec) {
		case codec.NameGzip, codec.NameZstd:
			// ok
		default:
			return fmt.Errorf("invalid codec: %s (allowed: %s, %s)", config.Emit.Codec, codec.NameGzip, codec.NameZstd)
		}

		if err := codec.ValidLevel(config.Emit.Codec, config.Emit.Level); err != nil {
			return err
		}
	}

	if config.Emit.Width < 1 {
		return fmt.Errorf("invalid width: %d (must be at least 1)", config.Emit.Width)
	}

	if config.Emit.Prefix != nil && !isIdentifier(*config.Emit.Prefix) {
		return fmt.Errorf("invalid prefix: %q (must be a C identifier prefix)", *config.Emit.Prefix)
	}

	if config.Logging.Level != "" {
		switch strings.ToLower(config.Logging.Level) {
		case "debug", "info", "warn", "error":
			// ok
		default:
			return fmt.Errorf("invalid logging level: %s (allowed: debug, info, warn, error)", config.Logging.Level)
		}
	}

	return nil
}

// Encoder returns the encoder selected by the emit settings.
func (c *Config) Encoder() (codec.Encoder, error) {
	if !c.Emit.Compress {
		return codec.Raw{}, nil
	}
	return codec.Lookup(c.Emit.Codec, c.Emit.Level)
}

// EmitterOptions returns the formatting options selected by the emit settings.
func (c *Config) EmitterOptions() emitter.Options {
	opts := emitter.Options{Prefix: emitter.DefaultPrefix, Width: c.Emit.Width}
	if c.Emit.Prefix != nil {
		opts.Prefix = *c.Emit.Prefix
	}
	return opts
}

// isIdentifier reports whether s consists of letters, digits and underscores
// and does not start with a digit. The empty string is accepted.
func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
