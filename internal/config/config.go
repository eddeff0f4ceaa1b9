package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the user editable settings stored in .cargo-with.toml next
// to the crate's Cargo.toml. Everything in it is optional sugar; a crate
// without the file behaves identically to one with an empty config.
type Config struct {
	Alias map[string]string `toml:"alias"`
	Cargo CargoBlock        `toml:"cargo"`
}

// CargoBlock adjusts how the build subcommand is invoked.
type CargoBlock struct {
	// ExtraArgs are inserted into every cargo invocation, before the
	// arguments the user wrote. Useful for crate-wide settings such as
	// --features or --target-dir.
	ExtraArgs []string `toml:"extra-args"`
}

var (
	// ErrEmptyAlias indicates an alias that expands to nothing.
	ErrEmptyAlias = errors.New("config alias must not be empty")
	// ErrBadAliasName indicates an alias name that could never match a
	// single command argument.
	ErrBadAliasName = errors.New("config alias name must not contain whitespace")
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{}
}

func (c *Config) applyDefaults() {
	for name, command := range c.Alias {
		c.Alias[name] = strings.TrimSpace(command)
	}
}

// Validate ensures every alias could plausibly be resolved and expanded.
func (c Config) Validate() error {
	for name, command := range c.Alias {
		if strings.ContainsAny(name, " \t") {
			return fmt.Errorf("%w: %q", ErrBadAliasName, name)
		}
		if command == "" {
			return fmt.Errorf("%w: alias.%s", ErrEmptyAlias, name)
		}
	}
	return nil
}

// Resolve returns the command template an alias stands for, if one is
// configured.
func (c Config) Resolve(name string) (string, bool) {
	command, ok := c.Alias[name]
	return command, ok
}

// Load reads configuration from disk. Missing files return a default config;
// files that exist but do not parse or validate are hard errors, never
// silently ignored.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}
