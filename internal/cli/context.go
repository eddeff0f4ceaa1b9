package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/cbourjau/cargo-with/internal/config"
	"github.com/cbourjau/cargo-with/internal/project"
)

// loadProjectConfig discovers the crate the working directory belongs to and
// returns its configuration. Not being inside a crate is fine (cargo may be
// pointed elsewhere via --manifest-path, and will complain itself if not); a
// config file that exists but is broken is a hard error.
func loadProjectConfig() (config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	proj, err := project.Discover(wd)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			return config.Default(), nil
		}
		return config.Config{}, err
	}
	return proj.Config, nil
}

// resolveAlias swaps a bare alias name for its configured command template.
// Anything containing whitespace is already a template, never an alias.
func resolveAlias(cfg config.Config, raw string) string {
	if strings.ContainsAny(raw, " \t") {
		return raw
	}
	if command, ok := cfg.Resolve(raw); ok {
		return command
	}
	return raw
}
