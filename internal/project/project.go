package project

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/cbourjau/cargo-with/internal/config"
)

// ConfigFileName is the optional per-crate configuration file, looked up next
// to Cargo.toml.
const ConfigFileName = ".cargo-with.toml"

// ErrNotFound indicates no Cargo.toml exists in the start directory or any of
// its ancestors.
var ErrNotFound = errors.New("could not find Cargo.toml in this directory or any parent")

// Project encapsulates the cargo crate (or workspace) discovered on disk.
type Project struct {
	Root         string
	ManifestPath string
	ConfigPath   string
	Config       config.Config
}

// Discover walks upward from start until it finds a Cargo.toml.
func Discover(start string) (*Project, error) {
	root, err := locateRoot(start)
	if err != nil {
		return nil, err
	}
	return Load(root)
}

// Load constructs a Project from a known crate root.
func Load(root string) (*Project, error) {
	cfgPath := filepath.Join(root, ConfigFileName)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	return &Project{
		Root:         root,
		ManifestPath: filepath.Join(root, "Cargo.toml"),
		ConfigPath:   cfgPath,
		Config:       cfg,
	}, nil
}

func locateRoot(start string) (string, error) {
	cur, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if isFile(filepath.Join(cur, "Cargo.toml")) {
			return cur, nil
		}
		next := filepath.Dir(cur)
		if next == cur {
			break
		}
		cur = next
	}
	return "", ErrNotFound
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !fi.IsDir()
}
