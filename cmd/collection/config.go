package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vinyl-collection/internal/clientview"

	"github.com/pelletier/go-toml/v2"
)

const defaultServerURL = "http://localhost:3001"

// cliConfig is read from ~/.config/vinyl-collection/config.toml
type cliConfig struct {
	ServerURL   string `toml:"server_url"`
	DefaultSort string `toml:"default_sort"`
	StateFile   string `toml:"state_file"`
	Timeout     string `toml:"timeout"`
}

func defaultCLIConfig() cliConfig {
	return cliConfig{
		ServerURL:   defaultServerURL,
		DefaultSort: string(clientview.SortByArtist),
		StateFile:   defaultStatePath(),
		Timeout:     "15s",
	}
}

// loadCLIConfig reads path, or the default location when path is empty.
// A missing file yields the defaults.
func loadCLIConfig(path string) (*cliConfig, error) {
	cfg := defaultCLIConfig()

	if path == "" {
		var err error
		path, err = expandPath("~/.config/vinyl-collection/config.toml")
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		if path, err = expandPath(path); err != nil {
			return nil, err
		}
	}

	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *cliConfig) normalize() error {
	c.ServerURL = strings.TrimRight(strings.TrimSpace(c.ServerURL), "/")
	if c.ServerURL == "" {
		c.ServerURL = defaultServerURL
	}
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("server_url must start with http:// or https://, got %q", c.ServerURL)
	}

	c.DefaultSort = string(clientview.ParseSortKey(c.DefaultSort))

	if strings.TrimSpace(c.StateFile) == "" {
		c.StateFile = defaultStatePath()
	}
	expanded, err := expandPath(c.StateFile)
	if err != nil {
		return err
	}
	c.StateFile = expanded

	if strings.TrimSpace(c.Timeout) == "" {
		c.Timeout = "15s"
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	return nil
}

func (c *cliConfig) timeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

func defaultStatePath() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "vinyl-collection", "undo.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "vinyl-collection-undo.json")
	}
	return filepath.Join(home, ".local", "state", "vinyl-collection", "undo.json")
}

func expandPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Clean(p), nil
}
