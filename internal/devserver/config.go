// Package devserver implements the TableMoins development server: a
// static file server for the landing-page directory with caching
// disabled, colored per-request logging, and browser auto-open.
package devserver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultPort is the port the server binds when no override is configured.
const DefaultPort = 8000

// ConfigFileName is the optional override file looked up in the served
// directory. It is served like any other file, which is harmless for a
// local preview tool.
const ConfigFileName = "siteserve.toml"

// Config holds the server settings. It is resolved once at startup and
// never changes for the process lifetime.
type Config struct {
	// Port is the TCP port to bind on all interfaces.
	Port int `toml:"port"`
	// Dir is the directory whose files are served.
	Dir string `toml:"dir"`
	// OpenBrowser controls the best-effort browser launch on startup.
	OpenBrowser bool `toml:"open_browser"`
}

// DefaultConfig returns the built-in settings: port 8000, browser
// auto-open enabled, and the directory containing the running executable
// as the serve root.
func DefaultConfig() Config {
	dir := "."
	if exe, err := os.Executable(); err == nil {
		dir = filepath.Dir(exe)
	}
	return Config{
		Port:        DefaultPort,
		Dir:         dir,
		OpenBrowser: true,
	}
}

// LoadConfig resolves the effective configuration: built-in defaults,
// then overrides from an optional siteserve.toml in the served directory.
func LoadConfig() (Config, error) {
	return resolveConfig(DefaultConfig())
}

func resolveConfig(cfg Config) (Config, error) {
	path := filepath.Join(cfg.Dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	absDir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return Config{}, fmt.Errorf("resolve directory: %w", err)
	}
	cfg.Dir = absDir

	info, err := os.Stat(cfg.Dir)
	if err != nil || !info.IsDir() {
		return Config{}, fmt.Errorf("directory does not exist: %s", cfg.Dir)
	}
	return cfg, nil
}

// Addr returns the listen address, binding all interfaces.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// URL returns the address shown to the user and opened in the browser.
func (c Config) URL() string {
	return fmt.Sprintf("http://localhost:%d", c.Port)
}
