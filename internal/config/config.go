// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads fontstore configuration from a YAML file, an
// optional .env file and FONTSTORE_* environment variables.
//
// Precedence, lowest first: DefaultConfig, the YAML file, the environment
// (including values loaded from .env, which never override variables that
// are already set). Command-line flags are applied by the caller on top.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kraklabs/fontstore/pkg/backend"
	"github.com/kraklabs/fontstore/pkg/storage"
)

// Environment variables read by ApplyEnv.
const (
	EnvBackend    = "FONTSTORE_BACKEND"
	EnvStandalone = "FONTSTORE_STANDALONE"
	EnvRemoteURL  = "FONTSTORE_REMOTE_URL"
	EnvDataDir    = "FONTSTORE_DATA_DIR"
	EnvEngine     = "FONTSTORE_ENGINE"
	EnvLogLevel   = "FONTSTORE_LOG_LEVEL"
	EnvLogFormat  = "FONTSTORE_LOG_FORMAT"
	EnvServerAddr = "FONTSTORE_SERVER_ADDR"
	EnvConfig     = "FONTSTORE_CONFIG"
)

// DefaultServerAddr is where `fontstore serve` listens by default.
const DefaultServerAddr = "127.0.0.1:8780"

// Config is the fontstore configuration file.
type Config struct {
	Version string        `yaml:"version"`
	Backend BackendConfig `yaml:"backend"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
}

// BackendConfig selects the backend variant.
type BackendConfig struct {
	// Mode is auto, local or remote.
	Mode       string        `yaml:"mode"`
	Standalone bool          `yaml:"standalone"`
	RemoteURL  string        `yaml:"remote_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

// StorageConfig configures the local embedded store.
type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
	Engine  string `yaml:"engine"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig configures `fontstore serve`.
type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	Metrics     bool     `yaml:"metrics"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Backend: BackendConfig{
			Mode:    string(backend.ModeAuto),
			Timeout: backend.DefaultRemoteTimeout,
		},
		Storage: StorageConfig{
			Engine: storage.EngineFile,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:    DefaultServerAddr,
			Metrics: true,
		},
	}
}

// ConfigDir returns ~/.fontstore.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".fontstore"), nil
}

// ConfigPath returns the default configuration file path:
// $FONTSTORE_CONFIG if set, otherwise ~/.fontstore/config.yaml.
func ConfigPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadConfig reads the file at path over DefaultConfig and applies the
// environment. An empty path means ConfigPath(); a missing file at the
// default path is not an error, a missing explicit path is.
func LoadConfig(path string) (*Config, error) {
	return load(path, path != "")
}

// LoadConfigIfExists is LoadConfig without the error for a missing
// explicit path. `fontstore init --write-config` uses it before the file
// exists.
func LoadConfigIfExists(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, mustExist bool) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !mustExist:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as YAML, creating the directory.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// into the process environment. Missing files are skipped and variables
// that are already set are left alone.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from FONTSTORE_* variables that are set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend.Mode = v
	}
	if v := os.Getenv(EnvStandalone); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStandalone, err)
		}
		c.Backend.Standalone = b
	}
	if v := os.Getenv(EnvRemoteURL); v != "" {
		c.Backend.RemoteURL = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv(EnvEngine); v != "" {
		c.Storage.Engine = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
	return nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	mode, err := backend.ParseMode(c.Backend.Mode)
	if err != nil {
		return err
	}
	if mode == backend.ModeRemote && c.Backend.RemoteURL == "" {
		return fmt.Errorf("backend.remote_url is required when backend.mode is remote")
	}
	switch c.Storage.Engine {
	case "", storage.EngineFile, storage.EngineMemory:
	default:
		return fmt.Errorf("storage.engine: unknown engine %q (supported: file, memory)", c.Storage.Engine)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q (supported: text, json)", c.Log.Format)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative")
	}
	return nil
}

// StorageOptions returns the embedded store configuration. A leading ~ in
// the data directory is expanded to the user's home directory.
func (c *Config) StorageOptions(logger *slog.Logger) storage.Config {
	return storage.Config{
		DataDir: ExpandHome(c.Storage.DataDir),
		Engine:  c.Storage.Engine,
		Logger:  logger,
	}
}

// BackendOptions returns the inputs to backend.Select.
func (c *Config) BackendOptions(logger *slog.Logger) (backend.Options, error) {
	mode, err := backend.ParseMode(c.Backend.Mode)
	if err != nil {
		return backend.Options{}, err
	}
	return backend.Options{
		Mode:       mode,
		Standalone: c.Backend.Standalone,
		RemoteURL:  c.Backend.RemoteURL,
		Timeout:    c.Backend.Timeout,
		Storage:    c.StorageOptions(logger),
		Logger:     logger,
	}, nil
}

// ExpandHome replaces a leading "~" or "~/" in path with the user's home
// directory. Other paths, and paths when the home directory is unknown, are
// returned unchanged.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log.level: unknown level %q (supported: debug, info, warn, error)", s)
	}
}
