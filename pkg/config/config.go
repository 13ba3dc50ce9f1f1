// Package config loads assetcanvas settings from TOML or YAML files.
//
// The file format is chosen by extension (.toml, .yaml, .yml). Every field
// has a default, so an empty or partial file is valid. After decoding,
// environment overrides are applied, relative storage paths are resolved
// against the config file's directory and the result is validated.
//
//	cfg, err := config.Load("assetcanvas.toml")
//	if err != nil {
//	    return err
//	}
//	store := storage.Open(ctx, cfg.Storage)
//
// Environment overrides:
//
//	ASSETCANVAS_ADDR          server listen address
//	ASSETCANVAS_STORAGE       storage backend name
//	ASSETCANVAS_STORAGE_URL   redis address or mongo URI
//	ASSETCANVAS_STORAGE_PATH  file or sqlite path
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/geom"
	"github.com/matzehuels/assetcanvas/pkg/gesture"
)

// Storage backend names.
const (
	BackendNull   = "null"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

// Backends lists the accepted storage backend names.
var Backends = []string{BackendNull, BackendFile, BackendRedis, BackendMongo, BackendSQLite}

// Config is the root configuration.
type Config struct {
	Server  Server  `toml:"server" yaml:"server"`
	Storage Storage `toml:"storage" yaml:"storage"`
	Canvas  Canvas  `toml:"canvas" yaml:"canvas"`
	Log     Log     `toml:"log" yaml:"log"`
}

// Server holds HTTP settings.
type Server struct {
	Addr         string   `toml:"addr" yaml:"addr"`
	ReadTimeout  int      `toml:"read_timeout_seconds" yaml:"read_timeout_seconds"`
	WriteTimeout int      `toml:"write_timeout_seconds" yaml:"write_timeout_seconds"`
	AllowOrigins []string `toml:"allow_origins" yaml:"allow_origins"`
	MaxBodyBytes int64    `toml:"max_body_bytes" yaml:"max_body_bytes"`
	FramePushHz  int      `toml:"frame_push_hz" yaml:"frame_push_hz"`
}

// Storage selects and configures the persistence backend.
type Storage struct {
	Backend  string `toml:"backend" yaml:"backend"`
	Path     string `toml:"path" yaml:"path"`
	URL      string `toml:"url" yaml:"url"`
	Database string `toml:"database" yaml:"database"`
	Key      string `toml:"key" yaml:"key"`
	AutoSave bool   `toml:"autosave" yaml:"autosave"`
	Timeout  int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// Canvas holds interaction settings.
type Canvas struct {
	Width         float64 `toml:"width" yaml:"width"`
	Height        float64 `toml:"height" yaml:"height"`
	DoubleClickMS int     `toml:"double_click_ms" yaml:"double_click_ms"`
	Grid          float64 `toml:"grid" yaml:"grid"`
	MinWidth      float64 `toml:"min_width" yaml:"min_width"`
	MinHeight     float64 `toml:"min_height" yaml:"min_height"`
	MoveTolerance float64 `toml:"move_tolerance" yaml:"move_tolerance"`
	Sample        bool    `toml:"sample" yaml:"sample"`
}

// Log holds logging settings.
type Log struct {
	// Level is one of LogLevels. --verbose overrides it.
	Level string `toml:"level" yaml:"level"`
}

// LogLevels lists the accepted log.level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  30,
			WriteTimeout: 30,
			AllowOrigins: []string{"*"},
			MaxBodyBytes: 10 << 20,
			FramePushHz:  30,
		},
		Storage: Storage{
			Backend:  BackendFile,
			Path:     "enterprise.json",
			Database: "assetcanvas",
			Key:      "enterprise",
			AutoSave: true,
			Timeout:  5,
		},
		Canvas: Canvas{
			Width:         800,
			Height:        600,
			DoubleClickMS: 250,
			Grid:          10,
			MinWidth:      120,
			MinHeight:     60,
			Sample:        true,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path, or returns the defaults when path is empty.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		cfg.applyEnv()
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := Decode(bytes.NewReader(data), formatOf(path), &cfg); err != nil {
		return cfg, err
	}

	cfg.applyEnv()
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, cfg.Validate()
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "toml"
}

// Decode reads a "toml" or "yaml" document from r into cfg. Fields absent
// from the document keep their current values.
func Decode(r io.Reader, format string, cfg *Config) error {
	switch format {
	case "toml":
		if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse toml")
		}
	case "yaml":
		if err := yaml.NewDecoder(r).Decode(cfg); err != nil && err != io.EOF {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse yaml")
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "config format %q", format)
	}
	return nil
}

// Encode writes cfg as a "toml" or "yaml" document.
func Encode(w io.Writer, format string, cfg Config) error {
	switch format {
	case "toml":
		return toml.NewEncoder(w).Encode(cfg)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	}
	return errors.New(errors.ErrCodeUnsupported, "config format %q", format)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ASSETCANVAS_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("ASSETCANVAS_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("ASSETCANVAS_STORAGE_URL"); v != "" {
		c.Storage.URL = v
	}
	if v := os.Getenv("ASSETCANVAS_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
}

// resolvePaths makes file-backed storage paths relative to the config file.
func (c *Config) resolvePaths(dir string) {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
		if c.Storage.Path != "" && !filepath.IsAbs(c.Storage.Path) {
			c.Storage.Path = filepath.Join(dir, c.Storage.Path)
		}
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !slices.Contains(Backends, c.Storage.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown storage backend %q (want one of %s)",
			c.Storage.Backend, strings.Join(Backends, ", "))
	}
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
		if c.Storage.Path == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "storage.path is required for %s", c.Storage.Backend)
		}
	case BackendRedis, BackendMongo:
		if c.Storage.URL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "storage.url is required for %s", c.Storage.Backend)
		}
	}
	if c.Storage.Key == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "storage.key cannot be empty")
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas size must be positive, got %vx%v",
			c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.DoubleClickMS <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas.double_click_ms must be positive")
	}
	if c.Canvas.Grid < 0 || c.Canvas.MinWidth < 0 || c.Canvas.MinHeight < 0 || c.Canvas.MoveTolerance < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas grid, minimum size and tolerance cannot be negative")
	}
	if c.Server.FramePushHz < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.frame_push_hz cannot be negative")
	}
	if c.Log.Level != "" && !slices.Contains(LogLevels, c.Log.Level) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown log.level %q (want one of %s)",
			c.Log.Level, strings.Join(LogLevels, ", "))
	}
	return nil
}

// Gesture converts the canvas settings to a gesture controller config.
func (c Canvas) Gesture() gesture.Config {
	return gesture.Config{
		DoubleClick:   time.Duration(c.DoubleClickMS) * time.Millisecond,
		Grid:          c.Grid,
		MinSize:       geom.Size{Width: c.MinWidth, Height: c.MinHeight},
		MoveTolerance: c.MoveTolerance,
	}
}

// Size returns the initial canvas size.
func (c Canvas) Size() geom.Size {
	return geom.Size{Width: c.Width, Height: c.Height}
}

// StorageTimeout returns the per-operation storage timeout.
func (s Storage) StorageTimeout() time.Duration {
	if s.Timeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.Timeout) * time.Second
}
