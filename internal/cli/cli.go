package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/assetcanvas/pkg/buildinfo"
	"github.com/matzehuels/assetcanvas/pkg/cache"
	"github.com/matzehuels/assetcanvas/pkg/config"
	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
	"github.com/matzehuels/assetcanvas/pkg/observability"
	"github.com/matzehuels/assetcanvas/pkg/storage"
	"github.com/matzehuels/assetcanvas/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "assetcanvas"

	// configFile is the file name looked up in the user config directory.
	configFile = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Assetcanvas draws an asset hierarchy as an interactive canvas",
		Long:         `Assetcanvas renders an Enterprise, Region, Plant, Area, Location and Equipment hierarchy as nested cards, lets clients drill, move and resize them, and persists every change.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				observability.UseLogger(c.Logger)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (.toml, .yaml); defaults to the user config dir")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.storageCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Storage
// =============================================================================

// loadConfig reads --config, then the user config file if it exists, then
// falls back to the defaults. Unless --verbose is set, log.level from the
// file becomes the logger level.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		if dir, err := configDir(); err == nil {
			candidate := filepath.Join(dir, configFile)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if !c.verbose {
		level, err := parseLevel(cfg.Log.Level)
		if err != nil {
			return cfg, err
		}
		c.SetLogLevel(level)
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return cfg, nil
}

// openStore opens the configured backend and loads its snapshot into a new
// store. A backend that holds nothing yet starts from the sample when
// sample is true, otherwise from an empty enterprise. The caller closes
// the returned backend.
func (c *CLI) openStore(ctx context.Context, cfg config.Config, sample bool) (*store.Store, storage.Backend, error) {
	openCtx, cancel := context.WithTimeout(ctx, cfg.Storage.StorageTimeout())
	defer cancel()

	backend, err := storage.Open(openCtx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}

	st := store.New(nil,
		store.WithBackend(backend),
		store.WithAutoSave(cfg.Storage.AutoSave),
		store.WithLogger(c.Logger),
		store.WithSaveTimeout(cfg.Storage.StorageTimeout()),
	)
	found, err := st.Load(openCtx)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	c.Logger.Debug("opened storage", "backend", backend.Name(), "found", found)
	if !found && sample {
		if err := st.SetEnterprise(hierarchy.Sample()); err != nil {
			backend.Close()
			return nil, nil, err
		}
		c.Logger.Info("storage is empty, loaded sample enterprise", "backend", backend.Name())
	}
	return st, backend, nil
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/assetcanvas/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// cacheDir returns the directory for rendered diagram caches.
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// newDiagramCache opens the file cache, or a null cache when disabled or
// the directory is unusable.
func (c *CLI) newDiagramCache(disabled bool) cache.Cache {
	if disabled {
		return cache.NewNullCache()
	}
	dir, err := diagramCacheDir()
	if err == nil {
		fc, ferr := cache.NewFileCache(dir)
		if ferr == nil {
			return fc
		}
		err = ferr
	}
	c.Logger.Warn("diagram cache disabled", "error", err)
	return cache.NewNullCache()
}

// =============================================================================
// Output Helpers
// =============================================================================

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", path)
	}
	return nil
}
