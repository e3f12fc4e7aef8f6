// Package cli implements the casperflow command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/casperflow/internal/config"
	"github.com/matzehuels/casperflow/pkg/buildinfo"
	"github.com/matzehuels/casperflow/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "casperflow"

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

	status     io.Writer // spinner output
	configPath string
	config     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), status: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Casperflow edits and renders module netlists",
		Long:         `Casperflow manages netlists of modules, pins and wires: a library of reusable blocks, design files, Graphviz rendering and an HTTP API for graphical editors.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/casperflow/config.toml)")

	root.AddCommand(c.libraryCommand())
	root.AddCommand(c.designCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies its log level.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	if level < c.Logger.GetLevel() {
		c.SetLogLevel(level)
	}
	c.config = cfg
	return nil
}

// =============================================================================
// Library Factory
// =============================================================================

// openLibrary connects to the configured store. Remote backends show a
// spinner while connecting.
func (c *CLI) openLibrary(ctx context.Context) (*store.Library, error) {
	cfg := c.config
	if cfg == nil {
		cfg = config.Default()
	}
	sc, err := cfg.StoreConfig()
	if err != nil {
		return nil, err
	}

	var s store.Store
	open := func() (err error) {
		s, err = store.Open(ctx, sc)
		return err
	}
	if sc.Backend == store.BackendRedis || sc.Backend == store.BackendMongo {
		err = withSpinner(ctx, c.status, fmt.Sprintf("Connecting to %s...", sc.Backend), open)
	} else {
		err = open()
	}
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened library store", "backend", s.Backend(), "namespace", cfg.Store.Namespace)

	var keyer store.Keyer
	if cfg.Store.Namespace != "" {
		keyer = store.NewScopedKeyer(nil, cfg.Store.Namespace)
	}
	return store.NewLibrary(s, keyer), nil
}
