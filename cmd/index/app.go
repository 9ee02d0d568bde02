// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"

	"github.com/dotindex/dotindex/internal/config"
	"github.com/dotindex/dotindex/pkg/importer"
	"github.com/dotindex/dotindex/pkg/metadata"
)

type (
	// Options holds the command line state shared by all commands. Values
	// not given on the command line are filled from the configuration.
	Options struct {
		// Verbose enables informational logging and issue help on errors.
		Verbose bool
		// Debug enables debug logging.
		Debug bool
		// ConfigPath is the explicit --config flag value.
		ConfigPath string
		// IndexFile is the index file the commands read and write.
		IndexFile string
		// Format is the output format for documents.
		Format metadata.Format
		// Static shows the index file without re-merging its sources.
		Static bool
		// Force re-merges an up to date index and overwrites generated files.
		Force bool
		// Stdout prints results instead of writing files.
		Stdout bool
	}

	// App wires the CLI services. Every command handler receives the App and
	// reads its settings from it rather than from package state.
	App struct {
		Config   config.Provider
		Importer *importer.Importer

		opts      Options
		cfg       *config.Config
		configDir string
		stdout    io.Writer
		stderr    io.Writer
		charm     *log.Logger
		logger    *slog.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   config.Provider
		Importer *importer.Importer
		Stdout   io.Writer
		Stderr   io.Writer
		// ConfigDir overrides the configuration directory lookup.
		ConfigDir string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Importer == nil {
		deps.Importer = importer.New()
	}

	charm := log.NewWithOptions(deps.Stderr, log.Options{
		Prefix: "index",
		Level:  log.WarnLevel,
	})

	return &App{
		Config:    deps.Config,
		Importer:  deps.Importer,
		cfg:       config.DefaultConfig(),
		configDir: deps.ConfigDir,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		charm:     charm,
		logger:    slog.New(charm),
	}
}

// Logger returns the App's structured logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// logLevel maps the verbosity options to a logger level.
func logLevel(opts Options) log.Level {
	switch {
	case opts.Debug:
		return log.DebugLevel
	case opts.Verbose:
		return log.InfoLevel
	default:
		return log.WarnLevel
	}
}

// loadOptions returns the configuration loading inputs for this run.
func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: a.opts.ConfigPath, ConfigDirPath: a.configDir}
}

// glamourStyle returns the glamour style matching the configured color scheme.
func (a *App) glamourStyle() string {
	switch a.cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}
