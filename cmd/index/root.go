// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/dotindex/dotindex/internal/config"
	"github.com/dotindex/dotindex/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "index [fields...]",
		Short: "Maintain canonical project metadata in a .index file",
		Long: TitleStyle.Render("index") + SubtitleStyle.Render(" - canonical project metadata") + `

index merges project metadata from a metadata directory, YAML/JSON/TOML/CUE
documents, annotated HTML pages and gemspecs into one canonical .index file,
re-merging whenever a source changes.

` + SubtitleStyle.Render("Examples:") + `
  index                     Lock and show the whole document
  index name version        Show selected fields
  index --static            Show the index file without re-merging
  index using meta/         Merge the document from meta/
  index adding README.html  Add a source to the recorded ones
  index removing README.html
                            Stop merging from a source
  index generate metadata   Write a gemspec from the document`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.show(cmd.Context(), args)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&app.opts.Verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVar(&app.opts.Debug, "debug", false, "enable debug logging")
	flags.StringVar(&app.opts.ConfigPath, "config", "", "config file (default is $XDG_CONFIG_HOME/dotindex/config.cue)")
	flags.StringVar(&app.opts.IndexFile, "file", "", "index file to use (default from config, .index)")
	flags.StringVarP((*string)(&app.opts.Format), "format", "f", "", "output format (yaml, json, toml, cue)")
	flags.BoolVar(&app.opts.Force, "force", false, "re-merge an up to date index and overwrite existing files")
	flags.BoolVarP(&app.opts.Stdout, "stdout", "o", false, "print results instead of writing files")
	rootCmd.Flags().BoolVarP(&app.opts.Static, "static", "s", false, "show the index file without re-merging its sources")

	rootCmd.AddCommand(newUsingCommand(app))
	rootCmd.AddCommand(newAddingCommand(app))
	rootCmd.AddCommand(newRemovingCommand(app))
	rootCmd.AddCommand(newGenerateCommand(app))
	rootCmd.AddCommand(newWatchCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI with the process arguments. It is called by main.main.
func Execute() {
	app := NewApp(Dependencies{})
	slog.SetDefault(app.Logger())

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			app.renderError(w, err)
		}),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// setup loads the configuration and fills the options not given on the
// command line. An explicit --config file must load; otherwise a broken
// configuration is reported and the defaults apply.
func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := a.Config.Load(cmd.Context(), a.loadOptions())
	if err != nil {
		if a.opts.ConfigPath != "" {
			return a.failAs(issue.ConfigLoadFailedId, err, "load configuration", a.opts.ConfigPath)
		}
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.opts.Verbose))
		cfg = config.DefaultConfig()
	}
	a.cfg = cfg

	flags := cmd.Flags()
	if !flags.Changed("format") {
		a.opts.Format = cfg.Format
	}
	if !flags.Changed("file") {
		a.opts.IndexFile = string(cfg.IndexFile)
	}
	if !flags.Changed("verbose") {
		a.opts.Verbose = cfg.UI.Verbose
	}
	a.charm.SetLevel(logLevel(a.opts))

	if ok, errs := a.opts.Format.IsValid(); !ok {
		return a.fail(errs[0], "select output format", string(a.opts.Format))
	}
	a.logger.Debug("configuration loaded", "path", cfg.Path(), "index_file", a.opts.IndexFile, "format", a.opts.Format)
	return nil
}

// write sends out to stdout, adding a final newline when missing.
func (a *App) write(out []byte) error {
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	_, err := a.stdout.Write(out)
	return err
}
