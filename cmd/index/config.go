// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotindex/dotindex/internal/config"
	"github.com/dotindex/dotindex/internal/issue"
)

// newConfigCommand creates the `index config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage index configuration",
		Long: `Manage index configuration.

Configuration is read from ./config.cue or, failing that, from:
  - Linux: ~/.config/dotindex/config.cue
  - macOS: ~/Library/Application Support/dotindex/config.cue
  - Windows: %APPDATA%\dotindex\config.cue

Environment variables prefixed with DOTINDEX_ override file values,
e.g. DOTINDEX_FORMAT=json or DOTINDEX_UI_VERBOSE=true.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.showConfig(cmd.Context())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.initConfig()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.showConfigPath()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), app.loadOptions())
			if err != nil {
				return app.failAs(issue.ConfigLoadFailedId, err, "load configuration", app.opts.ConfigPath)
			}
			_, err = fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return err
		},
	})

	return cfgCmd
}

func (a *App) showConfig(ctx context.Context) error {
	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		return a.failAs(issue.ConfigLoadFailedId, err, "load configuration", a.opts.ConfigPath)
	}

	keyStyle := KeyStyle
	valueStyle := SuccessStyle
	w := a.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if cfg.Path() != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfg.Path())
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("index_file"), valueStyle.Render(string(cfg.IndexFile)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("format"), valueStyle.Render(string(cfg.Format)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("default_sources"))
	if len(cfg.DefaultSources) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, s := range cfg.DefaultSources {
			fmt.Fprintf(w, "  - %s\n", valueStyle.Render(s))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func (a *App) initConfig() error {
	path, created, err := config.CreateDefaultConfig(a.configDir)
	if err != nil {
		return a.fail(err, "create configuration", path)
	}
	if !created {
		fmt.Fprintf(a.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(a.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func (a *App) showConfigPath() error {
	path, err := config.DefaultConfigPath(a.configDir)
	if err != nil {
		return a.fail(err, "locate configuration", "")
	}
	if a.opts.ConfigPath != "" {
		path = a.opts.ConfigPath
	}
	fmt.Fprintf(a.stdout, "Config file: %s\n", path)
	if a.cfg.Path() != "" && a.cfg.Path() != path {
		fmt.Fprintf(a.stdout, "In use: %s\n", a.cfg.Path())
	}
	fmt.Fprintf(a.stdout, "Environment prefix: %s\n", strings.ToUpper(config.EnvPrefix)+"_")
	return nil
}
