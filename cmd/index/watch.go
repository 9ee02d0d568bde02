// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotindex/dotindex/internal/watch"
	"github.com/dotindex/dotindex/pkg/importer"
)

func newWatchCommand(app *App) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-merge the index file whenever one of its sources changes",
		Long: `Lock the index file, then watch the sources it records and re-merge it
each time one of them changes. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.watch(cmd.Context(), debounce)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "quiet period before re-merging")
	return cmd
}

func (a *App) watch(ctx context.Context, debounce time.Duration) error {
	path := a.opts.IndexFile
	doc, err := a.current(ctx)
	if err != nil {
		return err
	}
	sources := doc.Sources()
	if len(sources) == 0 {
		return a.fail(importer.ErrNoSources, "watch sources", path)
	}

	w, err := watch.New(watch.Config{
		Paths:    sources,
		Exclude:  []string{path},
		Debounce: debounce,
		Logger:   a.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			a.logger.Info("sources changed", "paths", changed)
			if _, err := a.lock(ctx, importer.LockOptions{Path: path, Force: true}); err != nil {
				// Keep watching; the next edit may fix the source.
				a.renderError(a.stderr, err)
				return nil
			}
			fmt.Fprintf(a.stdout, "%s Relocked %s\n", SuccessStyle.Render("✓"), KeyStyle.Render(path))
			return nil
		},
	})
	if err != nil {
		return a.fail(err, "watch sources", path)
	}

	fmt.Fprintf(a.stdout, "Watching %s\n", strings.Join(sources, ", "))
	return w.Run(ctx)
}
