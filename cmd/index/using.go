// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotindex/dotindex/pkg/importer"
	"github.com/dotindex/dotindex/pkg/metadata"
)

func newUsingCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "using <sources...>",
		Short: "Merge the index file from the given sources",
		Long: `Merge the index file from the given sources, replacing the sources it
recorded before. Later sources override earlier ones field by field.

A source is a metadata directory, a YAML/JSON/TOML/CUE document, an
annotated HTML page or a gemspec. With --stdout the merged document is
printed and the index file is left alone.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.relock(cmd.Context(), importer.PathSources(args...))
		},
	}
}

func newAddingCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "adding <sources...>",
		Short: "Add sources to the ones the index file was merged from",
		Long: `Merge the index file from the sources it already records followed by
the given ones. Sources already recorded keep their place.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recorded, err := app.recordedSources()
			if err != nil {
				return err
			}
			var sources []importer.Source
			for _, s := range recorded {
				if !slices.Contains(args, s) {
					sources = append(sources, importer.DiscoveredSource(s))
				}
			}
			return app.relock(cmd.Context(), append(sources, importer.PathSources(args...)...))
		},
	}
}

func newRemovingCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "removing <sources...>",
		Short: "Stop merging the index file from the given sources",
		Long: `Merge the index file from the sources it records, leaving out the
given ones.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recorded, err := app.recordedSources()
			if err != nil {
				return err
			}
			var sources []importer.Source
			for _, s := range recorded {
				if !slices.Contains(args, s) {
					sources = append(sources, importer.DiscoveredSource(s))
				}
			}
			if len(sources) == 0 {
				return app.fail(importer.ErrNoSources, "lock index", app.opts.IndexFile)
			}
			return app.relock(cmd.Context(), sources)
		},
	}
}

// recordedSources returns the sources the current index file records, or
// none when there is no index file.
func (a *App) recordedSources() ([]string, error) {
	path := a.opts.IndexFile
	if !importer.Exists(path) {
		return nil, nil
	}
	doc, err := importer.Open(path)
	if err != nil {
		return nil, a.fail(err, "open index", path)
	}
	return doc.Sources(), nil
}

// relock re-merges the index file from sources. With --stdout the merged
// document is printed instead of saved.
func (a *App) relock(ctx context.Context, sources []importer.Source) error {
	path := a.opts.IndexFile

	if a.opts.Stdout {
		report, err := a.Importer.MergeWithReport(ctx, sources...)
		if err != nil {
			return a.fail(err, "merge sources", path)
		}
		a.warnDuplicates(report.Document)
		out, err := metadata.Encode(report.Document, a.opts.Format)
		if err != nil {
			return a.fail(err, "encode document", path)
		}
		return a.write(out)
	}

	doc, err := a.lock(ctx, importer.LockOptions{Path: path, Sources: sources, Force: true})
	if err != nil {
		return err
	}
	a.warnDuplicates(doc)

	fmt.Fprintf(a.stdout, "%s Locked %s from %s\n",
		SuccessStyle.Render("✓"), KeyStyle.Render(path), strings.Join(doc.Sources(), ", "))
	return nil
}
