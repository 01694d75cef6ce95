// Command compare plots one random column from each of two random
// transformed tables on a shared [0,1] axis.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"tabviz/internal/app"
	"tabviz/internal/compare"
	"tabviz/internal/config"
	"tabviz/internal/infrastructure"
)

const stage = "compare"

func main() {
	os.Exit(app.Execute(newRootCmd()))
}

func newRootCmd() *cobra.Command {
	var (
		flags      app.GlobalFlags
		dataDir    string
		imagesDir  string
		ascending  bool
		descending bool
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:           "compare",
		Short:         "Compare random columns of two transformed tables",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var overrides []app.Override
			if cmd.Flags().Changed("data-dir") {
				overrides = append(overrides, func(cfg *config.Config) { cfg.Paths.DataDir = dataDir })
			}
			if cmd.Flags().Changed("images-dir") {
				overrides = append(overrides, func(cfg *config.Config) { cfg.Paths.ImagesDir = imagesDir })
			}

			a, err := app.NewApplication(stage, flags, overrides)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context(), func(ctx context.Context) error {
				return run(ctx, a, cmd.OutOrStdout(), orderFromFlags(ascending, descending), seed)
			})
		},
	}

	flags.Bind(cmd.PersistentFlags())
	cmd.Flags().StringVar(&dataDir, "data-dir", config.DefaultDataDir, "directory holding the transformed tables")
	cmd.Flags().StringVar(&imagesDir, "images-dir", config.DefaultImagesDir, "directory to write the chart into")
	cmd.Flags().BoolVar(&ascending, "ascending", false, "sort each series ascending")
	cmd.Flags().BoolVar(&descending, "descending", false, "sort each series descending")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 picks a random seed)")
	cmd.MarkFlagsMutuallyExclusive("ascending", "descending")

	return cmd
}

func orderFromFlags(ascending, descending bool) compare.Order {
	switch {
	case ascending:
		return compare.OrderAscending
	case descending:
		return compare.OrderDescending
	default:
		return compare.OrderOriginal
	}
}

func run(ctx context.Context, a *app.Application, out io.Writer, order compare.Order, seed uint64) error {
	cfg := a.Config
	comparer := compare.NewComparer(compare.Options{
		DataDir:    cfg.Paths.DataDir,
		ImagesDir:  cfg.Paths.ImagesDir,
		Extensions: cfg.Scan.Extensions,
		Order:      order,
		Width:      cfg.Plot.Width,
		Height:     cfg.Plot.Height,
	}, compare.NewRand(seed), a.Logger)

	ctx, span := a.Telemetry.StartSpan(ctx, "compare.chart", attribute.Int64("seed", int64(seed)))
	result, skips, err := comparer.Compare(ctx)
	infrastructure.EndSpan(span, err)

	a.RecordSkips(ctx, skips)
	for _, s := range skips {
		fmt.Fprintln(out, s.String())
	}
	if err != nil {
		return err
	}

	a.Telemetry.RecordScanned(ctx, 2+len(skips))
	a.Telemetry.RecordImages(ctx, 1)

	fmt.Fprintf(out, "Compared %s (%s) with %s (%s)\n",
		result.A.Column, result.A.File, result.B.Column, result.B.File)
	fmt.Fprintln(out, result.Path)
	return nil
}
