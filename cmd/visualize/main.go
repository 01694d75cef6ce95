// Command visualize renders line charts, and optionally histogram grids, for
// the files listed in the parameters file.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tabviz/internal/app"
	"tabviz/internal/artifact"
	"tabviz/internal/config"
	apperrors "tabviz/internal/errors"
	"tabviz/internal/render"
	"tabviz/internal/selector"
	"tabviz/pkg/contracts/domain"
)

const stage = "visualize"

func main() {
	os.Exit(app.Execute(newRootCmd()))
}

func newRootCmd() *cobra.Command {
	var (
		flags      app.GlobalFlags
		interval   int
		histograms bool
		paramsFile string
		dataDir    string
		imagesDir  string
	)

	cmd := &cobra.Command{
		Use:           "visualize",
		Short:         "Render charts for the files listed in the parameters file",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := cmd.Flags()
			if fs.Changed("interval") && interval < 1 {
				return apperrors.NewValidationError(fmt.Sprintf("--interval must be at least 1, got %d", interval))
			}

			var overrides []app.Override
			if fs.Changed("interval") {
				overrides = append(overrides, func(cfg *config.Config) { cfg.Plot.Interval = interval })
			}
			if fs.Changed("data-dir") {
				overrides = append(overrides, func(cfg *config.Config) { cfg.Paths.DataDir = dataDir })
			}
			if fs.Changed("images-dir") {
				overrides = append(overrides, func(cfg *config.Config) { cfg.Paths.ImagesDir = imagesDir })
			}

			a, err := app.NewApplication(stage, flags, overrides)
			if err != nil {
				return err
			}
			if !fs.Changed("params-file") {
				paramsFile = a.Config.Paths.ParametersFile()
			}
			return a.Run(cmd.Context(), func(ctx context.Context) error {
				return run(ctx, a, cmd.OutOrStdout(), paramsFile, histograms)
			})
		},
	}

	flags.Bind(cmd.PersistentFlags())
	cmd.Flags().IntVar(&interval, "interval", config.DefaultInterval, "plot every Nth row")
	cmd.Flags().BoolVar(&histograms, "histograms", false, "also render a histogram grid per file")
	cmd.Flags().StringVar(&paramsFile, "params-file", filepath.Join(config.DefaultJSONDir, config.ParametersFileName), "parameters file written by extract")
	cmd.Flags().StringVar(&dataDir, "data-dir", config.DefaultDataDir, "directory holding the tables")
	cmd.Flags().StringVar(&imagesDir, "images-dir", config.DefaultImagesDir, "directory to write images into")

	return cmd
}

func run(ctx context.Context, a *app.Application, out io.Writer, paramsFile string, histograms bool) error {
	params, err := artifact.Read(paramsFile)
	if err != nil {
		return err
	}

	cfg := a.Config
	selected := selector.NewSelector(cfg.Paths.DataDir, a.Logger).Select(ctx, params)
	targets := domain.Values(selected)

	renderer := render.NewRenderer(cfg.Paths.ImagesDir, render.OptionsFromConfig(cfg.Plot), a.Logger)
	rendered := renderer.RenderAll(ctx, targets, histograms)

	skips := append(domain.Skips(selected), domain.Skips(rendered)...)
	var images []string
	for _, r := range domain.Values(rendered) {
		images = append(images, r.Paths...)
		skips = append(skips, r.Failures...)
	}

	a.Telemetry.RecordScanned(ctx, len(targets))
	a.Telemetry.RecordImages(ctx, len(images))
	a.RecordSkips(ctx, skips)

	a.Logger.InfoContext(ctx, "Visualization finished",
		slog.Int("entries", params.Len()),
		slog.Int("targets", len(targets)),
		slog.Int("images", len(images)),
		slog.Int("skipped", len(skips)))

	for _, path := range images {
		fmt.Fprintln(out, path)
	}
	for _, s := range skips {
		fmt.Fprintln(out, s.String())
	}
	fmt.Fprintf(out, "Wrote %d image(s) for %d of %d entries\n", len(images), len(domain.Values(rendered)), params.Len())
	return nil
}
