// Command transform writes a summary table and a min-max normalised table
// for every entry of the parameters file.
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
	"tabviz/internal/transform"
	"tabviz/pkg/contracts/domain"
)

const stage = "transform"

func main() {
	os.Exit(app.Execute(newRootCmd()))
}

func newRootCmd() *cobra.Command {
	var (
		flags      app.GlobalFlags
		paramsFile string
		dataDir    string
	)

	cmd := &cobra.Command{
		Use:           "transform",
		Short:         "Compute column statistics and normalised tables for extracted files",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var overrides []app.Override
			if cmd.Flags().Changed("data-dir") {
				overrides = append(overrides, func(cfg *config.Config) { cfg.Paths.DataDir = dataDir })
			}

			a, err := app.NewApplication(stage, flags, overrides)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("params-file") {
				paramsFile = a.Config.Paths.ParametersFile()
			}
			return a.Run(cmd.Context(), func(ctx context.Context) error {
				return run(ctx, a, cmd.OutOrStdout(), paramsFile)
			})
		},
	}

	flags.Bind(cmd.PersistentFlags())
	cmd.Flags().StringVar(&paramsFile, "params-file", filepath.Join(config.DefaultJSONDir, config.ParametersFileName), "parameters file written by extract")
	cmd.Flags().StringVar(&dataDir, "data-dir", config.DefaultDataDir, "directory holding the source tables")

	return cmd
}

func run(ctx context.Context, a *app.Application, out io.Writer, paramsFile string) error {
	params, err := artifact.Read(paramsFile)
	if err != nil {
		return err
	}

	outcomes := transform.NewTransformer(a.Config.Paths.DataDir, a.Logger).Run(ctx, params)
	results := domain.Values(outcomes)
	skips := domain.Skips(outcomes)

	a.Telemetry.RecordScanned(ctx, len(outcomes))
	a.RecordSkips(ctx, skips)

	a.Logger.InfoContext(ctx, "Transform finished",
		slog.Int("transformed", len(results)),
		slog.Int("skipped", len(skips)))

	for _, r := range results {
		fmt.Fprintf(out, "%s: %s, %s\n", r.Name, r.SummaryPath, r.TransformedPath)
	}
	for _, s := range skips {
		fmt.Fprintln(out, s.String())
	}
	fmt.Fprintf(out, "Transformed %d of %d file(s)\n", len(results), len(outcomes))
	return nil
}
