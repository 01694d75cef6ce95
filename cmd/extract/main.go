// Command extract scans a directory of tabular files and writes the
// parameters file consumed by the transform and visualize commands.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"tabviz/internal/app"
	"tabviz/internal/artifact"
	"tabviz/internal/config"
	"tabviz/internal/extractor"
	"tabviz/internal/infrastructure"
	"tabviz/pkg/contracts/domain"
)

const stage = "extract"

func main() {
	os.Exit(app.Execute(newRootCmd()))
}

func newRootCmd() *cobra.Command {
	var (
		flags     app.GlobalFlags
		dataDir   string
		normalize bool
		output    string
	)

	cmd := &cobra.Command{
		Use:           "extract --path <dir>",
		Short:         "Extract per-file column parameters from a directory of tables",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.NewApplication(stage, flags, []app.Override{
				func(cfg *config.Config) { cfg.Paths.DataDir = dataDir },
			})
			if err != nil {
				return err
			}
			if output == "" {
				output = a.Config.Paths.ParametersFile()
			}
			return a.Run(cmd.Context(), func(ctx context.Context) error {
				return run(ctx, a, cmd.OutOrStdout(), normalize, output)
			})
		},
	}

	flags.Bind(cmd.PersistentFlags())
	cmd.Flags().StringVar(&dataDir, "path", "", "directory containing the tabular data files")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "mark every file for normalisation")
	cmd.Flags().StringVar(&output, "output", "", "parameters file to write (default <json_dir>/parameters.json)")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func run(ctx context.Context, a *app.Application, out io.Writer, normalize bool, output string) error {
	cfg := a.Config
	ex := extractor.NewExtractor(cfg.Scan.Extensions, extractor.MergeExclusions(cfg.ExclusionOverrides()), a.Logger)

	scanCtx, span := a.Telemetry.StartSpan(ctx, "extract.scan", attribute.String("dir", cfg.Paths.DataDir))
	params, outcomes, err := ex.Scan(scanCtx, cfg.Paths.DataDir, normalize)
	infrastructure.EndSpan(span, err)
	if err != nil {
		return err
	}

	skips := domain.Skips(outcomes)
	a.Telemetry.RecordScanned(ctx, len(outcomes))
	a.RecordSkips(ctx, skips)

	if err := artifact.Write(output, params); err != nil {
		return err
	}

	a.Logger.InfoContext(ctx, "Parameters saved",
		slog.String("path", output),
		slog.Int("entries", params.Len()),
		slog.Int("skipped", len(skips)))

	fmt.Fprintf(out, "Parameters for %d file(s) saved to %s\n", params.Len(), output)
	for _, s := range skips {
		fmt.Fprintln(out, s.String())
	}
	return nil
}
