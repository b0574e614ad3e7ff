package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hjortnaes/scorecard/internal/config"
	"github.com/hjortnaes/scorecard/internal/dataflows"
	"github.com/hjortnaes/scorecard/internal/display"
	"github.com/hjortnaes/scorecard/internal/engine"
)

func newSnapshotCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Compute a point-in-time snapshot of the asset universe",
		Long: `Compute the full scored, valued and ranked snapshot for the configured
universe and write it as a JSON document.
Example: scorecard snapshot --list-mode=extend --tickers="ASML.AS,SAP" --output=weekly.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode, _ := cmd.Flags().GetString("list-mode"); mode != "" {
				cfg.ListMode = mode
			}
			if tickers, _ := cmd.Flags().GetString("tickers"); cmd.Flags().Changed("tickers") {
				cfg.CustomTickers = tickers
			}
			if cmd.Flags().Changed("benchmarks") {
				cfg.IncludeBenchmarks, _ = cmd.Flags().GetBool("benchmarks")
			}
			if workers, _ := cmd.Flags().GetInt("concurrency"); workers > 0 {
				cfg.Workers = workers
			}

			if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
				if err := promptSnapshotSettings(cfg); err != nil {
					return err
				}
			}

			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = filepath.Join(cfg.OutputDir, "weekly_snapshot.json")
			}
			return runSnapshot(cmd.Context(), cfg, output)
		},
	}

	cmd.Flags().String("list-mode", "", "Universe selection: default, extend or custom")
	cmd.Flags().String("tickers", "", "Comma-separated custom tickers")
	cmd.Flags().Bool("benchmarks", true, "Include index benchmarks")
	cmd.Flags().String("output", "", "Output JSON path (default <output-dir>/weekly_snapshot.json)")
	cmd.Flags().Int("concurrency", 0, "Concurrent per-asset computations")
	cmd.Flags().BoolP("interactive", "i", false, "Prompt for universe settings")

	return cmd
}

func runSnapshot(ctx context.Context, cfg *config.Config, output string) error {
	source := dataflows.NewYahooClient(dataflows.YahooConfig{
		CacheDir:     cfg.DataCacheDir,
		CacheEnabled: cfg.CacheEnabled,
	})

	eng := engine.New(source,
		engine.WithWorkers(cfg.Workers),
		engine.WithPerAssetTimeout(time.Duration(cfg.AssetTimeoutSec)*time.Second),
	)

	snap := eng.BuildSnapshot(ctx, cfg.Settings())

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	fmt.Print(display.RenderSnapshot(snap))
	fmt.Printf("\nSnapshot written: %s\n", output)
	return nil
}
