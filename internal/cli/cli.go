// Package cli provides the command-line interface for the investing
// scorecard.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hjortnaes/scorecard/internal/config"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "scorecard",
		Short: "Composite financial-health scores and fair valuations",
		Long: `Scorecard computes a weighted financial-health score, a sector-conditioned
fair valuation and an opportunity ranking for a configurable universe of
companies and market-index benchmarks.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newSnapshotCmd(cfg))
	rootCmd.AddCommand(newScorecardCmd())
	rootCmd.AddCommand(newAssessCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("scorecard v1.0.0")
		},
	}
}
