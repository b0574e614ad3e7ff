package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hjortnaes/scorecard/internal/config"
	"github.com/hjortnaes/scorecard/internal/dataflows"
	"github.com/hjortnaes/scorecard/internal/report"
)

// newScorecardCmd scores manually curated report rows from a CSV file with
// the same composite algorithm the live snapshot uses.
func newScorecardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scorecard",
		Short: "Score curated report data from a CSV file",
		Long: `Re-derive per-component scores, the composite total and the letter grade
from manually curated report rows.
Example: scorecard scorecard --input reports.csv --output scored.csv --markdown scored.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			markdown, _ := cmd.Flags().GetString("markdown")

			table, err := report.ReadCSV(input)
			if err != nil {
				return err
			}

			report.ScoreTable(table)

			if err := report.WriteCSV(table, output); err != nil {
				return err
			}
			if markdown != "" {
				if err := report.WriteScorecardMarkdown(table, markdown); err != nil {
					return err
				}
			}
			fmt.Printf("Scored %d rows: %s\n", len(table.Rows), output)
			return nil
		},
	}

	cmd.Flags().String("input", "", "Input CSV path")
	cmd.Flags().String("output", "", "Output CSV path")
	cmd.Flags().String("markdown", "", "Optional Markdown report path")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}

// newAssessCmd augments scored rows with sector-conditioned valuations
// against live quote data.
func newAssessCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Add sector valuation assessments to scored rows",
		Long: `Join scored report rows with live quote data, derive the fair multiple and
fair price per row, and append the broad benchmark rows.
Example: scorecard assess --input scored.csv --output assessed.csv --markdown assessed.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			markdown, _ := cmd.Flags().GetString("markdown")

			table, err := report.ReadCSV(input)
			if err != nil {
				return err
			}

			source := dataflows.NewYahooClient(dataflows.YahooConfig{
				CacheDir:     cfg.DataCacheDir,
				CacheEnabled: cfg.CacheEnabled,
			})
			report.AssessTable(cmd.Context(), table, source.QuoteInfo)

			if err := report.WriteCSV(table, output); err != nil {
				return err
			}
			if markdown != "" {
				if err := report.WriteAssessmentMarkdown(table, markdown, time.Now()); err != nil {
					return err
				}
			}
			fmt.Printf("Assessed %d rows: %s\n", len(table.Rows), output)
			return nil
		},
	}

	cmd.Flags().String("input", "", "Input CSV path (scorecard output)")
	cmd.Flags().String("output", "", "Output CSV path")
	cmd.Flags().String("markdown", "", "Optional Markdown report path")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}
