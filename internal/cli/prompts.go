package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/hjortnaes/scorecard/internal/config"
	"github.com/hjortnaes/scorecard/internal/engine"
)

// promptSnapshotSettings asks for the universe selection interactively,
// seeding each prompt with the configured value.
func promptSnapshotSettings(cfg *config.Config) error {
	modePrompt := &survey.Select{
		Message: "Universe selection:",
		Options: []string{
			string(engine.ListModeDefault),
			string(engine.ListModeExtend),
			string(engine.ListModeCustom),
		},
		Default: cfg.ListMode,
		Description: func(value string, _ int) string {
			switch engine.ListMode(value) {
			case engine.ListModeExtend:
				return "default companies plus your tickers"
			case engine.ListModeCustom:
				return "only your tickers"
			default:
				return "the built-in company set"
			}
		},
	}
	if err := survey.AskOne(modePrompt, &cfg.ListMode); err != nil {
		return err
	}

	if engine.ListMode(cfg.ListMode) != engine.ListModeDefault {
		tickersPrompt := &survey.Input{
			Message: "Custom tickers (comma separated):",
			Default: cfg.CustomTickers,
		}
		err := survey.AskOne(tickersPrompt, &cfg.CustomTickers, survey.WithValidator(func(val interface{}) error {
			raw, ok := val.(string)
			if !ok {
				return fmt.Errorf("invalid input")
			}
			if engine.ListMode(cfg.ListMode) == engine.ListModeCustom && len(engine.ParseCustomTickers(raw)) == 0 {
				return fmt.Errorf("custom mode needs at least one ticker")
			}
			return nil
		}))
		if err != nil {
			return err
		}
	}

	benchPrompt := &survey.Confirm{
		Message: "Include index benchmarks?",
		Default: cfg.IncludeBenchmarks,
	}
	return survey.AskOne(benchPrompt, &cfg.IncludeBenchmarks)
}
