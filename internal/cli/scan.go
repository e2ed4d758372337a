package cli

import (
	"context"
	"fmt"

	"foliogen/internal/ai"
	"foliogen/internal/common"
	"foliogen/internal/document"
	"foliogen/internal/types"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [resume-file]",
	Short: "Score a resume against ATS-style checks",
	Long: `Scan a resume file for ATS compatibility and content issues using AI.
The command takes one argument: the path to a resume in PDF or DOCX format.
It produces section-by-section scores with findings and suggestions.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if scanConfig.OutputFormat == "" {
			scanConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(scanConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScan,
}

var scanConfig common.CommandConfig

func init() {
	scanCmd.Flags().StringVarP(&scanConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	scanCmd.Flags().StringVar(&scanConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = scanCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Create AI service for resume scoring
	scorecardAIConfig := cfg.GetScorecardConfig()
	aiService, err := ai.NewService(&scorecardAIConfig, "scorecard", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	logDetails := func(filename string, cfg common.CommandConfig) {
		logger.Info("Starting resume scan",
			"filename", filename,
			"output_format", cfg.OutputFormat)
	}

	scanOperation := func(ctx context.Context, filename string, data []byte) (types.Scorecard, *ai.TokenUsage, error) {
		format, err := document.FormatFromFilename(filename)
		if err != nil {
			return types.Scorecard{}, nil, err
		}
		text, err := document.ExtractText(format, data)
		if err != nil {
			return types.Scorecard{}, nil, err
		}
		return aiService.Provider.ScoreResume(ctx, text)
	}

	err = common.RunResumeCommand(
		cmd.Context(),
		logger,
		scanConfig,
		args[0],
		scanOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to scan resume: %w", err)
	}
	logger.Info("Resume scan completed successfully")
	return nil
}
