package cli

import (
	"context"
	"fmt"

	"foliogen/internal/ai"
	"foliogen/internal/common"
	"foliogen/internal/document"
	"foliogen/internal/normalize"
	"foliogen/internal/types"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [resume-file]",
	Short: "Generate a portfolio document from a resume",
	Long: `Generate a structured portfolio document from a resume file using AI.
The command takes one argument: the path to a resume in PDF or DOCX format.
The extracted profile is normalized and printed without being stored; use the
server API to persist and publish portfolios.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if generateConfig.OutputFormat == "" {
			generateConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(generateConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runGenerate,
}

var generateConfig common.CommandConfig

func init() {
	generateCmd.Flags().StringVarP(&generateConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	generateCmd.Flags().StringVar(&generateConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = generateCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Create AI service for profile extraction
	portfolioAIConfig := cfg.GetPortfolioConfig()
	aiService, err := ai.NewService(&portfolioAIConfig, "portfolio", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	logDetails := func(filename string, cfg common.CommandConfig) {
		logger.Info("Starting portfolio generation",
			"filename", filename,
			"output_format", cfg.OutputFormat)
	}

	// Extract text, run the AI extraction, then normalize the profile
	generateOperation := func(ctx context.Context, filename string, data []byte) (types.CandidateProfile, *ai.TokenUsage, error) {
		format, err := document.FormatFromFilename(filename)
		if err != nil {
			return types.CandidateProfile{}, nil, err
		}
		text, err := document.ExtractText(format, data)
		if err != nil {
			return types.CandidateProfile{}, nil, err
		}
		raw, usage, err := aiService.Provider.ExtractProfile(ctx, text)
		if err != nil {
			return types.CandidateProfile{}, usage, err
		}
		return normalize.Profile(raw), usage, nil
	}

	err = common.RunResumeCommand(
		cmd.Context(),
		logger,
		generateConfig,
		args[0],
		generateOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to generate portfolio: %w", err)
	}
	logger.Info("Portfolio generation completed successfully")
	return nil
}
