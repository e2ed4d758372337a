package common

import (
	"context"
	"fmt"
	"os"

	"foliogen/internal/ai"
	"foliogen/internal/errors"
)

// ResumeOperationFunc is a generic function signature for any AI operation
// over a resume file with context and token usage.
type ResumeOperationFunc[Output any] func(ctx context.Context, filename string, data []byte) (Output, *ai.TokenUsage, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc func(filename string, cfg CommandConfig)

// RunResumeCommand encapsulates the common logic for resume-based CLI commands
// with token usage reporting.
func RunResumeCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	filename string,
	operation ResumeOperationFunc[Output],
	logDetails LogDetailsFunc,
) error {
	// Pass the logger when creating helpers
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	data, err := fileProcessor.ValidateAndReadResume(filename)
	if err != nil {
		return err
	}

	logDetails(filename, cmdConfig)

	result, tokenUsage, err := operation(ctx, filename, data)
	if err != nil {
		return err
	}

	// Report token usage
	if tokenUsage != nil {
		if logger != nil {
			logger.Info("AI token usage", "input_tokens", tokenUsage.InputTokens, "output_tokens", tokenUsage.OutputTokens, "total_tokens", tokenUsage.TotalTokens)
		} else {
			fmt.Fprintf(os.Stderr, "AI token usage: input=%d, output=%d, total=%d\n", tokenUsage.InputTokens, tokenUsage.OutputTokens, tokenUsage.TotalTokens)
		}
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
