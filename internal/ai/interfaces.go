package ai

import (
	"context"

	"foliogen/internal/types"
)

// AIProvider interface for different AI implementations.
// All methods return token usage information; callers can ignore it.
type AIProvider interface {
	ExtractProfile(ctx context.Context, resumeText string) (types.RawProfile, *TokenUsage, error)
	ScoreResume(ctx context.Context, resumeText string) (types.Scorecard, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
