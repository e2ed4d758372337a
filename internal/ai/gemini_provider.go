package ai

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	"foliogen/internal/config"
	apperrors "foliogen/internal/errors"
	"foliogen/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	httpClient     *http.Client
	config         *config.OperationAIConfig
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	logger         *apperrors.Logger
}

// Ensure GeminiProvider implements AIProvider
var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance for a specific operation
func NewGeminiProvider(cfg *config.OperationAIConfig, operationType string, logger *apperrors.Logger) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client: client,
		httpClient: &http.Client{
			Timeout: *cfg.Timeout,
		},
		config:         cfg,
		circuitBreaker: NewAICircuitBreaker(operationType, cfg, logger),
		modelBreaker:   NewModelCircuitBreaker(operationType, cfg, logger),
		logger:         logger,
	}, nil
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", g.config.Provider,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

const modelCheckTimeout = 10 * time.Second

// executeWithRetry executes an AI operation with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= *g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", *g.config.MaxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			// Cap maximum backoff at 30 seconds
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		// Don't retry on certain errors (auth, invalid input, etc.)
		if !g.isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", *g.config.MaxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, *g.config.MaxRetries, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func (g *GeminiProvider) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Network errors (timeouts, connection issues) are retryable
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Google API errors: retry on throttling and server-side failures
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// generate runs a single schema-constrained generation call with tracing,
// circuit breaker, and retry, returning the raw model text
func (g *GeminiProvider) generate(
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (string, *TokenUsage, error) {
	tracer := otel.Tracer("foliogen.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
			"Failed to generate content for "+operationName, err)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return result.Text(), tokenUsage, nil
}

// ExtractProfile implements AIProvider interface for profile extraction
func (g *GeminiProvider) ExtractProfile(ctx context.Context, resumeText string) (types.RawProfile, *TokenUsage, error) {
	systemPrompt := g.getSystemPrompt(config.OperationPortfolio)
	userPrompt := fmt.Sprintf(g.getUserPrompt(config.OperationPortfolio), resumeText)

	text, tokenUsage, err := g.generate(
		ctx,
		"extract_profile",
		userPrompt,
		systemPrompt,
		g.buildProfileSchema(),
		attribute.Int("input.resume_length", len(resumeText)),
	)
	if err != nil {
		return types.RawProfile{}, nil, err
	}

	var raw types.RawProfile
	if err := DecodeModelOutput(text, &raw); err != nil {
		return types.RawProfile{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("output.length", len(text)),
		)
	}

	return raw, tokenUsage, nil
}

// ScoreResume implements AIProvider interface for ATS scoring
func (g *GeminiProvider) ScoreResume(ctx context.Context, resumeText string) (types.Scorecard, *TokenUsage, error) {
	systemPrompt := g.getSystemPrompt(config.OperationScorecard)
	userPrompt := fmt.Sprintf(g.getUserPrompt(config.OperationScorecard), resumeText)

	text, tokenUsage, err := g.generate(
		ctx,
		"score_resume",
		userPrompt,
		systemPrompt,
		g.buildScorecardSchema(),
		attribute.Int("input.resume_length", len(resumeText)),
	)
	if err != nil {
		return types.Scorecard{}, nil, err
	}

	scorecard, err := decodeScorecard(text)
	if err != nil {
		return types.Scorecard{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("ats.score", scorecard.ATSScore),
			attribute.Int("overall.score", scorecard.OverallScore),
			attribute.Int("issues.total", scorecard.TotalIssues),
		)
	}

	return scorecard, tokenUsage, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
	}

	// Overall health - both breakers must be healthy
	aiHealthy := g.circuitBreaker.IsHealthy()
	modelHealthy := g.modelBreaker.IsModelHealthy()
	stats["overall_healthy"] = aiHealthy && modelHealthy

	return stats
}

// Close implements AIProvider interface
func (g *GeminiProvider) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	return nil
}

// buildProfileSchema creates the response schema for profile extraction
func (g *GeminiProvider) buildProfileSchema() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"personalInfo": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"fullName": {Type: genai.TypeString},
						"title":    {Type: genai.TypeString},
						"bio":      {Type: genai.TypeString},
						"location": {Type: genai.TypeString},
						"email":    {Type: genai.TypeString},
						"socialLinks": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"platform": {Type: genai.TypeString},
									"url":      {Type: genai.TypeString},
								},
								Required: []string{"platform", "url"},
							},
						},
					},
					Required: []string{"fullName", "title"},
				},
				"experience": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"title":       {Type: genai.TypeString},
							"company":     {Type: genai.TypeString},
							"period":      {Type: genai.TypeString},
							"description": {Type: genai.TypeString},
						},
						Required: []string{"title", "company"},
					},
				},
				"projects": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"title":       {Type: genai.TypeString},
							"description": {Type: genai.TypeString},
							"link":        {Type: genai.TypeString},
							"techStack": {
								Type:  genai.TypeArray,
								Items: &genai.Schema{Type: genai.TypeString},
							},
						},
						Required: []string{"title"},
					},
				},
				"skills": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"personalInfo", "experience", "projects", "skills"},
		},
	}

	if *g.config.Temperature > 0 {
		cfg.Temperature = g.config.Temperature
	}

	return cfg
}

// buildScorecardSchema creates the response schema for resume scoring
func (g *GeminiProvider) buildScorecardSchema() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"overallScore": {Type: genai.TypeInteger},
				"atsScore":     {Type: genai.TypeInteger},
				"totalIssues":  {Type: genai.TypeInteger},
				"sections": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"name":  {Type: genai.TypeString},
							"score": {Type: genai.TypeInteger},
							"issues": {
								Type: genai.TypeArray,
								Items: &genai.Schema{
									Type: genai.TypeObject,
									Properties: map[string]*genai.Schema{
										"severity":   {Type: genai.TypeString},
										"message":    {Type: genai.TypeString},
										"suggestion": {Type: genai.TypeString},
									},
									Required: []string{"severity", "message", "suggestion"},
								},
							},
						},
						Required: []string{"name", "score", "issues"},
					},
				},
			},
			Required: []string{"overallScore", "atsScore", "totalIssues", "sections"},
		},
	}

	if *g.config.Temperature > 0 {
		cfg.Temperature = g.config.Temperature
	}

	return cfg
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}

// getSystemPrompt returns the system prompt for the operation, preferring
// file-loaded content, then inline config, then the hardcoded default
func (g *GeminiProvider) getSystemPrompt(operationType string) string {
	loaded := config.GetPromptsForOperation(operationType)

	switch operationType {
	case config.OperationPortfolio:
		return resolvePrompt(
			loaded.SystemPrompts.ExtractProfile,
			g.config.CustomPrompts.SystemPrompts.ExtractProfile,
			DefaultSystemPrompts.ExtractProfile,
		)
	case config.OperationScorecard:
		return resolvePrompt(
			loaded.SystemPrompts.ScoreResume,
			g.config.CustomPrompts.SystemPrompts.ScoreResume,
			DefaultSystemPrompts.ScoreResume,
		)
	default:
		return ""
	}
}

// getUserPrompt returns the user prompt template for the operation
func (g *GeminiProvider) getUserPrompt(operationType string) string {
	loaded := config.GetPromptsForOperation(operationType)

	switch operationType {
	case config.OperationPortfolio:
		return resolvePrompt(
			loaded.UserPrompts.ExtractProfile,
			g.config.CustomPrompts.UserPrompts.ExtractProfile,
			DefaultUserPrompts.ExtractProfile,
		)
	case config.OperationScorecard:
		return resolvePrompt(
			loaded.UserPrompts.ScoreResume,
			g.config.CustomPrompts.UserPrompts.ScoreResume,
			DefaultUserPrompts.ScoreResume,
		)
	default:
		return ""
	}
}

// resolvePrompt selects the correct prompt string based on priority:
// file-loaded content, then inline configuration, then the default
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
