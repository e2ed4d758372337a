package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"foliogen/internal/ai"
	"foliogen/internal/config"
	"foliogen/internal/document"
	"foliogen/internal/errors"
	"foliogen/internal/normalize"
	"foliogen/internal/observability"
	"foliogen/internal/store"
	"foliogen/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// ObjectStorage abstracts the artifact store used by the pipeline
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	URL(key string) string
}

// RecordIndex abstracts the summary row index used by the pipeline
type RecordIndex interface {
	Insert(ctx context.Context, rec types.PortfolioRecord) error
	Publish(ctx context.Context, slug string) error
	Delete(ctx context.Context, slug string) error
	GetPublished(ctx context.Context, slug string) (types.PortfolioRecord, error)
	CountByStatus(ctx context.Context) (map[types.Status]int64, error)
}

// Pipeline runs the resume ingestion flow: extract text, call the AI
// provider, normalize, persist artifacts and index the result.
type Pipeline struct {
	Extractor ai.AIProvider
	Scorer    ai.AIProvider
	Objects   ObjectStorage
	Records   RecordIndex
	Logger    *errors.Logger
	Obs       *observability.ObservabilityManager
}

// New creates a pipeline with the given AI providers and stores.
// Obs may be nil; metrics and tracing are skipped in that case.
func New(extractor, scorer ai.AIProvider, objects ObjectStorage, records RecordIndex, logger *errors.Logger, obs *observability.ObservabilityManager) *Pipeline {
	return &Pipeline{
		Extractor: extractor,
		Scorer:    scorer,
		Objects:   objects,
		Records:   records,
		Logger:    logger,
		Obs:       obs,
	}
}

// GenerateResult carries the outcome of a portfolio generation run
type GenerateResult struct {
	Slug      string
	Profile   types.CandidateProfile
	ResumeURL string
	JSONURL   string
	Indexed   bool
	Tokens    *ai.TokenUsage
}

// ScanResult carries the outcome of a resume scan run
type ScanResult struct {
	Scorecard types.Scorecard
	Tokens    *ai.TokenUsage
}

// Generate ingests an uploaded resume and produces a draft portfolio.
// Artifact uploads are fatal; the summary row insert is best-effort
// because object storage is the source of truth.
func (p *Pipeline) Generate(ctx context.Context, filename string, data []byte) (*GenerateResult, error) {
	format, err := document.FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}

	text, err := document.ExtractText(format, data)
	if err != nil {
		return nil, err
	}

	raw, tokens, err := p.extractProfile(ctx, text)
	if err != nil {
		return nil, err
	}

	profile := normalize.Profile(raw)
	slug := normalize.Slug(profile.PersonalInfo.FullName, profile.PersonalInfo.Title)

	resumeURL, err := p.Objects.Put(ctx, store.ResumeKey(slug, format), data, format.ContentType())
	if err != nil {
		return nil, err
	}

	profile.Meta = types.Meta{
		OriginalResumeURL: resumeURL,
		CreatedAt:         time.Now().UTC(),
	}
	profile.Status = types.StatusDraft

	payload, err := json.Marshal(profile)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStorageWriteFailed,
			"Failed to encode portfolio JSON", err)
	}

	jsonURL, err := p.Objects.Put(ctx, store.JSONKey(slug), payload, "application/json")
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		Slug:      slug,
		Profile:   profile,
		ResumeURL: resumeURL,
		JSONURL:   jsonURL,
		Indexed:   true,
		Tokens:    tokens,
	}

	rec := types.PortfolioRecord{
		FullName:  profile.PersonalInfo.FullName,
		JobTitle:  profile.PersonalInfo.Title,
		Email:     profile.PersonalInfo.Email,
		Location:  profile.PersonalInfo.Location,
		Slug:      slug,
		ResumeURL: resumeURL,
		JSONURL:   jsonURL,
		Status:    types.StatusDraft,
		CreatedAt: profile.Meta.CreatedAt,
	}
	if err := p.Records.Insert(ctx, rec); err != nil {
		// Best-effort index; the stored artifacts remain retrievable
		result.Indexed = false
		p.Logger.LogError(err, "Failed to index portfolio record", "slug", slug)
		p.recordMetric(ctx, "record_index_failed", false,
			attribute.String("slug", slug))
	}

	return result, nil
}

// Scan extracts resume text and returns an ATS-style scorecard without
// persisting anything.
func (p *Pipeline) Scan(ctx context.Context, filename string, data []byte) (*ScanResult, error) {
	format, err := document.FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}

	text, err := document.ExtractText(format, data)
	if err != nil {
		return nil, err
	}

	scorecard, tokens, err := p.scoreResume(ctx, text)
	if err != nil {
		return nil, err
	}

	return &ScanResult{Scorecard: scorecard, Tokens: tokens}, nil
}

// Publish transitions a draft portfolio to published
func (p *Pipeline) Publish(ctx context.Context, slug string) error {
	return p.Records.Publish(ctx, slug)
}

// Delete soft-deletes a portfolio; artifacts stay in object storage
func (p *Pipeline) Delete(ctx context.Context, slug string) error {
	return p.Records.Delete(ctx, slug)
}

// Render returns the published portfolio document for a slug. Draft,
// deleted and missing slugs are indistinguishable to callers.
func (p *Pipeline) Render(ctx context.Context, slug string) (types.CandidateProfile, error) {
	rec, err := p.Records.GetPublished(ctx, slug)
	if err != nil {
		return types.CandidateProfile{}, err
	}

	data, err := p.Objects.Get(ctx, store.JSONKey(rec.Slug))
	if err != nil {
		p.Logger.LogError(err, "Failed to fetch portfolio artifact", "slug", slug)
		return types.CandidateProfile{}, errors.NewValidationError(errors.ErrCodeRecordNotFound,
			"portfolio not found", nil).WithContext("slug", slug)
	}

	var profile types.CandidateProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		p.Logger.LogError(err, "Failed to decode portfolio artifact", "slug", slug)
		return types.CandidateProfile{}, errors.NewValidationError(errors.ErrCodeRecordNotFound,
			"portfolio not found", nil).WithContext("slug", slug)
	}

	return profile, nil
}

// Stats returns portfolio counts grouped by status
func (p *Pipeline) Stats(ctx context.Context) (map[types.Status]int64, error) {
	return p.Records.CountByStatus(ctx)
}

func (p *Pipeline) extractProfile(ctx context.Context, text string) (types.RawProfile, *ai.TokenUsage, error) {
	if p.Obs == nil || p.Obs.GetMetrics() == nil {
		return p.Extractor.ExtractProfile(ctx, text)
	}

	var raw types.RawProfile
	var tokens *ai.TokenUsage
	metrics := p.Obs.GetMetrics()
	err := metrics.TrackAIOperationWithTokens(ctx, config.OperationPortfolio, func(ctx context.Context) *observability.AIOperationResult {
		r, usage, aiErr := p.Extractor.ExtractProfile(ctx, text)
		raw = r
		tokens = usage
		return &observability.AIOperationResult{
			Error:      aiErr,
			TokenUsage: (*observability.TokenUsage)(usage),
		}
	}, p.Obs)
	return raw, tokens, err
}

func (p *Pipeline) scoreResume(ctx context.Context, text string) (types.Scorecard, *ai.TokenUsage, error) {
	if p.Obs == nil || p.Obs.GetMetrics() == nil {
		return p.Scorer.ScoreResume(ctx, text)
	}

	var scorecard types.Scorecard
	var tokens *ai.TokenUsage
	metrics := p.Obs.GetMetrics()
	err := metrics.TrackAIOperationWithTokens(ctx, config.OperationScorecard, func(ctx context.Context) *observability.AIOperationResult {
		s, usage, aiErr := p.Scorer.ScoreResume(ctx, text)
		scorecard = s
		tokens = usage
		return &observability.AIOperationResult{
			Error:      aiErr,
			TokenUsage: (*observability.TokenUsage)(usage),
		}
	}, p.Obs)
	return scorecard, tokens, err
}

func (p *Pipeline) recordMetric(ctx context.Context, metricType string, success bool, attrs ...attribute.KeyValue) {
	if p.Obs == nil {
		return
	}
	metrics := p.Obs.GetMetrics()
	if metrics == nil {
		return
	}
	metrics.RecordBusinessMetric(ctx, metricType, success, p.Obs, attrs...)
}
