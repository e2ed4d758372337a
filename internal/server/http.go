package server

import (
	"time"

	"foliogen/internal/config"
	foliogenErrors "foliogen/internal/errors"
	"foliogen/internal/pipeline"
	"foliogen/internal/types"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PublishRequest represents the request body for the publish endpoint
type PublishRequest struct {
	Slug string `json:"slug"`
}

// DeleteRequest represents the request body for the delete endpoint
type DeleteRequest struct {
	Slug string `json:"slug"`
}

// CreateResponse is the success payload for portfolio creation. The embedded
// profile flattens into the top level alongside ok and slug.
type CreateResponse struct {
	OK   bool   `json:"ok"`
	Slug string `json:"slug"`
	types.CandidateProfile
}

// ScanResponse is the success payload for resume scanning
type ScanResponse struct {
	OK bool `json:"ok"`
	types.Scorecard
}

// PublishResponse is the success payload for publish and delete
type PublishResponse struct {
	OK   bool   `json:"ok"`
	Slug string `json:"slug,omitempty"`
}

// ErrorResponse is the single error envelope used by every failure path
type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Certificate management
	CertificateManager *CertificateManager

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Ingestion pipeline, wired during Start
	Pipeline *pipeline.Pipeline
	dbPool   *pgxpool.Pool

	// Logger
	Logger *foliogenErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
// (Refactored to reduce long parameter list in NewServer)
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *foliogenErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
