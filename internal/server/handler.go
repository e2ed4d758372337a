package server

import (
	goerrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	foliogenErrors "foliogen/internal/errors"
	"foliogen/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// createPortfolioHandler wraps the portfolio creation handler with observability
func (s *Server) createPortfolioHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("foliogen.api")
		ctx, span := tracer.Start(ctx, "api.create-portfolio")
		defer span.End()

		if r.Method != http.MethodPost {
			writeErrorResponse(w, "Method not allowed", "use POST with a multipart file field", http.StatusMethodNotAllowed)
			return
		}

		filename, data, err := parseUploadedFile(r, s.MaxRequestSize)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid upload", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("request.filename", filename),
			attribute.Int("request.file_size", len(data)),
			attribute.String("operation", "portfolio"),
		)

		metrics := om.GetMetrics()
		result, err := s.Pipeline.Generate(ctx, filename, data)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "pipeline"))
			metrics.RecordBusinessMetric(ctx, "portfolio_created", false, om,
				attribute.String("error", err.Error()))
			writeAppError(w, err, "Failed to create portfolio")
			return
		}

		metrics.RecordBusinessMetric(ctx, "portfolio_created", true, om,
			attribute.String("slug", result.Slug),
			attribute.Bool("indexed", result.Indexed))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("slug", result.Slug),
			attribute.Bool("indexed", result.Indexed),
		)

		writeJSONResponse(w, http.StatusOK, CreateResponse{
			OK:               true,
			Slug:             result.Slug,
			CandidateProfile: result.Profile,
		})
	}
}

// createScanHandler wraps the resume scan handler with observability
func (s *Server) createScanHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("foliogen.api")
		ctx, span := tracer.Start(ctx, "api.scan")
		defer span.End()

		if r.Method != http.MethodPost {
			writeErrorResponse(w, "Method not allowed", "use POST with a multipart file field", http.StatusMethodNotAllowed)
			return
		}

		filename, data, err := parseUploadedFile(r, s.MaxRequestSize)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid upload", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("request.filename", filename),
			attribute.Int("request.file_size", len(data)),
			attribute.String("operation", "scorecard"),
		)

		metrics := om.GetMetrics()
		result, err := s.Pipeline.Scan(ctx, filename, data)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "pipeline"))
			metrics.RecordBusinessMetric(ctx, "resume_scanned", false, om,
				attribute.String("error", err.Error()))
			writeAppError(w, err, "Failed to scan resume")
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_scanned", true, om,
			attribute.Int("overall_score", result.Scorecard.OverallScore),
			attribute.Int("ats_score", result.Scorecard.ATSScore))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("overall_score", result.Scorecard.OverallScore),
			attribute.Int("ats_score", result.Scorecard.ATSScore),
		)

		writeJSONResponse(w, http.StatusOK, ScanResponse{
			OK:        true,
			Scorecard: result.Scorecard,
		})
	}
}

// createPublishHandler wraps the publish handler with observability
func (s *Server) createPublishHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("foliogen.api")
		ctx, span := tracer.Start(ctx, "api.publish-portfolio")
		defer span.End()

		if r.Method != http.MethodPost {
			writeErrorResponse(w, "Method not allowed", "use POST", http.StatusMethodNotAllowed)
			return
		}

		var req PublishRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Slug) == "" {
			err := fmt.Errorf("missing slug")
			span.RecordError(err)
			writeErrorResponse(w, "Missing slug", "slug field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(attribute.String("slug", req.Slug))

		metrics := om.GetMetrics()
		if err := s.Pipeline.Publish(ctx, req.Slug); err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "portfolio_published", false, om,
				attribute.String("slug", req.Slug))
			writeAppError(w, err, "Failed to publish portfolio")
			return
		}

		metrics.RecordBusinessMetric(ctx, "portfolio_published", true, om,
			attribute.String("slug", req.Slug))
		span.SetAttributes(attribute.Bool("success", true))

		writeJSONResponse(w, http.StatusOK, PublishResponse{OK: true, Slug: req.Slug})
	}
}

// createDeleteHandler wraps the delete handler with observability
func (s *Server) createDeleteHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("foliogen.api")
		ctx, span := tracer.Start(ctx, "api.delete-portfolio")
		defer span.End()

		if r.Method != http.MethodPost {
			writeErrorResponse(w, "Method not allowed", "use POST", http.StatusMethodNotAllowed)
			return
		}

		var req DeleteRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Slug) == "" {
			err := fmt.Errorf("missing slug")
			span.RecordError(err)
			writeErrorResponse(w, "Missing slug", "slug field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(attribute.String("slug", req.Slug))

		metrics := om.GetMetrics()
		if err := s.Pipeline.Delete(ctx, req.Slug); err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "portfolio_deleted", false, om,
				attribute.String("slug", req.Slug))
			writeAppError(w, err, "Failed to delete portfolio")
			return
		}

		metrics.RecordBusinessMetric(ctx, "portfolio_deleted", true, om,
			attribute.String("slug", req.Slug))
		span.SetAttributes(attribute.Bool("success", true))

		writeJSONResponse(w, http.StatusOK, PublishResponse{OK: true})
	}
}

// createRenderHandler serves published portfolios by slug
func (s *Server) createRenderHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("foliogen.api")
		ctx, span := tracer.Start(ctx, "api.portfolio")
		defer span.End()

		slug := r.PathValue("slug")
		if slug == "" {
			writeErrorResponse(w, "Missing slug", "portfolio slug is required in the path", http.StatusBadRequest)
			return
		}

		span.SetAttributes(attribute.String("slug", slug))

		profile, err := s.Pipeline.Render(ctx, slug)
		if err != nil {
			span.RecordError(err)
			writeAppError(w, err, "Portfolio not found")
			return
		}

		span.SetAttributes(attribute.Bool("success", true))
		writeJSONResponse(w, http.StatusOK, profile)
	}
}

// parseUploadedFile reads the multipart "file" field from an upload request
func parseUploadedFile(r *http.Request, maxSize int64) (string, []byte, error) {
	if err := r.ParseMultipartForm(maxSize); err != nil {
		return "", nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("file field is required: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("uploaded file is empty")
	}

	return header.Filename, data, nil
}

// statusForError maps application errors to HTTP status codes
func statusForError(err error) int {
	var appErr *foliogenErrors.AppError
	if !goerrors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Code {
	case foliogenErrors.ErrCodeRecordNotFound:
		return http.StatusNotFound
	case foliogenErrors.ErrCodeInvalidTransition:
		return http.StatusConflict
	case foliogenErrors.ErrCodeAIOutputUnparseable, foliogenErrors.ErrCodeAIOutputSchema:
		return http.StatusBadGateway
	case foliogenErrors.ErrCodeInvalidFormat, foliogenErrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	}

	if appErr.Type == foliogenErrors.ErrorTypeValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeAppError writes an application error using the shared envelope
func writeAppError(w http.ResponseWriter, err error, fallback string) {
	status := statusForError(err)

	var appErr *foliogenErrors.AppError
	if goerrors.As(err, &appErr) {
		writeErrorResponse(w, appErr.Code, appErr.Message, status)
		return
	}
	writeErrorResponse(w, fallback, err.Error(), status)
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Check if this request was rate limited by examining the response
			// We'll wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
