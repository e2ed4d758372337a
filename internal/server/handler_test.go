package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"foliogen/internal/errors"
)

func newTestServer(t *testing.T, apiKeys []string) *Server {
	t.Helper()
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return NewServer(nil, ServerConfig{
		Host:           "localhost",
		Port:           "0",
		Version:        "test",
		APIKeys:        apiKeys,
		MaxRequestSize: 1 << 20,
	}, logger)
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "record not found",
			err:  errors.NewValidationError(errors.ErrCodeRecordNotFound, "portfolio not found", nil),
			want: http.StatusNotFound,
		},
		{
			name: "invalid transition",
			err:  errors.NewValidationError(errors.ErrCodeInvalidTransition, "cannot publish deleted portfolio", nil),
			want: http.StatusConflict,
		},
		{
			name: "unparseable AI output",
			err:  errors.NewAIError(errors.ErrCodeAIOutputUnparseable, "model returned invalid JSON", nil),
			want: http.StatusBadGateway,
		},
		{
			name: "schema violation",
			err:  errors.NewAIError(errors.ErrCodeAIOutputSchema, "missing required fields", nil),
			want: http.StatusBadGateway,
		},
		{
			name: "unsupported format",
			err:  errors.NewValidationError(errors.ErrCodeInvalidFormat, "unsupported file extension", nil),
			want: http.StatusBadRequest,
		},
		{
			name: "generic validation error",
			err:  errors.NewValidationError("SOME_VALIDATION", "bad input", nil),
			want: http.StatusBadRequest,
		},
		{
			name: "storage failure",
			err:  errors.NewStorageError(errors.ErrCodeStorageWriteFailed, "upload failed", nil),
			want: http.StatusInternalServerError,
		},
		{
			name: "plain error",
			err:  fmt.Errorf("something broke"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.want {
				t.Errorf("statusForError() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteAppError(t *testing.T) {
	w := httptest.NewRecorder()
	err := errors.NewValidationError(errors.ErrCodeRecordNotFound, "portfolio not found", nil)
	writeAppError(w, err, "fallback")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.OK {
		t.Error("expected ok=false in error response")
	}
	if resp.Error != errors.ErrCodeRecordNotFound {
		t.Errorf("expected error code %q, got %q", errors.ErrCodeRecordNotFound, resp.Error)
	}
	if resp.Message != "portfolio not found" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

func TestParseUploadedFile(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "resume.pdf")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte("%PDF-1.4 fake content")); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/create-portfolio", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	filename, data, err := parseUploadedFile(r, 1<<20)
	if err != nil {
		t.Fatalf("parseUploadedFile() error = %v", err)
	}
	if filename != "resume.pdf" {
		t.Errorf("expected filename resume.pdf, got %q", filename)
	}
	if string(data) != "%PDF-1.4 fake content" {
		t.Errorf("unexpected file data: %q", data)
	}
}

func TestParseUploadedFileMissingField(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("other", "value"); err != nil {
		t.Fatalf("failed to write field: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/create-portfolio", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	if _, _, err := parseUploadedFile(r, 1<<20); err == nil {
		t.Error("expected error for missing file field")
	}
}

func TestParseUploadedFileEmpty(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if _, err := mw.CreateFormFile("file", "resume.pdf"); err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/create-portfolio", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	if _, _, err := parseUploadedFile(r, 1<<20); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t, []string{"valid-key-12345"})

	handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		apiKey     string
		authHeader string
		want       int
	}{
		{"valid X-API-Key", "valid-key-12345", "", http.StatusOK},
		{"valid bearer token", "", "Bearer valid-key-12345", http.StatusOK},
		{"invalid key", "wrong-key", "", http.StatusUnauthorized},
		{"missing key", "", "", http.StatusUnauthorized},
		{"malformed auth header", "", "Basic dXNlcg==", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/create-portfolio", nil)
			if tt.apiKey != "" {
				r.Header.Set("X-API-Key", tt.apiKey)
			}
			if tt.authHeader != "" {
				r.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			handler(w, r)
			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestAuthMiddlewareNoKeysConfigured(t *testing.T) {
	s := newTestServer(t, nil)

	handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodPost, "/api/create-portfolio", nil)
	w := httptest.NewRecorder()
	handler(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("expected open access without configured keys, got %d", w.Code)
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"short", "****"},
		{"12345678", "****"},
		{"123456789abcdef", "12345678****"},
	}

	for _, tt := range tests {
		if got := maskAPIKey(tt.input); got != tt.want {
			t.Errorf("maskAPIKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
