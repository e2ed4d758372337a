package ai

import (
	"errors"
	"testing"
	"time"

	"foliogen/internal/config"
	apperrors "foliogen/internal/errors"

	"google.golang.org/genai"
)

func breakerConfig(enabled bool) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          enabled,
			MaxRequests:      3,
			Interval:         10 * time.Second,
			Timeout:          5 * time.Second,
			MinRequests:      2,
			FailureThreshold: 0.5,
		},
	}
}

func testLogger(t *testing.T) *apperrors.Logger {
	t.Helper()
	logger, err := apperrors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return logger
}

func TestDisabledBreakerIsNil(t *testing.T) {
	cb := NewAICircuitBreaker("portfolio", breakerConfig(false), testLogger(t))
	if cb != nil {
		t.Fatal("expected nil breaker when disabled")
	}

	// A nil breaker must still execute calls directly
	called := false
	_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		called = true
		return nil, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("nil breaker did not execute the function")
	}

	if !cb.IsHealthy() {
		t.Error("nil breaker should report healthy")
	}
	stats := cb.GetStats()
	if stats["enabled"] != false {
		t.Errorf("stats = %v, want enabled=false", stats)
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	cb := NewAICircuitBreaker("portfolio", breakerConfig(true), testLogger(t))
	if cb == nil {
		t.Fatal("expected breaker when enabled")
	}

	failure := errors.New("upstream unavailable")
	for range 5 {
		_, _ = cb.Execute(func() (*genai.GenerateContentResponse, error) {
			return nil, failure
		})
	}

	if cb.IsHealthy() {
		t.Error("breaker should be open after repeated failures")
	}

	// Calls through an open breaker fail fast without invoking the function
	called := false
	_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		called = true
		return nil, nil
	})
	if err == nil {
		t.Error("expected error from open breaker")
	}
	if called {
		t.Error("open breaker should not invoke the function")
	}

	stats := cb.GetStats()
	if stats["enabled"] != true {
		t.Errorf("stats = %v, want enabled=true", stats)
	}
	if stats["state"] != "open" {
		t.Errorf("state = %v, want open", stats["state"])
	}
}

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	cb := NewAICircuitBreaker("scorecard", breakerConfig(true), testLogger(t))

	for range 10 {
		_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
			return &genai.GenerateContentResponse{}, nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if !cb.IsHealthy() {
		t.Error("breaker should stay closed on success")
	}
}

func TestModelBreakerDisabled(t *testing.T) {
	mb := NewModelCircuitBreaker("portfolio", breakerConfig(false), testLogger(t))
	if mb != nil {
		t.Fatal("expected nil model breaker when disabled")
	}
	if !mb.IsModelHealthy() {
		t.Error("nil model breaker should report healthy")
	}
	if mb.GetModelStats()["enabled"] != false {
		t.Error("expected enabled=false stats from nil model breaker")
	}
}
