package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"prepvoice/interview/internal/config"
	"prepvoice/interview/internal/handlers"
	"prepvoice/interview/internal/interview"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_ENV", "value")
	if got := getEnv("TEST_ENV", "fallback"); got != "value" {
		t.Fatalf("getEnv returned %s", got)
	}
	if got := getEnv("MISSING_ENV", "fallback"); got != "fallback" {
		t.Fatalf("getEnv default failed, got %s", got)
	}
}

func TestRegisterRoutes(t *testing.T) {
	router := chi.NewRouter()
	service := interview.NewService(nil, nil, nil, nil, nil, 0, zap.NewNop())
	interviewHandler := handlers.NewInterviewHandler(service, t.TempDir(), zap.NewNop())
	healthHandler := handlers.NewHealthHandler(nil, nil, &config.Config{Provider: "gemini"})

	registerRoutes(router, interviewHandler, healthHandler, "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /healthz to be registered, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/interviews/", nil)
	rec = httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected interview routes to require auth, got %d", rec.Code)
	}
}
