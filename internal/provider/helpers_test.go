package provider

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lmshub/internal/models"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func floatPtr(f float64) *float64 {
	return &f
}

func strPtr(s string) *string {
	return &s
}

func newTestMoodle(t *testing.T, handler http.HandlerFunc) (*MoodleProvider, *httptest.Server) {
	t.Helper()

	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)

	p, err := NewMoodleProvider(models.ProviderConfig{
		Name:    "moodle",
		Kind:    models.KindMoodle,
		BaseURL: backend.URL,
		APIKey:  "moodle-token",
	})
	if err != nil {
		t.Fatalf("NewMoodleProvider: %v", err)
	}
	return p, backend
}

func newTestCanvas(t *testing.T, handler http.HandlerFunc) (*CanvasProvider, *httptest.Server) {
	t.Helper()

	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)

	p, err := NewCanvasProvider(models.ProviderConfig{
		Name:    "canvas",
		Kind:    models.KindCanvas,
		BaseURL: backend.URL,
		APIKey:  "canvas-token",
	})
	if err != nil {
		t.Fatalf("NewCanvasProvider: %v", err)
	}
	return p, backend
}

func newTestBlackboard(t *testing.T, handler http.HandlerFunc) (*BlackboardProvider, *httptest.Server) {
	t.Helper()

	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)

	p, err := NewBlackboardProvider(models.ProviderConfig{
		Name:    "blackboard",
		Kind:    models.KindBlackboard,
		BaseURL: backend.URL,
		APIKey:  "bb-token",
	})
	if err != nil {
		t.Fatalf("NewBlackboardProvider: %v", err)
	}
	return p, backend
}
