package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"lmshub/internal/models"
	"lmshub/internal/provider"
	"lmshub/internal/router"
)

func TestGatewayRoutes(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/courses":
			fmt.Fprint(w, `[{"id": 1, "name": "Biology", "public_description": "Cells"}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer backend.Close()

	lms, err := provider.NewLMS([]models.ProviderConfig{
		{Name: "canvas", Kind: models.KindCanvas, BaseURL: backend.URL, APIKey: "tok"},
	})
	if err != nil {
		t.Fatalf("NewLMS: %v", err)
	}
	router.LMS = lms

	gateway := httptest.NewServer(Routes())
	defer gateway.Close()

	// Provider listing
	resp, err := http.Get(gateway.URL + "/v1/providers")
	if err != nil {
		t.Fatalf("GET /v1/providers: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("GET /v1/providers status = %d", resp.StatusCode)
	}
	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		t.Fatalf("decoding provider names: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"canvas"}) {
		t.Errorf("provider names = %v, want [canvas]", names)
	}

	// Courses pass through the configured adapter
	resp, err = http.Get(gateway.URL + "/v1/canvas/courses")
	if err != nil {
		t.Fatalf("GET /v1/canvas/courses: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("GET /v1/canvas/courses status = %d", resp.StatusCode)
	}
	var courses []models.Course
	if err := json.NewDecoder(resp.Body).Decode(&courses); err != nil {
		t.Fatalf("decoding courses: %v", err)
	}
	if len(courses) != 1 || courses[0].ID != "1" || courses[0].Name != "Biology" {
		t.Errorf("unexpected courses: %+v", courses)
	}

	// Unknown provider names are a 404
	resp, err = http.Get(gateway.URL + "/v1/sakai/courses")
	if err != nil {
		t.Fatalf("GET /v1/sakai/courses: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /v1/sakai/courses status = %d, want 404", resp.StatusCode)
	}
}
