package lookup

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleResponse = `{
	"visual_matches": [
		{"title": "Snake Plant", "link": "https://shop.example/snake", "source": "Sansevieria trifasciata", "thumbnail": "https://img.example/snake.jpg"},
		{"title": "Snake Plant Pot", "link": "https://shop.example/pot", "source": "example.com", "thumbnail": "https://img.example/pot.jpg"},
		{"title": "Mother-in-law's Tongue", "link": "https://shop.example/milt", "source": "example.org", "thumbnail": "https://img.example/milt.jpg"}
	],
	"knowledge_graph": [
		{"title": "Snake plant", "subtitle": "Dracaena trifasciata"}
	]
}`

func TestIdentifySuccess(t *testing.T) {
	var gotEngine, gotLang, gotAuth string
	var gotImage []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEngine = r.URL.Query().Get("engine")
		gotLang = r.URL.Query().Get("hl")
		gotAuth = r.Header.Get("Authorization")

		file, _, err := r.FormFile("encoded_image")
		if err != nil {
			t.Errorf("missing encoded_image part: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotImage, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, "en")

	candidate, err := client.Identify(context.Background(), []byte("raw image bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotEngine != "google_lens" {
		t.Errorf("expected engine google_lens, got %q", gotEngine)
	}
	if gotLang != "en" {
		t.Errorf("expected hl=en, got %q", gotLang)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if string(gotImage) != "raw image bytes" {
		t.Errorf("image payload not forwarded intact")
	}

	// Knowledge panel overrides the primary match's title/source.
	if candidate.Name != "Snake plant" {
		t.Errorf("expected knowledge panel name, got %q", candidate.Name)
	}
	if candidate.ScientificName != "Dracaena trifasciata" {
		t.Errorf("expected knowledge panel subtitle, got %q", candidate.ScientificName)
	}
	if candidate.ImageRef != "https://img.example/snake.jpg" {
		t.Errorf("unexpected image ref %q", candidate.ImageRef)
	}

	if len(candidate.Shopping) != 2 {
		t.Fatalf("expected 2 shopping links, got %d", len(candidate.Shopping))
	}
	if candidate.Shopping[0].URL != "https://shop.example/snake" {
		t.Errorf("unexpected first shopping link %q", candidate.Shopping[0].URL)
	}

	if candidate.Care.Water == "" || candidate.Care.Soil == "" || candidate.Care.Humidity == "" {
		t.Errorf("care text must always be populated: %+v", candidate.Care)
	}
}

func TestIdentifyWithoutKnowledgePanel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"visual_matches": [{"title": "Aloe Vera", "link": "https://shop.example/aloe", "source": "Aloe barbadensis"}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, "en")

	candidate, err := client.Identify(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidate.Name != "Aloe Vera" || candidate.ScientificName != "Aloe barbadensis" {
		t.Errorf("expected primary match identity, got %+v", candidate)
	}
}

func TestIdentifyFailureModesCollapse(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "empty match list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"visual_matches": []}`))
			},
		},
		{
			name: "provider error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient("test-key", server.URL, "en")

			_, err := client.Identify(context.Background(), []byte("img"))
			if !errors.Is(err, ErrNoMatch) {
				t.Errorf("expected ErrNoMatch, got %v", err)
			}
		})
	}
}

func TestIdentifyTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // immediately, so the dial fails

	client := NewClient("test-key", server.URL, "en")

	_, err := client.Identify(context.Background(), []byte("img"))
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("transport failure must collapse to ErrNoMatch, got %v", err)
	}
}
