package integration

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/plantque/plantque/internal/api"
	"github.com/plantque/plantque/internal/cache"
	"github.com/plantque/plantque/internal/identify"
	"github.com/plantque/plantque/internal/lookup"
	"github.com/plantque/plantque/internal/ratelimit"
)

const providerResponse = `{
	"visual_matches": [
		{"title": "Snake Plant", "link": "https://shop.example/snake", "source": "Sansevieria", "thumbnail": "https://img.example/snake.jpg"},
		{"title": "Snake Plant Pot", "link": "https://shop.example/pot", "source": "example.com", "thumbnail": "https://img.example/pot.jpg"}
	],
	"knowledge_graph": [
		{"title": "Snake plant", "subtitle": "Dracaena trifasciata"}
	]
}`

type TestServer struct {
	Server       *httptest.Server
	ProviderHits *atomic.Int64
}

type testConfig struct {
	rateLimit    int
	providerBody string
}

func setupTestServer(t *testing.T, cfg testConfig) *TestServer {
	t.Helper()

	if cfg.rateLimit == 0 {
		cfg.rateLimit = 40
	}
	if cfg.providerBody == "" {
		cfg.providerBody = providerResponse
	}

	hits := &atomic.Int64{}

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cfg.providerBody))
	}))
	t.Cleanup(provider.Close)

	limiter := ratelimit.NewFixedWindow(cfg.rateLimit, time.Minute)
	t.Cleanup(func() { limiter.Close() })

	store := cache.NewMemory(time.Hour)
	t.Cleanup(func() { store.Close() })

	lookupClient := lookup.NewClient("test-key", provider.URL, "en")
	service := identify.NewService(limiter, store, lookupClient, identify.Config{})

	app := &api.App{Service: service, MaxBodySize: 10 << 20}
	server := httptest.NewServer(api.NewRouter(app))
	t.Cleanup(server.Close)

	return &TestServer{Server: server, ProviderHits: hits}
}

// greenPlantImage renders a decodable all-green test photo.
func greenPlantImage(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.RGBA{R: 20, G: 200, B: 20, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func postIdentify(t *testing.T, ts *TestServer, imageData []byte, userID string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	payload, err := json.Marshal(map[string]string{
		"imageBase64": base64.StdEncoding.EncodeToString(imageData),
		"userId":      userID,
	})
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}

	resp, err := http.Post(ts.Server.URL+"/api/identify", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("posting identify request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var body map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return resp, body
}
