package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultAPIURL = "https://serpapi.com/search"
	defaultLang   = "en"

	// engine selects reverse image search on the provider side.
	searchEngine = "google_lens"

	maxShoppingLinks = 2
)

// ErrNoMatch covers every way a lookup can come back empty: provider
// error, transport failure, timeout, or an empty match list. Callers must
// not distinguish between them.
var ErrNoMatch = errors.New("no visual match found")

// defaultCare is the fixed guidance shipped with every identification.
var defaultCare = CareText{
	Water:    "Twice a week, when topsoil feels dry",
	Soil:     "Well-draining potting mix",
	Humidity: "50-60%, mist the leaves regularly",
}

// Client talks to the reverse image search provider.
type Client struct {
	apiKey     string
	apiURL     string
	lang       string
	httpClient *http.Client
}

// NewClient builds a lookup client. apiURL and lang fall back to the
// provider default and "en" when empty.
func NewClient(apiKey, apiURL, lang string) *Client {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	if lang == "" {
		lang = defaultLang
	}

	return &Client{
		apiKey: apiKey,
		apiURL: apiURL,
		lang:   lang,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Identify uploads the raw image and returns the provider's best
// candidate. Every failure mode surfaces as ErrNoMatch; transport
// problems are logged for operators but not exposed to callers.
func (c *Client) Identify(ctx context.Context, imageData []byte) (*Candidate, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("encoded_image", "plant.jpg")
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("writing image payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	params := url.Values{}
	params.Set("engine", searchEngine)
	params.Set("hl", c.lang)

	fullURL := fmt.Sprintf("%s?%s", c.apiURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "POST", fullURL, &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[LOOKUP] provider unreachable: %v", err)
		return nil, ErrNoMatch
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[LOOKUP] provider returned status %d", resp.StatusCode)
		return nil, ErrNoMatch
	}

	var lens lensResponse
	if err := json.NewDecoder(resp.Body).Decode(&lens); err != nil {
		log.Printf("[LOOKUP] decoding provider response: %v", err)
		return nil, ErrNoMatch
	}

	if len(lens.VisualMatches) == 0 {
		return nil, ErrNoMatch
	}

	primary := lens.VisualMatches[0]

	candidate := &Candidate{
		Name:           primary.Title,
		ScientificName: primary.Source,
		ImageRef:       primary.Thumbnail,
		Care:           defaultCare,
	}

	// A knowledge panel, when present, is more precise than the raw match.
	if len(lens.KnowledgeGraph) > 0 {
		kg := lens.KnowledgeGraph[0]
		if kg.Title != "" {
			candidate.Name = kg.Title
		}
		if kg.Subtitle != "" {
			candidate.ScientificName = kg.Subtitle
		}
	}

	for i, match := range lens.VisualMatches {
		if i >= maxShoppingLinks {
			break
		}
		candidate.Shopping = append(candidate.Shopping, Link{Title: match.Title, URL: match.Link})
	}

	return candidate, nil
}
