// Package identify orchestrates one scan: admission, cache
// short-circuit, the concurrent visual lookup and pixel analysis, and
// composing the final result.
package identify

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/plantque/plantque/internal/cache"
	"github.com/plantque/plantque/internal/classify"
	"github.com/plantque/plantque/internal/health"
	"github.com/plantque/plantque/internal/lookup"
	"github.com/plantque/plantque/internal/models"
	"github.com/plantque/plantque/internal/ratelimit"
)

// ErrRateLimited is returned before any other work when the client
// exceeded its admission ceiling.
var ErrRateLimited = errors.New("rate limit exceeded")

// DefaultLookupTimeout bounds the outbound visual-search call.
const DefaultLookupTimeout = 25 * time.Second

// Lookup is the outbound visual-search dependency.
type Lookup interface {
	Identify(ctx context.Context, imageData []byte) (*lookup.Candidate, error)
}

// Service wires the scan pipeline together.
type Service struct {
	limiter ratelimit.Strategy
	store   cache.Store
	lookup  Lookup
	analyze func(data []byte) health.Report

	lookupTimeout time.Duration
}

type Config struct {
	LookupTimeout time.Duration
}

func NewService(limiter ratelimit.Strategy, store cache.Store, lk Lookup, config Config) *Service {
	if config.LookupTimeout <= 0 {
		config.LookupTimeout = DefaultLookupTimeout
	}

	return &Service{
		limiter:       limiter,
		store:         store,
		lookup:        lk,
		analyze:       health.Analyze,
		lookupTimeout: config.LookupTimeout,
	}
}

// Identify runs one scan for clientKey. The lookup and the pixel
// analysis have no data dependency and run concurrently; a lookup
// failure is fatal to the request while the analysis degrades to its
// internal fallback. Only fully composed results reach the cache.
func (s *Service) Identify(ctx context.Context, imageData []byte, clientKey string) (*models.Result, error) {
	admission, err := s.limiter.Allow(ctx, clientKey)
	if err != nil {
		// Fail open: a broken limiter backend must not take identification down.
		log.Printf("[LIMIT] admission check failed for %s: %v", clientKey, err)
	} else if !admission.Allowed {
		return nil, ErrRateLimited
	}

	fp := Fingerprint(imageData)

	if cached, ok, err := s.store.Get(ctx, fp); err != nil {
		log.Printf("[CACHE] lookup failed for %s: %v", fp, err)
	} else if ok {
		log.Printf("[IDENT] cache hit for %s", fp)
		return cached, nil
	}

	var candidate *lookup.Candidate
	var report health.Report

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lookupCtx, cancel := context.WithTimeout(gctx, s.lookupTimeout)
		defer cancel()

		c, err := s.lookup.Identify(lookupCtx, imageData)
		if err != nil {
			return err
		}
		candidate = c
		return nil
	})

	g.Go(func() error {
		report = s.analyze(imageData)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := compose(candidate, report)

	if err := s.store.Put(ctx, fp, result); err != nil {
		log.Printf("[CACHE] store failed for %s: %v", fp, err)
	}

	log.Printf("[IDENT] scan %s identified %q", result.ScanID, result.Identity.Name)

	return result, nil
}

// AnswerQuery resolves the voice/text endpoint.
func (s *Service) AnswerQuery(query, lang string) string {
	return classify.Answer(query, lang)
}

func compose(candidate *lookup.Candidate, report health.Report) *models.Result {
	result := &models.Result{
		ScanID: uuid.New().String(),
		Identity: models.Identity{
			Name:           candidate.Name,
			ScientificName: candidate.ScientificName,
			ImageRef:       candidate.ImageRef,
		},
		Health: models.Health{
			Percentage: report.Percentage,
			Sunlight:   report.Sunlight,
			Issues:     report.Issues,
		},
		Care: models.Care{
			Water:    candidate.Care.Water,
			Soil:     candidate.Care.Soil,
			Humidity: candidate.Care.Humidity,
		},
	}

	for _, link := range candidate.Shopping {
		result.Shopping = append(result.Shopping, models.ShoppingLink{Title: link.Title, Link: link.URL})
	}

	return result
}
