package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/plantque/plantque/internal/api"
	"github.com/plantque/plantque/internal/cache"
	"github.com/plantque/plantque/internal/identify"
	"github.com/plantque/plantque/internal/lookup"
	"github.com/plantque/plantque/internal/ratelimit"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	apiKey := os.Getenv("SERP_API_KEY")
	if apiKey == "" {
		// Legacy deployments exported the key under this name.
		apiKey = os.Getenv("SERPAPI_KEY")
	}
	if apiKey == "" {
		log.Fatal("SERP_API_KEY is not set")
	}

	apiURL := os.Getenv("SERP_API_URL")
	lookupLang := os.Getenv("LOOKUP_LANG")

	maxBodySize := envInt64("MAX_BODY_SIZE", 10*1024*1024)
	cacheTTL := time.Duration(envInt64("CACHE_TTL", 3600)) * time.Second
	rateLimit := int(envInt64("RATE_LIMIT", ratelimit.DefaultLimit))
	rateWindow := time.Duration(envInt64("RATE_WINDOW", 60)) * time.Second
	lookupTimeout := time.Duration(envInt64("LOOKUP_TIMEOUT", 25)) * time.Second

	redisAddr := os.Getenv("REDIS_ADDR")
	var redisClient *redis.Client
	if redisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: redisAddr})
	}

	cacheBackend := os.Getenv("CACHE_BACKEND")
	if cacheBackend == "" {
		cacheBackend = "memory"
	}

	var store cache.Store
	var err error
	switch cacheBackend {
	case "memory":
		store = cache.NewMemory(cacheTTL)
	case "redis":
		if redisClient == nil {
			log.Fatal("CACHE_BACKEND=redis requires REDIS_ADDR")
		}
		store = cache.NewRedis(redisClient, cacheTTL)
	case "sqlite":
		store, err = cache.NewSQLite(os.Getenv("CACHE_DB_PATH"), cacheTTL)
		if err != nil {
			log.Fatal("Failed to initialize sqlite cache:", err)
		}
	default:
		log.Fatal("Unsupported cache backend: ", cacheBackend)
	}
	defer store.Close()

	var limiter ratelimit.Strategy
	if redisClient != nil {
		limiter = ratelimit.NewRedisFixedWindow(redisClient, rateLimit, rateWindow)
	} else {
		memLimiter := ratelimit.NewFixedWindow(rateLimit, rateWindow)
		defer memLimiter.Close()
		limiter = memLimiter
	}

	lookupClient := lookup.NewClient(apiKey, apiURL, lookupLang)

	service := identify.NewService(limiter, store, lookupClient, identify.Config{
		LookupTimeout: lookupTimeout,
	})

	app := &api.App{
		Service:     service,
		MaxBodySize: maxBodySize,
	}

	router := api.NewRouter(app)

	log.Printf("Server starting on port %s", port)
	log.Printf("Cache backend: %s (TTL %s)", cacheBackend, cacheTTL)
	log.Printf("Rate limit: %d requests per %s", rateLimit, rateWindow)
	if redisAddr != "" {
		log.Printf("Redis: %s", redisAddr)
	}

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}

func envInt64(name string, fallback int64) int64 {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Fatalf("Invalid %s: %v", name, err)
	}
	return value
}
