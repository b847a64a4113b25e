// check-lookup verifies the visual-search provider configuration by
// sending a small synthetic image and printing what comes back.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"time"

	"github.com/plantque/plantque/internal/health"
	"github.com/plantque/plantque/internal/lookup"
)

func main() {
	apiKey := os.Getenv("SERP_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("SERPAPI_KEY")
	}

	fmt.Println("🔍 Checking Visual Lookup Configuration")
	fmt.Println("=======================================")

	if apiKey == "" {
		fmt.Println("⚠️  WARNING: SERP_API_KEY not set — lookup calls will be rejected")
		os.Exit(1)
	}
	fmt.Println("✅ Provider key configured")

	data, err := syntheticLeaf()
	if err != nil {
		log.Fatal("Failed to build test image:", err)
	}

	report := health.Analyze(data)
	fmt.Printf("🌿 Local health scan: %d%% (%s, issues: %s)\n", report.Percentage, report.Sunlight, report.Issues)

	client := lookup.NewClient(apiKey, os.Getenv("SERP_API_URL"), os.Getenv("LOOKUP_LANG"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	candidate, err := client.Identify(ctx, data)
	if errors.Is(err, lookup.ErrNoMatch) {
		fmt.Println("ℹ️  Provider reachable but returned no match for the synthetic image (expected)")
		return
	}
	if err != nil {
		log.Fatal("Lookup failed:", err)
	}

	fmt.Printf("✅ Provider answered: %s (%s)\n", candidate.Name, candidate.ScientificName)
	for _, link := range candidate.Shopping {
		fmt.Printf("   🛒 %s — %s\n", link.Title, link.URL)
	}
}

func syntheticLeaf() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 180, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
