package health

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Sunlight labels surfaced in the sunlight_captured field.
const (
	SunlightLow      = "Low"
	SunlightAdequate = "Adequate"
	SunlightTooHigh  = "Too High"
)

// Report is the outcome of a pixel scan.
type Report struct {
	Percentage int
	Sunlight   string
	Issues     string
}

const (
	// maxEdge bounds the per-image scan cost: images larger than this on
	// their longer edge are downscaled before sampling.
	maxEdge = 150

	yellowRatioThreshold = 0.15
	brownRatioThreshold  = 0.10
)

// decodeFallback is returned whenever the payload cannot be decoded.
// The values are intentional and calibrated against the legacy service.
var decodeFallback = Report{Percentage: 85, Sunlight: "Medium", Issues: "Manual scan recommended"}

// emptyFallback covers decodable images with zero pixels.
var emptyFallback = Report{Percentage: 80, Sunlight: "Normal", Issues: "None"}

// Analyze scores plant vigor from raw image bytes. It is deterministic and
// never fails: malformed input yields a fixed fallback report because the
// health score is a best-effort enrichment, not a blocking requirement.
func Analyze(data []byte) Report {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return decodeFallback
	}

	img = downscale(img)
	bounds := img.Bounds()

	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return emptyFallback
	}

	var green, yellow, brown int
	var brightnessSum uint64

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			r := int(r16 >> 8)
			g := int(g16 >> 8)
			b := int(b16 >> 8)

			switch {
			case g > r && g > b:
				// live foliage proxy
				green++
			case r > 150 && g > 150 && b < 100:
				// chlorosis proxy
				yellow++
			case r > 100 && g < 100 && b < 100:
				// necrosis/dryness proxy
				brown++
			}

			brightnessSum += uint64(r + g + b)
		}
	}

	percentage := green*100/total + 30
	if percentage > 100 {
		percentage = 100
	}

	brightness := brightnessSum / uint64(total) / 3

	sunlight := SunlightLow
	switch {
	case brightness >= 190:
		sunlight = SunlightTooHigh
	case brightness > 110:
		sunlight = SunlightAdequate
	}

	// Yellowing takes precedence over dryness when both thresholds trip.
	issues := "None"
	switch {
	case float64(yellow) > yellowRatioThreshold*float64(total):
		issues = "Yellowing detected"
	case float64(brown) > brownRatioThreshold*float64(total):
		issues = "Dryness detected"
	}

	return Report{Percentage: percentage, Sunlight: sunlight, Issues: issues}
}

// downscale resamples img so its longer edge is at most maxEdge pixels.
// Images already within the bound are returned unchanged.
func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	longer := w
	if h > longer {
		longer = h
	}
	if longer <= maxEdge {
		return img
	}

	scale := float64(maxEdge) / float64(longer)
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
