package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/plantque/plantque/internal/identify"
	"github.com/plantque/plantque/internal/lookup"
	"github.com/plantque/plantque/internal/models"
)

// IdentifyService is what the handlers need from the orchestrator.
type IdentifyService interface {
	Identify(ctx context.Context, imageData []byte, clientKey string) (*models.Result, error)
	AnswerQuery(query, lang string) string
}

type App struct {
	Service     IdentifyService
	MaxBodySize int64
}

type identifyRequest struct {
	ImageBase64 string `json:"imageBase64"`
	UserID      string `json:"userId"`
}

type voiceQueryRequest struct {
	Query string `json:"query"`
	Lang  string `json:"lang"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

func (app *App) StatusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "plantque",
	})
}

func (app *App) IdentifyHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxBodySize)

	var req identifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Invalid request body"})
		return
	}

	if req.ImageBase64 == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "imageBase64 is required"})
		return
	}

	imageData, err := decodeImagePayload(req.ImageBase64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "imageBase64 is not valid base64"})
		return
	}

	clientKey := req.UserID
	if clientKey == "" {
		clientKey = clientIP(r)
	}

	result, err := app.Service.Identify(r.Context(), imageData, clientKey)
	switch {
	case errors.Is(err, identify.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Detail: "Too many requests. Kripya 1 minute baad koshish karein.",
		})
		return
	case errors.Is(err, lookup.ErrNoMatch):
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Detail: "Plant identify nahi ho paya. Kripya dobara koshish karein.",
		})
		return
	case err != nil:
		log.Printf("[API] identify failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Detail: "Server error. Kripya dobara koshish karein.",
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (app *App) VoiceQueryHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxBodySize)

	var req voiceQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Invalid request body"})
		return
	}

	answer := app.Service.AnswerQuery(req.Query, req.Lang)
	writeJSON(w, http.StatusOK, answerResponse{Answer: answer})
}

// decodeImagePayload accepts plain base64 or a data URL. Everything up
// to and including the LAST comma is stripped before decoding.
func decodeImagePayload(payload string) ([]byte, error) {
	if idx := strings.LastIndex(payload, ","); idx >= 0 {
		payload = payload[idx+1:]
	}
	return base64.StdEncoding.DecodeString(payload)
}

// clientIP falls back to the transport address when the body carries no
// user id. The first X-Forwarded-For hop wins behind a proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[API] writing response: %v", err)
	}
}
