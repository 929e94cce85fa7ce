package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/scribo-ai/server/internal/providers/image"
)

type imageGenerateRequest struct {
	Prompt     string `json:"prompt"`
	Amount     int    `json:"amount"`
	Resolution string `json:"resolution"`
}

// ImagesGenerate proxies an image generation request to the provider.
func (a *App) ImagesGenerate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if a.Image == nil {
		a.error(w, http.StatusServiceUnavailable, "service_unavailable", "image provider not configured")
		return
	}

	req := imageGenerateRequest{Amount: 1, Resolution: image.Resolution512}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt is required")
		return
	}
	if req.Amount <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "amount must be a positive integer")
		return
	}
	if req.Resolution == "" {
		req.Resolution = image.Resolution512
	}
	if !image.ValidResolution(req.Resolution) {
		a.error(w, http.StatusBadRequest, "bad_request", "resolution must be one of 256x256, 512x512, 1024x1024")
		return
	}

	decision, err := a.Gate.Allow(r.Context(), userID)
	if err != nil {
		a.Log.Error().Err(err).Str("user_id", userID).Msg("access gate failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	if !decision.Allowed {
		a.error(w, http.StatusForbidden, "quota_exceeded", "free trial has expired, please upgrade to pro")
		return
	}

	images, err := a.Image.Generate(r.Context(), image.GenerateRequest{
		Prompt:     req.Prompt,
		Amount:     req.Amount,
		Resolution: req.Resolution,
	})
	if err != nil {
		a.Log.Error().Err(err).Str("user_id", userID).Msg("image provider failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	if !decision.Subscriber {
		if err := a.Gate.Meter.Increment(r.Context(), userID); err != nil {
			a.Log.Error().Err(err).Str("user_id", userID).Msg("usage increment failed")
			a.error(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}
	}

	a.json(w, http.StatusOK, images)
}
