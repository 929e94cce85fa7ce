package handlers

import (
	"encoding/json"
	"net/http"
)

type videoGenerateRequest struct {
	Prompt string `json:"prompt"`
}

// VideosGenerate proxies a video generation request to the provider and
// returns its native prediction output.
func (a *App) VideosGenerate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if a.Video == nil {
		a.error(w, http.StatusServiceUnavailable, "service_unavailable", "video provider not configured")
		return
	}

	var req videoGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt is required")
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

	output, err := a.Video.Generate(r.Context(), req.Prompt)
	if err != nil {
		a.Log.Error().Err(err).Str("user_id", userID).Msg("video provider failed")
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

	a.json(w, http.StatusOK, output)
}
