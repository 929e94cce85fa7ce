package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/scribo-ai/server/internal/providers/prompt"
)

type conversationRequest struct {
	Messages []prompt.Message `json:"messages"`
}

// ConversationGenerate proxies a chat conversation to the completion
// provider, gated behind the free-tier counter or an active subscription.
func (a *App) ConversationGenerate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if a.Prompt == nil {
		a.error(w, http.StatusServiceUnavailable, "service_unavailable", "completion provider not configured")
		return
	}

	var req conversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if len(req.Messages) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "messages are required")
		return
	}
	for _, m := range req.Messages {
		if m.Role == "" || m.Content == "" {
			a.error(w, http.StatusBadRequest, "bad_request", "messages must have role and content")
			return
		}
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

	msg, err := a.Prompt.Complete(r.Context(), req.Messages)
	if err != nil {
		a.Log.Error().Err(err).Str("user_id", userID).Msg("conversation provider failed")
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

	a.json(w, http.StatusOK, msg)
}
