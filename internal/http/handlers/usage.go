package handlers

import (
	"net/http"

	"github.com/scribo-ai/server/internal/access"
)

type usageResponse struct {
	Count int  `json:"count"`
	Limit int  `json:"limit"`
	IsPro bool `json:"is_pro"`
}

// UsageShow reports the caller's consumed free-tier quota and
// subscription state, for rendering upgrade prompts client-side.
func (a *App) UsageShow(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	count, err := a.Gate.Meter.Current(r.Context(), userID)
	if err != nil {
		a.Log.Error().Err(err).Str("user_id", userID).Msg("usage lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	subscriber, err := a.Gate.Status.IsActive(r.Context(), userID)
	if err != nil {
		a.Log.Error().Err(err).Str("user_id", userID).Msg("subscription lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	a.json(w, http.StatusOK, usageResponse{Count: count, Limit: access.FreeTierLimit, IsPro: subscriber})
}
