package handlers

import (
	"errors"
	"net/http"

	"github.com/scribo-ai/server/internal/domain"
	"github.com/scribo-ai/server/internal/middleware"
)

// BillingSession starts or resumes the Stripe subscription flow.
// Existing customers get a billing-portal session, everyone else a
// checkout session; either way the caller redirects to the URL.
func (a *App) BillingSession(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if a.Billing == nil {
		a.error(w, http.StatusServiceUnavailable, "service_unavailable", "billing not configured")
		return
	}

	rec, err := a.Subs.GetByUserID(r.Context(), userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		a.Log.Error().Err(err).Str("user_id", userID).Msg("subscription lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	if rec != nil && rec.CustomerID != "" {
		url, err := a.Billing.NewPortalSession(r.Context(), rec.CustomerID)
		if err != nil {
			a.Log.Error().Err(err).Str("user_id", userID).Msg("portal session failed")
			a.error(w, http.StatusInternalServerError, "internal", "internal error")
			return
		}
		a.json(w, http.StatusOK, map[string]string{"url": url})
		return
	}

	email := middleware.UserEmailFromContext(r.Context())
	url, err := a.Billing.NewCheckoutSession(r.Context(), userID, email)
	if err != nil {
		a.Log.Error().Err(err).Str("user_id", userID).Msg("checkout session failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"url": url})
}
