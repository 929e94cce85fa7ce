package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/scribo-ai/server/internal/domain"
)

// Stripe webhook bodies are small; cap reads to keep a hostile sender
// from streaming an unbounded payload.
const maxWebhookBytes = int64(65536)

// StripeWebhook applies subscription lifecycle events. Unverified
// events are rejected before any state change; verified events that
// fail processing return 500 so Stripe redelivers them, which is safe
// because both writes below are upserts keyed on stable ids.
func (a *App) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	if a.Config.StripeWebhookSecret == "" || a.Billing == nil {
		a.error(w, http.StatusServiceUnavailable, "service_unavailable", "webhook not configured")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		body,
		r.Header.Get("Stripe-Signature"),
		a.Config.StripeWebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		a.Log.Warn().Err(err).Msg("webhook signature verification failed")
		a.error(w, http.StatusBadRequest, "signature_invalid", "signature verification failed")
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid session payload")
			return
		}
		userID := sess.Metadata["userId"]
		if userID == "" {
			a.error(w, http.StatusBadRequest, "bad_request", "user id is required")
			return
		}
		if sess.Subscription == nil || sess.Subscription.ID == "" {
			a.error(w, http.StatusBadRequest, "bad_request", "missing subscription reference")
			return
		}

		sub, err := a.Billing.GetSubscription(r.Context(), sess.Subscription.ID)
		if err != nil {
			a.Log.Error().Err(err).Str("event_id", event.ID).Msg("subscription retrieval failed")
			a.error(w, http.StatusInternalServerError, "internal", "webhook processing error")
			return
		}

		_, err = a.Subs.Upsert(r.Context(), &domain.SubscriptionRecord{
			UserID:           userID,
			CustomerID:       sub.CustomerID,
			SubscriptionID:   sub.ID,
			PriceID:          sub.PriceID,
			CurrentPeriodEnd: sub.CurrentPeriodEnd,
		})
		if err != nil {
			a.Log.Error().Err(err).Str("event_id", event.ID).Str("user_id", userID).Msg("subscription upsert failed")
			a.error(w, http.StatusInternalServerError, "internal", "webhook processing error")
			return
		}
		a.Log.Info().Str("user_id", userID).Str("subscription_id", sub.ID).Msg("checkout completed")

	case "invoice.payment_succeeded":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid invoice payload")
			return
		}
		if inv.Subscription == nil || inv.Subscription.ID == "" {
			a.error(w, http.StatusBadRequest, "bad_request", "missing subscription reference")
			return
		}

		sub, err := a.Billing.GetSubscription(r.Context(), inv.Subscription.ID)
		if err != nil {
			a.Log.Error().Err(err).Str("event_id", event.ID).Msg("subscription retrieval failed")
			a.error(w, http.StatusInternalServerError, "internal", "webhook processing error")
			return
		}

		// A renewal for a subscription we never recorded is an
		// inconsistency, not an implicit signup; report it and let
		// Stripe retry rather than inventing a record.
		_, err = a.Subs.UpdateBySubscriptionID(r.Context(), sub.ID, sub.PriceID, sub.CurrentPeriodEnd)
		if err != nil {
			a.Log.Error().Err(err).Str("event_id", event.ID).Str("subscription_id", sub.ID).Msg("subscription renewal update failed")
			a.error(w, http.StatusInternalServerError, "internal", "webhook processing error")
			return
		}
		a.Log.Info().Str("subscription_id", sub.ID).Msg("subscription renewed")

	default:
		// Verified but not interesting; acknowledge so Stripe stops retrying.
		a.Log.Debug().Str("event_type", string(event.Type)).Msg("webhook event ignored")
	}

	w.WriteHeader(http.StatusOK)
}
