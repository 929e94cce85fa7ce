package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/scribo-ai/server/internal/access"
	"github.com/scribo-ai/server/internal/adapter/repo"
	"github.com/scribo-ai/server/internal/billing"
	"github.com/scribo-ai/server/internal/http/handlers"
	"github.com/scribo-ai/server/internal/infra"
	"github.com/scribo-ai/server/internal/middleware"
)

// stubBilling satisfies billing.Client so the webhook route is
// configured; none of the router tests reach an outbound Stripe call.
type stubBilling struct{}

func (stubBilling) NewCheckoutSession(ctx context.Context, userID, email string) (string, error) {
	return "", nil
}

func (stubBilling) NewPortalSession(ctx context.Context, customerID string) (string, error) {
	return "", nil
}

func (stubBilling) GetSubscription(ctx context.Context, subscriptionID string) (*billing.Subscription, error) {
	return nil, nil
}

func newTestRouter() http.Handler {
	usage := repo.NewUsageRepositoryMem()
	subs := repo.NewSubscriptionRepositoryMem()
	app := &handlers.App{
		Config: &infra.Config{
			AppURL:              "http://localhost:3000",
			JWTSecret:           "test-secret",
			StripeWebhookSecret: "whsec_test",
			RateLimitPerMin:     100,
		},
		Log:     zerolog.Nop(),
		Gate:    access.NewGate(access.NewMeter(usage), access.NewStatus(subs)),
		Subs:    subs,
		Billing: stubBilling{},
	}
	return NewRouter(app)
}

func TestRouterHealthz(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRouterRequiresAuthOnAPIGroup(t *testing.T) {
	router := newTestRouter()

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/conversation"},
		{http.MethodPost, "/api/image"},
		{http.MethodPost, "/api/video"},
		{http.MethodGet, "/api/stripe"},
		{http.MethodGet, "/api/usage"},
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, strings.NewReader(`{}`)))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: status = %d, want 401", route.method, route.path, rec.Code)
		}
	}
}

func TestRouterAcceptsSignedToken(t *testing.T) {
	router := newTestRouter()

	token, err := middleware.SignJWT("test-secret", middleware.TokenClaims{
		Sub: "user-1",
		Exp: time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("SignJWT returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/usage", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterWebhookSkipsAuth(t *testing.T) {
	router := newTestRouter()

	// No bearer token: the webhook authenticates with its signature
	// header, and a garbage signature is a 400, not a 401.
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=bad")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
