package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog"

	"github.com/scribo-ai/server/internal/access"
	"github.com/scribo-ai/server/internal/adapter/repo"
	"github.com/scribo-ai/server/internal/billing"
	"github.com/scribo-ai/server/internal/infra"
	"github.com/scribo-ai/server/internal/middleware"
	"github.com/scribo-ai/server/internal/providers/image"
	"github.com/scribo-ai/server/internal/providers/prompt"
)

type fakePrompt struct {
	msg   *prompt.Message
	err   error
	calls int
}

func (f *fakePrompt) Complete(ctx context.Context, messages []prompt.Message) (*prompt.Message, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.msg != nil {
		return f.msg, nil
	}
	return &prompt.Message{Role: "assistant", Content: "ok"}, nil
}

type fakeImage struct {
	images  []image.Image
	err     error
	calls   int
	lastReq image.GenerateRequest
}

func (f *fakeImage) Generate(ctx context.Context, req image.GenerateRequest) ([]image.Image, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.images, nil
}

type fakeVideo struct {
	output     json.RawMessage
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeVideo) Generate(ctx context.Context, promptText string) (json.RawMessage, error) {
	f.calls++
	f.lastPrompt = promptText
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

type fakeBilling struct {
	checkoutURL      string
	portalURL        string
	sub              *billing.Subscription
	subErr           error
	checkoutCalls    int
	portalCalls      int
	lastCheckoutUser string
	lastPortalCust   string
}

func (f *fakeBilling) NewCheckoutSession(ctx context.Context, userID, email string) (string, error) {
	f.checkoutCalls++
	f.lastCheckoutUser = userID
	return f.checkoutURL, nil
}

func (f *fakeBilling) NewPortalSession(ctx context.Context, customerID string) (string, error) {
	f.portalCalls++
	f.lastPortalCust = customerID
	return f.portalURL, nil
}

func (f *fakeBilling) GetSubscription(ctx context.Context, subscriptionID string) (*billing.Subscription, error) {
	if f.subErr != nil {
		return nil, f.subErr
	}
	return f.sub, nil
}

type testEnv struct {
	app   *App
	usage *repo.UsageRepositoryMem
	subs  *repo.SubscriptionRepositoryMem
}

func newTestEnv() *testEnv {
	usage := repo.NewUsageRepositoryMem()
	subs := repo.NewSubscriptionRepositoryMem()
	app := &App{
		Config: &infra.Config{
			AppURL:              "http://localhost:3000",
			StripeWebhookSecret: "whsec_test",
		},
		Log:  zerolog.Nop(),
		Gate: access.NewGate(access.NewMeter(usage), access.NewStatus(subs)),
		Subs: subs,
	}
	return &testEnv{app: app, usage: usage, subs: subs}
}

const testUserID = "user-1"

func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := middleware.ContextWithUser(req.Context(), testUserID, "user@example.com")
	return req.WithContext(ctx)
}
