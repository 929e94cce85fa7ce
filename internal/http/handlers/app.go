package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/scribo-ai/server/internal/access"
	"github.com/scribo-ai/server/internal/billing"
	"github.com/scribo-ai/server/internal/domain"
	"github.com/scribo-ai/server/internal/infra"
	"github.com/scribo-ai/server/internal/middleware"
	"github.com/scribo-ai/server/internal/providers/image"
	"github.com/scribo-ai/server/internal/providers/prompt"
)

// PromptProvider generates chat completions.
type PromptProvider interface {
	Complete(ctx context.Context, messages []prompt.Message) (*prompt.Message, error)
}

// ImageProvider generates images.
type ImageProvider interface {
	Generate(ctx context.Context, req image.GenerateRequest) ([]image.Image, error)
}

// VideoProvider generates videos and returns the provider-native output.
type VideoProvider interface {
	Generate(ctx context.Context, promptText string) (json.RawMessage, error)
}

// App bundles the dependencies every handler needs. Provider fields are
// nil when the corresponding credentials are not configured; handlers
// answer 503 in that case instead of failing at startup.
type App struct {
	Config  *infra.Config
	Log     infra.Logger
	Gate    *access.Gate
	Subs    domain.SubscriptionRepository
	Billing billing.Client
	Prompt  PromptProvider
	Image   ImageProvider
	Video   VideoProvider
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
