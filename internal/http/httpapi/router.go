package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/scribo-ai/server/internal/http/handlers"
	"github.com/scribo-ai/server/internal/middleware"
)

// NewRouter wires every endpoint. The webhook stays outside the auth
// group: Stripe authenticates with its signature header, not a bearer
// token.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Log),
		middleware.CORS([]string{app.Config.AppURL}),
	)

	// Health
	r.Get("/v1/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/webhook", app.StripeWebhook)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))
			r.Use(middleware.AuthJWT(app.Config.JWTSecret))

			r.Post("/conversation", app.ConversationGenerate)
			r.Post("/image", app.ImagesGenerate)
			r.Post("/video", app.VideosGenerate)
			r.Get("/stripe", app.BillingSession)
			r.Get("/usage", app.UsageShow)
		})
	})

	return r
}
