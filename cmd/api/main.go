package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/scribo-ai/server/internal/access"
	"github.com/scribo-ai/server/internal/adapter/repo"
	"github.com/scribo-ai/server/internal/billing"
	"github.com/scribo-ai/server/internal/http/handlers"
	"github.com/scribo-ai/server/internal/http/httpapi"
	"github.com/scribo-ai/server/internal/infra"
	"github.com/scribo-ai/server/internal/providers/image"
	"github.com/scribo-ai/server/internal/providers/prompt"
	"github.com/scribo-ai/server/internal/providers/video"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	usageRepo := repo.NewUsageRepository(dbpool)
	subsRepo := repo.NewSubscriptionRepository(dbpool)
	gate := access.NewGate(access.NewMeter(usageRepo), access.NewStatus(subsRepo))

	app := &handlers.App{
		Config: cfg,
		Log:    logger,
		Gate:   gate,
		Subs:   subsRepo,
	}

	if cfg.StripeSecretKey != "" {
		app.Billing = billing.NewStripeClient(cfg.StripeSecretKey, cfg.SettingsURL())
	} else {
		logger.Warn().Msg("STRIPE_API_KEY not set, billing endpoints disabled")
	}

	if cfg.OpenAIAPIKey != "" {
		promptClient, err := prompt.NewClient(prompt.Options{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build completion client")
		}
		imageClient, err := image.NewClient(image.Options{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build image client")
		}
		app.Prompt = promptClient
		app.Image = imageClient
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set, conversation and image endpoints disabled")
	}

	if cfg.ReplicateAPIToken != "" {
		videoClient, err := video.NewClient(video.Options{
			APIToken:     cfg.ReplicateAPIToken,
			BaseURL:      cfg.ReplicateBaseURL,
			ModelVersion: cfg.ReplicateModelVersion,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build video client")
		}
		app.Video = videoClient
	} else {
		logger.Warn().Msg("REPLICATE_API_TOKEN not set, video endpoint disabled")
	}

	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
