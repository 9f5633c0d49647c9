// Package main is the entry point for the VoiceDesk Agent Service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/voicedesk/agent-service/internal/api/handlers"
	"github.com/voicedesk/agent-service/internal/api/middleware"
	"github.com/voicedesk/agent-service/internal/api/routes"
	"github.com/voicedesk/agent-service/internal/api/ws"
	"github.com/voicedesk/agent-service/internal/config"
	"github.com/voicedesk/agent-service/internal/core/cache"
	"github.com/voicedesk/agent-service/internal/core/docdb"
	"github.com/voicedesk/agent-service/internal/core/vault"
	memorycache "github.com/voicedesk/agent-service/internal/infrastructure/cache/memory"
	rediscache "github.com/voicedesk/agent-service/internal/infrastructure/cache/redis"
	"github.com/voicedesk/agent-service/internal/infrastructure/docdb/mongodb"
	dotenvvault "github.com/voicedesk/agent-service/internal/infrastructure/vault/dotenv"
	"github.com/voicedesk/agent-service/internal/services/booking"
	"github.com/voicedesk/agent-service/internal/services/calendar"
	"github.com/voicedesk/agent-service/internal/services/dialogue"
	"github.com/voicedesk/agent-service/internal/services/extract"
	"github.com/voicedesk/agent-service/internal/services/llm"
	"github.com/voicedesk/agent-service/internal/services/llm/gemini"
	"github.com/voicedesk/agent-service/internal/services/llm/groq"
	"github.com/voicedesk/agent-service/internal/services/session"
	"github.com/voicedesk/agent-service/internal/services/stt/deepgram"
	"github.com/voicedesk/agent-service/internal/services/tts"
	"github.com/voicedesk/agent-service/internal/services/tts/elevenlabs"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg.Log)

	ctx := context.Background()

	// Initialize vault client using factory pattern
	vaultClient, err := createVaultClient(cfg.Vault)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize vault client")
	}
	defer vaultClient.Close()

	// Initialize cache client using factory pattern
	cacheClient, err := createCacheClient(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cache client")
	}
	defer cacheClient.Close()

	// Initialize document db client using factory pattern
	docDBClient, err := createDocDBClient(ctx, cfg.DocDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize document db client")
	}
	defer docDBClient.Close(ctx)

	// Ensure database indexes
	if err := docDBClient.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}

	// Provider API keys are resolved through the vault
	geminiKey := mustSecret(ctx, vaultClient, "GEMINI_API_KEY")
	elevenLabsKey := mustSecret(ctx, vaultClient, "ELEVENLABS_API_KEY")
	deepgramKey := mustSecret(ctx, vaultClient, "DEEPGRAM_API_KEY")
	groqKey, _ := vaultClient.GetSecret(ctx, "dotenv://GROQ_API_KEY")

	// Language model gateway: Gemini primary, Groq fallback
	primary, err := gemini.NewProvider(&gemini.Config{
		APIKey:          geminiKey,
		Model:           cfg.LLM.PrimaryModel,
		Temperature:     cfg.LLM.Temperature,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		Timeout:         cfg.LLM.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize primary llm provider")
	}

	var secondary llm.Provider
	if groqKey != "" {
		groqProvider, err := groq.NewProvider(&groq.Config{
			APIKey:          groqKey,
			Model:           cfg.LLM.SecondaryModel,
			Temperature:     cfg.LLM.Temperature,
			MaxOutputTokens: cfg.LLM.MaxOutputTokens,
			Timeout:         cfg.LLM.Timeout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize secondary llm provider")
		}
		secondary = groqProvider
	} else {
		log.Warn().Msg("GROQ_API_KEY not set, running without llm fallback")
	}

	gateway, err := llm.NewGateway(primary, secondary)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize llm gateway")
	}

	// Speech synthesis with the canned-phrase cache
	ttsProvider, err := elevenlabs.NewClient(&elevenlabs.Config{
		APIKey:  elevenLabsKey,
		Timeout: cfg.TTS.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tts provider")
	}

	speechCache, err := tts.NewSpeechCache(&tts.Config{
		CacheClient:     cacheClient,
		Provider:        ttsProvider,
		VoiceID:         cfg.TTS.VoiceID,
		MaxCacheableLen: cfg.TTS.MaxCacheableLen,
		PrewarmWorkers:  cfg.TTS.PrewarmWorkers,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize speech cache")
	}
	speechCache.Prewarm(ctx, tts.DefaultCatalog())

	// Ephemeral speech-to-text credentials
	sttClient, err := deepgram.NewClient(&deepgram.Config{
		APIKey:    deepgramKey,
		ProjectID: cfg.STT.ProjectID,
		Timeout:   cfg.STT.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize stt client")
	}

	// Dialogue session registry with idle reaping
	registry := session.NewRegistry(&session.Config{
		SystemPrompt:  dialogue.SystemPrompt,
		IdleTimeout:   cfg.Session.IdleTimeout,
		SweepInterval: cfg.Session.SweepInterval,
	})
	defer registry.Close(ctx)

	// Slot calendar over the bookings collection
	slotCalendar, err := calendar.NewService(docDBClient.Bookings())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize slot calendar")
	}

	// Dialogue orchestrator
	orchestrator, err := dialogue.NewOrchestrator(&dialogue.Config{
		Sessions:  registry,
		Gateway:   gateway,
		Speech:    speechCache,
		Calendar:  slotCalendar,
		Extractor: extract.NewHeuristic(extract.Config{}),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize orchestrator")
	}

	// Booking side effect
	bookingService, err := booking.NewService(&booking.Config{
		Bookings:        docDBClient.Bookings(),
		Sessions:        registry,
		CalendlyBaseURL: cfg.Booking.CalendlyBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize booking service")
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Setup router
	router := setupRouter(cfg, cacheClient, docDBClient, orchestrator, bookingService, registry, ttsProvider, sttClient, slotCalendar)

	// Create HTTP server
	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("address", cfg.Server.Address()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogging configures the global zerolog logger.
func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// mustSecret resolves a required secret through the vault.
func mustSecret(ctx context.Context, vaultClient vault.Client, name string) string {
	value, err := vaultClient.GetSecret(ctx, "dotenv://"+name)
	if err != nil || value == "" {
		log.Fatal().Str("secret", name).Msg("required secret is not configured")
	}
	return value
}

// createVaultClient creates a vault client based on the configuration.
func createVaultClient(cfg config.VaultConfig) (vault.Client, error) {
	vaultType := vault.Type(cfg.Type)

	switch vaultType {
	case vault.TypeDotEnv:
		return dotenvvault.NewClient()
	default:
		log.Fatal().Str("type", cfg.Type).Msg("unsupported vault type")
		return nil, nil
	}
}

// createCacheClient creates a cache client based on the configuration.
func createCacheClient(cfg config.CacheConfig) (cache.Client, error) {
	cacheType := cache.Type(cfg.Type)

	switch cacheType {
	case cache.TypeRedis:
		return rediscache.NewClient(rediscache.Config{
			Host:       cfg.Host,
			Port:       cfg.Port,
			Password:   cfg.Password,
			DB:         cfg.DB,
			DefaultTTL: cfg.TTL,
		})
	case cache.TypeMemory:
		return memorycache.NewClient(cfg.TTL)
	default:
		log.Fatal().Str("type", cfg.Type).Msg("unsupported cache type")
		return nil, nil
	}
}

// createDocDBClient creates a document database client based on the configuration.
func createDocDBClient(ctx context.Context, cfg config.DocDBConfig) (docdb.Client, error) {
	docDBType := docdb.Type(cfg.Type)

	switch docDBType {
	case docdb.TypeMongoDB:
		return mongodb.NewClient(ctx, &mongodb.ClientConfig{
			URI:          cfg.URI,
			DatabaseName: cfg.Database,
		})
	default:
		log.Fatal().Str("type", cfg.Type).Msg("unsupported docdb type")
		return nil, nil
	}
}

// setupRouter creates and configures the Gin router.
func setupRouter(
	cfg *config.Config,
	cacheClient cache.Client,
	docDBClient docdb.Client,
	orchestrator *dialogue.Orchestrator,
	bookingService *booking.Service,
	registry *session.Registry,
	ttsProvider tts.Provider,
	sttClient *deepgram.Client,
	slotCalendar *calendar.Service,
) *gin.Engine {
	router := gin.New()

	// Create middleware
	loggingMw := middleware.NewLoggingMiddleware()
	errorMw := middleware.NewErrorMiddleware()
	corsCfg := middleware.DefaultCORSConfig()
	router.Use(middleware.NewCORSMiddleware(corsCfg))

	// Create handlers
	healthHandler := handlers.NewHealthHandler(cacheClient, docDBClient)
	bookingHandler := handlers.NewBookingHandler(bookingService, registry)
	voiceHandler := handlers.NewVoiceHandler(orchestrator, bookingHandler)
	speechHandler := handlers.NewSpeechHandler(ttsProvider, cfg.TTS.VoiceID)
	tokenHandler := handlers.NewTokenHandler(sttClient, int(cfg.STT.TokenTTL.Seconds()))
	slotsHandler := handlers.NewSlotsHandler(slotCalendar, nil)
	wsHandler := ws.NewHandler(voiceHandler, originChecker(corsCfg))

	// Setup routes
	routesCfg := &routes.Config{
		HealthHandler:  healthHandler,
		VoiceHandler:   voiceHandler,
		BookingHandler: bookingHandler,
		SpeechHandler:  speechHandler,
		TokenHandler:   tokenHandler,
		SlotsHandler:   slotsHandler,
		WSHandler:      wsHandler,
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw)
	middleware.SetupCORSRoutes(router, corsCfg)

	return router
}

// originChecker mirrors the CORS allow list for WebSocket upgrades.
func originChecker(cfg middleware.CORSConfig) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return allowed["*"] || allowed[origin]
	}
}
