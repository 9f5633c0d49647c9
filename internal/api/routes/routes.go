// Package routes defines the HTTP routes for the VoiceDesk Agent Service.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/voicedesk/agent-service/internal/api/handlers"
	"github.com/voicedesk/agent-service/internal/api/middleware"
	"github.com/voicedesk/agent-service/internal/api/ws"
)

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler  *handlers.HealthHandler
	VoiceHandler   *handlers.VoiceHandler
	BookingHandler *handlers.BookingHandler
	SpeechHandler  *handlers.SpeechHandler
	TokenHandler   *handlers.TokenHandler
	SlotsHandler   *handlers.SlotsHandler
	WSHandler      *ws.Handler
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	// API v1 routes - all routes under /api/v1/voice-service
	v1 := r.Group("/api/v1/voice-service")
	{
		// Health check routes
		v1.GET("/health", cfg.HealthHandler.Health)
		v1.GET("/ready", cfg.HealthHandler.Ready)
		v1.GET("/live", cfg.HealthHandler.Live)

		// Agent turn processing, request/response and streaming
		agent := v1.Group("/agent")
		{
			agent.POST("/turn", cfg.VoiceHandler.Turn)
			agent.GET("/ws", cfg.WSHandler.Serve)
		}

		// Booking side effect
		v1.POST("/bookings", cfg.BookingHandler.Create)

		// Direct, non-cached speech synthesis
		v1.POST("/speech", cfg.SpeechHandler.Synthesize)

		// Ephemeral speech-to-text credential for the browser widget
		v1.POST("/stt/token", cfg.TokenHandler.Create)

		// Open calendar slots for the scheduling widget
		v1.GET("/slots", cfg.SlotsHandler.List)
	}
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware) {
	// Apply global middleware
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())

	r.NoRoute(middleware.NotFound())
	r.HandleMethodNotAllowed = true
	r.NoMethod(middleware.MethodNotAllowed())

	// Setup routes
	Setup(r, cfg)
}
