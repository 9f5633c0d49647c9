// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig
	Cache   CacheConfig
	DocDB   DocDBConfig
	Vault   VaultConfig
	LLM     LLMConfig
	TTS     TTSConfig
	STT     STTConfig
	Booking BookingConfig
	Session SessionConfig
	Log     LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host    string
	Port    int
	GinMode string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds cache-related configuration for the speech cache.
type CacheConfig struct {
	Type     string
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// DocDBConfig holds document database configuration.
type DocDBConfig struct {
	Type     string
	URI      string
	Database string
}

// VaultConfig holds vault configuration.
type VaultConfig struct {
	Type string
}

// LLMConfig holds language-model provider configuration.
type LLMConfig struct {
	PrimaryModel    string
	SecondaryModel  string
	MaxOutputTokens int
	Temperature     float64
	Timeout         time.Duration
}

// TTSConfig holds text-to-speech provider configuration.
type TTSConfig struct {
	VoiceID         string
	MaxCacheableLen int
	PrewarmWorkers  int
	Timeout         time.Duration
}

// STTConfig holds speech-to-text token issuance configuration.
type STTConfig struct {
	ProjectID string
	TokenTTL  time.Duration
	Timeout   time.Duration
}

// BookingConfig holds calendar booking configuration.
type BookingConfig struct {
	// CalendlyBaseURL is the scheduling-link template; booking requests
	// fail when it is not configured.
	CalendlyBaseURL string
}

// SessionConfig holds dialogue session registry configuration.
type SessionConfig struct {
	// IdleTimeout is how long an untouched session survives before the
	// reaper removes it. Zero disables reaping.
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvAsInt("SERVER_PORT", 8080),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Cache: CacheConfig{
			Type:     getEnv("CACHE_TYPE", "memory"),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 0)) * time.Second,
		},
		DocDB: DocDBConfig{
			Type:     getEnv("DOCDB_TYPE", "mongodb"),
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "voicedesk"),
		},
		Vault: VaultConfig{
			Type: getEnv("VAULT_TYPE", "dotenv"),
		},
		LLM: LLMConfig{
			PrimaryModel:    getEnv("LLM_PRIMARY_MODEL", "gemini-2.0-flash"),
			SecondaryModel:  getEnv("LLM_SECONDARY_MODEL", "llama-3.3-70b-versatile"),
			MaxOutputTokens: getEnvAsInt("LLM_MAX_OUTPUT_TOKENS", 256),
			Temperature:     getEnvAsFloat("LLM_TEMPERATURE", 0.2),
			Timeout:         time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		TTS: TTSConfig{
			VoiceID:         getEnv("TTS_VOICE_ID", "EXAVITQu4vr4xnSDxMaL"),
			MaxCacheableLen: getEnvAsInt("TTS_MAX_CACHEABLE_LEN", 200),
			PrewarmWorkers:  getEnvAsInt("TTS_PREWARM_WORKERS", 4),
			Timeout:         time.Duration(getEnvAsInt("TTS_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		STT: STTConfig{
			ProjectID: getEnv("DEEPGRAM_PROJECT_ID", ""),
			TokenTTL:  time.Duration(getEnvAsInt("STT_TOKEN_TTL_SECONDS", 600)) * time.Second,
			Timeout:   time.Duration(getEnvAsInt("STT_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Booking: BookingConfig{
			CalendlyBaseURL: getEnv("CALENDLY_BASE_URL", ""),
		},
		Session: SessionConfig{
			IdleTimeout:   time.Duration(getEnvAsInt("SESSION_IDLE_TIMEOUT_SECONDS", 1800)) * time.Second,
			SweepInterval: time.Duration(getEnvAsInt("SESSION_SWEEP_INTERVAL_SECONDS", 300)) * time.Second,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat gets an environment variable as a float with a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
