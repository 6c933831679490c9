package config

import (
	"errors"
	"os"
	"time"
)

// app config, mostly responder and analysis related
type Config struct {
	Provider             string
	JWTSecret            string
	UploadDir            string
	ResponderTimeout     time.Duration
	TranscriptionTimeout time.Duration
	AnalysisTimeout      time.Duration
	CleanupEnabled       bool
	CleanupSchedule      string
	SessionTTL           time.Duration
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Provider:             getEnvOrDefault("RESPONDER_PROVIDER", "gemini"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		UploadDir:            getEnvOrDefault("UPLOAD_DIR", "./uploads"),
		ResponderTimeout:     getEnvDuration("RESPONDER_TIMEOUT", 30*time.Second),
		TranscriptionTimeout: getEnvDuration("TRANSCRIPTION_TIMEOUT", 60*time.Second),
		AnalysisTimeout:      getEnvDuration("ANALYSIS_TIMEOUT", 20*time.Second),
		CleanupEnabled:       getEnvOrDefault("SESSION_CLEANUP_ENABLED", "true") == "true",
		CleanupSchedule:      getEnvOrDefault("SESSION_CLEANUP_SCHEDULE", "0 3 * * *"),
		SessionTTL:           getEnvDuration("SESSION_TTL", 24*time.Hour),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Provider != "gemini" {
		return errors.New("unsupported responder provider: " + config.Provider + ". Currently supported: gemini")
	}
	if config.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	// Gemini validation is handled by gemini.NewConfig()
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
