package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Supabase project
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string

	// Transport selection
	TransportMode string

	// Base URL of this service, used by the proxy transport and the
	// remote auth client.
	BaseURL string

	// Rate limiting on write endpoints
	RateLimitPerMinute int

	// Log level: debug, info, warn, error
	LogLevel string

	// Timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:    getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),

		TransportMode: getEnv("TRANSPORT_MODE", "direct"),
		BaseURL:       getEnv("BASE_URL", "http://localhost:8080"),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		ReadTimeout:     getEnvDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("WRITE_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validModes := []string{"direct", "proxy"}
	isValidMode := false
	for _, mode := range validModes {
		if c.TransportMode == mode {
			isValidMode = true
			break
		}
	}
	if !isValidMode {
		errors = append(errors, fmt.Sprintf("invalid transport mode '%s': must be one of %v", c.TransportMode, validModes))
	}

	if c.SupabaseURL == "" {
		errors = append(errors, "SUPABASE_URL is required")
	} else if parsedURL, err := url.Parse(c.SupabaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid Supabase URL '%s': %v", c.SupabaseURL, err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid Supabase URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	}

	if c.SupabaseAnonKey == "" {
		errors = append(errors, "SUPABASE_ANON_KEY is required")
	}

	// The proxy data routes refuse to run without the privileged key;
	// failing here is better than serving errors later.
	if c.TransportMode == "proxy" && c.SupabaseServiceKey == "" {
		errors = append(errors, "SUPABASE_SERVICE_KEY is required when using the proxy transport")
	}

	if c.TransportMode == "proxy" && c.BaseURL == "" {
		errors = append(errors, "BASE_URL is required when using the proxy transport")
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimitPerMinute))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	isValidLevel := false
	for _, level := range validLevels {
		if c.LogLevel == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	if c.ReadTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid read timeout %v: must be at least 1 second", c.ReadTimeout))
	}
	if c.WriteTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid write timeout %v: must be at least 1 second", c.WriteTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
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
