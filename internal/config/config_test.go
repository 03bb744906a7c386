package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:               "8080",
		SupabaseURL:        "https://project.supabase.co",
		SupabaseAnonKey:    "anon-key",
		SupabaseServiceKey: "service-key",
		TransportMode:      "direct",
		BaseURL:            "http://localhost:8080",
		RateLimitPerMinute: 60,
		LogLevel:           "info",
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid direct config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid proxy config",
			mutate: func(c *Config) {
				c.TransportMode = "proxy"
			},
			wantErr: false,
		},
		{
			name: "invalid port - non-numeric",
			mutate: func(c *Config) {
				c.Port = "abc"
			},
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name: "invalid port - out of range",
			mutate: func(c *Config) {
				c.Port = "70000"
			},
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name: "invalid transport mode",
			mutate: func(c *Config) {
				c.TransportMode = "carrier-pigeon"
			},
			wantErr:     true,
			errorString: "invalid transport mode 'carrier-pigeon'",
		},
		{
			name: "missing Supabase URL",
			mutate: func(c *Config) {
				c.SupabaseURL = ""
			},
			wantErr:     true,
			errorString: "SUPABASE_URL is required",
		},
		{
			name: "invalid Supabase URL scheme",
			mutate: func(c *Config) {
				c.SupabaseURL = "ftp://project.supabase.co"
			},
			wantErr:     true,
			errorString: "invalid Supabase URL scheme 'ftp'",
		},
		{
			name: "missing anon key",
			mutate: func(c *Config) {
				c.SupabaseAnonKey = ""
			},
			wantErr:     true,
			errorString: "SUPABASE_ANON_KEY is required",
		},
		{
			name: "proxy mode without service key",
			mutate: func(c *Config) {
				c.TransportMode = "proxy"
				c.SupabaseServiceKey = ""
			},
			wantErr:     true,
			errorString: "SUPABASE_SERVICE_KEY is required when using the proxy transport",
		},
		{
			name: "direct mode without service key is fine",
			mutate: func(c *Config) {
				c.SupabaseServiceKey = ""
			},
			wantErr: false,
		},
		{
			name: "invalid rate limit",
			mutate: func(c *Config) {
				c.RateLimitPerMinute = 0
			},
			wantErr:     true,
			errorString: "invalid rate limit 0: must be at least 1",
		},
		{
			name: "invalid log level",
			mutate: func(c *Config) {
				c.LogLevel = "loud"
			},
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name: "read timeout too short",
			mutate: func(c *Config) {
				c.ReadTimeout = 500 * time.Millisecond
			},
			wantErr:     true,
			errorString: "invalid read timeout 500ms: must be at least 1 second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else {
				if err != nil {
					t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestLoad(t *testing.T) {
	originalVars := map[string]string{
		"PORT":                  os.Getenv("PORT"),
		"SUPABASE_URL":          os.Getenv("SUPABASE_URL"),
		"SUPABASE_ANON_KEY":     os.Getenv("SUPABASE_ANON_KEY"),
		"SUPABASE_SERVICE_KEY":  os.Getenv("SUPABASE_SERVICE_KEY"),
		"TRANSPORT_MODE":        os.Getenv("TRANSPORT_MODE"),
		"BASE_URL":              os.Getenv("BASE_URL"),
		"RATE_LIMIT_PER_MINUTE": os.Getenv("RATE_LIMIT_PER_MINUTE"),
		"LOG_LEVEL":             os.Getenv("LOG_LEVEL"),
		"READ_TIMEOUT":          os.Getenv("READ_TIMEOUT"),
	}

	for key := range originalVars {
		os.Unsetenv(key)
	}

	defer func() {
		for key, value := range originalVars {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8080" {
			t.Errorf("Load() Port = %v, want 8080", cfg.Port)
		}
		if cfg.TransportMode != "direct" {
			t.Errorf("Load() TransportMode = %v, want direct", cfg.TransportMode)
		}
		if cfg.RateLimitPerMinute != 60 {
			t.Errorf("Load() RateLimitPerMinute = %v, want 60", cfg.RateLimitPerMinute)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("Load() LogLevel = %v, want info", cfg.LogLevel)
		}
		if cfg.ReadTimeout != 15*time.Second {
			t.Errorf("Load() ReadTimeout = %v, want 15s", cfg.ReadTimeout)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		os.Setenv("PORT", "9090")
		os.Setenv("SUPABASE_URL", "https://x.supabase.co")
		os.Setenv("SUPABASE_ANON_KEY", "anon")
		os.Setenv("TRANSPORT_MODE", "proxy")
		os.Setenv("RATE_LIMIT_PER_MINUTE", "120")
		os.Setenv("READ_TIMEOUT", "20s")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.SupabaseURL != "https://x.supabase.co" {
			t.Errorf("Load() SupabaseURL = %v", cfg.SupabaseURL)
		}
		if cfg.TransportMode != "proxy" {
			t.Errorf("Load() TransportMode = %v, want proxy", cfg.TransportMode)
		}
		if cfg.RateLimitPerMinute != 120 {
			t.Errorf("Load() RateLimitPerMinute = %v, want 120", cfg.RateLimitPerMinute)
		}
		if cfg.ReadTimeout != 20*time.Second {
			t.Errorf("Load() ReadTimeout = %v, want 20s", cfg.ReadTimeout)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		os.Setenv("RATE_LIMIT_PER_MINUTE", "invalid")
		os.Setenv("READ_TIMEOUT", "invalid")

		cfg := Load()

		if cfg.RateLimitPerMinute != 60 {
			t.Errorf("Load() RateLimitPerMinute = %v, want 60 (default for invalid input)", cfg.RateLimitPerMinute)
		}
		if cfg.ReadTimeout != 15*time.Second {
			t.Errorf("Load() ReadTimeout = %v, want 15s (default for invalid input)", cfg.ReadTimeout)
		}
	})
}
