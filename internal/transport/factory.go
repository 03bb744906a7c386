package transport

import (
	"fmt"

	"gastos/internal/log"
	"gastos/internal/repository"
)

// Config selects and parameterizes the transport implementation.
type Config struct {
	Mode Mode

	// Direct mode.
	Repo   repository.Repository
	UserID func() string

	// Proxy mode.
	BaseURL string
	Token   func() string
}

// IsValid reports whether the mode names a known implementation.
func (m Mode) IsValid() bool {
	return m == ModeDirect || m == ModeProxy
}

// Factory builds transports from configuration.
type Factory struct {
	logger *log.Logger
}

// NewFactory creates a transport factory.
func NewFactory(logger *log.Logger) *Factory {
	return &Factory{logger: logger.WithComponent(log.ComponentTransport)}
}

// Create builds the configured transport. The choice happens exactly once
// at startup; everything above works against the Transport interface.
func (f *Factory) Create(config Config) (Transport, error) {
	if !config.Mode.IsValid() {
		return nil, fmt.Errorf("invalid transport mode: %s", config.Mode)
	}

	switch config.Mode {
	case ModeDirect:
		if config.Repo == nil {
			return nil, fmt.Errorf("direct transport requires a repository")
		}
		if config.UserID == nil {
			return nil, fmt.Errorf("direct transport requires a user resolver")
		}
		f.logger.Info("initialized direct transport")
		return NewDirect(config.Repo, config.UserID), nil

	case ModeProxy:
		if config.BaseURL == "" {
			return nil, fmt.Errorf("proxy transport requires a base URL")
		}
		if config.Token == nil {
			return nil, fmt.Errorf("proxy transport requires a token resolver")
		}
		f.logger.Info("initialized proxy transport", "base_url", config.BaseURL)
		return NewProxy(config.BaseURL, config.Token), nil

	default:
		return nil, fmt.Errorf("unsupported transport mode: %s", config.Mode)
	}
}
