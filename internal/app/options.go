package app

import (
	"github.com/rs/zerolog"

	"github.com/dshills/ropedit/internal/config"
	"github.com/dshills/ropedit/internal/renderer/backend"
)

// Option configures an App.
type Option func(*App)

// WithConfig sets the configuration. Without it the built-in defaults apply.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithTerminal sets the terminal. Tests pass one wrapping a simulation screen.
func WithTerminal(t *backend.Terminal) Option {
	return func(a *App) {
		a.term = t
	}
}

// WithWatch overrides the watch.enabled setting.
func WithWatch(enabled bool) Option {
	return func(a *App) {
		a.watchEnabled = &enabled
	}
}
