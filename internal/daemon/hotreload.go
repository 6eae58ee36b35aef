package daemon

import (
	"log/slog"
	"sync"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Reloader applies a reloaded daemon config to the running components.
// Sessions already on screen keep the options they were created with.
type Reloader struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	current  *config.DaemonConfig
	appliers []func(*config.DaemonConfig)

	notifier *InternalNotifier
}

// NewReloader creates a Reloader starting from initial.
func NewReloader(initial *config.DaemonConfig, notifier *InternalNotifier, logger *slog.Logger) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloader{
		logger:   logger,
		current:  initial,
		notifier: notifier,
	}
}

// OnApply registers a component to receive each new config, in order.
func (r *Reloader) OnApply(fn func(*config.DaemonConfig)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appliers = append(r.appliers, fn)
}

// Presenter registers the presenter options as a reload target.
func (r *Reloader) Presenter(p *toast.Presenter) {
	r.OnApply(func(cfg *config.DaemonConfig) {
		p.UpdateOptions(cfg.PresenterOptions())
	})
}

// Current returns the last applied config.
func (r *Reloader) Current() *config.DaemonConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Apply installs cfg and notifies every registered component.
func (r *Reloader) Apply(cfg *config.DaemonConfig) {
	r.mu.Lock()
	r.current = cfg
	appliers := append(([]func(*config.DaemonConfig))(nil), r.appliers...)
	r.mu.Unlock()

	for _, apply := range appliers {
		apply(cfg)
	}
	r.logger.Info("config reloaded successfully")
	if r.notifier != nil {
		r.notifier.NotifyConfigReloaded()
	}
}

// Fail reports a config that could not be loaded. The current config stays.
func (r *Reloader) Fail(err error) {
	r.logger.Warn("config file changed but validation failed", "error", err)
	if r.notifier != nil {
		r.notifier.NotifyConfigError(err)
	}
}

// Watch routes the watcher's reload and error callbacks through r.
func (r *Reloader) Watch(w *config.Watcher) {
	w.SetChangeCallback(r.Apply)
	w.SetErrorCallback(r.Fail)
}
