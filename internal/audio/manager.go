package audio

import (
	"log/slog"
	"os"
	"sync"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Manager plays the style sound, or the configured default, whenever a
// session starts presenting. It implements toast.Observer.
type Manager struct {
	toast.NoopObserver

	logger *slog.Logger
	player *Player

	mu           sync.RWMutex
	enabled      bool
	defaultSound string
	onError      func(error)
}

var _ toast.Observer = (*Manager)(nil)

// NewManager creates an audio manager on the system speaker.
func NewManager(cfg *config.DaemonConfig, logger *slog.Logger) *Manager {
	return NewManagerWithPlayer(cfg, NewPlayer(logger), logger)
}

// NewManagerWithPlayer creates an audio manager using player.
func NewManagerWithPlayer(cfg *config.DaemonConfig, player *Player, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{logger: logger, player: player}
	m.UpdateConfig(cfg)
	return m
}

// UpdateConfig applies audio settings. Called on config hot reload.
func (m *Manager) UpdateConfig(cfg *config.DaemonConfig) {
	if cfg == nil {
		cfg = config.DefaultDaemonConfig()
	}

	sound := cfg.SoundPath()
	if sound != "" {
		if _, err := os.Stat(sound); err != nil {
			m.logger.Warn("sound file not found", "path", sound)
			sound = ""
		}
	}

	m.mu.Lock()
	m.enabled = cfg.Audio.Enabled
	m.defaultSound = sound
	m.mu.Unlock()

	m.player.SetVolume(float64(cfg.Audio.Volume) / 100.0)
	m.player.ClearCache()

	if cfg.Audio.Enabled && sound != "" {
		if err := m.player.Preload(sound); err != nil {
			m.logger.Warn("failed to preload sound", "path", sound, "error", err)
		}
	}
	m.logger.Debug("audio config updated", "enabled", cfg.Audio.Enabled, "sound", sound)
}

// SetErrorCallback sets the callback invoked when playback fails.
func (m *Manager) SetErrorCallback(fn func(error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onError = fn
}

// OnPresenting plays the session's sound.
func (m *Manager) OnPresenting(s *toast.Session) {
	m.mu.RLock()
	enabled, sound, onError := m.enabled, m.defaultSound, m.onError
	m.mu.RUnlock()

	if !enabled {
		return
	}
	if style := s.Descriptor().Style.Sound; style != "" {
		sound = style
	}
	if sound == "" || sound == model.SoundNone {
		return
	}
	if err := m.player.Play(sound); err != nil {
		m.logger.Debug("failed to play toast sound", "toast_id", s.ID(), "path", sound, "error", err)
		if onError != nil {
			onError(err)
		}
	}
}

// Stop releases the audio device.
func (m *Manager) Stop() {
	m.player.Close()
	m.logger.Debug("audio manager stopped")
}
