package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
	"github.com/jmylchreest/toastui/internal/transition"
)

// DaemonConfig is the configuration for toastuid.
// Loaded from ~/.config/toastui/toastuid.toml
type DaemonConfig struct {
	Display   DisplayConfig   `toml:"display"`
	Durations DurationConfig  `toml:"durations"`
	Animation AnimationConfig `toml:"animation"`
	Audio     AudioConfig     `toml:"audio"`
	Mouse     MouseConfig     `toml:"mouse"`
	Server    ServerConfig    `toml:"server"`
}

// DisplayConfig contains placement and sizing settings.
type DisplayConfig struct {
	Location      string  `toml:"location"`       // "top" or "bottom"
	Present       string  `toml:"present"`        // "vertical", "left", "right", "fade"
	Dismiss       string  `toml:"dismiss"`        // same values as present
	Style         string  `toml:"style"`          // default style name
	WidthFraction float64 `toml:"width_fraction"` // 0 < f <= 1
	Margin        int     `toml:"margin"`         // Pixels from the anchored edge
	Padding       int     `toml:"padding"`        // Pixels around the text
	Spacing       int     `toml:"spacing"`        // Pixels between title and message
	ScreenWidth   int     `toml:"screen_width"`   // Used when the monitor size is unknown
	ScreenHeight  int     `toml:"screen_height"`
	Monitor       int     `toml:"monitor"` // 0 = primary, 1+ = specific monitor
}

// DurationConfig contains the visible durations for the length policies.
type DurationConfig struct {
	Short Duration `toml:"short"` // e.g. "2s"
	Long  Duration `toml:"long"`  // e.g. "3500ms"
}

// AnimationConfig contains transition timing.
type AnimationConfig struct {
	Present Duration `toml:"present"`
	Dismiss Duration `toml:"dismiss"`
	Curve   string   `toml:"curve"` // "linear", "ease-in", "ease-out", "ease-in-out"
}

// AudioConfig contains audio settings.
type AudioConfig struct {
	Enabled bool   `toml:"enabled"`
	Volume  int    `toml:"volume"` // 0-100
	Sound   string `toml:"sound"`  // played when a style has no sound of its own
}

// MouseConfig maps mouse buttons to toast actions.
type MouseConfig struct {
	Left   string `toml:"left"`
	Middle string `toml:"middle"`
	Right  string `toml:"right"`
}

// ServerConfig contains the control surfaces of the daemon.
type ServerConfig struct {
	DBus    bool   `toml:"dbus"`    // own org.freedesktop.Notifications
	Listen  string `toml:"listen"`  // HTTP API address, empty disables
	Metrics bool   `toml:"metrics"` // expose /metrics on the HTTP API
}

// MouseAction represents a mouse button action.
type MouseAction string

const (
	MouseActionDismiss  MouseAction = "dismiss"
	MouseActionCloseAll MouseAction = "close-all"
	MouseActionNone     MouseAction = "none"
)

// ValidMouseActions returns all valid mouse actions.
func ValidMouseActions() []MouseAction {
	return []MouseAction{MouseActionDismiss, MouseActionCloseAll, MouseActionNone}
}

// DefaultListen is the default HTTP API address.
const DefaultListen = "127.0.0.1:7474"

// DefaultDaemonConfig returns a new DaemonConfig with default values.
func DefaultDaemonConfig() *DaemonConfig {
	return &DaemonConfig{
		Display: DisplayConfig{
			Location:      model.LocationTop.String(),
			Present:       model.DirectionVertical.String(),
			Dismiss:       model.DirectionVertical.String(),
			Style:         model.StyleInfo.Name,
			WidthFraction: 0.3,
			Margin:        16,
			Padding:       12,
			Spacing:       4,
			ScreenWidth:   1920,
			ScreenHeight:  1080,
		},
		Durations: DurationConfig{
			Short: Duration(model.DefaultShortLength),
			Long:  Duration(model.DefaultLongLength),
		},
		Animation: AnimationConfig{
			Present: Duration(transition.DefaultEnterDuration),
			Dismiss: Duration(transition.DefaultExitDuration),
			Curve:   string(transition.DefaultCurve),
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  80,
		},
		Mouse: MouseConfig{
			Left:   string(MouseActionDismiss),
			Middle: string(MouseActionNone),
			Right:  string(MouseActionCloseAll),
		},
		Server: ServerConfig{
			DBus:    true,
			Listen:  DefaultListen,
			Metrics: true,
		},
	}
}

// LoadDaemonConfig loads the daemon configuration from path, or from
// DaemonConfigPath when path is empty. A missing file yields the defaults.
func LoadDaemonConfig(path string) (*DaemonConfig, error) {
	if path == "" {
		p, err := DaemonConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultDaemonConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	cfg := DefaultDaemonConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// SaveDaemonConfig writes cfg to path, or to DaemonConfigPath when path is empty.
func SaveDaemonConfig(cfg *DaemonConfig, path string) error {
	if path == "" {
		p, err := DaemonConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *DaemonConfig) Validate() error {
	if _, err := model.ParseLocation(c.Display.Location); err != nil {
		return err
	}
	if _, err := model.ParseDirection(c.Display.Present); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	if _, err := model.ParseDirection(c.Display.Dismiss); err != nil {
		return fmt.Errorf("dismiss: %w", err)
	}
	if _, ok := model.StyleByName(c.Display.Style); !ok {
		return fmt.Errorf("unknown style %q, must be one of: %v", c.Display.Style, model.StyleNames())
	}
	if !(c.Display.WidthFraction > 0 && c.Display.WidthFraction <= 1) {
		return fmt.Errorf("width_fraction must be within (0,1], got %v", c.Display.WidthFraction)
	}
	if c.Display.Margin < 0 || c.Display.Padding < 0 || c.Display.Spacing < 0 {
		return fmt.Errorf("margin, padding and spacing must not be negative")
	}
	if c.Display.ScreenWidth < 100 || c.Display.ScreenHeight < 100 {
		return fmt.Errorf("screen size must be at least 100x100, got %dx%d", c.Display.ScreenWidth, c.Display.ScreenHeight)
	}

	if c.Durations.Short <= 0 || c.Durations.Long <= 0 {
		return fmt.Errorf("durations must be positive")
	}
	if c.Animation.Present < 0 || c.Animation.Dismiss < 0 {
		return fmt.Errorf("animation durations must not be negative")
	}
	if c.Animation.Present.Duration() > 10*time.Second || c.Animation.Dismiss.Duration() > 10*time.Second {
		return fmt.Errorf("animation durations must not exceed 10s")
	}
	if _, err := transition.ParseCurve(c.Animation.Curve); err != nil {
		return err
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	valid := make(map[string]bool)
	for _, a := range ValidMouseActions() {
		valid[string(a)] = true
	}
	for _, action := range []string{c.Mouse.Left, c.Mouse.Middle, c.Mouse.Right} {
		if !valid[action] {
			return fmt.Errorf("invalid mouse action %q", action)
		}
	}
	return nil
}

// PresenterOptions converts the config into presenter options.
func (c *DaemonConfig) PresenterOptions() toast.Options {
	curve := transition.Curve(c.Animation.Curve)
	return toast.Options{
		ShortLength:   c.Durations.Short.Duration(),
		LongLength:    c.Durations.Long.Duration(),
		Enter:         transition.Timing{Duration: c.Animation.Present.Duration(), Curve: curve},
		Exit:          transition.Timing{Duration: c.Animation.Dismiss.Duration(), Curve: curve},
		WidthFraction: c.Display.WidthFraction,
		Margin:        float64(c.Display.Margin),
		Padding:       float64(c.Display.Padding),
		Spacing:       float64(c.Display.Spacing),
	}
}

// DescriptorOptions returns the descriptor defaults from the display section.
// It assumes the config has been validated.
func (c *DaemonConfig) DescriptorOptions() []model.Option {
	loc, _ := model.ParseLocation(c.Display.Location)
	present, _ := model.ParseDirection(c.Display.Present)
	dismiss, _ := model.ParseDirection(c.Display.Dismiss)
	style, _ := model.StyleByName(c.Display.Style)
	return []model.Option{
		model.WithLocation(loc),
		model.WithDirections(present, dismiss),
		model.WithStyle(style),
	}
}

// ScreenSize returns the fallback screen bounds.
func (c *DaemonConfig) ScreenSize() transition.Size {
	return transition.Size{
		Width:  float64(c.Display.ScreenWidth),
		Height: float64(c.Display.ScreenHeight),
	}
}

// SoundPath returns the default sound with ~ expanded.
func (c *DaemonConfig) SoundPath() string {
	return expandPath(c.Audio.Sound)
}

// MouseActionFor returns the configured action for a GDK button number.
func (c *DaemonConfig) MouseActionFor(button uint) MouseAction {
	switch button {
	case 1:
		return MouseAction(c.Mouse.Left)
	case 2:
		return MouseAction(c.Mouse.Middle)
	case 3:
		return MouseAction(c.Mouse.Right)
	default:
		return MouseActionNone
	}
}
