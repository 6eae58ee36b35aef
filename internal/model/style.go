package model

import (
	"fmt"
	"sort"
)

// Font describes the typeface used to measure and render text.
type Font struct {
	Family string  `json:"family,omitempty" toml:"family"`
	Size   float64 `json:"size,omitempty" toml:"size"`
	Bold   bool    `json:"bold,omitempty" toml:"bold"`
}

// DefaultFont is used when a style leaves the font unset.
var DefaultFont = Font{Family: "sans-serif", Size: 14}

// Style carries the visual attributes of a toast. Only WidthFraction is
// interpreted by the presenter; everything else is passed through to hosts.
type Style struct {
	Name       string `json:"name,omitempty"`
	Foreground string `json:"foreground,omitempty"`
	Background string `json:"background,omitempty"`
	Icon       string `json:"icon,omitempty"`
	Font       Font   `json:"font,omitempty"`

	// WidthFraction is the share of the screen width the toast occupies.
	// Must be within [0,1]; zero selects the presenter default.
	WidthFraction float64 `json:"width_fraction,omitempty"`

	// Sound is an optional sound file played when the toast appears.
	Sound string `json:"sound,omitempty"`
}

// SoundNone silences a style even when a default sound is configured.
const SoundNone = "none"

// Validate rejects styles that would produce a degenerate layout.
func (s Style) Validate() error {
	if !(s.WidthFraction >= 0 && s.WidthFraction <= 1) {
		return fmt.Errorf("%w: %v", ErrInvalidWidthFraction, s.WidthFraction)
	}
	if !(s.Font.Size >= 0) {
		return fmt.Errorf("%w: font size %v", ErrInvalidStyle, s.Font.Size)
	}
	return nil
}

// TextFont returns the style font with defaults filled in.
func (s Style) TextFont() Font {
	f := s.Font
	if f.Family == "" {
		f.Family = DefaultFont.Family
	}
	if f.Size == 0 {
		f.Size = DefaultFont.Size
	}
	return f
}

// TitleFont returns the bold variant of the text font.
func (s Style) TitleFont() Font {
	f := s.TextFont()
	f.Bold = true
	return f
}

// Built-in styles.
var (
	StyleInfo = Style{
		Name:       "info",
		Foreground: "#ffffff",
		Background: "#3a3a3a",
		Icon:       "dialog-information",
	}
	StyleSuccess = Style{
		Name:       "success",
		Foreground: "#ffffff",
		Background: "#2e7d32",
		Icon:       "emblem-ok",
	}
	StyleWarning = Style{
		Name:       "warning",
		Foreground: "#1a1a1a",
		Background: "#f9a825",
		Icon:       "dialog-warning",
	}
	StyleError = Style{
		Name:       "error",
		Foreground: "#ffffff",
		Background: "#c62828",
		Icon:       "dialog-error",
	}
)

var styles = map[string]Style{
	StyleInfo.Name:    StyleInfo,
	StyleSuccess.Name: StyleSuccess,
	StyleWarning.Name: StyleWarning,
	StyleError.Name:   StyleError,
}

// StyleByName returns a built-in style.
func StyleByName(name string) (Style, bool) {
	s, ok := styles[name]
	return s, ok
}

// StyleNames lists the built-in style names in sorted order.
func StyleNames() []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
