package gtkhost

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/toastui/internal/model"
)

// StyleSheet returns the CSS for the given styles. Each style is selected by
// the "toast-<name>" class on the surface box.
func StyleSheet(styles []model.Style, padding int) string {
	var b strings.Builder
	b.WriteString("window.toastui-surface { background: transparent; }\n")
	fmt.Fprintf(&b, ".toast { border-radius: 10px; padding: %dpx; }\n", padding)
	b.WriteString(".toast-title { font-weight: bold; }\n")

	for _, s := range styles {
		if s.Name == "" {
			continue
		}
		font := s.TextFont()
		fmt.Fprintf(&b, ".toast.%s {", styleClass(s))
		if s.Background != "" {
			fmt.Fprintf(&b, " background-color: %s;", s.Background)
		}
		if s.Foreground != "" {
			fmt.Fprintf(&b, " color: %s;", s.Foreground)
		}
		fmt.Fprintf(&b, " font-family: %q; font-size: %gpx; }\n", font.Family, font.Size)
	}
	return b.String()
}

// BuiltinStyles returns the built-in styles in name order.
func BuiltinStyles() []model.Style {
	names := model.StyleNames()
	out := make([]model.Style, 0, len(names))
	for _, name := range names {
		if s, ok := model.StyleByName(name); ok {
			out = append(out, s)
		}
	}
	return out
}

func styleClass(s model.Style) string {
	name := sanitizeClassName(s.Name)
	if name == "" {
		name = "custom"
	}
	return "toast-" + name
}

// sanitizeClassName lowercases name and replaces anything outside
// [a-z0-9] with single hyphens.
func sanitizeClassName(name string) string {
	var result strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			result.WriteRune(r)
			prevHyphen = false
		case r == '-' || r == '_' || r == ' ' || r == '.' || r == '/':
			if !prevHyphen && result.Len() > 0 {
				result.WriteRune('-')
				prevHyphen = true
			}
		}
	}
	return strings.TrimSuffix(result.String(), "-")
}
