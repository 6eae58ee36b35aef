package model

import (
	"fmt"
	"time"
)

// Location is the screen edge a toast is anchored to.
type Location int

const (
	LocationTop Location = iota
	LocationBottom
)

// String returns the string representation of Location.
func (l Location) String() string {
	switch l {
	case LocationTop:
		return "top"
	case LocationBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Valid reports whether l is a known location.
func (l Location) Valid() bool {
	return l == LocationTop || l == LocationBottom
}

// ParseLocation parses "top" or "bottom".
func ParseLocation(s string) (Location, error) {
	switch s {
	case "top":
		return LocationTop, nil
	case "bottom":
		return LocationBottom, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLocation, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Location) UnmarshalText(text []byte) error {
	v, err := ParseLocation(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Direction is the way a toast travels while entering or leaving.
// DirectionVertical moves perpendicular to the anchored edge, so its sign
// depends on the Location.
type Direction int

const (
	DirectionVertical Direction = iota
	DirectionLeft
	DirectionRight
	DirectionFade
)

// String returns the string representation of Direction.
func (d Direction) String() string {
	switch d {
	case DirectionVertical:
		return "vertical"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	case DirectionFade:
		return "fade"
	default:
		return "unknown"
	}
}

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d >= DirectionVertical && d <= DirectionFade
}

// ParseDirection parses "vertical", "left", "right" or "fade".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "vertical":
		return DirectionVertical, nil
	case "left":
		return DirectionLeft, nil
	case "right":
		return DirectionRight, nil
	case "fade":
		return DirectionFade, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Default toast lengths.
const (
	DefaultShortLength = 2 * time.Second
	DefaultLongLength  = 3500 * time.Millisecond
)

// LengthKind selects how long a toast stays fully visible.
type LengthKind int

const (
	LengthKindShort LengthKind = iota
	LengthKindLong
	LengthKindCustom
)

// Length is a duration policy. The zero value is LengthShort.
type Length struct {
	Kind   LengthKind
	Custom time.Duration
}

var (
	// LengthShort keeps a toast visible for the short duration (2s by default).
	LengthShort = Length{Kind: LengthKindShort}
	// LengthLong keeps a toast visible for the long duration (3.5s by default).
	LengthLong = Length{Kind: LengthKindLong}
)

// Custom returns a Length with an explicit duration.
func Custom(d time.Duration) Length {
	return Length{Kind: LengthKindCustom, Custom: d}
}

// Validate checks the policy resolves to a positive duration.
func (l Length) Validate() error {
	switch l.Kind {
	case LengthKindShort, LengthKindLong:
		return nil
	case LengthKindCustom:
		if l.Custom <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidLength, l.Custom)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidLength, l.Kind)
	}
}

// Resolve returns the concrete duration using the given short and long values.
// Non-positive short or long values fall back to the package defaults.
func (l Length) Resolve(short, long time.Duration) time.Duration {
	if short <= 0 {
		short = DefaultShortLength
	}
	if long <= 0 {
		long = DefaultLongLength
	}
	switch l.Kind {
	case LengthKindLong:
		return long
	case LengthKindCustom:
		if l.Custom > 0 {
			return l.Custom
		}
		return short
	default:
		return short
	}
}

// String returns "short", "long" or the custom duration.
func (l Length) String() string {
	switch l.Kind {
	case LengthKindShort:
		return "short"
	case LengthKindLong:
		return "long"
	default:
		return l.Custom.String()
	}
}

// ParseLength parses "short", "long" or a Go duration string such as "1500ms".
func ParseLength(s string) (Length, error) {
	switch s {
	case "", "short":
		return LengthShort, nil
	case "long":
		return LengthLong, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return Length{}, fmt.Errorf("%w: %q", ErrInvalidLength, s)
	}
	l := Custom(d)
	if err := l.Validate(); err != nil {
		return Length{}, err
	}
	return l, nil
}

// Reason records why a toast left the screen.
type Reason int

const (
	// ReasonTapped means the user tapped the toast.
	ReasonTapped Reason = iota
	// ReasonTimedOut means the auto-dismiss timer expired.
	ReasonTimedOut
	// ReasonDismissed means the toast was dismissed programmatically.
	ReasonDismissed
	// ReasonScreenClosed means the owning screen went away mid-presentation.
	ReasonScreenClosed
)

// String returns the string representation of Reason.
func (r Reason) String() string {
	switch r {
	case ReasonTapped:
		return "tapped"
	case ReasonTimedOut:
		return "timed-out"
	case ReasonDismissed:
		return "dismissed"
	case ReasonScreenClosed:
		return "screen-closed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ScreenID is a non-owning handle to the screen a toast belongs to.
// It must be resolved through a registry before use.
type ScreenID string
