// Package model defines the toast descriptor and its value types.
package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Validation errors.
var (
	ErrEmptyMessage         = errors.New("toast needs a message or a title")
	ErrMissingScreen        = errors.New("toast needs an owning screen")
	ErrInvalidWidthFraction = errors.New("width fraction must be within [0,1]")
	ErrInvalidStyle         = errors.New("invalid style")
	ErrInvalidLength        = errors.New("toast length must be positive")
	ErrInvalidLocation      = errors.New("invalid location")
	ErrInvalidDirection     = errors.New("invalid direction")
)

// CompletionFunc receives the dismissal reason once the toast has left the screen.
type CompletionFunc func(reason Reason)

// SkipFunc receives the cause when a queued toast is dropped without being
// presented.
type SkipFunc func(err error)

// Descriptor is an immutable request to show one toast.
// Descriptors are passed and stored by value.
type Descriptor struct {
	ID               string
	Title            string
	Message          string
	Style            Style
	Location         Location
	PresentDirection Direction
	DismissDirection Direction
	Length           Length
	Screen           ScreenID
	OnComplete       CompletionFunc
	OnSkip           SkipFunc
	CreatedAt        time.Time
}

// Option configures a Descriptor under construction.
type Option func(*Descriptor)

// WithTitle sets the optional title line.
func WithTitle(title string) Option {
	return func(d *Descriptor) {
		d.Title = title
	}
}

// WithStyle sets the visual style.
func WithStyle(style Style) Option {
	return func(d *Descriptor) {
		d.Style = style
	}
}

// WithLocation anchors the toast to the top or bottom edge.
func WithLocation(loc Location) Option {
	return func(d *Descriptor) {
		d.Location = loc
	}
}

// WithDirections sets the presenting and dismissing directions independently.
func WithDirections(present, dismiss Direction) Option {
	return func(d *Descriptor) {
		d.PresentDirection = present
		d.DismissDirection = dismiss
	}
}

// WithLength sets the duration policy.
func WithLength(l Length) Option {
	return func(d *Descriptor) {
		d.Length = l
	}
}

// WithCompletion sets the callback invoked once with the dismissal reason.
func WithCompletion(fn CompletionFunc) Option {
	return func(d *Descriptor) {
		d.OnComplete = fn
	}
}

// WithSkipHandler sets the callback invoked if the toast is never presented
// because its screen closed or the host failed to mount it.
func WithSkipHandler(fn SkipFunc) Option {
	return func(d *Descriptor) {
		d.OnSkip = fn
	}
}

// NewDescriptor builds and validates a descriptor for the given screen.
func NewDescriptor(screen ScreenID, message string, opts ...Option) (Descriptor, error) {
	d := Descriptor{
		Message:   message,
		Screen:    screen,
		Style:     StyleInfo,
		Location:  LocationTop,
		Length:    LengthShort,
		CreatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(&d)
	}
	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}

	id, err := NewID()
	if err != nil {
		return Descriptor{}, err
	}
	d.ID = id
	return d, nil
}

// NewID returns a new ULID string.
func NewID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate ULID: %w", err)
	}
	return id.String(), nil
}

// Validate checks that the descriptor can be presented.
func (d Descriptor) Validate() error {
	if d.Message == "" && d.Title == "" {
		return ErrEmptyMessage
	}
	if d.Screen == "" {
		return ErrMissingScreen
	}
	if !d.Location.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidLocation, d.Location)
	}
	if !d.PresentDirection.Valid() {
		return fmt.Errorf("%w: present %d", ErrInvalidDirection, d.PresentDirection)
	}
	if !d.DismissDirection.Valid() {
		return fmt.Errorf("%w: dismiss %d", ErrInvalidDirection, d.DismissDirection)
	}
	if err := d.Length.Validate(); err != nil {
		return err
	}
	return d.Style.Validate()
}

// WithLength returns a copy of d using the given duration policy.
func (d Descriptor) WithLength(l Length) Descriptor {
	d.Length = l
	return d
}
