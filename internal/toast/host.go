package toast

import (
	"github.com/jmylchreest/toastui/internal/model"
)

// Container mounts sessions on a host screen. The session exposes the
// descriptor, the planned geometry, the current animation frame, and the
// host event entry points (EnterAnimationComplete, Tap, ExitAnimationComplete).
type Container interface {
	// Mount makes the session's surface visible. An error skips the
	// descriptor and the queue moves on.
	Mount(s *Session) error
	// Unmount removes the surface once the session is dismissed.
	Unmount(s *Session)
}

// Measurer returns the rendered height of text. It must be pure.
type Measurer interface {
	MeasuredHeight(text string, font model.Font, maxWidth float64) float64
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(text string, font model.Font, maxWidth float64) float64

// MeasuredHeight implements Measurer.
func (f MeasureFunc) MeasuredHeight(text string, font model.Font, maxWidth float64) float64 {
	return f(text, font, maxWidth)
}

// HostError reports a failure inside a host container.
type HostError struct {
	Message string
	Cause   error
}

func (e *HostError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *HostError) Unwrap() error {
	return e.Cause
}
