// Package httpapi exposes the presenter over a small JSON HTTP API.
package httpapi

import (
	"fmt"

	"github.com/jmylchreest/toastui/internal/model"
)

// ToastRequest is the body of POST /v1/toasts. Empty fields fall back to
// the daemon defaults.
type ToastRequest struct {
	Title    string `json:"title,omitempty"`
	Message  string `json:"message"`
	Style    string `json:"style,omitempty"`
	Screen   string `json:"screen,omitempty"` // screen ID or name
	Location string `json:"location,omitempty"`
	Present  string `json:"present,omitempty"`
	Dismiss  string `json:"dismiss,omitempty"`
	Length   string `json:"length,omitempty"` // "short", "long" or a duration
}

// options converts the request into descriptor options applied after the
// defaults.
func (r ToastRequest) options() ([]model.Option, model.Length, error) {
	var opts []model.Option

	if r.Title != "" {
		opts = append(opts, model.WithTitle(r.Title))
	}
	if r.Style != "" {
		style, ok := model.StyleByName(r.Style)
		if !ok {
			return nil, model.Length{}, fmt.Errorf("%w: unknown style %q", model.ErrInvalidStyle, r.Style)
		}
		opts = append(opts, model.WithStyle(style))
	}
	if r.Location != "" {
		loc, err := model.ParseLocation(r.Location)
		if err != nil {
			return nil, model.Length{}, err
		}
		opts = append(opts, model.WithLocation(loc))
	}
	if r.Present != "" {
		present, err := model.ParseDirection(r.Present)
		if err != nil {
			return nil, model.Length{}, err
		}
		dismiss := present
		if r.Dismiss != "" {
			if dismiss, err = model.ParseDirection(r.Dismiss); err != nil {
				return nil, model.Length{}, err
			}
		}
		opts = append(opts, model.WithDirections(present, dismiss))
	}

	length, err := model.ParseLength(r.Length)
	if err != nil {
		return nil, model.Length{}, err
	}
	return opts, length, nil
}

// ToastResponse is returned by POST /v1/toasts. Reason is set only when
// the request waited for dismissal.
type ToastResponse struct {
	ID     string `json:"id"`
	Reason string `json:"reason,omitempty"`
}

// ClearResponse is returned by DELETE /v1/toasts.
type ClearResponse struct {
	Cleared int `json:"cleared"`
}

// DismissResponse is returned by the dismiss endpoints.
type DismissResponse struct {
	Dismissed bool `json:"dismissed"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
