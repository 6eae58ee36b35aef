// Package gtkhost presents toasts as GTK4 layer-shell surfaces on Wayland.
// Each mounted session gets one undecorated window anchored to the top or
// bottom edge of its monitor; the window follows the session's animation
// frames until it is unmounted. Monitors are mirrored into the presenter's
// screen registry.
package gtkhost
