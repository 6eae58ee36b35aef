// Package dbus implements the org.freedesktop.Notifications D-Bus interface
// on top of the toast presenter, plus a small client for sending to it.
package dbus
