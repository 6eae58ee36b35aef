// Package daemon provides the main orchestration for toastuid.
// It bridges D-Bus notifications onto the toast presenter, tracks the
// mapping between wire IDs and toast IDs, and applies configuration
// hot-reloads to the running components.
package daemon
