// Package toast presents transient notifications one at a time.
//
// A Presenter owns a FIFO queue of descriptors and a single active slot.
// Each presented descriptor becomes a Session that walks the state machine
//
//	Created → Presenting → Visible → Dismissing → Dismissed
//
// Timer expiry, taps and explicit dismissals may race for the
// Visible → Dismissing transition from any goroutine; the session treats it
// as a compare-and-set so exactly one reason is recorded and the completion
// callback fires once. When a session reaches Dismissed the presenter clears
// its active slot and advances the queue.
package toast
