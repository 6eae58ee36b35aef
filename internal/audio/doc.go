// Package audio plays a sound when a toast starts presenting.
// It uses the beep library to decode WAV, OGG and MP3 files.
package audio
