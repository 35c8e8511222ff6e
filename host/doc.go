// Package host connects the emulator to the outside world: a raw mode
// terminal for keys and display, a live audio beeper, and a WAV recorder
// for the sound timer.
package host
