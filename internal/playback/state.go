// Package playback coordinates the queue, the library and the audio
// device: what plays, in what order, and what happens when a song ends.
package playback

import "time"

// State is the engine playback state.
type State int

const (
	// Idle means nothing is queued for playback.
	Idle State = iota
	// Playing means the current song is audible.
	Playing
	// Paused means a song is loaded but suspended.
	Paused
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Transport is a snapshot of the playback position for rendering.
// Duration falls back to the song's stored metadata when the device has
// not reported one yet.
type Transport struct {
	State    State
	Position time.Duration
	Duration time.Duration
}
