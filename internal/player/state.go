package player

import "time"

// State represents the device state.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// EventKind identifies a device event.
type EventKind int

const (
	// EventTimeUpdate reports the current position and total duration
	// while a song is playing.
	EventTimeUpdate EventKind = iota
	// EventFinished reports that the loaded song played to its end.
	EventFinished
)

// Event is a notification pushed by the device.
type Event struct {
	Kind     EventKind
	Position time.Duration
	Duration time.Duration
}
