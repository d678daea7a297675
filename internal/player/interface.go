package player

import "time"

// Interface defines the audio device contract for dependency injection and
// testing. Only one song may be loaded at a time; Load implicitly stops
// whatever was playing before.
type Interface interface {
	Load(url string) error
	Play() error
	Pause()
	Stop()
	Seek(pos time.Duration)
	Position() time.Duration
	Duration() time.Duration
	State() State
	Events() <-chan Event
	Close() error
}

// Verify implementations at compile time.
var (
	_ Interface = (*Player)(nil)
	_ Interface = (*Mock)(nil)
)
