package playback

import (
	"time"

	"github.com/sriramNV/audio-player/internal/library"
)

// StateChange is emitted when the engine state changes.
type StateChange struct {
	Previous State
	Current  State
}

// SongChange is emitted when playback moves to a different song. Current
// is nil when playback stops with nothing queued.
type SongChange struct {
	Previous *library.Song
	Current  *library.Song
	Index    int
}

// Progress is emitted on device time updates and after seeks.
type Progress struct {
	Position time.Duration
	Duration time.Duration
}

// QueueChange is emitted when the queue contents or index change.
type QueueChange struct {
	IDs   []string
	Index int
}

// ErrorEvent is emitted when a device operation fails.
type ErrorEvent struct {
	Operation string
	SongID    string
	Err       error
}
