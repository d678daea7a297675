package ui

import "github.com/sriramNV/audio-player/internal/library"

// engineEventMsg carries one playback subscription event into the update
// loop. Event is one of the playback event structs.
type engineEventMsg struct {
	event any
}

// engineClosedMsg is sent when the playback subscription shuts down.
type engineClosedMsg struct{}

// importResultMsg reports a finished import scan.
type importResultMsg struct {
	report library.ImportReport
	err    error
}
