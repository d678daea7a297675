//go:build linux

// Package mpris exposes the playback engine on the session bus so desktop
// media controls can drive it.
package mpris

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/sriramNV/audio-player/internal/playback"
)

// Adapter connects the playback engine to MPRIS over D-Bus.
type Adapter struct {
	engine *playback.Engine
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(engine *playback.Engine) (*Adapter, error) {
	a := &Adapter{engine: engine}
	a.server = server.NewServer("audio-player", &rootAdapter{}, &playerAdapter{engine: engine})

	go func() {
		_ = a.server.Listen()
	}()
	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Audio Player", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	engine *playback.Engine
}

func (p *playerAdapter) Next() error {
	return p.engine.Next()
}

func (p *playerAdapter) Previous() error {
	return p.engine.Previous()
}

func (p *playerAdapter) Pause() error {
	if p.engine.State() == playback.Playing {
		return p.engine.TogglePlayPause()
	}
	return nil
}

func (p *playerAdapter) PlayPause() error {
	return p.engine.TogglePlayPause()
}

func (p *playerAdapter) Stop() error {
	return nil // Not supported - the queue is ephemeral
}

func (p *playerAdapter) Play() error {
	if p.engine.State() == playback.Paused {
		return p.engine.TogglePlayPause()
	}
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	pos := p.engine.Transport().Position + time.Duration(offset)*time.Microsecond
	p.engine.Seek(pos)
	return nil
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	p.engine.Seek(time.Duration(position) * time.Microsecond)
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.engine.State() {
	case playback.Playing:
		return types.PlaybackStatusPlaying, nil
	case playback.Paused:
		return types.PlaybackStatusPaused, nil
	default:
		return types.PlaybackStatusStopped, nil
	}
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	song, ok := p.engine.Current()
	if !ok {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(song.ID)),
		Length:  types.Microseconds(p.engine.Transport().Duration.Microseconds()),
		Title:   song.Name,
		Artist:  []string{song.Artist},
		Album:   song.Album,
	}
	if song.AlbumArtURL != "" {
		meta.ArtUrl = "file://" + song.AlbumArtURL
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Position() (int64, error) {
	return p.engine.Transport().Position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

// Next and Previous wrap around, so navigation is possible whenever
// anything is queued.

func (p *playerAdapter) CanGoNext() (bool, error) {
	return len(p.engine.QueueIDs()) > 0, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return len(p.engine.QueueIDs()) > 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return len(p.engine.QueueIDs()) > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
