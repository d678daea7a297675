// Package library holds the in-memory mirror of all songs and playlists,
// loaded from the persistent store at startup and kept in sync by
// write-through CRUD operations.
package library

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/sriramNV/audio-player/internal/store"
)

// ErrDeleteFailed is returned when the store rejects a deletion. The
// in-memory state is left unchanged; callers surface it to the user.
var ErrDeleteFailed = errors.New("delete failed")

// Song is a library entry. The binary content stays in the store; URL and
// AlbumArtURL are playable references into its media cache.
type Song struct {
	ID          string
	Name        string
	Artist      string
	Album       string
	Duration    time.Duration
	URL         string
	AlbumArtURL string
}

// Playlist is a named, ordered list of song ids.
type Playlist struct {
	ID      string
	Name    string
	SongIDs []string
}

// DurationProber learns the playable duration of an audio blob. Failure is
// non-fatal; the song is imported with duration 0.
type DurationProber func(filename string, data []byte) (time.Duration, error)

// Library mirrors the store in memory. Imports run off the UI loop, so
// all methods are safe for concurrent use.
type Library struct {
	mu    sync.RWMutex
	store *store.Store
	probe DurationProber
	log   *log.Logger

	songs     []Song
	songByID  map[string]Song
	playlists []Playlist

	onSongDeleted func(songID string)
}

// New creates a library over the given store. Call Load before use.
func New(st *store.Store, probe DurationProber, logger *log.Logger) *Library {
	if logger == nil {
		logger = log.Default()
	}
	if probe == nil {
		probe = func(string, []byte) (time.Duration, error) { return 0, nil }
	}
	return &Library{
		store:    st,
		probe:    probe,
		log:      logger,
		songByID: make(map[string]Song),
	}
}

// SetDeleteHook registers a callback invoked after a song has been
// deleted, so the playback engine can evict it from the live queue.
func (l *Library) SetDeleteHook(fn func(songID string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onSongDeleted = fn
}

// Load replaces the in-memory collections with the store contents.
func (l *Library) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked()
}

func (l *Library) loadLocked() error {
	songs, err := l.store.GetAllSongs()
	if err != nil {
		return fmt.Errorf("load songs: %w", err)
	}
	playlists, err := l.store.GetAllPlaylists()
	if err != nil {
		return fmt.Errorf("load playlists: %w", err)
	}

	l.songs = make([]Song, 0, len(songs))
	l.songByID = make(map[string]Song, len(songs))
	for _, s := range songs {
		song := Song{
			ID:          s.ID,
			Name:        s.Name,
			Artist:      s.Artist,
			Album:       s.Album,
			Duration:    s.Duration,
			URL:         s.URL,
			AlbumArtURL: s.AlbumArtURL,
		}
		l.songs = append(l.songs, song)
		l.songByID[song.ID] = song
	}

	l.playlists = make([]Playlist, 0, len(playlists))
	for _, p := range playlists {
		l.playlists = append(l.playlists, Playlist{ID: p.ID, Name: p.Name, SongIDs: p.SongIDs})
	}

	l.log.Debug("library loaded", "songs", len(l.songs), "playlists", len(l.playlists))
	return nil
}

// Songs returns all songs in library order.
func (l *Library) Songs() []Song {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Song, len(l.songs))
	copy(out, l.songs)
	return out
}

// SongIDs returns all song ids in library order.
func (l *Library) SongIDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return lo.Map(l.songs, func(s Song, _ int) string { return s.ID })
}

// Song returns the song with the given id.
func (l *Library) Song(id string) (Song, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.songByID[id]
	return s, ok
}

// Playlists returns all playlists. Song ids pointing at deleted songs are
// filtered out at read time; the stored records are not eagerly cleaned.
func (l *Library) Playlists() []Playlist {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Playlist, 0, len(l.playlists))
	for _, p := range l.playlists {
		out = append(out, l.filtered(p))
	}
	return out
}

// Playlist returns the playlist with the given id, stale entries filtered.
func (l *Library) Playlist(id string) (Playlist, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, p := range l.playlists {
		if p.ID == id {
			return l.filtered(p), true
		}
	}
	return Playlist{}, false
}

func (l *Library) filtered(p Playlist) Playlist {
	ids := lo.Filter(p.SongIDs, func(id string, _ int) bool {
		_, ok := l.songByID[id]
		return ok
	})
	return Playlist{ID: p.ID, Name: p.Name, SongIDs: ids}
}
