package library

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/sriramNV/audio-player/internal/store"
)

// CreatePlaylist persists a new empty playlist and returns it.
func (l *Library) CreatePlaylist(name string) (Playlist, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := Playlist{ID: uuid.NewString(), Name: name}
	if err := l.store.PutPlaylist(store.Playlist{ID: p.ID, Name: p.Name}); err != nil {
		return Playlist{}, fmt.Errorf("create playlist: %w", err)
	}
	l.playlists = append(l.playlists, p)
	return p, nil
}

// AddSongToPlaylist appends a song to a playlist. Unknown playlist ids
// and songs already present are silent no-ops.
func (l *Library) AddSongToPlaylist(songID, playlistID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.playlistIndex(playlistID)
	if i < 0 {
		return nil
	}
	p := l.playlists[i]
	if slices.Contains(p.SongIDs, songID) {
		return nil
	}

	ids := append(slices.Clone(p.SongIDs), songID)
	if err := l.putPlaylistSongs(p, ids); err != nil {
		return fmt.Errorf("add song to playlist: %w", err)
	}
	l.playlists[i].SongIDs = ids
	return nil
}

// RemoveSongFromPlaylist drops a song from a playlist. Unknown playlist
// ids and songs not present are silent no-ops.
func (l *Library) RemoveSongFromPlaylist(songID, playlistID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.playlistIndex(playlistID)
	if i < 0 {
		return nil
	}
	p := l.playlists[i]
	if !slices.Contains(p.SongIDs, songID) {
		return nil
	}

	ids := lo.Without(p.SongIDs, songID)
	if err := l.putPlaylistSongs(p, ids); err != nil {
		return fmt.Errorf("remove song from playlist: %w", err)
	}
	l.playlists[i].SongIDs = ids
	return nil
}

// DeletePlaylist removes a playlist. The songs it referenced are kept.
func (l *Library) DeletePlaylist(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.playlistIndex(id)
	if i < 0 {
		return nil
	}
	if err := l.store.DeletePlaylist(id); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	l.playlists = slices.Delete(l.playlists, i, i+1)
	return nil
}

// DeleteSong removes a song from the library and from every playlist that
// references it. The store is updated first; the in-memory state only
// changes once persistence succeeded, so a failure leaves the library
// consistent with what the user still sees.
func (l *Library) DeleteSong(id string) error {
	l.mu.Lock()
	if _, ok := l.songByID[id]; !ok {
		l.mu.Unlock()
		return nil
	}

	if err := l.store.DeleteSong(id); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	for _, p := range l.playlists {
		if !slices.Contains(p.SongIDs, id) {
			continue
		}
		if err := l.putPlaylistSongs(p, lo.Without(p.SongIDs, id)); err != nil {
			l.mu.Unlock()
			return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
		}
	}

	l.songs = lo.Reject(l.songs, func(s Song, _ int) bool { return s.ID == id })
	delete(l.songByID, id)
	for i := range l.playlists {
		l.playlists[i].SongIDs = lo.Without(l.playlists[i].SongIDs, id)
	}
	hook := l.onSongDeleted
	l.mu.Unlock()

	// The hook reaches back into the engine, which reads the library
	// under its own lock; it must run outside ours.
	if hook != nil {
		hook(id)
	}
	return nil
}

func (l *Library) putPlaylistSongs(p Playlist, ids []string) error {
	return l.store.PutPlaylist(store.Playlist{ID: p.ID, Name: p.Name, SongIDs: ids})
}

func (l *Library) playlistIndex(id string) int {
	return slices.IndexFunc(l.playlists, func(p Playlist) bool { return p.ID == id })
}
