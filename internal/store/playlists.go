package store

import (
	"database/sql"
	"time"

	dbutil "github.com/sriramNV/audio-player/internal/db"
)

// Playlist is a named, ordered list of song ids.
type Playlist struct {
	ID      string
	Name    string
	SongIDs []string
}

// PutPlaylist upserts a playlist and its song list in one transaction.
func (s *Store) PutPlaylist(p Playlist) error {
	return dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO playlists (id, name, created_at)
			VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name
		`, p.ID, p.Name, time.Now().Unix())
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM playlist_songs WHERE playlist_id = ?`, p.ID); err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO playlist_songs (playlist_id, position, song_id)
			VALUES (?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, songID := range p.SongIDs {
			if _, err := stmt.Exec(p.ID, i, songID); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetAllPlaylists returns all playlists with their song lists, oldest first.
func (s *Store) GetAllPlaylists() ([]Playlist, error) {
	rows, err := s.db.Query(`
		SELECT id, name FROM playlists ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlists []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range playlists {
		ids, err := s.playlistSongIDs(playlists[i].ID)
		if err != nil {
			return nil, err
		}
		playlists[i].SongIDs = ids
	}
	return playlists, nil
}

func (s *Store) playlistSongIDs(playlistID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT song_id FROM playlist_songs
		WHERE playlist_id = ?
		ORDER BY position
	`, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeletePlaylist removes a playlist and its song list.
func (s *Store) DeletePlaylist(id string) error {
	return dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM playlist_songs WHERE playlist_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM playlists WHERE id = ?`, id)
		return err
	})
}
