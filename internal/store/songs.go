package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	dbutil "github.com/sriramNV/audio-player/internal/db"
)

// SongRecord is the write-side shape for a song: metadata plus the raw
// file content. Upserted by id.
type SongRecord struct {
	ID           string
	Name         string
	Artist       string
	Album        string
	Duration     time.Duration
	Filename     string // original filename, keeps the extension for playback
	AlbumArt     []byte
	AlbumArtMIME string
	Data         []byte
}

// Song is the read-side shape: metadata plus playable references into the
// media cache. The blob itself stays in the store.
type Song struct {
	ID          string
	Name        string
	Artist      string
	Album       string
	Duration    time.Duration
	URL         string
	AlbumArtURL string
}

// PutSongs upserts a batch of songs and their blobs in one transaction.
func (s *Store) PutSongs(records []SongRecord) error {
	if len(records) == 0 {
		return nil
	}

	return dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		metaStmt, err := tx.Prepare(`
			INSERT INTO songs (id, name, artist, album, duration_ms, filename, album_art, album_art_mime, added_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				artist = excluded.artist,
				album = excluded.album,
				duration_ms = excluded.duration_ms,
				filename = excluded.filename,
				album_art = excluded.album_art,
				album_art_mime = excluded.album_art_mime
		`)
		if err != nil {
			return err
		}
		defer metaStmt.Close()

		blobStmt, err := tx.Prepare(`
			INSERT INTO song_files (id, data)
			VALUES (?, ?)
			ON CONFLICT(id) DO UPDATE SET data = excluded.data
		`)
		if err != nil {
			return err
		}
		defer blobStmt.Close()

		now := time.Now().Unix()
		for _, r := range records {
			if _, err := metaStmt.Exec(r.ID, r.Name, r.Artist, r.Album,
				r.Duration.Milliseconds(), r.Filename, r.AlbumArt, r.AlbumArtMIME, now); err != nil {
				return err
			}
			if _, err := blobStmt.Exec(r.ID, r.Data); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetAllSongs returns all songs with playable references, in insertion
// order. A song whose blob cannot be produced is silently omitted.
func (s *Store) GetAllSongs() ([]Song, error) {
	rows, err := s.db.Query(`
		SELECT sg.id, sg.name, sg.artist, sg.album, sg.duration_ms, sg.filename,
		       sg.album_art, sg.album_art_mime, sf.data
		FROM songs sg
		LEFT JOIN song_files sf ON sf.id = sg.id
		ORDER BY sg.added_at, sg.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		var (
			song       Song
			artist     sql.NullString
			album      sql.NullString
			durationMS int64
			filename   string
			art        []byte
			artMIME    sql.NullString
			data       []byte
		)
		if err := rows.Scan(&song.ID, &song.Name, &artist, &album, &durationMS,
			&filename, &art, &artMIME, &data); err != nil {
			return nil, err
		}
		if data == nil {
			continue // blob missing, partial results are acceptable
		}

		song.Artist = dbutil.NullStringValue(artist)
		song.Album = dbutil.NullStringValue(album)
		song.Duration = time.Duration(durationMS) * time.Millisecond

		url, err := s.materialize(s.mediaDir, song.ID+filepath.Ext(filename), data)
		if err != nil {
			continue
		}
		song.URL = url

		if len(art) > 0 {
			if artURL, err := s.materialize(s.artDir, song.ID+artExt(dbutil.NullStringValue(artMIME)), art); err == nil {
				song.AlbumArtURL = artURL
			}
		}

		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// DeleteSong removes both the metadata record and the blob record, and
// evicts any materialized cache files.
func (s *Store) DeleteSong(id string) error {
	var filename string
	err := s.db.QueryRow(`SELECT filename FROM songs WHERE id = ?`, id).Scan(&filename)
	if err != nil && err != sql.ErrNoRows {
		return err
	}

	err = dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM song_files WHERE id = ?`, id); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM songs WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return err
	}

	// Cache eviction is best effort; a stale file is overwritten on reuse.
	if filename != "" {
		_ = os.Remove(filepath.Join(s.mediaDir, id+filepath.Ext(filename)))
	}
	matches, _ := filepath.Glob(filepath.Join(s.artDir, id+".*"))
	for _, m := range matches {
		_ = os.Remove(m)
	}
	return nil
}

// materialize writes content to the cache under name unless an up-to-date
// copy already exists, and returns its path.
func (s *Store) materialize(dir, name string, data []byte) (string, error) {
	path := filepath.Join(dir, name)
	if fi, err := os.Stat(path); err == nil && fi.Size() == int64(len(data)) {
		return path, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("materialize %s: %w", name, err)
	}
	return path, nil
}

func artExt(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
