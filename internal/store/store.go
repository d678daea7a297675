// Package store persists song metadata, song binary blobs, and playlists
// in a SQLite database, and materializes blobs into an on-disk media cache
// so callers get playable file references.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "audio-player"
	dbFileName = "library.db"
)

// ErrStoreUnavailable is returned when the backing storage cannot be opened.
// It is fatal to startup.
var ErrStoreUnavailable = errors.New("store unavailable")

type Store struct {
	db       *sql.DB
	mediaDir string
	artDir   string
}

// Open opens (or creates) the store. dataDir overrides the default xdg
// data location when non-empty.
func Open(dataDir string) (*Store, error) {
	var dbPath string
	var err error
	if dataDir != "" {
		dbPath = filepath.Join(dataDir, dbFileName)
	} else {
		dbPath, err = xdg.DataFile(filepath.Join(appName, dbFileName))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	mediaDir := filepath.Join(filepath.Dir(dbPath), "media")
	artDir := filepath.Join(filepath.Dir(dbPath), "art")
	for _, dir := range []string{mediaDir, artDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &Store{db: db, mediaDir: mediaDir, artDir: artDir}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for tests.
func (s *Store) DB() *sql.DB {
	return s.db
}
