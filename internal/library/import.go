package library

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sriramNV/audio-player/internal/store"
	"github.com/sriramNV/audio-player/internal/tags"
)

// File is an audio file handed to ImportFiles. Data holds the full binary
// content; MediaType is its MIME type.
type File struct {
	Name      string
	MediaType string
	ModTime   time.Time
	Data      []byte
}

// ImportReport summarizes an import run.
type ImportReport struct {
	Imported int
	Skipped  int
	Bytes    int64
}

// audioMIMETypes covers the formats the platform mime database may not
// know about.
var audioMIMETypes = map[string]string{
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
}

// FileFromPath reads path into a File, deriving MediaType from the
// extension.
func FileFromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	mediaType := audioMIMETypes[ext]
	if mediaType == "" {
		mediaType = mime.TypeByExtension(ext)
	}
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	return File{
		Name:      filepath.Base(path),
		MediaType: mediaType,
		ModTime:   info.ModTime(),
		Data:      data,
	}, nil
}

// SongID derives the stable identifier for a file: the same name and
// modification time always map to the same song, so re-importing a file
// updates its record instead of duplicating it.
func SongID(name string, modTime time.Time) string {
	sum := sha1.Sum(fmt.Appendf(nil, "%s-%d", name, modTime.UnixMilli()))
	return hex.EncodeToString(sum[:])
}

// ImportFiles adds the given files to the library. Non-audio files are
// skipped. Metadata extraction failures degrade to filename-derived
// titles; they never abort the import. All records are persisted in one
// batch, then the in-memory state is reloaded from the store.
func (l *Library) ImportFiles(files []File) (ImportReport, error) {
	var report ImportReport
	records := make([]store.SongRecord, 0, len(files))

	for _, f := range files {
		if !strings.HasPrefix(f.MediaType, "audio/") {
			l.log.Debug("skipping non-audio file", "file", f.Name, "type", f.MediaType)
			report.Skipped++
			continue
		}

		rec := store.SongRecord{
			ID:       SongID(f.Name, f.ModTime),
			Name:     tags.TitleFromFilename(f.Name),
			Filename: f.Name,
			Data:     f.Data,
		}

		t, err := tags.Read(f.Name, f.Data)
		if err != nil {
			l.log.Warn("metadata extraction failed", "file", f.Name, "err", err)
		} else {
			if t.Title != "" {
				rec.Name = t.Title
			}
			rec.Artist = t.Artist
			rec.Album = t.Album
			rec.AlbumArt = t.Picture
			rec.AlbumArtMIME = t.PictureMIME
		}

		if dur, err := l.probe(f.Name, f.Data); err != nil {
			l.log.Warn("duration probe failed", "file", f.Name, "err", err)
		} else {
			rec.Duration = dur
		}

		records = append(records, rec)
		report.Imported++
		report.Bytes += int64(len(f.Data))
	}

	if len(records) == 0 {
		return report, nil
	}

	if err := l.store.PutSongs(records); err != nil {
		return ImportReport{Skipped: report.Skipped}, fmt.Errorf("persist songs: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.loadLocked(); err != nil {
		return report, err
	}
	return report, nil
}
