// Package tags provides best-effort tag reading for imported audio blobs.
package tags

// File extensions recognized by the importer.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOGG  = ".ogg"
	ExtOGA  = ".oga"
	ExtWAV  = ".wav"
	ExtM4A  = ".m4a"
)

// Tag contains the metadata extracted from an audio file.
type Tag struct {
	Title  string
	Artist string
	Album  string

	// Embedded cover art, if any.
	Picture     []byte
	PictureMIME string
}
