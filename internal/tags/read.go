package tags

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
)

// Read extracts tag metadata from raw audio file content.
// The filename is only used to pick format-specific fallbacks; it is not
// opened. Callers treat any error as non-fatal and degrade to
// filename-derived metadata.
func Read(filename string, data []byte) (*Tag, error) {
	m, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		ext := strings.ToLower(filepath.Ext(filename))
		if ext == ExtMP3 {
			// dhowden/tag has issues with some UTF-16 encoded ID3 tags
			return readMP3WithID3v2Fallback(data)
		}
		return nil, err
	}

	t := &Tag{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
	}

	if pic := m.Picture(); pic != nil {
		t.Picture = pic.Data
		t.PictureMIME = pic.MIMEType
	}

	return t, nil
}

// readMP3WithID3v2Fallback reads MP3 metadata using only the id3v2 library.
func readMP3WithID3v2Fallback(data []byte) (*Tag, error) {
	id3tag, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer id3tag.Close()

	t := &Tag{
		Title:  id3tag.Title(),
		Artist: id3tag.Artist(),
		Album:  id3tag.Album(),
	}

	for _, frame := range id3tag.GetFrames(id3tag.CommonID("Attached picture")) {
		if pf, ok := frame.(id3v2.PictureFrame); ok {
			t.Picture = pf.Picture
			t.PictureMIME = pf.MimeType
			break
		}
	}

	return t, nil
}

// TitleFromFilename derives a display name from a filename by stripping
// the extension. Used when tag extraction fails or yields no title.
func TitleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
