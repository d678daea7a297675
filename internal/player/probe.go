package player

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// blobReader adapts an in-memory blob to the reader shapes the decoders
// expect (ReadSeeker and ReadCloser).
type blobReader struct {
	*bytes.Reader
}

func (blobReader) Close() error { return nil }

// ProbeDuration decodes just enough of an audio blob to learn its total
// duration. Callers treat failure as non-fatal (duration 0).
func ProbeDuration(filename string, data []byte) (time.Duration, error) {
	r := blobReader{bytes.NewReader(data)}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(r)
	case ".flac":
		streamer, format, err = flac.Decode(r)
	case ".wav":
		streamer, format, err = wav.Decode(r)
	case ".ogg", ".oga":
		streamer, format, err = vorbis.Decode(r)
	default:
		return 0, fmt.Errorf("unsupported format: %s", filepath.Ext(filename))
	}
	if err != nil {
		return 0, err
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}
