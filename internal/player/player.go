package player

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	eventBufferSize = 16
	tickInterval    = 250 * time.Millisecond
)

// The speaker runs at one fixed rate; tracks with a different sample
// rate are resampled on the way in.
const speakerSampleRate = beep.SampleRate(44100)

var speakerInitialized bool

// Player plays audio files through the system speaker.
type Player struct {
	mu sync.Mutex

	state    State
	streamer beep.StreamSeekCloser
	format   beep.Format
	file     *os.File
	ctrl     *beep.Ctrl
	stream   beep.Streamer // ctrl, resampled to the speaker rate if needed
	attached bool          // stream handed to the speaker
	duration time.Duration

	events chan Event
	done   chan struct{}
}

// New creates a player. Close releases its event loop.
func New() *Player {
	p := &Player{
		state:  Stopped,
		events: make(chan Event, eventBufferSize),
		done:   make(chan struct{}),
	}
	go p.tickLoop()
	return p
}

// IsMusicFile reports whether the path has a playable extension.
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".flac", ".wav", ".ogg", ".oga":
		return true
	}
	return false
}

// Load decodes the file at url and prepares it for playback, paused.
// Loading implicitly stops the previously loaded song.
func (p *Player) Load(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	f, err := os.Open(url)
	if err != nil {
		return err
	}

	streamer, format, err := decode(url, f)
	if err != nil {
		f.Close()
		return err
	}

	if !speakerInitialized {
		if err := speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			f.Close()
			return err
		}
		speakerInitialized = true
	}

	p.file = f
	p.streamer = streamer
	p.format = format
	p.ctrl = &beep.Ctrl{Streamer: streamer, Paused: true}
	p.stream = resampleToSpeakerRate(p.ctrl, format.SampleRate)
	p.attached = false
	p.duration = format.SampleRate.D(streamer.Len())
	p.state = Paused
	return nil
}

// resampleToSpeakerRate wraps s so it plays correctly at the speaker's
// fixed rate. Tracks already at that rate pass through untouched.
func resampleToSpeakerRate(s beep.Streamer, from beep.SampleRate) beep.Streamer {
	if from == speakerSampleRate {
		return s
	}
	return beep.Resample(4, from, speakerSampleRate, s)
}

func decode(url string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(url)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".ogg", ".oga":
		return vorbis.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported format: %s", filepath.Ext(url))
	}
}

// Play starts (or resumes) playback of the loaded song.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctrl == nil {
		return errNothingLoaded
	}

	if !p.attached {
		p.ctrl.Paused = false
		speaker.Play(beep.Seq(p.stream, beep.Callback(p.onStreamEnd)))
		p.attached = true
	} else {
		speaker.Lock()
		p.ctrl.Paused = false
		speaker.Unlock()
	}
	p.state = Playing
	return nil
}

// Pause pauses playback. No-op when nothing is playing.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != Playing || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.state = Paused
}

// Stop unloads the current song and releases the speaker.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Seek moves the playback position. Bounds are clamped to the stream.
func (p *Player) Seek(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return
	}

	sample := p.format.SampleRate.N(pos)
	sample = max(sample, 0)
	if maxSample := p.streamer.Len() - 1; sample > maxSample {
		sample = maxSample
	}

	speaker.Lock()
	_ = p.streamer.Seek(sample)
	speaker.Unlock()
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.format.SampleRate.D(p.streamer.Position())
	speaker.Unlock()
	return pos
}

// Duration returns the loaded song's total duration.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// State returns the device state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Events returns the device notification stream.
func (p *Player) Events() <-chan Event {
	return p.events
}

// Close stops playback and releases the player.
func (p *Player) Close() error {
	p.mu.Lock()
	p.stopLocked()
	p.mu.Unlock()
	close(p.done)
	return nil
}

// stopLocked releases the current streamer. Callers hold p.mu.
func (p *Player) stopLocked() {
	if p.state == Stopped && p.streamer == nil {
		return
	}

	// Clearing the speaker drops the sequence before its end, so the
	// finished callback for the old streamer never fires.
	speaker.Clear()

	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	if p.file != nil {
		p.file.Close()
		p.file = nil
	}
	p.ctrl = nil
	p.stream = nil
	p.attached = false
	p.duration = 0
	p.state = Stopped
}

// onStreamEnd runs on the speaker's streaming goroutine with the speaker
// mutex held. It must not take p.mu here: Position and stopLocked hold
// p.mu while waiting for the speaker, so blocking on it would deadlock.
func (p *Player) onStreamEnd() {
	go p.handleFinished()
}

func (p *Player) handleFinished() {
	p.mu.Lock()
	dur := p.duration
	p.state = Paused
	p.mu.Unlock()

	p.send(Event{Kind: EventFinished, Position: dur, Duration: dur})
}

func (p *Player) tickLoop() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			if p.State() != Playing {
				continue
			}
			p.send(Event{
				Kind:     EventTimeUpdate,
				Position: p.Position(),
				Duration: p.Duration(),
			})
		}
	}
}

// send delivers an event without blocking; events are dropped when the
// consumer lags.
func (p *Player) send(e Event) {
	select {
	case p.events <- e:
	default:
	}
}
