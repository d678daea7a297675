package playback

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sriramNV/audio-player/internal/library"
	"github.com/sriramNV/audio-player/internal/player"
	"github.com/sriramNV/audio-player/internal/queue"
)

// SongSource resolves song ids into playable songs. The library satisfies
// this; tests substitute a fixture.
type SongSource interface {
	Song(id string) (library.Song, bool)
	SongIDs() []string
	Playlist(id string) (library.Playlist, bool)
}

var _ SongSource = (*library.Library)(nil)

// Engine owns the playback queue and drives the audio device. All methods
// are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	device player.Interface
	source SongSource
	queue  *queue.Queue
	log    *log.Logger

	// Transport cache, fed by device events.
	progress time.Duration
	duration time.Duration

	subs   []*Subscription
	subsMu sync.RWMutex

	done   chan struct{}
	closed bool
}

// New creates an engine over the given device and song source and starts
// consuming device events.
func New(device player.Interface, source SongSource, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	e := &Engine{
		device: device,
		source: source,
		queue:  queue.New(),
		log:    logger,
		done:   make(chan struct{}),
	}
	go e.eventLoop()
	return e
}

// PlaySong starts playback of songID within scope, the ordered id list it
// was picked from (a playlist or the whole library). Next and Previous
// then walk that scope. An empty scope defaults to library order; an id
// not present in the scope is a no-op.
func (e *Engine) PlaySong(songID string, scope []string) error {
	if len(scope) == 0 {
		scope = e.source.SongIDs()
	}
	idx := slices.Index(scope, songID)
	if idx < 0 {
		return nil
	}
	return e.setQueueAndStart(scope, idx)
}

// PlayAll starts playback of the whole library from the top.
func (e *Engine) PlayAll() error {
	ids := e.source.SongIDs()
	if len(ids) == 0 {
		return nil
	}
	return e.setQueueAndStart(ids, 0)
}

// PlayShuffled starts playback of the whole library in a fresh uniformly
// random order.
func (e *Engine) PlayShuffled() error {
	ids := queue.Shuffled(e.source.SongIDs())
	if len(ids) == 0 {
		return nil
	}
	return e.setQueueAndStart(ids, 0)
}

// PlayPlaylist starts playback of a playlist from its first song. Unknown
// or empty playlists are a no-op.
func (e *Engine) PlayPlaylist(playlistID string) error {
	p, ok := e.source.Playlist(playlistID)
	if !ok || len(p.SongIDs) == 0 {
		return nil
	}
	return e.setQueueAndStart(p.SongIDs, 0)
}

// PlayShuffledPlaylist starts playback of a playlist in a fresh uniformly
// random order. Unknown or empty playlists are a no-op.
func (e *Engine) PlayShuffledPlaylist(playlistID string) error {
	p, ok := e.source.Playlist(playlistID)
	if !ok || len(p.SongIDs) == 0 {
		return nil
	}
	return e.setQueueAndStart(queue.Shuffled(p.SongIDs), 0)
}

// TogglePlayPause flips between playing and paused. With nothing queued
// it is a no-op; with a song selected but stopped it restarts it.
func (e *Engine) TogglePlayPause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.stateLocked() {
	case Idle:
		return nil
	case Playing:
		prev := e.stateLocked()
		e.device.Pause()
		e.broadcastState(prev, e.stateLocked())
		return nil
	default:
		prev := e.stateLocked()
		if err := e.device.Play(); err != nil {
			return e.startErrorLocked(err)
		}
		e.broadcastState(prev, e.stateLocked())
		return nil
	}
}

// Next advances to the following queue entry, wrapping from the last song
// back to the first, and always resumes playing.
func (e *Engine) Next() error {
	return e.step((*queue.Queue).Advance)
}

// Previous steps back to the preceding queue entry, wrapping from the
// first song to the last, and always resumes playing.
func (e *Engine) Previous() error {
	return e.step((*queue.Queue).Retreat)
}

func (e *Engine) step(move func(*queue.Queue) (string, bool)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.queue.IsEmpty() {
		return nil
	}
	prevState := e.stateLocked()
	prevSong := e.currentSongLocked()
	prevIndex := e.queue.Index()

	move(e.queue)
	err := e.startLocked()
	e.emitAfterMoveLocked(prevState, prevSong, prevIndex)
	return err
}

// Seek moves the playback position of the current song.
func (e *Engine) Seek(pos time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.queue.Current(); !ok {
		return
	}
	e.device.Seek(pos)
	e.progress = e.device.Position()
	e.broadcastProgress(Progress{Position: e.progress, Duration: e.durationLocked()})
}

// OnSongDeleted evicts a deleted song from the live queue. Deleting the
// current song stops playback; deleting an earlier entry keeps the
// current song playing at its shifted index.
func (e *Engine) OnSongDeleted(songID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prevState := e.stateLocked()
	prevSong := e.currentSongLocked()

	wasCurrent := e.queue.Remove(songID)
	if wasCurrent {
		e.device.Stop()
		e.progress = 0
		e.duration = 0
		e.broadcastState(prevState, e.stateLocked())
		e.broadcastSong(prevSong, nil, e.queue.Index())
	}
	e.broadcastQueue()
}

// State returns the engine state: Idle when nothing is queued, otherwise
// the device state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Current returns the song at the queue cursor.
func (e *Engine) Current() (library.Song, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.currentSongLocked()
	if s == nil {
		return library.Song{}, false
	}
	return *s, true
}

// Transport returns a snapshot of the playback position.
func (e *Engine) Transport() Transport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Transport{
		State:    e.stateLocked(),
		Position: e.progress,
		Duration: e.durationLocked(),
	}
}

// QueueIDs returns the queued song ids in play order.
func (e *Engine) QueueIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.IDs()
}

// QueueIndex returns the queue cursor, -1 when nothing is queued.
func (e *Engine) QueueIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Index()
}

// Subscribe creates a new event subscription.
func (e *Engine) Subscribe() *Subscription {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	sub := newSubscription()
	e.subs = append(e.subs, sub)
	return sub
}

// Close shuts down the engine and all subscriptions. The device is left
// to its owner.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	close(e.done)
	e.mu.Unlock()

	e.subsMu.Lock()
	for _, sub := range e.subs {
		sub.close()
	}
	e.subs = nil
	e.subsMu.Unlock()
	return nil
}

func (e *Engine) setQueueAndStart(ids []string, idx int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prevState := e.stateLocked()
	prevSong := e.currentSongLocked()
	prevIndex := e.queue.Index()

	e.queue.Set(ids, idx)
	err := e.startLocked()
	e.emitAfterMoveLocked(prevState, prevSong, prevIndex)
	return err
}

// startLocked loads and plays the song at the queue cursor. On failure it
// logs, notifies subscribers and leaves the engine paused; there is no
// automatic retry or skip.
func (e *Engine) startLocked() error {
	id, ok := e.queue.Current()
	if !ok {
		return nil
	}
	song, ok := e.source.Song(id)
	if !ok {
		return e.startErrorLocked(fmt.Errorf("song %s not in library", id))
	}

	if err := e.device.Load(song.URL); err != nil {
		return e.startErrorLocked(err)
	}
	if err := e.device.Play(); err != nil {
		return e.startErrorLocked(err)
	}

	e.progress = 0
	e.duration = e.device.Duration()
	return nil
}

func (e *Engine) startErrorLocked(err error) error {
	id, _ := e.queue.Current()
	e.log.Error("playback start failed", "song", id, "err", err)
	e.broadcastError(ErrorEvent{Operation: "play", SongID: id, Err: err})
	return fmt.Errorf("start playback: %w", err)
}

func (e *Engine) emitAfterMoveLocked(prevState State, prevSong *library.Song, prevIndex int) {
	cur := e.currentSongLocked()
	if songID(prevSong) != songID(cur) || prevIndex != e.queue.Index() {
		e.broadcastSong(prevSong, cur, e.queue.Index())
	}
	if s := e.stateLocked(); s != prevState {
		e.broadcastState(prevState, s)
	}
	e.broadcastQueue()
}

func (e *Engine) stateLocked() State {
	if e.queue.Index() < 0 {
		return Idle
	}
	if e.device.State() == player.Playing {
		return Playing
	}
	return Paused
}

func (e *Engine) currentSongLocked() *library.Song {
	id, ok := e.queue.Current()
	if !ok {
		return nil
	}
	song, ok := e.source.Song(id)
	if !ok {
		return nil
	}
	return &song
}

func (e *Engine) durationLocked() time.Duration {
	if e.duration > 0 {
		return e.duration
	}
	if s := e.currentSongLocked(); s != nil {
		return s.Duration
	}
	return 0
}

func songID(s *library.Song) string {
	if s == nil {
		return ""
	}
	return s.ID
}

func (e *Engine) eventLoop() {
	for {
		select {
		case <-e.done:
			return
		case ev, ok := <-e.device.Events():
			if !ok {
				return
			}
			switch ev.Kind {
			case player.EventTimeUpdate:
				e.mu.Lock()
				e.progress = ev.Position
				if ev.Duration > 0 {
					e.duration = ev.Duration
				}
				p := Progress{Position: e.progress, Duration: e.durationLocked()}
				e.mu.Unlock()
				e.broadcastProgress(p)
			case player.EventFinished:
				if err := e.Next(); err != nil {
					e.log.Error("auto-advance failed", "err", err)
				}
			}
		}
	}
}

// Broadcast helpers. Sends are non-blocking, so holding e.mu while
// broadcasting cannot deadlock.

func (e *Engine) broadcast(fn func(*Subscription)) {
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, s := range e.subs {
		fn(s)
	}
}

func (e *Engine) broadcastState(prev, cur State) {
	e.broadcast(func(s *Subscription) { s.sendState(StateChange{Previous: prev, Current: cur}) })
}

func (e *Engine) broadcastSong(prev, cur *library.Song, idx int) {
	e.broadcast(func(s *Subscription) { s.sendSong(SongChange{Previous: prev, Current: cur, Index: idx}) })
}

func (e *Engine) broadcastProgress(p Progress) {
	e.broadcast(func(s *Subscription) { s.sendProgress(p) })
}

func (e *Engine) broadcastQueue() {
	ids := e.queue.IDs()
	idx := e.queue.Index()
	e.broadcast(func(s *Subscription) { s.sendQueue(QueueChange{IDs: ids, Index: idx}) })
}

func (e *Engine) broadcastError(ev ErrorEvent) {
	e.broadcast(func(s *Subscription) { s.sendError(ev) })
}
