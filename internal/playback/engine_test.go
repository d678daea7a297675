package playback

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/sriramNV/audio-player/internal/library"
	"github.com/sriramNV/audio-player/internal/player"
)

type fakeSource struct {
	order     []string
	songs     map[string]library.Song
	playlists map[string]library.Playlist
}

func newFakeSource(ids ...string) *fakeSource {
	f := &fakeSource{
		order:     ids,
		songs:     make(map[string]library.Song),
		playlists: make(map[string]library.Playlist),
	}
	for _, id := range ids {
		f.songs[id] = library.Song{
			ID:       id,
			Name:     "Song " + id,
			Duration: 3 * time.Minute,
			URL:      "/media/" + id + ".mp3",
		}
	}
	return f
}

func (f *fakeSource) Song(id string) (library.Song, bool) {
	s, ok := f.songs[id]
	return s, ok
}

func (f *fakeSource) SongIDs() []string { return slices.Clone(f.order) }

func (f *fakeSource) Playlist(id string) (library.Playlist, bool) {
	p, ok := f.playlists[id]
	return p, ok
}

func newTestEngine(t *testing.T, ids ...string) (*Engine, *player.Mock, *fakeSource) {
	t.Helper()
	m := player.NewMock()
	src := newFakeSource(ids...)
	e := New(m, src, nil)
	t.Cleanup(func() { e.Close() })
	return e, m, src
}

func waitSong(t *testing.T, sub *Subscription) SongChange {
	t.Helper()
	select {
	case e := <-sub.SongChanged:
		return e
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for song change")
		return SongChange{}
	}
}

func TestPlaySong(t *testing.T) {
	e, m, _ := newTestEngine(t, "a", "b", "c")

	if err := e.PlaySong("b", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("PlaySong: %v", err)
	}

	if e.State() != Playing {
		t.Errorf("state = %v, want Playing", e.State())
	}
	cur, ok := e.Current()
	if !ok || cur.ID != "b" {
		t.Errorf("current = %+v, want b", cur)
	}
	if m.Loaded() != "/media/b.mp3" {
		t.Errorf("device loaded %q", m.Loaded())
	}
	if got := e.QueueIDs(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("queue = %v", got)
	}
	if e.QueueIndex() != 1 {
		t.Errorf("index = %d, want 1", e.QueueIndex())
	}
}

func TestPlaySong_EmptyScopeDefaultsToLibrary(t *testing.T) {
	e, _, _ := newTestEngine(t, "a", "b", "c")

	if err := e.PlaySong("c", nil); err != nil {
		t.Fatalf("PlaySong: %v", err)
	}
	if got := e.QueueIDs(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("queue = %v, want library order", got)
	}
	if e.QueueIndex() != 2 {
		t.Errorf("index = %d, want 2", e.QueueIndex())
	}
}

func TestPlaySong_NotInScopeIsNoop(t *testing.T) {
	e, m, _ := newTestEngine(t, "a", "b")

	if err := e.PlaySong("a", []string{"b"}); err != nil {
		t.Fatal(err)
	}
	if e.State() != Idle || m.PlayCalls() != 0 {
		t.Errorf("state = %v playCalls = %d, want Idle and no device activity", e.State(), m.PlayCalls())
	}
}

func TestPlayAll(t *testing.T) {
	e, _, _ := newTestEngine(t, "a", "b", "c")

	if err := e.PlayAll(); err != nil {
		t.Fatalf("PlayAll: %v", err)
	}
	if got := e.QueueIDs(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("queue = %v, want library order", got)
	}
	cur, _ := e.Current()
	if cur.ID != "a" || e.State() != Playing {
		t.Errorf("current = %s state = %v, want a/Playing", cur.ID, e.State())
	}
}

func TestPlayAll_EmptyLibraryIsNoop(t *testing.T) {
	e, m, _ := newTestEngine(t)

	if err := e.PlayAll(); err != nil {
		t.Fatal(err)
	}
	if e.State() != Idle || m.PlayCalls() != 0 {
		t.Errorf("empty library PlayAll should be inert, state = %v", e.State())
	}
}

func TestPlayPlaylist(t *testing.T) {
	e, _, src := newTestEngine(t, "a", "b", "c")
	src.playlists["p1"] = library.Playlist{ID: "p1", Name: "mix", SongIDs: []string{"c", "a"}}

	if err := e.PlayPlaylist("p1"); err != nil {
		t.Fatalf("PlayPlaylist: %v", err)
	}
	cur, _ := e.Current()
	if cur.ID != "c" {
		t.Errorf("current = %s, want c (playlist head)", cur.ID)
	}
	if got := e.QueueIDs(); !slices.Equal(got, []string{"c", "a"}) {
		t.Errorf("queue = %v, want playlist order", got)
	}
}

func TestPlayPlaylist_UnknownOrEmptyIsNoop(t *testing.T) {
	e, m, src := newTestEngine(t, "a")
	src.playlists["empty"] = library.Playlist{ID: "empty", Name: "empty"}

	if err := e.PlayPlaylist("missing"); err != nil {
		t.Errorf("unknown playlist: %v", err)
	}
	if err := e.PlayPlaylist("empty"); err != nil {
		t.Errorf("empty playlist: %v", err)
	}
	if e.State() != Idle || m.PlayCalls() != 0 {
		t.Errorf("state = %v, playCalls = %d; want Idle and no device activity", e.State(), m.PlayCalls())
	}
}

func TestPlayShuffled_IsPermutation(t *testing.T) {
	e, _, _ := newTestEngine(t, "a", "b", "c", "d", "e")

	if err := e.PlayShuffled(); err != nil {
		t.Fatalf("PlayShuffled: %v", err)
	}
	got := e.QueueIDs()
	want := []string{"a", "b", "c", "d", "e"}
	sorted := slices.Clone(got)
	slices.Sort(sorted)
	if !slices.Equal(sorted, want) {
		t.Errorf("queue = %v, not a permutation of the library", got)
	}
	if e.QueueIndex() != 0 || e.State() != Playing {
		t.Errorf("index = %d state = %v, want 0/Playing", e.QueueIndex(), e.State())
	}
}

func TestPlayShuffledPlaylist_IsPermutation(t *testing.T) {
	e, _, src := newTestEngine(t, "a", "b", "c", "d", "e")
	src.playlists["p1"] = library.Playlist{ID: "p1", Name: "mix", SongIDs: []string{"e", "c", "a", "d"}}

	if err := e.PlayShuffledPlaylist("p1"); err != nil {
		t.Fatalf("PlayShuffledPlaylist: %v", err)
	}
	got := e.QueueIDs()
	sorted := slices.Clone(got)
	slices.Sort(sorted)
	if want := []string{"a", "c", "d", "e"}; !slices.Equal(sorted, want) {
		t.Errorf("queue = %v, not a permutation of the playlist", got)
	}
	if e.QueueIndex() != 0 || e.State() != Playing {
		t.Errorf("index = %d state = %v, want 0/Playing", e.QueueIndex(), e.State())
	}
}

func TestPlayShuffledPlaylist_UnknownOrEmptyIsNoop(t *testing.T) {
	e, m, src := newTestEngine(t, "a")
	src.playlists["empty"] = library.Playlist{ID: "empty", Name: "empty"}

	if err := e.PlayShuffledPlaylist("missing"); err != nil {
		t.Errorf("unknown playlist: %v", err)
	}
	if err := e.PlayShuffledPlaylist("empty"); err != nil {
		t.Errorf("empty playlist: %v", err)
	}
	if e.State() != Idle || m.PlayCalls() != 0 {
		t.Errorf("state = %v, playCalls = %d; want Idle and no device activity", e.State(), m.PlayCalls())
	}
}

func TestTogglePlayPause(t *testing.T) {
	e, m, _ := newTestEngine(t, "a")

	// Nothing queued: no-op.
	if err := e.TogglePlayPause(); err != nil {
		t.Fatal(err)
	}
	if m.PlayCalls() != 0 {
		t.Error("toggle on empty queue should not touch the device")
	}

	if err := e.PlaySong("a", nil); err != nil {
		t.Fatal(err)
	}
	if err := e.TogglePlayPause(); err != nil {
		t.Fatal(err)
	}
	if e.State() != Paused {
		t.Errorf("state = %v, want Paused", e.State())
	}
	if err := e.TogglePlayPause(); err != nil {
		t.Fatal(err)
	}
	if e.State() != Playing {
		t.Errorf("state = %v, want Playing", e.State())
	}
}

func TestNextPrevious_Wraparound(t *testing.T) {
	e, _, _ := newTestEngine(t, "a", "b", "c")

	if err := e.PlaySong("a", nil); err != nil {
		t.Fatal(err)
	}

	// Three nexts walk the whole queue and land back on a.
	for _, want := range []string{"b", "c", "a"} {
		if err := e.Next(); err != nil {
			t.Fatal(err)
		}
		cur, _ := e.Current()
		if cur.ID != want {
			t.Errorf("current = %s, want %s", cur.ID, want)
		}
	}

	// Previous from the head wraps to the tail.
	if err := e.Previous(); err != nil {
		t.Fatal(err)
	}
	cur, _ := e.Current()
	if cur.ID != "c" {
		t.Errorf("current = %s, want c", cur.ID)
	}

	// Navigation always resumes playback, even when paused.
	if err := e.TogglePlayPause(); err != nil {
		t.Fatal(err)
	}
	if err := e.Next(); err != nil {
		t.Fatal(err)
	}
	if e.State() != Playing {
		t.Errorf("state after Next = %v, want Playing", e.State())
	}
}

func TestNextOnEmptyQueueIsNoop(t *testing.T) {
	e, m, _ := newTestEngine(t, "a")

	if err := e.Next(); err != nil {
		t.Fatal(err)
	}
	if err := e.Previous(); err != nil {
		t.Fatal(err)
	}
	if m.PlayCalls() != 0 || e.State() != Idle {
		t.Errorf("empty queue navigation should be inert, state = %v", e.State())
	}
}

func TestSeek(t *testing.T) {
	e, m, _ := newTestEngine(t, "a")

	e.Seek(10 * time.Second) // nothing queued
	if len(m.SeekCalls()) != 0 {
		t.Error("seek on empty queue should not touch the device")
	}

	if err := e.PlaySong("a", nil); err != nil {
		t.Fatal(err)
	}
	e.Seek(10 * time.Second)
	if got := m.SeekCalls(); len(got) != 1 || got[0] != 10*time.Second {
		t.Errorf("seek calls = %v", got)
	}
	if e.Transport().Position != 10*time.Second {
		t.Errorf("position = %v, want 10s", e.Transport().Position)
	}
}

func TestSeek_AfterCurrentDeletedIsNoop(t *testing.T) {
	e, m, _ := newTestEngine(t, "a", "b")

	if err := e.PlaySong("a", nil); err != nil {
		t.Fatal(err)
	}
	e.OnSongDeleted("a")

	// The queue still holds b, but nothing is selected.
	before := len(m.SeekCalls())
	e.Seek(5 * time.Second)
	if got := len(m.SeekCalls()); got != before {
		t.Errorf("seek calls = %d, want %d; seek with no current song should not reach the device", got, before)
	}
}

func TestAutoAdvanceOnFinished(t *testing.T) {
	e, m, _ := newTestEngine(t, "a", "b")

	if err := e.PlaySong("a", nil); err != nil {
		t.Fatal(err)
	}
	sub := e.Subscribe()

	m.SimulateFinished()

	ev := waitSong(t, sub)
	if ev.Current == nil || ev.Current.ID != "b" {
		t.Errorf("advanced to %+v, want b", ev.Current)
	}
	if e.State() != Playing {
		t.Errorf("state = %v, want Playing", e.State())
	}
}

func TestAutoAdvance_LastSongWrapsToFirst(t *testing.T) {
	e, m, _ := newTestEngine(t, "a", "b")

	if err := e.PlaySong("b", nil); err != nil {
		t.Fatal(err)
	}
	sub := e.Subscribe()

	m.SimulateFinished()

	ev := waitSong(t, sub)
	if ev.Current == nil || ev.Current.ID != "a" {
		t.Errorf("advanced to %+v, want wraparound to a", ev.Current)
	}
}

func TestOnSongDeleted_CurrentStopsPlayback(t *testing.T) {
	e, m, _ := newTestEngine(t, "a", "b")

	if err := e.PlaySong("a", nil); err != nil {
		t.Fatal(err)
	}
	e.OnSongDeleted("a")

	if e.State() != Idle {
		t.Errorf("state = %v, want Idle", e.State())
	}
	if _, ok := e.Current(); ok {
		t.Error("current should be unset")
	}
	if m.State() != player.Stopped {
		t.Errorf("device state = %v, want Stopped", m.State())
	}
	if got := e.QueueIDs(); !slices.Equal(got, []string{"b"}) {
		t.Errorf("queue = %v, want [b]", got)
	}
	if e.QueueIndex() != -1 {
		t.Errorf("index = %d, want -1", e.QueueIndex())
	}
	if tr := e.Transport(); tr.Position != 0 || tr.Duration != 0 {
		t.Errorf("transport = %+v, want zeroed", tr)
	}
}

func TestOnSongDeleted_EarlierEntryShiftsIndex(t *testing.T) {
	e, _, _ := newTestEngine(t, "a", "b", "c")

	if err := e.PlaySong("b", nil); err != nil {
		t.Fatal(err)
	}
	e.OnSongDeleted("a")

	cur, ok := e.Current()
	if !ok || cur.ID != "b" {
		t.Errorf("current = %+v, want b still selected", cur)
	}
	if e.QueueIndex() != 0 {
		t.Errorf("index = %d, want 0", e.QueueIndex())
	}
	if e.State() != Playing {
		t.Errorf("state = %v, want Playing untouched", e.State())
	}
}

func TestOnSongDeleted_NotQueuedIsHarmless(t *testing.T) {
	e, _, _ := newTestEngine(t, "a", "b")

	if err := e.PlaySong("a", []string{"a"}); err != nil {
		t.Fatal(err)
	}
	e.OnSongDeleted("b")

	if e.State() != Playing {
		t.Errorf("state = %v, want Playing", e.State())
	}
}

func TestStartFailure_NotifiesAndStaysPut(t *testing.T) {
	e, m, _ := newTestEngine(t, "a")
	sub := e.Subscribe()

	boom := errors.New("decode failed")
	m.SetLoadError(boom)

	err := e.PlaySong("a", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("PlaySong error = %v, want decode failure", err)
	}

	select {
	case ev := <-sub.Error:
		if ev.SongID != "a" || !errors.Is(ev.Err, boom) {
			t.Errorf("error event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for error event")
	}

	// The song stays selected; no retry, no skip.
	if e.QueueIndex() != 0 {
		t.Errorf("index = %d, want 0", e.QueueIndex())
	}
	if e.State() != Paused {
		t.Errorf("state = %v, want Paused", e.State())
	}
}

func TestTransport_DurationFallsBackToMetadata(t *testing.T) {
	e, m, _ := newTestEngine(t, "a")

	if err := e.PlaySong("a", nil); err != nil {
		t.Fatal(err)
	}

	// The mock reports no duration, so the stored metadata wins.
	tr := e.Transport()
	if tr.Duration != 3*time.Minute {
		t.Errorf("Duration = %v, want metadata fallback 3m", tr.Duration)
	}

	sub := e.Subscribe()
	m.SimulateTimeUpdate(5*time.Second, 60*time.Second)
	select {
	case p := <-sub.Progressed:
		if p.Position != 5*time.Second || p.Duration != 60*time.Second {
			t.Errorf("progress = %+v", p)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for progress")
	}

	tr = e.Transport()
	if tr.Position != 5*time.Second || tr.Duration != 60*time.Second {
		t.Errorf("transport = %+v", tr)
	}
}
