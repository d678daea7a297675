// Package ui is the terminal front end: a library panel, a playlists
// panel and a transport bar over the playback engine.
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/sriramNV/audio-player/internal/config"
	"github.com/sriramNV/audio-player/internal/errmsg"
	"github.com/sriramNV/audio-player/internal/library"
	"github.com/sriramNV/audio-player/internal/playback"
)

type pane int

const (
	paneLibrary pane = iota
	panePlaylists
	panePlaylistSongs
)

const seekStep = 5 * time.Second

// Model is the root bubbletea model.
type Model struct {
	lib    *library.Library
	engine *playback.Engine
	sub    *playback.Subscription
	cfg    config.Config
	log    *log.Logger

	width  int
	height int

	focus          pane
	libraryCursor  int
	playlistCursor int
	songCursor     int

	naming    bool
	nameInput textinput.Model

	current   *library.Song
	transport playback.Transport

	status    string
	statusErr bool
	importing bool
}

// New creates the root model.
func New(lib *library.Library, engine *playback.Engine, cfg config.Config, logger *log.Logger) Model {
	if logger == nil {
		logger = log.Default()
	}

	input := textinput.New()
	input.Placeholder = "playlist name"
	input.CharLimit = 64

	return Model{
		lib:       lib,
		engine:    engine,
		sub:       engine.Subscribe(),
		cfg:       cfg,
		log:       logger,
		nameInput: input,
		status:    "ready",
	}
}

// Init starts the engine event pump and, when a music folder is
// configured, an initial import scan.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForEngineEvent(m.sub)}
	if m.cfg.MusicFolder != "" {
		m.log.Info("scanning music folder", "dir", m.cfg.MusicFolder)
		cmds = append(cmds, importFolder(m.lib, m.cfg.MusicFolder))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.naming {
			return m.updateNaming(msg)
		}
		return m.updateKeys(msg)

	case engineEventMsg:
		m.applyEngineEvent(msg.event)
		return m, waitForEngineEvent(m.sub)

	case engineClosedMsg:
		return m, tea.Quit

	case importResultMsg:
		m.importing = false
		if msg.err != nil {
			m.setError(errmsg.Format(errmsg.OpLibraryImport, msg.err))
			return m, nil
		}
		m.setStatus(fmt.Sprintf("imported %d songs (%s), skipped %d",
			msg.report.Imported, humanize.Bytes(uint64(msg.report.Bytes)), msg.report.Skipped))
		m.clampCursors()
		return m, nil
	}
	return m, nil
}

func (m Model) updateNaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := m.nameInput.Value()
		m.naming = false
		m.nameInput.Reset()
		if name == "" {
			return m, nil
		}
		if _, err := m.lib.CreatePlaylist(name); err != nil {
			m.setError(errmsg.Format(errmsg.OpPlaylistCreate, err))
			return m, nil
		}
		m.setStatus("created playlist " + name)
		return m, nil
	case "esc":
		m.naming = false
		m.nameInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.focus = (m.focus + 1) % 3
		m.clampCursors()

	case "up", "k":
		m.moveCursor(-1)

	case "down", "j":
		m.moveCursor(1)

	case "enter":
		return m.playSelection()

	case " ":
		if err := m.engine.TogglePlayPause(); err != nil {
			m.setError(errmsg.Format(errmsg.OpPlaybackStart, err))
		}

	case "n":
		if err := m.engine.Next(); err != nil {
			m.setError(errmsg.Format(errmsg.OpPlaybackStart, err))
		}

	case "p":
		if err := m.engine.Previous(); err != nil {
			m.setError(errmsg.Format(errmsg.OpPlaybackStart, err))
		}

	case "s":
		if err := m.playShuffledSelection(); err != nil {
			m.setError(errmsg.Format(errmsg.OpPlaybackStart, err))
		}

	case "left", "h":
		m.engine.Seek(m.transport.Position - seekStep)

	case "right", "l":
		m.engine.Seek(m.transport.Position + seekStep)

	case "i":
		if m.cfg.MusicFolder == "" {
			m.setError("no music folder configured")
			return m, nil
		}
		if m.importing {
			return m, nil
		}
		m.importing = true
		m.setStatus("importing from " + m.cfg.MusicFolder)
		return m, importFolder(m.lib, m.cfg.MusicFolder)

	case "c":
		m.naming = true
		m.nameInput.Focus()
		return m, textinput.Blink

	case "a":
		m.addSelectionToPlaylist()

	case "d":
		m.deleteSelection()
	}
	return m, nil
}

func (m *Model) playSelection() (tea.Model, tea.Cmd) {
	var err error
	switch m.focus {
	case paneLibrary:
		if song, ok := m.selectedSong(); ok {
			err = m.engine.PlaySong(song.ID, m.lib.SongIDs())
		}
	case panePlaylists:
		if p, ok := m.selectedPlaylist(); ok {
			err = m.engine.PlayPlaylist(p.ID)
		}
	case panePlaylistSongs:
		p, ok := m.selectedPlaylist()
		if !ok {
			break
		}
		if m.songCursor < len(p.SongIDs) {
			err = m.engine.PlaySong(p.SongIDs[m.songCursor], p.SongIDs)
		}
	}
	if err != nil {
		m.setError(errmsg.Format(errmsg.OpPlaybackStart, err))
	}
	return *m, nil
}

// playShuffledSelection shuffles the selected playlist when a playlist
// pane has focus, the whole library otherwise.
func (m *Model) playShuffledSelection() error {
	switch m.focus {
	case panePlaylists, panePlaylistSongs:
		if p, ok := m.selectedPlaylist(); ok {
			return m.engine.PlayShuffledPlaylist(p.ID)
		}
		return nil
	default:
		return m.engine.PlayShuffled()
	}
}

func (m *Model) addSelectionToPlaylist() {
	if m.focus != paneLibrary {
		return
	}
	song, ok := m.selectedSong()
	if !ok {
		return
	}
	p, ok := m.selectedPlaylist()
	if !ok {
		m.setError("no playlist selected")
		return
	}
	if err := m.lib.AddSongToPlaylist(song.ID, p.ID); err != nil {
		m.setError(errmsg.Format(errmsg.OpPlaylistAdd, err))
		return
	}
	m.setStatus(fmt.Sprintf("added %s to %s", song.Name, p.Name))
}

func (m *Model) deleteSelection() {
	switch m.focus {
	case paneLibrary:
		song, ok := m.selectedSong()
		if !ok {
			return
		}
		if err := m.lib.DeleteSong(song.ID); err != nil {
			m.setError(errmsg.Format(errmsg.OpSongDelete, err))
			return
		}
		m.setStatus("deleted " + song.Name)

	case panePlaylists:
		p, ok := m.selectedPlaylist()
		if !ok {
			return
		}
		if err := m.lib.DeletePlaylist(p.ID); err != nil {
			m.setError(errmsg.Format(errmsg.OpPlaylistDelete, err))
			return
		}
		m.setStatus("deleted playlist " + p.Name)

	case panePlaylistSongs:
		p, ok := m.selectedPlaylist()
		if !ok || m.songCursor >= len(p.SongIDs) {
			return
		}
		if err := m.lib.RemoveSongFromPlaylist(p.SongIDs[m.songCursor], p.ID); err != nil {
			m.setError(errmsg.Format(errmsg.OpPlaylistRemove, err))
			return
		}
		m.setStatus("removed song from " + p.Name)
	}
	m.clampCursors()
}

func (m *Model) applyEngineEvent(event any) {
	switch e := event.(type) {
	case playback.StateChange:
		m.transport.State = e.Current
	case playback.SongChange:
		m.current = e.Current
	case playback.Progress:
		m.transport.Position = e.Position
		m.transport.Duration = e.Duration
	case playback.QueueChange:
		// Rendering pulls queue state on demand; nothing cached here.
	case playback.ErrorEvent:
		m.setError(errmsg.Format(errmsg.OpPlaybackStart, e.Err))
	}
	// State and duration can change without their own events.
	m.transport = m.engine.Transport()
}

func (m *Model) moveCursor(delta int) {
	switch m.focus {
	case paneLibrary:
		m.libraryCursor = clamp(m.libraryCursor+delta, len(m.lib.Songs()))
	case panePlaylists:
		m.playlistCursor = clamp(m.playlistCursor+delta, len(m.lib.Playlists()))
		m.songCursor = 0
	case panePlaylistSongs:
		if p, ok := m.selectedPlaylist(); ok {
			m.songCursor = clamp(m.songCursor+delta, len(p.SongIDs))
		}
	}
}

func (m *Model) clampCursors() {
	m.libraryCursor = clamp(m.libraryCursor, len(m.lib.Songs()))
	m.playlistCursor = clamp(m.playlistCursor, len(m.lib.Playlists()))
	if p, ok := m.selectedPlaylist(); ok {
		m.songCursor = clamp(m.songCursor, len(p.SongIDs))
	} else {
		m.songCursor = 0
	}
}

func (m *Model) selectedSong() (library.Song, bool) {
	songs := m.lib.Songs()
	if m.libraryCursor >= len(songs) {
		return library.Song{}, false
	}
	return songs[m.libraryCursor], true
}

func (m *Model) selectedPlaylist() (library.Playlist, bool) {
	playlists := m.lib.Playlists()
	if m.playlistCursor >= len(playlists) {
		return library.Playlist{}, false
	}
	return playlists[m.playlistCursor], true
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
	m.log.Error(s)
}

func clamp(v, n int) int {
	if n == 0 {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
