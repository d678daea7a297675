package ui

import (
	"io/fs"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sriramNV/audio-player/internal/library"
	"github.com/sriramNV/audio-player/internal/playback"
	"github.com/sriramNV/audio-player/internal/player"
)

// waitForEngineEvent blocks on the playback subscription and delivers the
// next event. Update re-issues it after each message.
func waitForEngineEvent(sub *playback.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return engineEventMsg{event: e}
		case e := <-sub.SongChanged:
			return engineEventMsg{event: e}
		case e := <-sub.Progressed:
			return engineEventMsg{event: e}
		case e := <-sub.QueueChanged:
			return engineEventMsg{event: e}
		case e := <-sub.Error:
			return engineEventMsg{event: e}
		case <-sub.Done:
			return engineClosedMsg{}
		}
	}
}

// importFolder walks dir for playable files and imports them.
func importFolder(lib *library.Library, dir string) tea.Cmd {
	return func() tea.Msg {
		var files []library.File
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !player.IsMusicFile(path) {
				return nil
			}
			f, err := library.FileFromPath(path)
			if err != nil {
				return err
			}
			files = append(files, f)
			return nil
		})
		if err != nil {
			return importResultMsg{err: err}
		}

		report, err := lib.ImportFiles(files)
		return importResultMsg{report: report, err: err}
	}
}
