package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/sriramNV/audio-player/internal/config"
	"github.com/sriramNV/audio-player/internal/errmsg"
	"github.com/sriramNV/audio-player/internal/library"
	"github.com/sriramNV/audio-player/internal/mpris"
	"github.com/sriramNV/audio-player/internal/playback"
	"github.com/sriramNV/audio-player/internal/player"
	"github.com/sriramNV/audio-player/internal/store"
	"github.com/sriramNV/audio-player/internal/ui"
)

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpInitialize, err))
	}

	logger := log.New(os.Stderr)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("%s", errmsg.Format(errmsg.OpInitialize, err))
		}
		defer f.Close()
		logger = log.New(f)
	}

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpInitialize, err))
	}
	defer st.Close()

	lib := library.New(st, player.ProbeDuration, logger)
	if err := lib.Load(); err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpLibraryLoad, err))
	}

	dev := player.New()
	defer dev.Close()

	engine := playback.New(dev, lib, logger)
	defer engine.Close()

	// Deleting the current song must stop playback and fix the queue.
	lib.SetDeleteHook(engine.OnSongDeleted)

	if adapter, err := mpris.New(engine); err == nil {
		defer adapter.Close()
	} else {
		logger.Warn("mpris unavailable", "err", err)
	}

	p := tea.NewProgram(ui.New(lib, engine, *cfg, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
