package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sriramNV/audio-player/internal/library"
	"github.com/sriramNV/audio-player/internal/playback"
)

const (
	filledBlock = "▓"
	emptyBlock  = "░"
)

// renderPlayerBar renders the bottom transport bar:
//
//	Song Title — Artist
//	▶  1:23  ▓▓▓▓▓░░░░░  4:56
func renderPlayerBar(song *library.Song, tr playback.Transport, width int) string {
	if song == nil {
		return dimStyle.Render(pad("nothing playing", width))
	}

	title := song.Name
	if song.Artist != "" {
		title += " — " + song.Artist
	}
	info := truncateAndPad(title, width)

	return info + "\n" + renderProgress(tr, width)
}

func renderProgress(tr playback.Transport, width int) string {
	status := "▶"
	if tr.State != playback.Playing {
		status = "⏸"
	}

	posStr := formatDuration(tr.Position)
	durStr := formatDuration(tr.Duration)

	fixedWidth := lipgloss.Width(status) + 2 + lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth
	if barWidth < 3 {
		return status + "  " + posStr + " / " + durStr
	}

	var ratio float64
	if tr.Duration > 0 {
		ratio = float64(tr.Position) / float64(tr.Duration)
	}
	filled := min(int(float64(barWidth)*ratio), barWidth)

	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, barWidth-filled)
	return status + "  " + posStr + "  " + bar + "  " + durStr
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
