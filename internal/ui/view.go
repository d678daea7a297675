package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const helpLine = "enter play · space pause · n/p next/prev · s shuffle · i import · c new playlist · a add · d delete · q quit"

// View renders the full screen: two panels side by side, the transport
// bar and a status line.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	panelHeight := max(m.height-6, 4)
	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth

	left := m.renderLibrary(leftWidth-4, panelHeight)
	right := m.renderPlaylists(rightWidth-4, panelHeight)

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		m.panelFrame(paneLibrary).Width(leftWidth-2).Height(panelHeight).Render(left),
		m.panelFrame(panePlaylists).Width(rightWidth-2).Height(panelHeight).Render(right),
	)

	var b strings.Builder
	b.WriteString(panels)
	b.WriteString("\n")
	b.WriteString(renderPlayerBar(m.current, m.transport, m.width))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) panelFrame(p pane) lipgloss.Style {
	focused := m.focus == p
	if p == panePlaylists && m.focus == panePlaylistSongs {
		focused = true
	}
	if focused {
		return focusedPanelStyle
	}
	return panelStyle
}

func (m Model) renderLibrary(width, height int) string {
	songs := m.lib.Songs()

	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(fmt.Sprintf("Library (%d)", len(songs))))
	b.WriteString("\n")

	if len(songs) == 0 {
		b.WriteString(dimStyle.Render("no songs — press i to import"))
		return b.String()
	}

	visible := height - 2
	start := scrollOffset(m.libraryCursor, len(songs), visible)
	for i := start; i < len(songs) && i < start+visible; i++ {
		s := songs[i]
		line := row(truncate(s.Name, width-8), formatDuration(s.Duration), width)
		if s.Artist != "" {
			line = row(truncate(s.Name+"  "+s.Artist, width-8), formatDuration(s.Duration), width)
		}
		if i == m.libraryCursor && m.focus == paneLibrary {
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderPlaylists(width, height int) string {
	playlists := m.lib.Playlists()

	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(fmt.Sprintf("Playlists (%d)", len(playlists))))
	b.WriteString("\n")

	if m.naming {
		b.WriteString(m.nameInput.View())
		b.WriteString("\n")
	}

	if len(playlists) == 0 {
		b.WriteString(dimStyle.Render("no playlists — press c to create one"))
		return b.String()
	}

	for i, p := range playlists {
		line := truncateAndPad(fmt.Sprintf("%s (%d)", p.Name, len(p.SongIDs)), width)
		if i == m.playlistCursor && m.focus == panePlaylists {
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	// Songs of the selected playlist, indented below the list.
	if p, ok := m.selectedPlaylist(); ok && len(p.SongIDs) > 0 {
		b.WriteString(dimStyle.Render(strings.Repeat("─", max(width, 1))))
		b.WriteString("\n")
		for i, id := range p.SongIDs {
			song, ok := m.lib.Song(id)
			if !ok {
				continue
			}
			line := truncateAndPad("  "+song.Name, width)
			if i == m.songCursor && m.focus == panePlaylistSongs {
				line = selectedRowStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderStatus() string {
	status := m.status
	if m.importing {
		status = "importing..."
	}
	style := dimStyle
	if m.statusErr {
		style = errorStyle
	}
	return row(style.Render(truncate(status, m.width/2)), dimStyle.Render(truncate(helpLine, m.width/2)), m.width)
}

// scrollOffset keeps the cursor visible inside a window of the list.
func scrollOffset(cursor, total, visible int) int {
	if visible <= 0 || total <= visible {
		return 0
	}
	offset := cursor - visible/2
	offset = max(offset, 0)
	return min(offset, total-visible)
}
