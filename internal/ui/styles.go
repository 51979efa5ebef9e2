package ui

import (
	"github.com/charmbracelet/lipgloss"

	"taskgrid/internal/storage"
)

type styles struct {
	title     lipgloss.Style
	card      lipgloss.Style
	cursor    lipgloss.Style
	done      lipgloss.Style
	removing  lipgloss.Style
	overdue   lipgloss.Style
	category  lipgloss.Style
	badgeDone lipgloss.Style
	badgeOpen lipgloss.Style
	muted     lipgloss.Style
	status    lipgloss.Style
	errStatus lipgloss.Style
	empty     lipgloss.Style
	form      lipgloss.Style
}

type palette struct {
	fg, muted, accent, ok, warn, danger, border lipgloss.Color
}

var palettes = map[storage.Theme]palette{
	storage.ThemeLight: {
		fg: "#212529", muted: "#6c757d", accent: "#0d6efd",
		ok: "#198754", warn: "#b58105", danger: "#dc3545", border: "#ced4da",
	},
	storage.ThemeDark: {
		fg: "#e9ecef", muted: "#adb5bd", accent: "#6ea8fe",
		ok: "#75b798", warn: "#ffda6a", danger: "#ea868f", border: "#495057",
	},
}

func newStyles(theme storage.Theme) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[storage.ThemeLight]
	}
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		card:      lipgloss.NewStyle().Foreground(p.fg),
		cursor:    lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		done:      lipgloss.NewStyle().Strikethrough(true).Foreground(p.muted),
		removing:  lipgloss.NewStyle().Faint(true).Foreground(p.danger),
		overdue:   lipgloss.NewStyle().Foreground(p.danger),
		category:  lipgloss.NewStyle().Foreground(p.accent),
		badgeDone: lipgloss.NewStyle().Foreground(p.ok),
		badgeOpen: lipgloss.NewStyle().Foreground(p.warn),
		muted:     lipgloss.NewStyle().Foreground(p.muted),
		status:    lipgloss.NewStyle().Foreground(p.fg),
		errStatus: lipgloss.NewStyle().Foreground(p.danger),
		empty:     lipgloss.NewStyle().Foreground(p.muted).Italic(true),
		form:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(0, 1),
	}
}
