// path: blockbrain/internal/render/render.go
// Package render draws boards for terminals using lipgloss.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"blockbrain/internal/brain"
	"blockbrain/internal/piece"
)

type Theme struct {
	Name        string
	BorderColor lipgloss.Color
	TextColor   lipgloss.Color
	AccentColor lipgloss.Color
	FilledColor lipgloss.Color
	ActiveColor lipgloss.Color
}

var Themes = []Theme{
	{
		Name:        "classic",
		BorderColor: lipgloss.Color("15"),
		TextColor:   lipgloss.Color("250"),
		AccentColor: lipgloss.Color("226"),
		FilledColor: lipgloss.Color("51"),
		ActiveColor: lipgloss.Color("208"),
	},
	{
		Name:        "amber",
		BorderColor: lipgloss.Color("214"),
		TextColor:   lipgloss.Color("223"),
		AccentColor: lipgloss.Color("208"),
		FilledColor: lipgloss.Color("220"),
		ActiveColor: lipgloss.Color("202"),
	},
	{
		Name:        "mono",
		BorderColor: lipgloss.Color("250"),
		TextColor:   lipgloss.Color("245"),
		AccentColor: lipgloss.Color("82"),
		FilledColor: lipgloss.Color("248"),
		ActiveColor: lipgloss.Color("254"),
	},
}

// ThemeByName returns the named theme, or the first one and false.
func ThemeByName(name string) (Theme, bool) {
	for _, t := range Themes {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Themes[0], false
}

// Cell glyphs. Each cell is two columns wide at scale 1.
const (
	filledGlyph = "[]"
	activeGlyph = "<>"
	ghostGlyph  = "::"
	emptyGlyph  = "  "
)

// Options controls Render. A zero value draws the bare board in the first
// theme.
type Options struct {
	Theme Theme
	Scale int
	// Ghost marks where a recommended move would land.
	Ghost *brain.Move
	// Active is a falling piece drawn over the board.
	Active *brain.Move
	Title  string
	// Info lines are shown to the right of the board.
	Info []string
}

func Render(b brain.Board, opts Options) string {
	theme := opts.Theme
	if theme.Name == "" {
		theme = Themes[0]
	}
	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}

	ghost := overlay(opts.Ghost)
	active := overlay(opts.Active)

	border := lipgloss.NewStyle().Foreground(theme.BorderColor)
	filled := lipgloss.NewStyle().Foreground(theme.FilledColor)
	moving := lipgloss.NewStyle().Foreground(theme.ActiveColor).Bold(true)
	faint := lipgloss.NewStyle().Foreground(theme.ActiveColor).Faint(true)

	edge := border.Render("+" + strings.Repeat("-", b.Width()*len(emptyGlyph)*scale) + "+")
	var sb strings.Builder
	sb.WriteString(edge)
	sb.WriteString("\n")
	for y := b.Height() - 1; y >= 0; y-- {
		for repeat := 0; repeat < scale; repeat++ {
			sb.WriteString(border.Render("|"))
			for x := 0; x < b.Width(); x++ {
				p := piece.Point{X: x, Y: y}
				switch {
				case active[p]:
					sb.WriteString(moving.Render(strings.Repeat(activeGlyph, scale)))
				case b.Occupied(x, y):
					sb.WriteString(filled.Render(strings.Repeat(filledGlyph, scale)))
				case ghost[p]:
					sb.WriteString(faint.Render(strings.Repeat(ghostGlyph, scale)))
				default:
					sb.WriteString(strings.Repeat(emptyGlyph, scale))
				}
			}
			sb.WriteString(border.Render("|"))
			sb.WriteString("\n")
		}
	}
	sb.WriteString(edge)
	board := sb.String()

	if opts.Title != "" {
		board = lipgloss.JoinVertical(lipgloss.Left, titleStyle(theme).Render(opts.Title), board)
	}
	if len(opts.Info) == 0 {
		return board
	}
	info := lipgloss.NewStyle().PaddingLeft(2).Foreground(theme.TextColor).Render(strings.Join(opts.Info, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, board, info)
}

func overlay(m *brain.Move) map[piece.Point]bool {
	if m == nil || m.Piece.IsZero() {
		return nil
	}
	cells := make(map[piece.Point]bool, len(m.Piece.Cells()))
	for _, c := range m.Piece.Cells() {
		cells[piece.Point{X: m.X + c.X, Y: m.Y + c.Y}] = true
	}
	return cells
}

func titleStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.AccentColor).Bold(true)
}
