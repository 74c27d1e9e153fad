package grid

import (
	"fmt"
	"strings"
)

// FromRows builds a committed grid from text rows, top row first. '#', '+'
// and 'x' mark filled cells; '.', '_' and ' ' mark empty ones.
func FromRows(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyRows
	}
	width := len(rows[0])
	if width == 0 {
		return nil, ErrEmptyRows
	}
	g := New(width, len(rows))
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRows, i, len(row), width)
		}
		y := len(rows) - 1 - i
		for x := 0; x < width; x++ {
			switch row[x] {
			case '#', '+', 'x', 'X':
				g.cells[g.index(x, y)] = true
			case '.', '_', ' ':
			default:
				return nil, fmt.Errorf("%w: %q at row %d col %d", ErrBadCell, row[x], i, x)
			}
		}
	}
	g.recompute()
	return g, nil
}

// Rows is the inverse of FromRows, using '#' and '.'.
func (g *Grid) Rows() []string {
	out := make([]string, 0, g.height)
	var sb strings.Builder
	for y := g.height - 1; y >= 0; y-- {
		sb.Reset()
		for x := 0; x < g.width; x++ {
			if g.cells[g.index(x, y)] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		out = append(out, sb.String())
	}
	return out
}
