// path: blockbrain/internal/grid/grid.go
// Package grid implements the mutable occupancy grid with cached column
// heights and row fills, plus a one-level place/undo/commit transaction.
package grid

import (
	"fmt"
	"strings"

	"blockbrain/internal/piece"
)

// Shape is what the grid needs from a piece.
type Shape interface {
	Cells() []piece.Point
	Width() int
	Skirt() []int
}

// Result is the outcome of Place.
type Result uint8

const (
	OK Result = iota
	RowFilled
	OutOfBounds
	Collision
)

func (r Result) String() string {
	switch r {
	case OK:
		return "ok"
	case RowFilled:
		return "row_filled"
	case OutOfBounds:
		return "out_of_bounds"
	case Collision:
		return "collision"
	default:
		return fmt.Sprintf("result(%d)", r)
	}
}

// Placed reports whether the piece was stamped completely.
func (r Result) Placed() bool { return r == OK || r == RowFilled }

// Grid is a width x height occupancy grid, row 0 at the bottom. It is not safe
// for concurrent use and must not be mutated from inside a scoring callback.
type Grid struct {
	width     int
	height    int
	cells     []bool // column-major: x*height + y
	heights   []int
	fills     []int
	maxHeight int

	committed bool
	backup    snapshot
	checks    bool
}

// New returns an empty, committed grid.
func New(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("grid: invalid size %dx%d", width, height))
	}
	return &Grid{
		width:     width,
		height:    height,
		cells:     make([]bool, width*height),
		heights:   make([]int, width),
		fills:     make([]int, height),
		committed: true,
		backup:    newSnapshot(width, height),
	}
}

// SetChecks turns the conformance check on after every mutation. A failing
// check panics; use it in tests and debug builds only.
func (g *Grid) SetChecks(on bool) { g.checks = on }

func (g *Grid) Width() int { return g.width }

func (g *Grid) Height() int { return g.height }

// ColumnHeight is one more than the topmost filled row of column x, or 0.
func (g *Grid) ColumnHeight(x int) int { return g.heights[x] }

// RowFill is the number of filled cells in row y.
func (g *Grid) RowFill(y int) int { return g.fills[y] }

func (g *Grid) MaxHeight() int { return g.maxHeight }

func (g *Grid) Committed() bool { return g.committed }

// Occupied reports whether cell (x, y) is filled. Cells outside the grid read
// as filled so callers can treat the border as solid.
func (g *Grid) Occupied(x, y int) bool {
	if !g.inBounds(x, y) {
		return true
	}
	return g.cells[g.index(x, y)]
}

// DropHeight returns the lowest y at which p rests when dropped straight down
// at column offset x. It reads only the column heights and p's skirt, so the
// cost is proportional to p's width. Columns x..x+p.Width()-1 must exist.
func (g *Grid) DropHeight(p Shape, x int) int {
	skirt := p.Skirt()
	y := 0
	for c := 0; c < p.Width(); c++ {
		if candidate := g.heights[x+c] - skirt[c]; candidate > y {
			y = candidate
		}
	}
	return y
}

// Place stamps p with its origin at (x, y). The grid is left uncommitted in
// every case; callers undo on a non-placed result.
func (g *Grid) Place(p Shape, x, y int) Result {
	g.begin("place")

	result := OK
	for _, c := range p.Cells() {
		dx, dy := x+c.X, y+c.Y
		if !g.inBounds(dx, dy) {
			result = OutOfBounds
			break
		}
		idx := g.index(dx, dy)
		if g.cells[idx] {
			result = Collision
			break
		}
		g.cells[idx] = true
		g.fills[dy]++
		if dy+1 > g.heights[dx] {
			g.heights[dx] = dy + 1
		}
		if g.fills[dy] == g.width {
			result = RowFilled
		}
	}

	g.recompute()
	g.verify()
	return result
}

// ClearRows removes every full row, shifting the rows above down, and returns
// how many were removed. It is undoable even without a preceding Place.
func (g *Grid) ClearRows() int {
	if g.committed {
		g.begin("clear rows")
	}

	cleared := 0
	to := 0
	for from := 0; from < g.height; from++ {
		if g.fills[from] == g.width {
			cleared++
			continue
		}
		if to != from {
			for x := 0; x < g.width; x++ {
				g.cells[g.index(x, to)] = g.cells[g.index(x, from)]
			}
		}
		to++
	}
	for ; to < g.height; to++ {
		for x := 0; x < g.width; x++ {
			g.cells[g.index(x, to)] = false
		}
	}

	g.recompute()
	g.verify()
	return cleared
}

// Clear empties the grid as an undoable mutation.
func (g *Grid) Clear() {
	g.begin("clear")
	for i := range g.cells {
		g.cells[i] = false
	}
	g.recompute()
	g.verify()
}

// Undo restores the state saved when the pending transaction began and
// commits. Without a pending transaction it does nothing.
func (g *Grid) Undo() {
	if g.committed {
		return
	}
	g.backup.restore(g)
	g.committed = true
	g.verify()
}

// Commit accepts the current state as the baseline for the next Undo.
func (g *Grid) Commit() { g.committed = true }

// Clone returns a committed deep copy of the current content.
func (g *Grid) Clone() *Grid {
	out := New(g.width, g.height)
	copy(out.cells, g.cells)
	copy(out.heights, g.heights)
	copy(out.fills, g.fills)
	out.maxHeight = g.maxHeight
	out.checks = g.checks
	return out
}

// begin opens a transaction. Mutating an uncommitted grid is a caller bug.
func (g *Grid) begin(op string) {
	if !g.committed {
		panic(fmt.Errorf("grid: %s: %w", op, ErrUncommitted))
	}
	g.backup.take(g)
	g.committed = false
}

func (g *Grid) verify() {
	if !g.checks {
		return
	}
	if err := g.ConformanceCheck(); err != nil {
		panic(err)
	}
}

func (g *Grid) recompute() {
	for x := range g.heights {
		g.heights[x] = 0
	}
	for y := range g.fills {
		g.fills[y] = 0
	}
	g.maxHeight = 0
	for x := 0; x < g.width; x++ {
		col := g.cells[x*g.height : (x+1)*g.height]
		for y, filled := range col {
			if !filled {
				continue
			}
			g.fills[y]++
			g.heights[x] = y + 1
		}
		if g.heights[x] > g.maxHeight {
			g.maxHeight = g.heights[x]
		}
	}
}

// ConformanceCheck recomputes every cached aggregate from the occupancy and
// reports the first disagreement.
func (g *Grid) ConformanceCheck() error {
	maxHeight := 0
	for x := 0; x < g.width; x++ {
		h := 0
		for y := 0; y < g.height; y++ {
			if g.cells[g.index(x, y)] {
				h = y + 1
			}
		}
		if h != g.heights[x] {
			return fmt.Errorf("%w: column %d height %d, cached %d", ErrInconsistent, x, h, g.heights[x])
		}
		if h > maxHeight {
			maxHeight = h
		}
	}
	for y := 0; y < g.height; y++ {
		n := 0
		for x := 0; x < g.width; x++ {
			if g.cells[g.index(x, y)] {
				n++
			}
		}
		if n != g.fills[y] {
			return fmt.Errorf("%w: row %d fill %d, cached %d", ErrInconsistent, y, n, g.fills[y])
		}
	}
	if maxHeight != g.maxHeight {
		return fmt.Errorf("%w: max height %d, cached %d", ErrInconsistent, maxHeight, g.maxHeight)
	}
	return nil
}

// String renders the grid top row first, '+' for filled cells, framed by
// '|' sides and a '-' footer. Diagnostics only.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := g.height - 1; y >= 0; y-- {
		sb.WriteByte('|')
		for x := 0; x < g.width; x++ {
			if g.cells[g.index(x, y)] {
				sb.WriteByte('+')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(strings.Repeat("-", g.width+2))
	return sb.String()
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Grid) index(x, y int) int { return x*g.height + y }
