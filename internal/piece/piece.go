// path: blockbrain/internal/piece/piece.go
// Package piece implements immutable block shapes, their skirts, and the
// precomputed rotation cycles used by the grid and the move search.
package piece

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Point is one occupied cell relative to the piece origin.
type Point struct {
	X int
	Y int
}

func (p Point) less(o Point) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	return p.Y < o.Y
}

// Piece is a single rotation of a block shape. Values are never mutated after
// construction; the slices returned by the accessors must not be modified.
type Piece struct {
	cells  []Point
	skirt  []int
	width  int
	height int

	cycle *Cycle
	index int
}

// Parse reads a shape spec of whitespace separated "x y" integer pairs.
func Parse(spec string) (Piece, error) {
	fields := strings.Fields(spec)
	if len(fields)%2 != 0 {
		return Piece{}, &ParseError{Spec: spec, Reason: fmt.Sprintf("odd token count %d", len(fields))}
	}
	cells := make([]Point, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.Atoi(fields[i])
		if err != nil {
			return Piece{}, &ParseError{Spec: spec, Token: fields[i], Reason: "not an integer"}
		}
		y, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return Piece{}, &ParseError{Spec: spec, Token: fields[i+1], Reason: "not an integer"}
		}
		cells = append(cells, Point{X: x, Y: y})
	}
	return New(cells)
}

// MustParse is Parse for specs known to be valid at compile time.
func MustParse(spec string) Piece {
	p, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return p
}

// MaxCoord is the largest cell coordinate New accepts.
const MaxCoord = 255

// New builds a standalone piece from its cells. The input slice is copied.
// Every row and column of the bounding box must hold at least one cell, so
// the shape sits on (0,0) and every skirt entry is real.
func New(cells []Point) (Piece, error) {
	if len(cells) == 0 {
		return Piece{}, ErrEmptyShape
	}
	seen := make(map[Point]struct{}, len(cells))
	body := make([]Point, len(cells))
	width, height := 0, 0
	for i, c := range cells {
		if c.X < 0 || c.Y < 0 {
			return Piece{}, fmt.Errorf("%w: (%d,%d)", ErrNegativeCell, c.X, c.Y)
		}
		if c.X > MaxCoord || c.Y > MaxCoord {
			return Piece{}, fmt.Errorf("%w: (%d,%d) exceeds %d", ErrCellTooLarge, c.X, c.Y, MaxCoord)
		}
		if _, dup := seen[c]; dup {
			return Piece{}, fmt.Errorf("%w: (%d,%d)", ErrDuplicateCell, c.X, c.Y)
		}
		seen[c] = struct{}{}
		body[i] = c
		width = max(width, c.X+1)
		height = max(height, c.Y+1)
	}

	cols := make([]bool, width)
	rows := make([]bool, height)
	for _, c := range body {
		cols[c.X] = true
		rows[c.Y] = true
	}
	for x, ok := range cols {
		if !ok {
			return Piece{}, fmt.Errorf("%w: column %d", ErrEmptyLine, x)
		}
	}
	for y, ok := range rows {
		if !ok {
			return Piece{}, fmt.Errorf("%w: row %d", ErrEmptyLine, y)
		}
	}
	return build(body), nil
}

// build derives width, height and skirt. body is owned by the result.
func build(body []Point) Piece {
	p := Piece{cells: body}
	for _, c := range body {
		if c.X+1 > p.width {
			p.width = c.X + 1
		}
		if c.Y+1 > p.height {
			p.height = c.Y + 1
		}
	}
	p.skirt = make([]int, p.width)
	for i := range p.skirt {
		p.skirt[i] = p.height
	}
	for _, c := range body {
		if c.Y < p.skirt[c.X] {
			p.skirt[c.X] = c.Y
		}
	}
	return p
}

// Cells returns the occupied cells in construction order.
func (p Piece) Cells() []Point { return p.cells }

// Skirt returns, for each column, the lowest occupied row.
func (p Piece) Skirt() []int { return p.skirt }

func (p Piece) Width() int { return p.width }

func (p Piece) Height() int { return p.height }

// IsZero reports whether p is the zero Piece (no cells).
func (p Piece) IsZero() bool { return len(p.cells) == 0 }

// RotateCCW returns p rotated 90 degrees counter-clockwise inside its bounding
// box. Measurements are recomputed from scratch and the result is standalone.
func (p Piece) RotateCCW() Piece {
	body := make([]Point, len(p.cells))
	for i, c := range p.cells {
		body[i] = Point{X: p.height - 1 - c.Y, Y: c.X}
	}
	return build(body)
}

// FastRotation returns the next counter-clockwise orientation from the cycle
// this piece belongs to. A standalone piece returns itself.
func (p Piece) FastRotation() Piece {
	if p.cycle == nil {
		return p
	}
	return p.cycle.At(p.index + 1)
}

// Cycle returns the rotation cycle p belongs to, or nil for standalone pieces.
func (p Piece) Cycle() *Cycle { return p.cycle }

// Rotation returns the index of p inside its cycle (0 for standalone pieces).
func (p Piece) Rotation() int { return p.index }

// Equal reports whether both pieces occupy the same cells, ignoring order.
func (p Piece) Equal(other Piece) bool {
	if len(p.cells) != len(other.cells) {
		return false
	}
	a, b := p.sorted(), other.sorted()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (p Piece) sorted() []Point {
	out := make([]Point, len(p.cells))
	copy(out, p.cells)
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// String renders the canonical spec form, cells sorted by (x, y).
func (p Piece) String() string {
	var sb strings.Builder
	for i, c := range p.sorted() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(c.X))
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(c.Y))
	}
	return sb.String()
}
