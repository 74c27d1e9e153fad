// path: blockbrain/internal/piece/cycle.go
package piece

import (
	"fmt"
	"strings"
)

// maxOrientations bounds the slow-rotation walk; four quarter turns always
// return a shape to its starting cell set.
const maxOrientations = 4

// Cycle holds every distinct orientation of one shape, in counter-clockwise
// order starting from the root. It is read-only after NewCycle returns.
type Cycle struct {
	orientations []Piece
}

// NewCycle computes the rotation cycle of root with the slow rotation path.
func NewCycle(root Piece) *Cycle {
	c := &Cycle{}
	body := make([]Point, len(root.cells))
	copy(body, root.cells)
	first := build(body)
	c.orientations = append(c.orientations, first)
	for cur := first.RotateCCW(); !cur.Equal(first) && len(c.orientations) < maxOrientations; cur = cur.RotateCCW() {
		c.orientations = append(c.orientations, cur)
	}
	for i := range c.orientations {
		c.orientations[i].cycle = c
		c.orientations[i].index = i
	}
	return c
}

// Len is the number of distinct orientations (1, 2 or 4).
func (c *Cycle) Len() int { return len(c.orientations) }

// At returns orientation i, wrapping around the cycle.
func (c *Cycle) At(i int) Piece {
	n := len(c.orientations)
	return c.orientations[((i%n)+n)%n]
}

// Root returns the first orientation.
func (c *Cycle) Root() Piece { return c.orientations[0] }

// Orientations returns a copy of all orientations in cycle order.
func (c *Cycle) Orientations() []Piece {
	out := make([]Piece, len(c.orientations))
	copy(out, c.orientations)
	return out
}

// Find returns the orientation cell-set-equal to p, if any.
func (c *Cycle) Find(p Piece) (Piece, bool) {
	for _, o := range c.orientations {
		if o.Equal(p) {
			return o, true
		}
	}
	return Piece{}, false
}

// Standard shape specs. Coordinates are (x y) pairs with row 0 at the bottom.
const (
	StickSpec   = "0 0  0 1  0 2  0 3"
	L1Spec      = "0 0  0 1  0 2  1 0"
	L2Spec      = "0 0  1 0  1 1  1 2"
	S1Spec      = "0 0  1 0  1 1  2 1"
	S2Spec      = "0 1  1 1  1 0  2 0"
	SquareSpec  = "0 0  0 1  1 0  1 1"
	PyramidSpec = "0 0  1 0  1 1  2 0"
)

// NamedSpec pairs a shape name with its spec.
type NamedSpec struct {
	Name string
	Spec string
}

// StandardSpecs lists the seven standard shapes in table order.
func StandardSpecs() []NamedSpec {
	return []NamedSpec{
		{Name: "stick", Spec: StickSpec},
		{Name: "l1", Spec: L1Spec},
		{Name: "l2", Spec: L2Spec},
		{Name: "s1", Spec: S1Spec},
		{Name: "s2", Spec: S2Spec},
		{Name: "square", Spec: SquareSpec},
		{Name: "pyramid", Spec: PyramidSpec},
	}
}

// Table is an immutable, ordered set of named rotation cycles. Build it once
// at startup and pass it to whatever needs shapes.
type Table struct {
	names  []string
	cycles []*Cycle
	byName map[string]int
}

// NewTable parses every spec and precomputes its rotation cycle.
func NewTable(specs []NamedSpec) (*Table, error) {
	t := &Table{byName: make(map[string]int, len(specs))}
	for _, s := range specs {
		name := strings.ToLower(strings.TrimSpace(s.Name))
		if _, dup := t.byName[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		root, err := Parse(s.Spec)
		if err != nil {
			return nil, fmt.Errorf("shape %s: %w", name, err)
		}
		t.byName[name] = len(t.cycles)
		t.names = append(t.names, name)
		t.cycles = append(t.cycles, NewCycle(root))
	}
	return t, nil
}

// NewStandardTable builds the table of the seven standard shapes.
func NewStandardTable() *Table {
	t, err := NewTable(StandardSpecs())
	if err != nil {
		panic(err) // standard specs are constants
	}
	return t
}

func (t *Table) Len() int { return len(t.cycles) }

// Names returns shape names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// At returns the i-th cycle and its name.
func (t *Table) At(i int) (*Cycle, string) { return t.cycles[i], t.names[i] }

// Lookup finds a cycle by case-insensitive name.
func (t *Table) Lookup(name string) (*Cycle, error) {
	idx, ok := t.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, name)
	}
	return t.cycles[idx], nil
}

// Match returns the table orientation equal to p, so callers holding a
// standalone piece can recover its fast-rotation cycle.
func (t *Table) Match(p Piece) (Piece, bool) {
	for _, c := range t.cycles {
		if o, ok := c.Find(p); ok {
			return o, true
		}
	}
	return Piece{}, false
}
