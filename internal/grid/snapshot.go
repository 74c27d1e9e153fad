// path: blockbrain/internal/grid/snapshot.go
package grid

// snapshot captures everything Undo needs to restore the grid to the state it
// had when the pending transaction began. Buffers are allocated once per grid
// and reused, so take and restore never alias the live slices.
type snapshot struct {
	cells     []bool
	heights   []int
	fills     []int
	maxHeight int
}

func newSnapshot(width, height int) snapshot {
	return snapshot{
		cells:   make([]bool, width*height),
		heights: make([]int, width),
		fills:   make([]int, height),
	}
}

func (s *snapshot) take(g *Grid) {
	copy(s.cells, g.cells)
	copy(s.heights, g.heights)
	copy(s.fills, g.fills)
	s.maxHeight = g.maxHeight
}

func (s *snapshot) restore(g *Grid) {
	copy(g.cells, s.cells)
	copy(g.heights, s.heights)
	copy(g.fills, s.fills)
	g.maxHeight = s.maxHeight
}
