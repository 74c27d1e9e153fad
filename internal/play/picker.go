// path: blockbrain/internal/play/picker.go
package play

import (
	"math/rand"

	"blockbrain/internal/brain"
	"blockbrain/internal/grid"
	"blockbrain/internal/piece"
)

// Picker chooses the next shape to drop. It must not leave g changed.
type Picker interface {
	Next(g *grid.Grid) (*piece.Cycle, string)
}

// RandomPicker draws shapes uniformly from a table.
type RandomPicker struct {
	table *piece.Table
	rng   *rand.Rand
}

func NewRandomPicker(table *piece.Table, seed int64) *RandomPicker {
	return &RandomPicker{table: table, rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPicker) Next(*grid.Grid) (*piece.Cycle, string) {
	return p.table.At(p.rng.Intn(p.table.Len()))
}

// HostilePicker hands out the shape whose best placement leaves the player
// worst off. A shape with no legal placement at all wins outright.
type HostilePicker struct {
	table       *piece.Table
	brain       *brain.Brain
	heightLimit int
}

// NewHostilePicker judges shapes with b, the same brain the player uses.
func NewHostilePicker(table *piece.Table, b *brain.Brain, heightLimit int) *HostilePicker {
	return &HostilePicker{table: table, brain: b, heightLimit: heightLimit}
}

func (p *HostilePicker) Next(g *grid.Grid) (*piece.Cycle, string) {
	var (
		worst     *piece.Cycle
		worstName string
		worstRate float64
	)
	for i := 0; i < p.table.Len(); i++ {
		cycle, name := p.table.At(i)
		move, ok := p.brain.BestMove(g, cycle.Root(), p.heightLimit, nil)
		if !ok {
			return cycle, name
		}
		if worst == nil || move.Score > worstRate {
			worst, worstName, worstRate = cycle, name, move.Score
		}
	}
	return worst, worstName
}
