// path: blockbrain/internal/brain/brain.go
// Package brain searches every orientation and column offset of a piece
// against a grid and returns the placement whose resulting board rates best.
package brain

import (
	"fmt"

	"blockbrain/internal/grid"
	"blockbrain/internal/piece"
)

// Move is a recommended placement: drop Piece (the exact orientation) with
// its origin at (X, Y). Score rates the board after the placement.
type Move struct {
	Piece piece.Piece
	X     int
	Y     int
	Score float64
}

func (m Move) String() string {
	return fmt.Sprintf("%s at (%d,%d) score %.3f", m.Piece, m.X, m.Y, m.Score)
}

// Brain runs the one-piece greedy search with a pluggable rater.
type Brain struct {
	rater Rater
}

// New returns a Brain using r, or the default weighted rater when r is nil.
func New(r Rater) *Brain {
	if r == nil {
		r = Weighted{Weights: DefaultWeights()}
	}
	return &Brain{rater: r}
}

func (b *Brain) Rater() Rater { return b.rater }

// BestMove tries every orientation in p's rotation cycle at every column
// offset, dropping each straight down. Candidates whose top would pass
// heightLimit are skipped without touching the grid. The rest are placed,
// full rows are cleared, the board is rated, and the grid is rolled back.
// The lowest score wins; ties keep the first candidate in cycle order, then x
// ascending. ok is false when nothing fits.
//
// g must be committed and is returned with the same content. prev is
// accepted for interface symmetry and does not affect the result.
func (b *Brain) BestMove(g *grid.Grid, p piece.Piece, heightLimit int, prev *Move) (best Move, ok bool) {
	rotations := 1
	if c := p.Cycle(); c != nil {
		rotations = c.Len()
	}

	cur := p
	for r := 0; r < rotations; r, cur = r+1, cur.FastRotation() {
		for x := 0; x+cur.Width() <= g.Width(); x++ {
			y := g.DropHeight(cur, x)
			if y+cur.Height() > heightLimit {
				continue
			}
			res := g.Place(cur, x, y)
			if !res.Placed() {
				g.Undo()
				continue
			}
			if res == grid.RowFilled {
				g.ClearRows()
			}
			score := b.rater.Rate(g)
			g.Undo()

			if !ok || score < best.Score {
				best = Move{Piece: cur, X: x, Y: y, Score: score}
				ok = true
			}
		}
	}
	return best, ok
}
