// path: blockbrain/internal/play/game.go
// Package play drives a grid one piece at a time: pick a shape, ask the
// brain for a placement, apply it and clear rows.
package play

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"blockbrain/internal/brain"
	"blockbrain/internal/grid"
)

// StepResult describes one applied piece.
type StepResult struct {
	Shape string
	Move  brain.Move
	Rows  int
}

type Stats struct {
	Pieces int  `json:"pieces"`
	Rows   int  `json:"rows"`
	Over   bool `json:"over"`
}

// Game is a single-threaded driver. HeightLimit of zero means the grid
// height.
type Game struct {
	Grid        *grid.Grid
	Brain       *brain.Brain
	Picker      Picker
	HeightLimit int

	// OnPlan is called with the chosen move before it touches the grid.
	OnPlan func(StepResult)
	// OnStep is called after every applied piece.
	OnStep func(StepResult)

	stats Stats
	last  *brain.Move
}

func (gm *Game) Stats() Stats { return gm.stats }

func (gm *Game) limit() int {
	if gm.HeightLimit > 0 {
		return gm.HeightLimit
	}
	return gm.Grid.Height()
}

// Step plays one piece. When nothing fits it marks the game over and
// returns ErrNoMove; the grid is left untouched.
func (gm *Game) Step() (StepResult, error) {
	if gm.Grid == nil || gm.Brain == nil || gm.Picker == nil {
		return StepResult{}, ErrNotReady
	}
	if gm.stats.Over {
		return StepResult{}, ErrNoMove
	}

	cycle, name := gm.Picker.Next(gm.Grid)
	move, ok := gm.Brain.BestMove(gm.Grid, cycle.Root(), gm.limit(), gm.last)
	if !ok {
		gm.stats.Over = true
		log.Debug().Str("shape", name).Int("pieces", gm.stats.Pieces).Msg("no placement")
		return StepResult{Shape: name}, ErrNoMove
	}

	if gm.OnPlan != nil {
		gm.OnPlan(StepResult{Shape: name, Move: move})
	}
	res := gm.Grid.Place(move.Piece, move.X, move.Y)
	if !res.Placed() {
		gm.Grid.Undo()
		return StepResult{Shape: name, Move: move}, fmt.Errorf("%w: %s: %s", ErrRejected, move, res)
	}
	rows := 0
	if res == grid.RowFilled {
		rows = gm.Grid.ClearRows()
	}
	gm.Grid.Commit()

	gm.stats.Pieces++
	gm.stats.Rows += rows
	gm.last = &move

	step := StepResult{Shape: name, Move: move, Rows: rows}
	log.Debug().
		Str("shape", name).
		Int("x", move.X).
		Int("y", move.Y).
		Float64("score", move.Score).
		Int("rows", rows).
		Msg("step")
	if gm.OnStep != nil {
		gm.OnStep(step)
	}
	return step, nil
}

// Run steps until the game is over, ctx is done or maxPieces pieces have
// been placed (maxPieces <= 0 means no cap). Game over is reported through
// Stats.Over, not as an error.
func (gm *Game) Run(ctx context.Context, maxPieces int) (Stats, error) {
	for maxPieces <= 0 || gm.stats.Pieces < maxPieces {
		if err := ctx.Err(); err != nil {
			return gm.stats, err
		}
		if _, err := gm.Step(); err != nil {
			if errors.Is(err, ErrNoMove) {
				break
			}
			return gm.stats, err
		}
	}
	return gm.stats, nil
}
