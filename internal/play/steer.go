package play

import (
	"blockbrain/internal/brain"
	"blockbrain/internal/piece"
)

// Action is one input applied to a falling piece.
type Action int

const (
	Hold Action = iota
	Rotate
	Left
	Right
	Drop
	Blocked
)

func (a Action) String() string {
	switch a {
	case Rotate:
		return "rotate"
	case Left:
		return "left"
	case Right:
		return "right"
	case Drop:
		return "drop"
	case Blocked:
		return "blocked"
	default:
		return "hold"
	}
}

// Steer returns the next input that brings a piece falling at (x, y) onto
// m: rotate until the orientation matches, then slide, then drop. Hold
// means the piece already sits on the target. Blocked means it has fallen
// below the target row, which no input can undo.
func Steer(cur piece.Piece, x, y int, m brain.Move) Action {
	switch {
	case m.Y > y:
		return Blocked
	case !cur.Equal(m.Piece):
		return Rotate
	case m.X > x:
		return Right
	case m.X < x:
		return Left
	case m.Y < y:
		return Drop
	default:
		return Hold
	}
}

// Frame is one position along a steering path.
type Frame struct {
	Piece  piece.Piece
	X, Y   int
	Action Action
}

// Path replays Steer from a spawn position until the piece lands on m. The
// first frame is the spawn itself with Action Hold. Rotation uses the fast
// cycle, so cur should come from the same cycle as m.Piece; otherwise the
// path stops after one full turn without matching. A spawn below the target
// row yields a single Blocked frame after the spawn.
func Path(cur piece.Piece, x, y int, m brain.Move) []Frame {
	frames := []Frame{{Piece: cur, X: x, Y: y}}
	turns := 0
	for {
		a := Steer(cur, x, y, m)
		switch a {
		case Hold:
			return frames
		case Blocked:
			return append(frames, Frame{Piece: cur, X: x, Y: y, Action: a})
		case Rotate:
			if turns >= 4 {
				return frames
			}
			turns++
			cur = cur.FastRotation()
		case Right:
			x++
		case Left:
			x--
		case Drop:
			y = m.Y
		}
		frames = append(frames, Frame{Piece: cur, X: x, Y: y, Action: a})
	}
}
