package play

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"blockbrain/internal/brain"
	"blockbrain/internal/piece"
)

func TestSteer(t *testing.T) {
	table := piece.NewStandardTable()
	c, err := table.Lookup("stick")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	vertical, horizontal := c.At(0), c.At(1)
	target := brain.Move{Piece: horizontal, X: 2, Y: 0}

	cases := []struct {
		name string
		cur  piece.Piece
		x, y int
		want Action
	}{
		{"wrong orientation", vertical, 2, 5, Rotate},
		{"right of target", horizontal, 4, 5, Left},
		{"left of target", horizontal, 0, 5, Right},
		{"above target", horizontal, 2, 5, Drop},
		{"landed", horizontal, 2, 0, Hold},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Steer(tc.cur, tc.x, tc.y, target); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestPath(t *testing.T) {
	table := piece.NewStandardTable()
	c, err := table.Lookup("stick")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	target := brain.Move{Piece: c.At(1), X: 0, Y: 0}
	frames := Path(c.Root(), 3, 10, target)

	var actions []string
	for _, f := range frames {
		actions = append(actions, f.Action.String())
	}
	want := []string{"hold", "rotate", "left", "left", "left", "drop"}
	if diff := cmp.Diff(want, actions); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
	last := frames[len(frames)-1]
	if last.X != 0 || last.Y != 0 || !last.Piece.Equal(target.Piece) {
		t.Fatalf("expected to land on target, got (%d,%d) %s", last.X, last.Y, last.Piece)
	}
}

func TestPathGivesUpOnForeignPiece(t *testing.T) {
	table := piece.NewStandardTable()
	sq, _ := table.Lookup("square")
	st, _ := table.Lookup("stick")
	frames := Path(sq.Root(), 0, 5, brain.Move{Piece: st.Root()})
	if len(frames) != 5 {
		t.Fatalf("expected spawn plus four turns, got %d frames", len(frames))
	}
}

func TestSteerBelowTarget(t *testing.T) {
	table := piece.NewStandardTable()
	c, err := table.Lookup("square")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	target := brain.Move{Piece: c.Root(), X: 1, Y: 4}

	cases := []struct {
		name string
		x, y int
	}{
		{"on column", 1, 2},
		{"off column", 3, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Steer(c.Root(), tc.x, tc.y, target); got != Blocked {
				t.Fatalf("expected blocked, got %s", got)
			}
		})
	}

	frames := Path(c.Root(), 1, 2, target)
	if len(frames) != 2 || frames[1].Action != Blocked {
		t.Fatalf("expected spawn then a blocked frame, got %v", frames)
	}
	if frames[1].X != 1 || frames[1].Y != 2 {
		t.Fatalf("expected blocked piece to stay at (1,2), got (%d,%d)", frames[1].X, frames[1].Y)
	}
}
