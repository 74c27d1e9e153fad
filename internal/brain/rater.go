// path: blockbrain/internal/brain/rater.go
package brain

import "fmt"

// Board is the read-only view raters score. *grid.Grid satisfies it.
type Board interface {
	Width() int
	Height() int
	ColumnHeight(x int) int
	RowFill(y int) int
	MaxHeight() int
	Occupied(x, y int) bool
}

// Rater maps a board to a score. Lower is better. Implementations must be
// pure functions of board content and must not mutate the grid.
type Rater interface {
	Rate(b Board) float64
}

// RaterFunc adapts a plain function to Rater.
type RaterFunc func(b Board) float64

func (f RaterFunc) Rate(b Board) float64 { return f(b) }

// Weights scales each board feature of the Weighted rater.
type Weights struct {
	MaxHeight float64 `json:"max_height"`
	AvgHeight float64 `json:"avg_height"`
	Holes     float64 `json:"holes"`
	Bumpiness float64 `json:"bumpiness"`
}

// DefaultWeights favors low stacks over hole avoidance; bumpiness is
// available for tuning but off.
func DefaultWeights() Weights {
	return Weights{
		MaxHeight: 8,
		AvgHeight: 40,
		Holes:     1.25,
		Bumpiness: 0,
	}
}

// Vector flattens the weights in feature order.
func (w Weights) Vector() []float64 {
	return []float64{w.MaxHeight, w.AvgHeight, w.Holes, w.Bumpiness}
}

// WeightsFromVector is the inverse of Vector.
func WeightsFromVector(v []float64) (Weights, error) {
	if len(v) != numFeatures {
		return Weights{}, fmt.Errorf("brain: weight vector has %d entries, want %d", len(v), numFeatures)
	}
	return Weights{MaxHeight: v[0], AvgHeight: v[1], Holes: v[2], Bumpiness: v[3]}, nil
}

const numFeatures = 4

// Weighted is the default heuristic: a weighted sum of board features.
// Features with a zero weight are not computed.
type Weighted struct {
	Weights Weights
}

func (w Weighted) Rate(b Board) float64 {
	var score float64
	if w.Weights.MaxHeight != 0 {
		score += w.Weights.MaxHeight * float64(b.MaxHeight())
	}
	if w.Weights.AvgHeight != 0 {
		score += w.Weights.AvgHeight * AverageHeight(b)
	}
	if w.Weights.Holes != 0 {
		score += w.Weights.Holes * float64(Holes(b))
	}
	if w.Weights.Bumpiness != 0 {
		score += w.Weights.Bumpiness * float64(Bumpiness(b))
	}
	return score
}

// DefaultCeiling is the complement base used by Inverted.
const DefaultCeiling = 10000

// Inverted flips a rater so the search picks the worst placement instead.
type Inverted struct {
	Rater   Rater
	Ceiling float64
}

func (inv Inverted) Rate(b Board) float64 {
	ceiling := inv.Ceiling
	if ceiling == 0 {
		ceiling = DefaultCeiling
	}
	return ceiling - inv.Rater.Rate(b)
}

// AverageHeight is the mean column height.
func AverageHeight(b Board) float64 {
	sum := 0
	for x := 0; x < b.Width(); x++ {
		sum += b.ColumnHeight(x)
	}
	return float64(sum) / float64(b.Width())
}

// Holes counts empty cells that have a filled cell somewhere above them in
// the same column.
func Holes(b Board) int {
	holes := 0
	for x := 0; x < b.Width(); x++ {
		for y := b.ColumnHeight(x) - 2; y >= 0; y-- {
			if !b.Occupied(x, y) {
				holes++
			}
		}
	}
	return holes
}

// Bumpiness sums the absolute height difference of adjacent columns.
func Bumpiness(b Board) int {
	sum := 0
	for x := 1; x < b.Width(); x++ {
		d := b.ColumnHeight(x) - b.ColumnHeight(x-1)
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum
}
