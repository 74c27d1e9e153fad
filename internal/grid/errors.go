// path: blockbrain/internal/grid/errors.go
package grid

import "errors"

var (
	ErrUncommitted  = errors.New("grid: mutation while a transaction is pending")
	ErrInconsistent = errors.New("grid: cached aggregates disagree with occupancy")
	ErrRaggedRows   = errors.New("grid: rows have different widths")
	ErrEmptyRows    = errors.New("grid: no rows")
	ErrBadCell      = errors.New("grid: unknown cell character")
)
