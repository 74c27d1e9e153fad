// path: blockbrain/internal/piece/errors.go
package piece

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyShape    = errors.New("piece: empty shape")
	ErrNegativeCell  = errors.New("piece: negative cell coordinate")
	ErrDuplicateCell = errors.New("piece: duplicate cell")
	ErrCellTooLarge  = errors.New("piece: cell coordinate out of range")
	ErrEmptyLine     = errors.New("piece: empty row or column inside the shape")
	ErrUnknownShape  = errors.New("piece: unknown shape")
	ErrDuplicateName = errors.New("piece: shape name already used")
)

// ParseError reports a malformed shape spec.
type ParseError struct {
	Spec   string
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("piece: parse %q: token %q: %s", e.Spec, e.Token, e.Reason)
	}
	return fmt.Sprintf("piece: parse %q: %s", e.Spec, e.Reason)
}
