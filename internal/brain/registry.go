// path: blockbrain/internal/brain/registry.go
package brain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory constructs a rater from a weight set.
type Factory func(w Weights) Rater

var (
	registryMu sync.RWMutex
	registry   map[string]Factory

	// ErrDuplicateRater indicates a name already has a factory.
	ErrDuplicateRater = errors.New("brain: rater already registered")
	// ErrNilFactory indicates a registration attempt provided a nil constructor.
	ErrNilFactory = errors.New("brain: nil rater factory")
	// ErrInvalidName indicates an empty rater name.
	ErrInvalidName = errors.New("brain: invalid rater name")
	// ErrUnknownRater indicates no factory has been registered for the name.
	ErrUnknownRater = errors.New("brain: rater not registered")
	// ErrNilRater indicates a factory returned a nil rater.
	ErrNilRater = errors.New("brain: factory produced nil rater")
)

// Register associates a rater name with a factory. Names are case
// insensitive. Safe for concurrent use.
func Register(name string, ctor Factory) error {
	key := normalizeName(name)
	if key == "" {
		return ErrInvalidName
	}
	if ctor == nil {
		return ErrNilFactory
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if registry == nil {
		registry = make(map[string]Factory)
	}
	if _, exists := registry[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRater, key)
	}
	registry[key] = ctor
	return nil
}

// NewRater builds the named rater with the given weights.
func NewRater(name string, w Weights) (Rater, error) {
	key := normalizeName(name)
	registryMu.RLock()
	ctor := registry[key]
	registryMu.RUnlock()

	if ctor == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRater, name)
	}
	r := ctor(w)
	if r == nil {
		return nil, fmt.Errorf("%w: %q", ErrNilRater, name)
	}
	return r, nil
}

// RaterNames returns the registered names, sorted.
func RaterNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
