package panel

import (
	"errors"
	"sync"
)

// ErrInFlight is returned when the same operation against the same
// target is started again before the first attempt finishes.
var ErrInFlight = errors.New("operation already in flight")

// InFlightGuard serializes repeat submissions. A slot is keyed by
// operation and target so distinct targets never block each other.
type InFlightGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewInFlightGuard returns an empty guard.
func NewInFlightGuard() *InFlightGuard {
	return &InFlightGuard{active: make(map[string]struct{})}
}

// Start claims the slot for op on target. It returns a release func the
// caller must invoke when the operation ends, or ErrInFlight if the
// slot is already held.
func (g *InFlightGuard) Start(op, target string) (func(), error) {
	key := op + ":" + target

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[key]; busy {
		return nil, ErrInFlight
	}
	g.active[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.active, key)
			g.mu.Unlock()
		})
	}, nil
}
