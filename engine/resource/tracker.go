// Package resource provides lifetime tracking for disposable GPU resources.
// A Tracker accumulates every GPU handle created during one conversion run so
// the resulting mesh collection can release them together, exactly once.
package resource

import (
	"sync"

	"github.com/google/uuid"

	"github.com/meshforge/meshforge/engine/core"
)

// Disposable is implemented by any handle owning GPU-side state that must be
// explicitly released.
type Disposable interface {
	// Release frees the underlying GPU resource. Implementations must be
	// safe to call more than once.
	Release()
}

// tracker is the implementation of the Tracker interface.
type tracker struct {
	mu sync.Mutex

	id        string
	resources []Disposable
	seen      map[Disposable]struct{}
	released  bool
}

// Tracker defines the interface for an append-only set of disposable GPU
// resources sharing one lifetime. A tracker is created per conversion run and
// handed to the mesh collection that owns the run's resources.
type Tracker interface {
	// ID returns the unique identifier of this tracker, used to correlate
	// log output and to scope per-run caches.
	//
	// Returns:
	//   - string: the tracker identifier
	ID() string

	// Track registers a disposable resource with this tracker. Registering
	// the same handle twice is a no-op; nil handles are ignored.
	//
	// Parameters:
	//   - d: the resource to track
	Track(d Disposable)

	// Resources returns a snapshot of every resource registered so far, in
	// registration order.
	//
	// Returns:
	//   - []Disposable: the tracked resources
	Resources() []Disposable

	// Size returns the number of tracked resources.
	//
	// Returns:
	//   - int: the resource count
	Size() int

	// Release releases every tracked resource in reverse registration order.
	// Calling Release again is a no-op.
	Release()
}

var _ Tracker = &tracker{}

// NewTracker creates an empty resource tracker with a fresh identifier.
//
// Returns:
//   - Tracker: the new tracker
func NewTracker() Tracker {
	return &tracker{
		id:   uuid.NewString(),
		seen: make(map[Disposable]struct{}),
	}
}

func (t *tracker) ID() string {
	return t.id
}

func (t *tracker) Track(d Disposable) {
	if d == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.released {
		core.LogWarn("tracker %s: Track called after Release, resource will leak", t.id)
		return
	}
	if _, ok := t.seen[d]; ok {
		return
	}
	t.seen[d] = struct{}{}
	t.resources = append(t.resources, d)
}

func (t *tracker) Resources() []Disposable {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := make([]Disposable, len(t.resources))
	copy(snapshot, t.resources)
	return snapshot
}

func (t *tracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.resources)
}

func (t *tracker) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.released {
		return
	}
	t.released = true

	// Reverse order: resources created later may reference earlier ones.
	for i := len(t.resources) - 1; i >= 0; i-- {
		t.resources[i].Release()
	}
	core.LogDebug("tracker %s: released %d resources", t.id, len(t.resources))
	t.resources = nil
	t.seen = nil
}
