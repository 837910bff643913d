package lamp

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/footprint-tools/lamp/command"
)

// registry holds all registered executions keyed by lowercased root
// literal. Mutations build a fresh map under the lock (copy-on-write) so
// resolution always iterates a consistent snapshot without locking.
type registry struct {
	mu     sync.Mutex
	byRoot atomic.Pointer[map[string][]*command.Execution]
}

func newRegistry() *registry {
	r := &registry{}
	empty := make(map[string][]*command.Execution)
	r.byRoot.Store(&empty)
	return r
}

func (r *registry) snapshot() map[string][]*command.Execution {
	return *r.byRoot.Load()
}

func (r *registry) add(e *command.Execution) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	root := strings.ToLower(e.FirstNode().Name)
	current := r.snapshot()
	for _, existing := range current[root] {
		if existing.Path() == e.Path() {
			return fmt.Errorf("lamp: duplicate command signature '%s'", e.Path())
		}
	}

	next := make(map[string][]*command.Execution, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	updated := make([]*command.Execution, len(current[root]), len(current[root])+1)
	copy(updated, current[root])
	next[root] = append(updated, e)
	r.byRoot.Store(&next)
	return nil
}

func (r *registry) remove(e *command.Execution) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	root := strings.ToLower(e.FirstNode().Name)
	current := r.snapshot()
	existing, ok := current[root]
	if !ok {
		return false
	}

	updated := make([]*command.Execution, 0, len(existing))
	removed := false
	for _, x := range existing {
		if x.ID() == e.ID() {
			removed = true
			continue
		}
		updated = append(updated, x)
	}
	if !removed {
		return false
	}

	next := make(map[string][]*command.Execution, len(current))
	for k, v := range current {
		if k == root {
			continue
		}
		next[k] = v
	}
	if len(updated) > 0 {
		next[root] = updated
	}
	r.byRoot.Store(&next)
	return true
}

func (r *registry) candidates(root string) []*command.Execution {
	return r.snapshot()[strings.ToLower(root)]
}

func (r *registry) roots() []string {
	snap := r.snapshot()
	roots := make([]string, 0, len(snap))
	for k := range snap {
		roots = append(roots, k)
	}
	return roots
}

func (r *registry) all() []*command.Execution {
	var out []*command.Execution
	for _, v := range r.snapshot() {
		out = append(out, v...)
	}
	return out
}
