// Package hooks implements the observer registry consulted at command
// registration, unregistration and execution time. Hooks run
// synchronously, in registration order, on the calling goroutine.
package hooks

import (
	"sync"

	"github.com/footprint-tools/lamp/command"
)

// CancelHandle lets a hook suppress the effect of the observed
// operation. Cancellation does not stop later hooks in the same list
// from observing the event.
type CancelHandle struct {
	cancelled bool
}

// Cancel suppresses the operation's caller-visible effect.
func (c *CancelHandle) Cancel() {
	c.cancelled = true
}

// WasCancelled reports whether any hook cancelled the operation.
func (c *CancelHandle) WasCancelled() bool {
	return c.cancelled
}

// RegisteredHook observes a command registration.
type RegisteredHook func(cmd *command.Execution, cancel *CancelHandle)

// UnregisteredHook observes a command unregistration.
type UnregisteredHook func(cmd *command.Execution, cancel *CancelHandle)

// PreExecuteHook observes a command about to run.
type PreExecuteHook func(cmd *command.Execution, ctx *command.Context, cancel *CancelHandle)

// PostExecuteHook observes a finished command. err is the handler's
// return value, nil on success.
type PostExecuteHook func(cmd *command.Execution, ctx *command.Context, err error)

// Registry holds one ordered hook list per event kind.
type Registry struct {
	mu           sync.RWMutex
	registered   []RegisteredHook
	unregistered []UnregisteredHook
	preExecute   []PreExecuteHook
	postExecute  []PostExecuteHook
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// OnRegistered appends a registration hook.
func (r *Registry) OnRegistered(h RegisteredHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registered = append(r.registered, h)
}

// OnUnregistered appends an unregistration hook.
func (r *Registry) OnUnregistered(h UnregisteredHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unregistered = append(r.unregistered, h)
}

// OnPreExecute appends a pre-execution hook.
func (r *Registry) OnPreExecute(h PreExecuteHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preExecute = append(r.preExecute, h)
}

// OnPostExecute appends a post-execution hook.
func (r *Registry) OnPostExecute(h PostExecuteHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.postExecute = append(r.postExecute, h)
}

// CommandRegistered notifies all registration hooks. Returns false when
// any hook cancelled, in which case the caller must skip the actual
// registration bookkeeping.
func (r *Registry) CommandRegistered(cmd *command.Execution) bool {
	r.mu.RLock()
	hs := r.registered
	r.mu.RUnlock()
	cancel := &CancelHandle{}
	for _, h := range hs {
		h(cmd, cancel)
	}
	return !cancel.WasCancelled()
}

// CommandUnregistered notifies all unregistration hooks. Returns false
// when any hook cancelled.
func (r *Registry) CommandUnregistered(cmd *command.Execution) bool {
	r.mu.RLock()
	hs := r.unregistered
	r.mu.RUnlock()
	cancel := &CancelHandle{}
	for _, h := range hs {
		h(cmd, cancel)
	}
	return !cancel.WasCancelled()
}

// PreExecute notifies all pre-execution hooks. Returns false when any
// hook cancelled, in which case the handler must not be invoked.
func (r *Registry) PreExecute(cmd *command.Execution, ctx *command.Context) bool {
	r.mu.RLock()
	hs := r.preExecute
	r.mu.RUnlock()
	cancel := &CancelHandle{}
	for _, h := range hs {
		h(cmd, ctx, cancel)
	}
	return !cancel.WasCancelled()
}

// PostExecute notifies all post-execution hooks.
func (r *Registry) PostExecute(cmd *command.Execution, ctx *command.Context, err error) {
	r.mu.RLock()
	hs := r.postExecute
	r.mu.RUnlock()
	for _, h := range hs {
		h(cmd, ctx, err)
	}
}
