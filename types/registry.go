package types

import (
	"reflect"
	"sync"

	"github.com/footprint-tools/lamp/command"
)

// Registry maps Go value types to the parameter types that produce them.
// When several parameter types claim the same value type, the one with
// the higher declared priority wins; otherwise the later registration
// does.
type Registry struct {
	mu      sync.RWMutex
	entries map[reflect.Type]command.ParameterType
}

// NewRegistry creates a Registry pre-populated with the built-in types.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[reflect.Type]command.ParameterType)}
	r.Register(reflect.TypeOf(""), String())
	r.Register(reflect.TypeOf(false), Bool())
	r.Register(reflect.TypeOf(int8(0)), Int8())
	r.Register(reflect.TypeOf(int16(0)), Int16())
	r.Register(reflect.TypeOf(int(0)), Int())
	r.Register(reflect.TypeOf(int64(0)), Int64())
	r.Register(reflect.TypeOf(float32(0)), Float32())
	r.Register(reflect.TypeOf(float64(0)), Float64())
	return r
}

// Register binds a parameter type to a Go value type. A registration is
// ignored when an existing binding declares itself ranked above the new
// one.
func (r *Registry) Register(t reflect.Type, pt command.ParameterType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.entries[t]; ok {
		if p, ok := existing.(command.Prioritized); ok && p.Priority().Outranks(pt) {
			return
		}
	}
	r.entries[t] = pt
}

// Resolve returns the parameter type bound to a Go value type.
func (r *Registry) Resolve(t reflect.Type) (command.ParameterType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pt, ok := r.entries[t]
	return pt, ok
}

// ResolveFor resolves the parameter type for a sample value.
func (r *Registry) ResolveFor(sample any) (command.ParameterType, bool) {
	return r.Resolve(reflect.TypeOf(sample))
}
