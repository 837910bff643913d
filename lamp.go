// Package lamp is a command-parsing and dispatch library. Hosts declare
// commands as ordered node sequences (literals and typed parameters),
// and Lamp parses raw input against every registered signature, selects
// the best match and invokes the bound handler.
package lamp

import (
	"errors"
	"reflect"
	"sort"

	"github.com/footprint-tools/lamp/command"
	"github.com/footprint-tools/lamp/hooks"
	"github.com/footprint-tools/lamp/internal/log"
	"github.com/footprint-tools/lamp/types"
)

// ErrRegistrationCancelled is returned when a registration hook
// suppressed the registration.
var ErrRegistrationCancelled = errors.New("lamp: registration cancelled by hook")

// ErrUnregistrationCancelled is returned when an unregistration hook
// suppressed the removal.
var ErrUnregistrationCancelled = errors.New("lamp: unregistration cancelled by hook")

// Lamp holds the registered command set, the parameter type registry,
// the hook registry and host-supplied dependencies. Registration and
// dispatch are safe to call from concurrent goroutines.
type Lamp struct {
	registry             *registry
	hooks                *hooks.Registry
	types                *types.Registry
	deps                 map[reflect.Type]any
	skipPostHooksOnError bool
}

// Builder assembles a Lamp instance.
type Builder struct {
	hooks                *hooks.Registry
	types                *types.Registry
	deps                 map[reflect.Type]any
	skipPostHooksOnError bool
}

// NewBuilder creates a Builder with the built-in parameter types and an
// empty hook registry.
func NewBuilder() *Builder {
	return &Builder{
		hooks: hooks.NewRegistry(),
		types: types.NewRegistry(),
		deps:  make(map[reflect.Type]any),
	}
}

// Hooks exposes the hook registry for configuration.
func (b *Builder) Hooks() *hooks.Registry {
	return b.hooks
}

// Types exposes the parameter type registry for configuration.
func (b *Builder) Types() *types.Registry {
	return b.types
}

// Dependency registers a host dependency, looked up by its dynamic type
// from execution contexts.
func (b *Builder) Dependency(value any) *Builder {
	b.deps[reflect.TypeOf(value)] = value
	return b
}

// SkipPostHooksOnError makes post-execution hooks run only for
// successful handlers. By default they run unconditionally.
func (b *Builder) SkipPostHooksOnError() *Builder {
	b.skipPostHooksOnError = true
	return b
}

// Build creates the Lamp instance.
func (b *Builder) Build() *Lamp {
	return &Lamp{
		registry:             newRegistry(),
		hooks:                b.hooks,
		types:                b.types,
		deps:                 b.deps,
		skipPostHooksOnError: b.skipPostHooksOnError,
	}
}

// New creates a Lamp with default configuration.
func New() *Lamp {
	return NewBuilder().Build()
}

// Hooks returns the hook registry.
func (l *Lamp) Hooks() *hooks.Registry {
	return l.hooks
}

// Types returns the parameter type registry.
func (l *Lamp) Types() *types.Registry {
	return l.types
}

// Registration is the handle returned for a registered command.
type Registration struct {
	lamp      *Lamp
	execution *command.Execution
}

// Execution returns the compiled command behind this handle.
func (r *Registration) Execution() *command.Execution {
	return r.execution
}

// Unregister removes the command from its Lamp instance. Returns
// ErrUnregistrationCancelled when a hook suppressed the removal.
func (r *Registration) Unregister() error {
	return r.lamp.unregister(r.execution)
}

// Register compiles a declared signature and adds it to the command set.
// Registration hooks observe the new command and may cancel it, in which
// case ErrRegistrationCancelled is returned and no bookkeeping happens.
func (l *Lamp) Register(spec command.Spec) (*Registration, error) {
	execution, err := command.NewExecution(spec)
	if err != nil {
		return nil, err
	}
	if !l.hooks.CommandRegistered(execution) {
		log.Debug("lamp: registration of '%s' cancelled by hook", execution.Path())
		return nil, ErrRegistrationCancelled
	}
	if err := l.registry.add(execution); err != nil {
		return nil, err
	}
	log.Debug("lamp: registered '%s' (%s)", execution.Path(), execution.ID())
	return &Registration{lamp: l, execution: execution}, nil
}

// RegisterAll registers every spec, stopping at the first failure.
func (l *Lamp) RegisterAll(specs ...command.Spec) ([]*Registration, error) {
	regs := make([]*Registration, 0, len(specs))
	for _, s := range specs {
		reg, err := l.Register(s)
		if err != nil {
			return regs, err
		}
		regs = append(regs, reg)
	}
	return regs, nil
}

func (l *Lamp) unregister(e *command.Execution) error {
	if !l.hooks.CommandUnregistered(e) {
		log.Debug("lamp: unregistration of '%s' cancelled by hook", e.Path())
		return ErrUnregistrationCancelled
	}
	if !l.registry.remove(e) {
		return errors.New("lamp: command is not registered")
	}
	log.Debug("lamp: unregistered '%s'", e.Path())
	return nil
}

// Executions returns a snapshot of all registered commands, ordered by
// path for stable listings.
func (l *Lamp) Executions() []*command.Execution {
	all := l.registry.all()
	sort.Slice(all, func(i, j int) bool {
		return all[i].Path() < all[j].Path()
	})
	return all
}

// resolveDependency implements the lookup-by-type contract handed to
// execution contexts.
func (l *Lamp) resolveDependency(t reflect.Type) (any, bool) {
	v, ok := l.deps[t]
	return v, ok
}
