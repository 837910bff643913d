package types

import (
	"fmt"
	"reflect"

	"github.com/footprint-tools/lamp/command"
	"github.com/footprint-tools/lamp/stream"
)

type actorType struct{}

type dependencyType struct {
	target reflect.Type
}

type contextualFunc struct {
	resolve func(ctx *command.Context) (any, error)
}

// ActorValue resolves to the actor of the current attempt without
// consuming input.
func ActorValue() command.ParameterType { return actorType{} }

// Dependency resolves a host-registered dependency of the same type as
// sample, without consuming input.
func Dependency(sample any) command.ParameterType {
	return dependencyType{target: reflect.TypeOf(sample)}
}

// Contextual wraps an arbitrary resolver as a non-consuming parameter
// type.
func Contextual(resolve func(ctx *command.Context) (any, error)) command.ParameterType {
	return contextualFunc{resolve: resolve}
}

func (actorType) Parse(_ *stream.Stream, ctx *command.Context) (any, error) {
	return ctx.Actor(), nil
}

func (actorType) ConsumesInput() bool { return false }

func (d dependencyType) Parse(_ *stream.Stream, ctx *command.Context) (any, error) {
	v, ok := ctx.Resolve(d.target)
	if !ok {
		return nil, fmt.Errorf("no dependency registered for type %v", d.target)
	}
	return v, nil
}

func (dependencyType) ConsumesInput() bool { return false }

func (c contextualFunc) Parse(_ *stream.Stream, ctx *command.Context) (any, error) {
	return c.resolve(ctx)
}

func (contextualFunc) ConsumesInput() bool { return false }

var (
	_ command.ContextualParameterType = actorType{}
	_ command.ContextualParameterType = dependencyType{}
	_ command.ContextualParameterType = contextualFunc{}
)
