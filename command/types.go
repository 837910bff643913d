package command

import (
	"reflect"

	"github.com/footprint-tools/lamp/stream"
)

// ParameterType parses stream input into a typed value. Implementations
// must not restore the cursor themselves on failure; the resolution walk
// rewinds to the pre-node position whenever Parse returns an error.
type ParameterType interface {
	Parse(in *stream.Stream, ctx *Context) (any, error)
}

// ContextualParameterType is a ParameterType that may resolve its value
// from the execution context without consuming input. When ConsumesInput
// returns false the resolution walk skips separator handling for the node.
type ContextualParameterType interface {
	ParameterType
	ConsumesInput() bool
}

// Prioritized is implemented by parameter types that declare a ranking
// against other types. The ranking is a partial order used only for
// tie-breaking between overlapping textual forms, never for primary
// dispatch.
type Prioritized interface {
	Priority() PrioritySpec
}

// Suggester is implemented by parameter types that carry default
// completion values (e.g. the two boolean literals, enum constants).
type Suggester interface {
	DefaultSuggestions() []string
}

// PrioritySpec declares which parameter types a type outranks.
type PrioritySpec struct {
	higherThan []reflect.Type
}

// HigherThan builds a PrioritySpec ranking the owner above every given
// parameter type instance.
func HigherThan(others ...ParameterType) PrioritySpec {
	ts := make([]reflect.Type, 0, len(others))
	for _, o := range others {
		ts = append(ts, reflect.TypeOf(o))
	}
	return PrioritySpec{higherThan: ts}
}

// Outranks reports whether the owner of this spec ranks above other.
func (p PrioritySpec) Outranks(other ParameterType) bool {
	if other == nil {
		return false
	}
	ot := reflect.TypeOf(other)
	for _, t := range p.higherThan {
		if t == ot {
			return true
		}
	}
	return false
}

// comparePriority orders two parameter types by their declared priority.
// Returns a negative value when a outranks b, positive when b outranks a,
// zero when the partial order says nothing.
func comparePriority(a, b ParameterType) int {
	pa, aok := a.(Prioritized)
	pb, bok := b.(Prioritized)
	if aok && pa.Priority().Outranks(b) {
		return -1
	}
	if bok && pb.Priority().Outranks(a) {
		return 1
	}
	return 0
}
