// Package command implements the command-node tree and the execution
// model built on top of it: literal and parameter nodes, compiled
// executions, per-attempt contexts and the potential (attempt verdict)
// produced by matching an execution against raw input.
package command

import "strings"

// NodeKind distinguishes the two node variants.
type NodeKind int

const (
	KindLiteral NodeKind = iota
	KindParameter
)

// Actor is whoever issued the command. Platform adapters wrap their own
// sender types behind this interface.
type Actor interface {
	Name() string
	Reply(message string)
}

// Validator inspects a parsed value after its parameter type accepted it.
// A non-nil error vetoes the whole resolution attempt.
type Validator func(actor Actor, value any) error

// SuggestionProvider supplies completion candidates for a parameter node.
// The core stores providers but does no completion wiring of its own.
type SuggestionProvider func(ctx *Context) []string

// Permission gates an execution for a given actor. A nil Permission
// always allows.
type Permission func(actor Actor) bool

// Node is one element of an execution's signature: either a fixed
// keyword (KindLiteral) or a typed input slot (KindParameter).
// Nodes hold no children; an Execution owns its ordered node sequence.
type Node struct {
	Kind        NodeKind
	Name        string
	Description string

	// Parameter-only fields.
	Type       ParameterType
	Optional   bool
	Default    string // textual default, parsed through Type when input runs out
	HasDefault bool
	Flag       bool
	Switch     bool
	Shorthand  byte // 0 when no shorthand is declared
	Validators []Validator
	Suggest    SuggestionProvider
	Permission Permission
}

// IsLiteral reports whether this node is a fixed keyword.
func (n *Node) IsLiteral() bool {
	return n.Kind == KindLiteral
}

// IsParameter reports whether this node is a typed input slot.
func (n *Node) IsParameter() bool {
	return n.Kind == KindParameter
}

// IsOptionalNode reports whether the node never requires input: optional
// parameters, parameters with a default, and flags/switches.
func (n *Node) IsOptionalNode() bool {
	if n.Kind != KindParameter {
		return false
	}
	return n.Optional || n.HasDefault || n.Flag || n.Switch
}

// Matches reports whether token matches this literal, case-insensitively.
func (n *Node) Matches(token string) bool {
	return n.Kind == KindLiteral && strings.EqualFold(n.Name, token)
}

// Compare orders two nodes for deterministic tie-breaking: literals rank
// above parameters, literals among themselves order by name, parameters
// by their types' declared priority and then by name.
func (n *Node) Compare(o *Node) int {
	if n.Kind != o.Kind {
		if n.Kind == KindLiteral {
			return -1
		}
		return 1
	}
	if n.Kind == KindParameter {
		if no, oo := n.IsOptionalNode(), o.IsOptionalNode(); no != oo {
			if no {
				return 1
			}
			return -1
		}
		if r := comparePriority(n.Type, o.Type); r != 0 {
			return r
		}
	}
	return strings.Compare(n.Name, o.Name)
}

// usageToken renders the node for an auto-generated usage string.
func (n *Node) usageToken() string {
	switch {
	case n.Kind == KindLiteral:
		return n.Name
	case n.Switch:
		return "[--" + n.Name + "]"
	case n.Flag:
		return "[--" + n.Name + " <" + n.Name + ">]"
	case n.IsOptionalNode():
		return "[" + n.Name + "]"
	default:
		return "<" + n.Name + ">"
	}
}

// Suggestions returns completion candidates for this node: the node's own
// provider when set, otherwise the parameter type's default suggestions.
func (n *Node) Suggestions(ctx *Context) []string {
	if n.Suggest != nil {
		return n.Suggest(ctx)
	}
	if s, ok := n.Type.(Suggester); ok {
		return s.DefaultSuggestions()
	}
	return nil
}
