package command

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/footprint-tools/lamp/stream"
)

// Execution is one fully compiled, invocable command signature: an
// ordered node sequence plus precomputed counts, permission, usage and
// the bound handler. Immutable after construction.
type Execution struct {
	id                 uuid.UUID
	nodes              []*Node
	size               int
	optionalParameters int
	requiredInput      int
	permission         Permission
	handler            HandlerFunc
	usage              string
	description        string
	secret             bool
}

// NewExecution compiles a declared signature into an Execution. The
// sequence must start with a literal node, and every parameter node that
// consumes input must carry a parameter type.
func NewExecution(spec Spec) (*Execution, error) {
	if len(spec.Nodes) == 0 {
		return nil, fmt.Errorf("command: empty node sequence")
	}
	if spec.Nodes[0].Literal == "" {
		return nil, fmt.Errorf("command: first node must be a literal")
	}
	if spec.Handler == nil {
		return nil, fmt.Errorf("command: missing handler")
	}

	e := &Execution{
		id:          uuid.New(),
		handler:     spec.Handler,
		description: spec.Description,
		secret:      spec.Secret,
	}

	perms := make([]Permission, 0, 1)
	if spec.Permission != nil {
		perms = append(perms, spec.Permission)
	}

	for i, ns := range spec.Nodes {
		node, err := buildNode(ns)
		if err != nil {
			return nil, fmt.Errorf("command: node %d: %w", i, err)
		}
		if node.Permission != nil {
			perms = append(perms, node.Permission)
		}
		if node.IsOptionalNode() {
			e.optionalParameters++
		} else {
			e.requiredInput++
		}
		e.nodes = append(e.nodes, node)
	}

	e.size = len(e.nodes)
	e.permission = combinePermissions(perms)
	e.usage = spec.Usage
	if e.usage == "" {
		e.usage = e.Path()
	}
	return e, nil
}

func buildNode(ns NodeSpec) (*Node, error) {
	if ns.Literal != "" {
		if strings.ContainsRune(ns.Literal, ' ') {
			return nil, fmt.Errorf("literal '%s' contains a space", ns.Literal)
		}
		return &Node{Kind: KindLiteral, Name: ns.Literal}, nil
	}
	if ns.Param == "" {
		return nil, fmt.Errorf("node is neither a literal nor a parameter")
	}
	if ns.Type == nil && !ns.Switch {
		return nil, fmt.Errorf("parameter '%s' has no type", ns.Param)
	}
	return &Node{
		Kind:        KindParameter,
		Name:        ns.Param,
		Description: ns.Description,
		Type:        ns.Type,
		Optional:    ns.Optional,
		Default:     ns.Default,
		HasDefault:  ns.HasDefault,
		Flag:        ns.Flag,
		Switch:      ns.Switch,
		Shorthand:   ns.Shorthand,
		Validators:  ns.Validators,
		Suggest:     ns.Suggest,
		Permission:  ns.Permission,
	}, nil
}

// combinePermissions ANDs all declared predicates. No predicates means
// always-allow.
func combinePermissions(perms []Permission) Permission {
	if len(perms) == 0 {
		return func(Actor) bool { return true }
	}
	if len(perms) == 1 {
		return perms[0]
	}
	return func(a Actor) bool {
		for _, p := range perms {
			if !p(a) {
				return false
			}
		}
		return true
	}
}

// ID returns the execution's unique identity, assigned at construction.
func (e *Execution) ID() uuid.UUID { return e.id }

// Size returns the number of nodes in the signature.
func (e *Execution) Size() int { return e.size }

// OptionalParameters returns the count of nodes that never require input.
func (e *Execution) OptionalParameters() int { return e.optionalParameters }

// RequiredInput returns the count of nodes that must consume input.
func (e *Execution) RequiredInput() int { return e.requiredInput }

// Nodes returns the node sequence. Callers must not mutate it.
func (e *Execution) Nodes() []*Node { return e.nodes }

// FirstNode returns the root literal of the signature.
func (e *Execution) FirstNode() *Node { return e.nodes[0] }

// LastNode returns the leaf node of the signature.
func (e *Execution) LastNode() *Node { return e.nodes[e.size-1] }

// Description returns the declared description, possibly empty.
func (e *Execution) Description() string { return e.description }

// Usage returns the usage string: the declared override when present,
// otherwise the auto-rendered path.
func (e *Execution) Usage() string { return e.usage }

// IsSecret reports whether the command is excluded from listings.
func (e *Execution) IsSecret() bool { return e.secret }

// Handler returns the bound handler function.
func (e *Execution) Handler() HandlerFunc { return e.handler }

// Allowed reports whether the actor passes the combined permission
// predicate of the signature.
func (e *Execution) Allowed(actor Actor) bool {
	return e.permission(actor)
}

// Path renders the signature as `root <required> [optional]` tokens.
func (e *Execution) Path() string {
	parts := make([]string, 0, e.size)
	for _, n := range e.nodes {
		parts = append(parts, n.usageToken())
	}
	return strings.Join(parts, " ")
}

func (e *Execution) String() string {
	return "Execution(path='" + e.Path() + "')"
}

// Compare orders two executions for ranking among successful attempts.
// A negative result means e ranks above o:
//
//  1. when one signature minus its required input spans the other's full
//     size and the leaves differ in optionality, the required leaf wins;
//  2. otherwise longer signatures rank above shorter ones;
//  3. remaining ties break on leaf node ordering.
func (e *Execution) Compare(o *Execution) int {
	if e.size-e.requiredInput == o.size || o.size-o.requiredInput == e.size {
		eo, oo := e.LastNode().IsOptionalNode(), o.LastNode().IsOptionalNode()
		if eo != oo {
			if eo {
				return 1
			}
			return -1
		}
	}
	if r := o.size - e.size; r != 0 {
		return r
	}
	return e.LastNode().Compare(o.LastNode())
}

// Test attempts to match this execution against the given input stream,
// producing the attempt's Potential. The stream is consumed as far as the
// attempt reaches; callers hand each candidate its own fork.
func (e *Execution) Test(actor Actor, in *stream.Stream, deps DependencyResolver) *Potential {
	p := &Potential{
		execution: e,
		context:   newContext(e, actor, in.Input(), deps),
	}
	p.test(in)
	return p
}
