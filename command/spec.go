package command

// NodeSpec describes one node of a command signature. Hosts build these
// however they like (builder calls, declarative tables, config) and hand
// the ordered sequence to the registration layer.
type NodeSpec struct {
	Literal string // set for literal nodes; all other fields ignored

	Param       string // parameter name
	Type        ParameterType
	Optional    bool
	Default     string
	HasDefault  bool
	Flag        bool
	Switch      bool
	Shorthand   byte
	Validators  []Validator
	Suggest     SuggestionProvider
	Permission  Permission
	Description string
}

// HandlerFunc is a bound command handler. Resolved arguments are read
// from the context by name or positionally via Context.Positional.
type HandlerFunc func(ctx *Context) error

// Spec describes one complete command signature to register.
type Spec struct {
	Nodes       []NodeSpec
	Handler     HandlerFunc
	Permission  Permission
	Description string
	Usage       string // overrides the auto-rendered usage when set
	Secret      bool
}

// Literal builds a literal (fixed keyword) node spec.
func Literal(name string) NodeSpec {
	return NodeSpec{Literal: name}
}

// Param builds a required parameter node spec.
func Param(name string, t ParameterType) NodeSpec {
	return NodeSpec{Param: name, Type: t}
}

// Optional builds an optional parameter node spec with no default.
func Optional(name string, t ParameterType) NodeSpec {
	return NodeSpec{Param: name, Type: t, Optional: true}
}

// Default builds an optional parameter node spec whose textual default is
// parsed through t when input runs out before the node.
func Default(name string, t ParameterType, def string) NodeSpec {
	return NodeSpec{Param: name, Type: t, Optional: true, Default: def, HasDefault: true}
}

// Flag builds a value-carrying flag node spec (`--name <value>`).
//
// Flags and switches are matched in declaration order: a flag token
// appearing earlier in the input than its declared position resolves
// the node as absent, and the token stays behind as unconsumed
// trailing input.
func Flag(name string, t ParameterType, shorthand byte) NodeSpec {
	return NodeSpec{Param: name, Type: t, Flag: true, Shorthand: shorthand}
}

// Switch builds a boolean presence node spec (`--name`). Matched in
// declaration order, like Flag.
func Switch(name string, shorthand byte) NodeSpec {
	return NodeSpec{Param: name, Switch: true, Shorthand: shorthand}
}

// Greedy builds a required parameter node spec intended for types that
// consume the remaining input, such as types.Greedy. Whether any input
// is left for later nodes is up to the given parameter type.
func Greedy(name string, t ParameterType) NodeSpec {
	return NodeSpec{Param: name, Type: t}
}
