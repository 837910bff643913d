package command

import "reflect"

// DependencyResolver looks up a host-supplied dependency by type.
// Returns false when no dependency of that type is registered.
type DependencyResolver func(t reflect.Type) (any, bool)

// Context is the mutable per-attempt state of one resolution attempt.
// It is created fresh for every candidate execution; only the winning
// attempt's context survives to handler invocation.
type Context struct {
	actor     Actor
	execution *Execution
	input     string
	arguments map[string]any
	order     []string // parameter names in declaration order
	deps      DependencyResolver
}

func newContext(execution *Execution, actor Actor, input string, deps DependencyResolver) *Context {
	return &Context{
		actor:     actor,
		execution: execution,
		input:     input,
		arguments: make(map[string]any),
		deps:      deps,
	}
}

// Actor returns the actor this attempt resolves for.
func (c *Context) Actor() Actor {
	return c.actor
}

// Execution returns the execution this context belongs to.
func (c *Context) Execution() *Execution {
	return c.execution
}

// Input returns the full raw input of the attempt.
func (c *Context) Input() string {
	return c.input
}

// Argument returns the resolved value for a parameter name.
func (c *Context) Argument(name string) (any, bool) {
	v, ok := c.arguments[name]
	return v, ok
}

// Positional returns the resolved parameter values in declaration order.
func (c *Context) Positional() []any {
	out := make([]any, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.arguments[name])
	}
	return out
}

// String returns the string value of a parameter, or defaultVal if the
// parameter is absent or not a string.
func (c *Context) String(name, defaultVal string) string {
	if v, ok := c.arguments[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultVal
}

// Int returns the integer value of a parameter, or defaultVal if the
// parameter is absent or not an int.
func (c *Context) Int(name string, defaultVal int) int {
	if v, ok := c.arguments[name]; ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return defaultVal
}

// Float64 returns the float value of a parameter, or defaultVal if the
// parameter is absent or not a float64.
func (c *Context) Float64(name string, defaultVal float64) float64 {
	if v, ok := c.arguments[name]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return defaultVal
}

// Bool returns the boolean value of a parameter (switches resolve to
// their presence), or defaultVal when absent.
func (c *Context) Bool(name string, defaultVal bool) bool {
	if v, ok := c.arguments[name]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}

// Resolve looks up a host-supplied dependency by type.
func (c *Context) Resolve(t reflect.Type) (any, bool) {
	if c.deps == nil {
		return nil, false
	}
	return c.deps(t)
}

func (c *Context) addResolvedArgument(name string, value any) {
	if _, seen := c.arguments[name]; !seen {
		c.order = append(c.order, name)
	}
	c.arguments[name] = value
}

func (c *Context) clearResolvedArguments() {
	c.arguments = make(map[string]any)
	c.order = nil
}
