package command

import (
	"github.com/footprint-tools/lamp/stream"
)

// Potential is the verdict of matching one execution against one input:
// either a successful attempt with a fully populated context, or a
// failure carrying the first error the walk ran into. An attempt is
// single-pass and deterministic; there are no retries.
type Potential struct {
	execution   *Execution
	context     *Context
	ok          bool
	consumedAll bool
	err         *Error
}

// Execution returns the execution this attempt was matched against.
func (p *Potential) Execution() *Execution {
	return p.execution
}

// Context returns the attempt's execution context. It is only fully
// populated when the attempt succeeded.
func (p *Potential) Context() *Context {
	return p.context
}

// Successful reports whether every node of the signature parsed.
func (p *Potential) Successful() bool {
	return p.ok
}

// Failed reports whether the attempt ran into an error.
func (p *Potential) Failed() bool {
	return !p.ok
}

// ConsumedAllInput reports whether the walk reached end-of-input.
func (p *Potential) ConsumedAllInput() bool {
	return p.consumedAll
}

// Err returns the attempt's terminal error, nil on success.
func (p *Potential) Err() *Error {
	return p.err
}

// Compare orders two attempt verdicts; negative means p ranks above o.
// Consuming all input beats not consuming it, then execution ordering
// decides.
func (p *Potential) Compare(o *Potential) int {
	if p.consumedAll != o.consumedAll {
		if p.consumedAll {
			return -1
		}
		return 1
	}
	return p.execution.Compare(o.execution)
}

func (p *Potential) String() string {
	if p.ok {
		return "Potential(path=" + p.execution.Path() + ", success=true)"
	}
	return "Potential(path=" + p.execution.Path() + ", success=false, error=" + p.err.Error() + ")"
}

// test walks the node sequence against the input, recording the first
// failure as the attempt's terminal error.
func (p *Potential) test(in *stream.Stream) {
	for _, node := range p.execution.nodes {
		if !p.tryParse(node, in) {
			p.context.clearResolvedArguments()
			return
		}
	}
	p.ok = true
	p.consumedAll = in.HasFinished()
}

func (p *Potential) tryParse(node *Node, in *stream.Stream) bool {
	if node.Kind == KindParameter {
		if ct, ok := node.Type.(ContextualParameterType); ok && !ct.ConsumesInput() {
			return p.parseContextual(node, in)
		}
	}

	// Exactly one space separates consecutive nodes. A second one is a
	// malformed separator, not the next node's problem.
	prePos := in.Position()
	if in.HasRemaining() && in.Peek() == ' ' {
		in.MoveForward()
		if in.HasRemaining() && in.Peek() == ' ' {
			p.fail(WhitespaceExpected(node, in.Position()), in, prePos)
			return false
		}
	}
	pos := in.Position()

	if node.Kind == KindLiteral {
		value := in.ReadUnquotedString()
		if node.Matches(value) {
			return p.checkForSpace(node, in, pos)
		}
		p.fail(ExpectedLiteral(node, value, pos), in, pos)
		return false
	}

	if in.HasFinished() {
		return p.parseAbsent(node, in, pos)
	}

	switch {
	case node.Switch:
		return p.parseSwitch(node, in, prePos, pos)
	case node.Flag:
		return p.parseFlag(node, in, prePos, pos)
	default:
		return p.parseValue(node, in, pos)
	}
}

// parseValue runs the node's parameter type and validators against input.
func (p *Potential) parseValue(node *Node, in *stream.Stream, pos int) bool {
	value, err := node.Type.Parse(in, p.context)
	if err != nil {
		p.fail(classify(node, pos, err), in, pos)
		return false
	}
	if err := p.validate(node, value); err != nil {
		p.fail(ValidationRejected(node, pos, err), in, pos)
		return false
	}
	p.context.addResolvedArgument(node.Name, value)
	return p.checkForSpace(node, in, pos)
}

// parseAbsent handles a parameter node reached after input ran out: the
// execution layer supplies the fallback for optional nodes, required
// nodes fail with a stream-exhaustion error.
func (p *Potential) parseAbsent(node *Node, in *stream.Stream, pos int) bool {
	if node.Switch {
		p.context.addResolvedArgument(node.Name, false)
		return true
	}
	if node.IsOptionalNode() {
		return p.applyDefault(node, in, pos)
	}
	p.fail(InputExhausted(node, pos), in, pos)
	return false
}

func (p *Potential) parseSwitch(node *Node, in *stream.Stream, prePos, pos int) bool {
	token := in.PeekUnquotedString()
	if !matchesFlagToken(node, token) {
		// Not present. Give the separator back to the next node.
		in.SetPosition(prePos)
		p.context.addResolvedArgument(node.Name, false)
		return true
	}
	in.ReadUnquotedString()
	p.context.addResolvedArgument(node.Name, true)
	return p.checkForSpace(node, in, pos)
}

func (p *Potential) parseFlag(node *Node, in *stream.Stream, prePos, pos int) bool {
	token := in.PeekUnquotedString()
	if !matchesFlagToken(node, token) {
		in.SetPosition(prePos)
		return p.applyDefault(node, in, pos)
	}
	in.ReadUnquotedString()
	if in.HasFinished() {
		p.fail(InputExhausted(node, in.Position()), in, pos)
		return false
	}
	if in.Peek() != ' ' {
		p.fail(WhitespaceExpected(node, in.Position()), in, pos)
		return false
	}
	in.MoveForward()
	return p.parseValue(node, in, in.Position())
}

// applyDefault resolves an optional node that consumed no input: the
// declared textual default is parsed through the parameter type, or the
// argument resolves to nil when no default was declared.
func (p *Potential) applyDefault(node *Node, in *stream.Stream, pos int) bool {
	if !node.HasDefault {
		p.context.addResolvedArgument(node.Name, nil)
		return true
	}
	value, err := node.Type.Parse(stream.New(node.Default), p.context)
	if err != nil {
		p.fail(ParameterParse(node, pos, err), in, pos)
		return false
	}
	if err := p.validate(node, value); err != nil {
		p.fail(ValidationRejected(node, pos, err), in, pos)
		return false
	}
	p.context.addResolvedArgument(node.Name, value)
	return true
}

func (p *Potential) parseContextual(node *Node, in *stream.Stream) bool {
	pos := in.Position()
	value, err := node.Type.Parse(in, p.context)
	if err != nil {
		p.fail(classify(node, pos, err), in, pos)
		return false
	}
	p.context.addResolvedArgument(node.Name, value)
	return true
}

// matchesFlagToken matches `--name` and the single-letter `-x` shorthand.
func matchesFlagToken(node *Node, token string) bool {
	if token == "--"+node.Name {
		return true
	}
	return node.Shorthand != 0 && len(token) == 2 &&
		token[0] == '-' && token[1] == node.Shorthand
}

func (p *Potential) validate(node *Node, value any) error {
	for _, v := range node.Validators {
		if err := v(p.context.actor, value); err != nil {
			return err
		}
	}
	return nil
}

// checkForSpace rejects input where the consumed node is not followed by
// a space. Catching this here keeps malformed spacing from being blamed
// on the next node.
func (p *Potential) checkForSpace(node *Node, in *stream.Stream, pos int) bool {
	if in.HasRemaining() && in.Peek() != ' ' {
		p.fail(WhitespaceExpected(node, in.Position()), in, pos)
		return false
	}
	return true
}

// fail records the attempt's terminal error and restores the cursor to
// the failed node's start position.
func (p *Potential) fail(err *Error, in *stream.Stream, pos int) {
	in.SetPosition(pos)
	p.err = err
}
