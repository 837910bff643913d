package command

import (
	"errors"
	"fmt"

	"github.com/footprint-tools/lamp/stream"
)

// ErrorKind represents the type of resolution error.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrStreamExhausted
	ErrLiteralMismatch
	ErrParameterParse
	ErrWhitespaceExpected
	ErrValidationRejected
	ErrUnknownCommand
	ErrPermissionDenied
)

// Error is a structured resolution failure. It identifies the node that
// failed and the cursor position the attempt had reached, so hosts can
// translate it into user-facing text.
type Error struct {
	Kind     ErrorKind
	Message  string
	Node     *Node // offending node, nil for pre-walk failures
	Position int   // cursor position of the failed node's start
	Cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ExpectedLiteral is returned when a token does not match a literal node.
func ExpectedLiteral(node *Node, found string, pos int) *Error {
	return &Error{
		Kind:     ErrLiteralMismatch,
		Message:  fmt.Sprintf("expected literal '%s', found '%s'", node.Name, found),
		Node:     node,
		Position: pos,
	}
}

// InputExhausted is returned when input ends before a required node.
func InputExhausted(node *Node, pos int) *Error {
	return &Error{
		Kind:     ErrStreamExhausted,
		Message:  fmt.Sprintf("input ended before required parameter '%s'", node.Name),
		Node:     node,
		Position: pos,
	}
}

// WhitespaceExpected is returned when nodes are not separated by exactly
// one space.
func WhitespaceExpected(node *Node, pos int) *Error {
	return &Error{
		Kind:     ErrWhitespaceExpected,
		Message:  "expected a single space between arguments",
		Node:     node,
		Position: pos,
	}
}

// ParameterParse wraps a parameter type's parse failure.
func ParameterParse(node *Node, pos int, cause error) *Error {
	return &Error{
		Kind:     ErrParameterParse,
		Message:  fmt.Sprintf("invalid value for parameter '%s': %v", node.Name, cause),
		Node:     node,
		Position: pos,
		Cause:    cause,
	}
}

// ValidationRejected wraps a validator's veto of a parsed value.
func ValidationRejected(node *Node, pos int, cause error) *Error {
	return &Error{
		Kind:     ErrValidationRejected,
		Message:  fmt.Sprintf("invalid value for parameter '%s': %v", node.Name, cause),
		Node:     node,
		Position: pos,
		Cause:    cause,
	}
}

// UnknownCommand is returned when no registered command matches the first
// input token. Suggestions, when present, are similarly named roots.
func UnknownCommand(name string, suggestions ...string) *Error {
	msg := fmt.Sprintf("unknown command '%s'", name)
	if len(suggestions) == 1 {
		msg += fmt.Sprintf(" (did you mean '%s'?)", suggestions[0])
	} else if len(suggestions) > 1 {
		msg += " (did you mean one of: "
		for i, s := range suggestions {
			if i > 0 {
				msg += ", "
			}
			msg += "'" + s + "'"
		}
		msg += "?)"
	}
	return &Error{Kind: ErrUnknownCommand, Message: msg}
}

// PermissionDenied is returned when the selected execution's permission
// predicate rejects the actor.
func PermissionDenied(actor Actor) *Error {
	return &Error{
		Kind:    ErrPermissionDenied,
		Message: fmt.Sprintf("'%s' is not allowed to run this command", actor.Name()),
	}
}

// classify converts an arbitrary parse failure into the attempt error
// recorded on a Potential, mapping stream exhaustion to its own kind.
func classify(node *Node, pos int, err error) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	var se *stream.Error
	if errors.As(err, &se) && se.Kind == stream.ErrExhausted {
		return InputExhausted(node, pos)
	}
	return ParameterParse(node, pos, err)
}

// Verify Error implements the error interface.
var _ error = (*Error)(nil)
