package stream

import "fmt"

// ErrorKind represents the type of stream read error.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrNumberFormat
	ErrExhausted
	ErrNotQuoted
	ErrUnterminatedQuote
)

// Error is a structured read failure carrying the cursor position at
// which the failed read started.
type Error struct {
	Kind     ErrorKind
	Message  string
	Position int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// NumberFormat is returned when a token is not representable as the
// requested numeric type.
func NumberFormat(token string, pos int) *Error {
	return &Error{
		Kind:     ErrNumberFormat,
		Message:  fmt.Sprintf("invalid number '%s'", token),
		Position: pos,
	}
}

// Exhausted is returned when a read starts at the end of input.
func Exhausted(pos int) *Error {
	return &Error{
		Kind:     ErrExhausted,
		Message:  "unexpected end of input",
		Position: pos,
	}
}

// NotQuoted is returned when ReadQuotedString is called off a quote.
func NotQuoted(pos int) *Error {
	return &Error{
		Kind:     ErrNotQuoted,
		Message:  "expected a double-quoted string",
		Position: pos,
	}
}

// UnterminatedQuote is returned when a quoted string is never closed.
func UnterminatedQuote(pos int) *Error {
	return &Error{
		Kind:     ErrUnterminatedQuote,
		Message:  "unterminated quoted string",
		Position: pos,
	}
}

// Verify Error implements the error interface.
var _ error = (*Error)(nil)
