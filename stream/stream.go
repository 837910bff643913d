// Package stream provides a mutable cursor over raw command input.
//
// A Stream never rolls back on its own: read operations advance the cursor
// only when they succeed, and callers that probe speculatively must save
// Position() beforehand and restore it with SetPosition() on failure.
package stream

import (
	"strconv"
	"strings"
)

// Stream wraps an input string with a mutable cursor position.
type Stream struct {
	input string
	pos   int
}

// New creates a Stream positioned at the start of input.
func New(input string) *Stream {
	return &Stream{input: input}
}

// Input returns the full underlying input string.
func (s *Stream) Input() string {
	return s.input
}

// Position returns the current cursor position.
func (s *Stream) Position() int {
	return s.pos
}

// SetPosition moves the cursor to pos, clamped to the input bounds.
func (s *Stream) SetPosition(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(s.input) {
		pos = len(s.input)
	}
	s.pos = pos
}

// HasRemaining reports whether any input is left to consume.
func (s *Stream) HasRemaining() bool {
	return s.pos < len(s.input)
}

// HasFinished reports whether the cursor reached the end of input.
func (s *Stream) HasFinished() bool {
	return s.pos >= len(s.input)
}

// Remaining returns the number of unconsumed bytes.
func (s *Stream) Remaining() int {
	return len(s.input) - s.pos
}

// Peek returns the byte at the cursor without consuming it.
// Returns 0 when the stream has finished.
func (s *Stream) Peek() byte {
	if s.HasFinished() {
		return 0
	}
	return s.input[s.pos]
}

// MoveForward advances the cursor by one byte, if any input remains.
func (s *Stream) MoveForward() {
	if s.pos < len(s.input) {
		s.pos++
	}
}

// ReadUnquotedString consumes characters up to (not including) the next
// space or the end of input. It may return an empty string if the cursor
// sits on a space or the stream has finished.
func (s *Stream) ReadUnquotedString() string {
	start := s.pos
	for s.pos < len(s.input) && s.input[s.pos] != ' ' {
		s.pos++
	}
	return s.input[start:s.pos]
}

// ReadQuotedString consumes a double-quoted string, honoring backslash
// escapes for the quote and the backslash itself. The cursor must sit on
// the opening quote. On any failure the cursor is left untouched.
func (s *Stream) ReadQuotedString() (string, error) {
	if s.HasFinished() || s.input[s.pos] != '"' {
		return "", NotQuoted(s.pos)
	}
	var b strings.Builder
	i := s.pos + 1
	escaped := false
	for i < len(s.input) {
		c := s.input[i]
		switch {
		case escaped:
			b.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			s.pos = i + 1
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
		i++
	}
	return "", UnterminatedQuote(s.pos)
}

// ReadString consumes a quoted string when the cursor sits on a quote,
// otherwise an unquoted token.
func (s *Stream) ReadString() (string, error) {
	if s.HasRemaining() && s.input[s.pos] == '"' {
		return s.ReadQuotedString()
	}
	return s.ReadUnquotedString(), nil
}

// ReadRemaining consumes everything from the cursor to the end of input.
func (s *Stream) ReadRemaining() string {
	rest := s.input[s.pos:]
	s.pos = len(s.input)
	return rest
}

// PeekUnquotedString returns the next unquoted token without consuming it.
func (s *Stream) PeekUnquotedString() string {
	end := s.pos
	for end < len(s.input) && s.input[end] != ' ' {
		end++
	}
	return s.input[s.pos:end]
}

// readNumberToken scans the next unquoted token without committing the
// cursor. commit() consumes it after the caller parsed it successfully.
func (s *Stream) readNumberToken() (token string, commit func()) {
	end := s.pos
	for end < len(s.input) && s.input[end] != ' ' {
		end++
	}
	token = s.input[s.pos:end]
	return token, func() { s.pos = end }
}

// ReadInt consumes the next token as a decimal integer.
func (s *Stream) ReadInt() (int, error) {
	tok, commit := s.readNumberToken()
	if tok == "" {
		return 0, Exhausted(s.pos)
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, NumberFormat(tok, s.pos)
	}
	commit()
	return v, nil
}

// ReadInt8 consumes the next token as an 8-bit integer.
func (s *Stream) ReadInt8() (int8, error) {
	v, err := s.readBits(8)
	return int8(v), err
}

// ReadInt16 consumes the next token as a 16-bit integer.
func (s *Stream) ReadInt16() (int16, error) {
	v, err := s.readBits(16)
	return int16(v), err
}

// ReadInt32 consumes the next token as a 32-bit integer.
func (s *Stream) ReadInt32() (int32, error) {
	v, err := s.readBits(32)
	return int32(v), err
}

// ReadInt64 consumes the next token as a 64-bit integer.
func (s *Stream) ReadInt64() (int64, error) {
	return s.readBits(64)
}

func (s *Stream) readBits(bits int) (int64, error) {
	tok, commit := s.readNumberToken()
	if tok == "" {
		return 0, Exhausted(s.pos)
	}
	v, err := strconv.ParseInt(tok, 10, bits)
	if err != nil {
		return 0, NumberFormat(tok, s.pos)
	}
	commit()
	return v, nil
}

// ReadFloat32 consumes the next token as a 32-bit float.
func (s *Stream) ReadFloat32() (float32, error) {
	tok, commit := s.readNumberToken()
	if tok == "" {
		return 0, Exhausted(s.pos)
	}
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, NumberFormat(tok, s.pos)
	}
	commit()
	return float32(v), nil
}

// ReadFloat64 consumes the next token as a 64-bit float.
func (s *Stream) ReadFloat64() (float64, error) {
	tok, commit := s.readNumberToken()
	if tok == "" {
		return 0, Exhausted(s.pos)
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, NumberFormat(tok, s.pos)
	}
	commit()
	return v, nil
}

// Fork returns an independent Stream over the same input, positioned at
// the start. Candidates probing the same input each get their own fork so
// partial consumption never leaks between attempts.
func (s *Stream) Fork() *Stream {
	return &Stream{input: s.input}
}
