// Package types provides the built-in parameter types and the registry
// that maps Go value types to the parsers producing them.
package types

import (
	"fmt"
	"strings"

	"github.com/footprint-tools/lamp/command"
	"github.com/footprint-tools/lamp/stream"
)

type stringType struct{}
type wordType struct{}
type greedyType struct{}
type boolType struct{}
type int8Type struct{}
type int16Type struct{}
type intType struct{}
type int64Type struct{}
type float32Type struct{}
type float64Type struct{}

// String parses a single token, honoring double quotes.
func String() command.ParameterType { return stringType{} }

// Word parses a single unquoted token.
func Word() command.ParameterType { return wordType{} }

// Greedy consumes the remaining input as one string.
func Greedy() command.ParameterType { return greedyType{} }

// Bool parses true/false (also on/off, yes/no).
func Bool() command.ParameterType { return boolType{} }

// Int8 parses an 8-bit integer.
func Int8() command.ParameterType { return int8Type{} }

// Int16 parses a 16-bit integer.
func Int16() command.ParameterType { return int16Type{} }

// Int parses a platform-sized integer.
func Int() command.ParameterType { return intType{} }

// Int64 parses a 64-bit integer.
func Int64() command.ParameterType { return int64Type{} }

// Float32 parses a 32-bit float.
func Float32() command.ParameterType { return float32Type{} }

// Float64 parses a 64-bit float.
func Float64() command.ParameterType { return float64Type{} }

func (stringType) Parse(in *stream.Stream, _ *command.Context) (any, error) {
	return in.ReadString()
}

func (wordType) Parse(in *stream.Stream, _ *command.Context) (any, error) {
	if in.HasFinished() {
		return nil, stream.Exhausted(in.Position())
	}
	return in.ReadUnquotedString(), nil
}

func (greedyType) Parse(in *stream.Stream, _ *command.Context) (any, error) {
	if in.HasFinished() {
		return nil, stream.Exhausted(in.Position())
	}
	return in.ReadRemaining(), nil
}

func (boolType) Parse(in *stream.Stream, _ *command.Context) (any, error) {
	pos := in.Position()
	tok := in.PeekUnquotedString()
	switch strings.ToLower(tok) {
	case "true", "on", "yes":
		in.ReadUnquotedString()
		return true, nil
	case "false", "off", "no":
		in.ReadUnquotedString()
		return false, nil
	case "":
		return nil, stream.Exhausted(pos)
	default:
		return nil, fmt.Errorf("expected true or false, found '%s'", tok)
	}
}

func (boolType) DefaultSuggestions() []string {
	return []string{"true", "false"}
}

func (int8Type) Parse(in *stream.Stream, _ *command.Context) (any, error) {
	return in.ReadInt8()
}

func (int16Type) Parse(in *stream.Stream, _ *command.Context) (any, error) {
	return in.ReadInt16()
}

func (intType) Parse(in *stream.Stream, _ *command.Context) (any, error) {
	return in.ReadInt()
}

func (int64Type) Parse(in *stream.Stream, _ *command.Context) (any, error) {
	return in.ReadInt64()
}

func (float32Type) Parse(in *stream.Stream, _ *command.Context) (any, error) {
	return in.ReadFloat32()
}

func (float64Type) Parse(in *stream.Stream, _ *command.Context) (any, error) {
	return in.ReadFloat64()
}

// Narrower numeric types outrank wider ones: when overlapping textual
// forms tie, the most specific representation wins.
func (int8Type) Priority() command.PrioritySpec {
	return command.HigherThan(int16Type{}, intType{}, int64Type{}, float32Type{}, float64Type{})
}

func (int16Type) Priority() command.PrioritySpec {
	return command.HigherThan(intType{}, int64Type{}, float32Type{}, float64Type{})
}

func (intType) Priority() command.PrioritySpec {
	return command.HigherThan(int64Type{}, float32Type{}, float64Type{})
}

func (int64Type) Priority() command.PrioritySpec {
	return command.HigherThan(float32Type{}, float64Type{})
}

func (float32Type) Priority() command.PrioritySpec {
	return command.HigherThan(float64Type{})
}
