package types

import (
	"fmt"
	"strings"

	"github.com/footprint-tools/lamp/command"
	"github.com/footprint-tools/lamp/stream"
)

type enumType struct {
	values []string
}

// Enum parses a single token that must case-insensitively match one of
// the given constants. The canonical (declared) spelling is resolved.
func Enum(values ...string) command.ParameterType {
	return enumType{values: values}
}

func (e enumType) Parse(in *stream.Stream, _ *command.Context) (any, error) {
	if in.HasFinished() {
		return nil, stream.Exhausted(in.Position())
	}
	pos := in.Position()
	tok := in.ReadUnquotedString()
	for _, v := range e.values {
		if strings.EqualFold(v, tok) {
			return v, nil
		}
	}
	in.SetPosition(pos)
	return nil, fmt.Errorf("'%s' is not one of: %s", tok, strings.Join(e.values, ", "))
}

func (e enumType) DefaultSuggestions() []string {
	return e.values
}
