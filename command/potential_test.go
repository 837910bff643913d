package command_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/lamp/command"
	"github.com/footprint-tools/lamp/stream"
	"github.com/footprint-tools/lamp/types"
)

func greetExecution(t *testing.T) *command.Execution {
	return mustExecution(t, command.Spec{
		Nodes: []command.NodeSpec{
			command.Literal("greet"),
			command.Param("name", types.String()),
			command.Default("times", types.Int(), "1"),
		},
	})
}

func testPotential(t *testing.T, e *command.Execution, input string) *command.Potential {
	t.Helper()
	return e.Test(&testActor{name: "tester"}, stream.New(input), nil)
}

func TestPotential_FullInput(t *testing.T) {
	p := testPotential(t, greetExecution(t), "greet world 3")

	require.True(t, p.Successful())
	require.True(t, p.ConsumedAllInput())

	name, ok := p.Context().Argument("name")
	require.True(t, ok)
	require.Equal(t, "world", name)
	require.Equal(t, 3, p.Context().Int("times", 0))
}

func TestPotential_TrailingOptionalDefault(t *testing.T) {
	p := testPotential(t, greetExecution(t), "greet world")

	require.True(t, p.Successful())
	require.True(t, p.ConsumedAllInput())
	require.Equal(t, "world", p.Context().String("name", ""))
	require.Equal(t, 1, p.Context().Int("times", 0))
}

func TestPotential_StreamExhausted(t *testing.T) {
	p := testPotential(t, greetExecution(t), "greet")

	require.True(t, p.Failed())
	require.NotNil(t, p.Err())
	require.Equal(t, command.ErrStreamExhausted, p.Err().Kind)
	require.Equal(t, "name", p.Err().Node.Name)
}

func TestPotential_DoubleSpaceFails(t *testing.T) {
	p := testPotential(t, greetExecution(t), "greet  world")

	require.True(t, p.Failed())
	require.Equal(t, command.ErrWhitespaceExpected, p.Err().Kind)
}

func TestPotential_LiteralMismatch(t *testing.T) {
	e := mustExecution(t, command.Spec{
		Nodes: []command.NodeSpec{
			command.Literal("config"),
			command.Literal("set"),
			command.Param("key", types.Word()),
		},
	})

	p := testPotential(t, e, "config got color")
	require.True(t, p.Failed())
	require.Equal(t, command.ErrLiteralMismatch, p.Err().Kind)
	require.Equal(t, "set", p.Err().Node.Name)
	require.Contains(t, p.Err().Error(), "expected literal 'set', found 'got'")
}

func TestPotential_LiteralCaseInsensitive(t *testing.T) {
	p := testPotential(t, greetExecution(t), "GREET world")
	require.True(t, p.Successful())
}

func TestPotential_ParameterParseError(t *testing.T) {
	p := testPotential(t, greetExecution(t), "greet world abc")

	require.True(t, p.Failed())
	require.Equal(t, command.ErrParameterParse, p.Err().Kind)
	require.Equal(t, "times", p.Err().Node.Name)

	var se *stream.Error
	require.ErrorAs(t, p.Err(), &se)
	require.Equal(t, stream.ErrNumberFormat, se.Kind)
}

func TestPotential_MissingSeparatorAfterQuoted(t *testing.T) {
	e := mustExecution(t, command.Spec{
		Nodes: []command.NodeSpec{
			command.Literal("say"),
			command.Param("message", types.String()),
			command.Optional("loud", types.Bool()),
		},
	})

	p := testPotential(t, e, `say "hi"there`)
	require.True(t, p.Failed())
	require.Equal(t, command.ErrWhitespaceExpected, p.Err().Kind)
}

func TestPotential_ValidatorRejects(t *testing.T) {
	noBob := func(_ command.Actor, value any) error {
		if value == "bob" {
			return errors.New("bob is banned")
		}
		return nil
	}
	e := mustExecution(t, command.Spec{
		Nodes: []command.NodeSpec{
			command.Literal("kick"),
			{Param: "player", Type: types.Word(), Validators: []command.Validator{noBob}},
		},
	})

	p := testPotential(t, e, "kick bob")
	require.True(t, p.Failed())
	require.Equal(t, command.ErrValidationRejected, p.Err().Kind)

	p = testPotential(t, e, "kick alice")
	require.True(t, p.Successful())
}

func TestPotential_CursorRestoredToFailedNode(t *testing.T) {
	e := greetExecution(t)
	in := stream.New("greet world abc")
	p := e.Test(&testActor{name: "tester"}, in, nil)

	require.True(t, p.Failed())
	// The failing node's consumption was undone: the cursor sits at the
	// start of the token that failed to parse.
	require.Equal(t, p.Err().Position, in.Position())
	require.Equal(t, "abc", in.PeekUnquotedString())
}

func TestPotential_FailedAttemptClearsArguments(t *testing.T) {
	p := testPotential(t, greetExecution(t), "greet world abc")

	require.True(t, p.Failed())
	_, ok := p.Context().Argument("name")
	require.False(t, ok)
}

func TestPotential_Greedy(t *testing.T) {
	e := mustExecution(t, command.Spec{
		Nodes: []command.NodeSpec{
			command.Literal("echo"),
			command.Greedy("message", types.Greedy()),
		},
	})

	p := testPotential(t, e, "echo hello there world")
	require.True(t, p.Successful())
	require.True(t, p.ConsumedAllInput())
	require.Equal(t, "hello there world", p.Context().String("message", ""))
}

func TestPotential_FlagsAndSwitches(t *testing.T) {
	e := mustExecution(t, command.Spec{
		Nodes: []command.NodeSpec{
			command.Literal("ban"),
			command.Param("player", types.Word()),
			command.Flag("reason", types.String(), 'r'),
			command.Switch("silent", 's'),
		},
	})

	p := testPotential(t, e, `ban bob --reason "being rude" --silent`)
	require.True(t, p.Successful())
	require.True(t, p.ConsumedAllInput())
	require.Equal(t, "bob", p.Context().String("player", ""))
	require.Equal(t, "being rude", p.Context().String("reason", ""))
	require.True(t, p.Context().Bool("silent", false))
}

func TestPotential_FlagsAndSwitches_Shorthand(t *testing.T) {
	e := mustExecution(t, command.Spec{
		Nodes: []command.NodeSpec{
			command.Literal("ban"),
			command.Param("player", types.Word()),
			command.Flag("reason", types.String(), 'r'),
			command.Switch("silent", 's'),
		},
	})

	p := testPotential(t, e, "ban bob -r spam -s")
	require.True(t, p.Successful())
	require.Equal(t, "spam", p.Context().String("reason", ""))
	require.True(t, p.Context().Bool("silent", false))
}

func TestPotential_FlagsMatchInDeclarationOrder(t *testing.T) {
	e := mustExecution(t, command.Spec{
		Nodes: []command.NodeSpec{
			command.Literal("ban"),
			command.Param("player", types.Word()),
			command.Flag("reason", types.String(), 'r'),
			command.Switch("silent", 's'),
		},
	})

	// `--reason` given after `--silent` sits past its declared position:
	// the flag resolves as absent and its tokens remain unconsumed.
	p := testPotential(t, e, "ban bob --silent --reason spam")
	require.True(t, p.Successful())
	require.False(t, p.ConsumedAllInput())
	require.True(t, p.Context().Bool("silent", false))

	reason, ok := p.Context().Argument("reason")
	require.True(t, ok)
	require.Nil(t, reason)
}

func TestPotential_FlagsAndSwitches_Absent(t *testing.T) {
	e := mustExecution(t, command.Spec{
		Nodes: []command.NodeSpec{
			command.Literal("ban"),
			command.Param("player", types.Word()),
			command.Flag("reason", types.String(), 'r'),
			command.Switch("silent", 's'),
		},
	})

	p := testPotential(t, e, "ban bob")
	require.True(t, p.Successful())
	require.True(t, p.ConsumedAllInput())

	reason, ok := p.Context().Argument("reason")
	require.True(t, ok)
	require.Nil(t, reason)
	require.False(t, p.Context().Bool("silent", true))
}

func TestPotential_ContextualConsumesNoInput(t *testing.T) {
	e := mustExecution(t, command.Spec{
		Nodes: []command.NodeSpec{
			command.Literal("whoami"),
			command.Param("sender", types.ActorValue()),
		},
	})

	actor := &testActor{name: "steve"}
	p := e.Test(actor, stream.New("whoami"), nil)

	require.True(t, p.Successful())
	require.True(t, p.ConsumedAllInput())
	sender, ok := p.Context().Argument("sender")
	require.True(t, ok)
	require.Same(t, actor, sender)
}

func TestPotential_PositionalOrder(t *testing.T) {
	e := mustExecution(t, command.Spec{
		Nodes: []command.NodeSpec{
			command.Literal("add"),
			command.Param("a", types.Float64()),
			command.Param("b", types.Float64()),
		},
	})

	p := testPotential(t, e, "add 1.5 2.5")
	require.True(t, p.Successful())
	require.Equal(t, []any{1.5, 2.5}, p.Context().Positional())
}
