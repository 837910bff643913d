package lamp_test

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	lamp "github.com/footprint-tools/lamp"
	"github.com/footprint-tools/lamp/command"
	"github.com/footprint-tools/lamp/hooks"
	"github.com/footprint-tools/lamp/stream"
	"github.com/footprint-tools/lamp/types"
)

type testActor struct {
	name    string
	replies []string
}

func (a *testActor) Name() string    { return a.name }
func (a *testActor) Reply(msg string) { a.replies = append(a.replies, msg) }

// playerType parses a player name, rejecting purely numeric tokens so
// that coordinate overloads can claim them.
type playerType struct{}

func (playerType) Parse(in *stream.Stream, _ *command.Context) (any, error) {
	pos := in.Position()
	name := in.ReadUnquotedString()
	if name == "" {
		in.SetPosition(pos)
		return nil, errors.New("expected a player name")
	}
	if strings.IndexFunc(name, func(r rune) bool { return r < '0' || r > '9' }) == -1 {
		in.SetPosition(pos)
		return nil, fmt.Errorf("'%s' is not a player name", name)
	}
	return name, nil
}

func greetSpec(out *[]string) command.Spec {
	return command.Spec{
		Nodes: []command.NodeSpec{
			command.Literal("greet"),
			command.Param("name", types.Word()),
			command.Default("times", types.Int(), "1"),
		},
		Handler: func(ctx *command.Context) error {
			for i := 0; i < ctx.Int("times", 0); i++ {
				*out = append(*out, "hello "+ctx.String("name", ""))
			}
			return nil
		},
	}
}

func TestLamp_DispatchWithDefault(t *testing.T) {
	l := lamp.New()
	var out []string
	_, err := l.Register(greetSpec(&out))
	require.NoError(t, err)

	actor := &testActor{name: "console"}
	require.NoError(t, l.Dispatch(actor, "greet Alice"))
	require.Equal(t, []string{"hello Alice"}, out)

	out = nil
	require.NoError(t, l.Dispatch(actor, "greet Bob 3"))
	require.Equal(t, []string{"hello Bob", "hello Bob", "hello Bob"}, out)
}

func tpSpecs(selected *string) []command.Spec {
	return []command.Spec{
		{
			Nodes: []command.NodeSpec{
				command.Literal("tp"),
				command.Param("target", playerType{}),
			},
			Handler: func(ctx *command.Context) error {
				*selected = "player:" + ctx.String("target", "")
				return nil
			},
		},
		{
			Nodes: []command.NodeSpec{
				command.Literal("tp"),
				command.Param("x", types.Int()),
				command.Param("y", types.Int()),
				command.Param("z", types.Int()),
			},
			Handler: func(ctx *command.Context) error {
				*selected = fmt.Sprintf("coords:%d,%d,%d",
					ctx.Int("x", 0), ctx.Int("y", 0), ctx.Int("z", 0))
				return nil
			},
		},
	}
}

func TestLamp_OverloadSelection(t *testing.T) {
	actor := &testActor{name: "console"}

	// Same inputs must pick the same overload no matter which signature
	// was registered first.
	for _, reversed := range []bool{false, true} {
		var selected string
		specs := tpSpecs(&selected)
		if reversed {
			specs[0], specs[1] = specs[1], specs[0]
		}

		l := lamp.New()
		_, err := l.RegisterAll(specs...)
		require.NoError(t, err)

		require.NoError(t, l.Dispatch(actor, "tp 1 2 3"))
		require.Equal(t, "coords:1,2,3", selected)

		require.NoError(t, l.Dispatch(actor, "tp Notch"))
		require.Equal(t, "player:Notch", selected)
	}
}

func TestLamp_ResolveIsIdempotent(t *testing.T) {
	l := lamp.New()
	var selected string
	_, err := l.RegisterAll(tpSpecs(&selected)...)
	require.NoError(t, err)

	actor := &testActor{name: "console"}
	first, err := l.Resolve(actor, "tp 10 64 -30")
	require.NoError(t, err)
	second, err := l.Resolve(actor, "tp 10 64 -30")
	require.NoError(t, err)
	require.Equal(t, first.Execution().ID(), second.Execution().ID())
}

func TestLamp_ConsumingMoreInputWins(t *testing.T) {
	l := lamp.New()
	var got string
	_, err := l.RegisterAll(
		command.Spec{
			Nodes: []command.NodeSpec{
				command.Literal("msg"),
				command.Param("to", types.Word()),
			},
			Handler: func(ctx *command.Context) error {
				got = "short"
				return nil
			},
		},
		command.Spec{
			Nodes: []command.NodeSpec{
				command.Literal("msg"),
				command.Param("to", types.Word()),
				command.Greedy("text", types.Greedy()),
			},
			Handler: func(ctx *command.Context) error {
				got = "long:" + ctx.String("text", "")
				return nil
			},
		},
	)
	require.NoError(t, err)

	actor := &testActor{name: "console"}
	require.NoError(t, l.Dispatch(actor, "msg Bob hello world"))
	require.Equal(t, "long:hello world", got)
}

func TestLamp_UnknownCommandSuggestions(t *testing.T) {
	l := lamp.New()
	var out []string
	_, err := l.Register(greetSpec(&out))
	require.NoError(t, err)

	actor := &testActor{name: "console"}
	err = l.Dispatch(actor, "gret Alice")
	require.Error(t, err)

	var cerr *command.Error
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, command.ErrUnknownCommand, cerr.Kind)
	require.Contains(t, cerr.Message, "did you mean 'greet'")

	err = l.Dispatch(actor, "")
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, command.ErrUnknownCommand, cerr.Kind)
}

func TestLamp_BestFailureSurfaced(t *testing.T) {
	l := lamp.New()
	handler := func(*command.Context) error { return nil }
	_, err := l.RegisterAll(
		command.Spec{
			Nodes: []command.NodeSpec{
				command.Literal("mail"),
				command.Literal("send"),
				command.Param("target", types.Word()),
			},
			Handler: handler,
		},
		command.Spec{
			Nodes: []command.NodeSpec{
				command.Literal("mail"),
				command.Literal("clear"),
			},
			Handler: handler,
		},
	)
	require.NoError(t, err)

	// Both candidates fail; the one that got furthest explains the
	// input best.
	err = l.Dispatch(&testActor{name: "console"}, "mail send")
	var cerr *command.Error
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, command.ErrStreamExhausted, cerr.Kind)
	require.Contains(t, cerr.Message, "target")
	require.Equal(t, len("mail send"), cerr.Position)
}

func TestLamp_DuplicateSignatureRejected(t *testing.T) {
	l := lamp.New()
	var out []string
	_, err := l.Register(greetSpec(&out))
	require.NoError(t, err)

	_, err = l.Register(greetSpec(&out))
	require.Error(t, err)
	require.Len(t, l.Executions(), 1)
}

func TestLamp_Unregister(t *testing.T) {
	l := lamp.New()
	var out []string
	reg, err := l.Register(greetSpec(&out))
	require.NoError(t, err)
	require.Len(t, l.Executions(), 1)

	require.NoError(t, reg.Unregister())
	require.Empty(t, l.Executions())

	var cerr *command.Error
	err = l.Dispatch(&testActor{name: "console"}, "greet Alice")
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, command.ErrUnknownCommand, cerr.Kind)
}

func TestLamp_RegistrationHookCancels(t *testing.T) {
	b := lamp.NewBuilder()
	b.Hooks().OnRegistered(func(cmd *command.Execution, c *hooks.CancelHandle) {
		if strings.HasPrefix(cmd.Path(), "greet") {
			c.Cancel()
		}
	})
	l := b.Build()

	var out []string
	_, err := l.Register(greetSpec(&out))
	require.ErrorIs(t, err, lamp.ErrRegistrationCancelled)
	require.Empty(t, l.Executions())
}

func TestLamp_UnregistrationHookCancels(t *testing.T) {
	b := lamp.NewBuilder()
	b.Hooks().OnUnregistered(func(*command.Execution, *hooks.CancelHandle) {
		// veto every removal
	})
	b.Hooks().OnUnregistered(func(_ *command.Execution, c *hooks.CancelHandle) {
		c.Cancel()
	})
	l := b.Build()

	var out []string
	reg, err := l.Register(greetSpec(&out))
	require.NoError(t, err)

	require.ErrorIs(t, reg.Unregister(), lamp.ErrUnregistrationCancelled)
	require.Len(t, l.Executions(), 1, "cancelled removal keeps the command registered")
}

func TestLamp_PreExecuteHookCancels(t *testing.T) {
	b := lamp.NewBuilder()
	b.Hooks().OnPreExecute(func(_ *command.Execution, _ *command.Context, c *hooks.CancelHandle) {
		c.Cancel()
	})
	l := b.Build()

	var out []string
	_, err := l.Register(greetSpec(&out))
	require.NoError(t, err)

	require.NoError(t, l.Dispatch(&testActor{name: "console"}, "greet Alice"))
	require.Empty(t, out, "cancelled execution must not reach the handler")
}

func TestLamp_PostExecuteHookPolicy(t *testing.T) {
	handlerErr := errors.New("boom")
	failing := command.Spec{
		Nodes:   []command.NodeSpec{command.Literal("fail")},
		Handler: func(*command.Context) error { return handlerErr },
	}

	t.Run("runs on error by default", func(t *testing.T) {
		b := lamp.NewBuilder()
		var observed []error
		b.Hooks().OnPostExecute(func(_ *command.Execution, _ *command.Context, err error) {
			observed = append(observed, err)
		})
		l := b.Build()
		_, err := l.Register(failing)
		require.NoError(t, err)

		require.ErrorIs(t, l.Dispatch(&testActor{name: "console"}, "fail"), handlerErr)
		require.Equal(t, []error{handlerErr}, observed)
	})

	t.Run("skipped on error when configured", func(t *testing.T) {
		b := lamp.NewBuilder().SkipPostHooksOnError()
		var calls int
		b.Hooks().OnPostExecute(func(_ *command.Execution, _ *command.Context, err error) {
			calls++
			require.NoError(t, err)
		})
		l := b.Build()
		var out []string
		_, err := l.RegisterAll(failing, greetSpec(&out))
		require.NoError(t, err)

		actor := &testActor{name: "console"}
		require.ErrorIs(t, l.Dispatch(actor, "fail"), handlerErr)
		require.Zero(t, calls)

		require.NoError(t, l.Dispatch(actor, "greet Alice"))
		require.Equal(t, 1, calls)
	})
}

func TestLamp_PermissionDenied(t *testing.T) {
	l := lamp.New()
	var ran bool
	_, err := l.Register(command.Spec{
		Nodes:      []command.NodeSpec{command.Literal("stop")},
		Handler:    func(*command.Context) error { ran = true; return nil },
		Permission: func(a command.Actor) bool { return a.Name() == "admin" },
	})
	require.NoError(t, err)

	var cerr *command.Error
	err = l.Dispatch(&testActor{name: "guest"}, "stop")
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, command.ErrPermissionDenied, cerr.Kind)
	require.False(t, ran)

	require.NoError(t, l.Dispatch(&testActor{name: "admin"}, "stop"))
	require.True(t, ran)
}

type auditLog struct {
	entries []string
}

func TestLamp_DependencyInjection(t *testing.T) {
	audit := &auditLog{}
	l := lamp.NewBuilder().Dependency(audit).Build()

	_, err := l.Register(command.Spec{
		Nodes: []command.NodeSpec{
			command.Literal("note"),
			command.Greedy("text", types.Greedy()),
			command.Param("log", types.Dependency(&auditLog{})),
		},
		Handler: func(ctx *command.Context) error {
			log, _ := ctx.Argument("log")
			log.(*auditLog).entries = append(log.(*auditLog).entries, ctx.String("text", ""))
			return nil
		},
	})
	require.NoError(t, err)

	require.NoError(t, l.Dispatch(&testActor{name: "console"}, "note remember the milk"))
	require.Equal(t, []string{"remember the milk"}, audit.entries)
}

func TestLamp_ConcurrentRegistrationAndDispatch(t *testing.T) {
	l := lamp.New()
	var hits atomic.Int64
	_, err := l.Register(command.Spec{
		Nodes: []command.NodeSpec{command.Literal("ping")},
		Handler: func(*command.Context) error {
			hits.Add(1)
			return nil
		},
	})
	require.NoError(t, err)

	// Churn the registry on one goroutine while dispatching on another:
	// every dispatch must observe a consistent snapshot and keep finding
	// the stable command.
	const iterations = 200
	done := make(chan error, 1)
	go func() {
		for i := 0; i < iterations; i++ {
			reg, err := l.Register(command.Spec{
				Nodes: []command.NodeSpec{
					command.Literal("flip"),
					command.Param("n", types.Int()),
				},
				Handler: func(*command.Context) error { return nil },
			})
			if err != nil {
				done <- err
				return
			}
			if err := reg.Unregister(); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	actor := &testActor{name: "console"}
	for i := 0; i < iterations; i++ {
		require.NoError(t, l.Dispatch(actor, "ping"))
	}
	require.NoError(t, <-done)
	require.EqualValues(t, iterations, hits.Load())
}

func TestLamp_ExecutionsSortedByPath(t *testing.T) {
	l := lamp.New()
	handler := func(*command.Context) error { return nil }
	_, err := l.RegisterAll(
		command.Spec{Nodes: []command.NodeSpec{command.Literal("zeta")}, Handler: handler},
		command.Spec{Nodes: []command.NodeSpec{command.Literal("alpha")}, Handler: handler},
		command.Spec{Nodes: []command.NodeSpec{command.Literal("mid")}, Handler: handler},
	)
	require.NoError(t, err)

	var paths []string
	for _, e := range l.Executions() {
		paths = append(paths, e.Path())
	}
	require.Equal(t, []string{"alpha", "mid", "zeta"}, paths)
}
