// Command lampsh is a small interactive shell that hosts the lamp
// dispatch core: it registers a handful of demo commands, reads lines
// from stdin and routes them through Lamp, recording every invocation in
// a SQLite history database.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/footprint-tools/lamp"
	"github.com/footprint-tools/lamp/command"
	"github.com/footprint-tools/lamp/internal/history"
	"github.com/footprint-tools/lamp/internal/log"
	"github.com/footprint-tools/lamp/internal/style"
	"github.com/footprint-tools/lamp/types"
)

type consoleActor struct{}

func (consoleActor) Name() string { return "console" }

func (consoleActor) Reply(message string) {
	fmt.Println(message)
}

func main() {
	flags := extractFlags(os.Args[1:])

	enableColor := term.IsTerminal(int(os.Stdout.Fd())) && !hasFlag(flags, "--no-color")
	style.Init(enableColor)

	if logPath := flagValue(flags, "--log"); logPath != "" {
		if err := log.Init(logPath, log.LevelDebug); err != nil {
			fmt.Fprintln(os.Stderr, style.Error("lampsh: "+err.Error()))
			os.Exit(1)
		}
		defer func() { _ = log.Close() }()
	}

	store, err := openHistory(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, style.Error("lampsh: "+err.Error()))
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	l := buildLamp(store)
	registerCommands(l, store)

	runShell(l)
}

func openHistory(flags []string) (*history.Store, error) {
	path := flagValue(flags, "--history")
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return history.New(":memory:")
		}
		path = filepath.Join(dir, "lampsh", "history.db")
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return history.New(":memory:")
		}
	}
	return history.New(path)
}

// buildLamp wires the dispatcher: every finished command lands in the
// history store through a post-execution hook.
func buildLamp(store *history.Store) *lamp.Lamp {
	b := lamp.NewBuilder()
	b.Dependency(store)
	b.Hooks().OnPostExecute(func(cmd *command.Execution, ctx *command.Context, err error) {
		inv := history.Invocation{
			ExecutionID: cmd.ID().String(),
			Path:        cmd.Path(),
			Input:       ctx.Input(),
			Actor:       ctx.Actor().Name(),
			Success:     err == nil,
			InvokedAt:   time.Now(),
		}
		if err != nil {
			inv.Error = err.Error()
		}
		if rerr := store.Record(inv); rerr != nil {
			log.Warn("lampsh: record history: %v", rerr)
		}
	})
	return b.Build()
}

func registerCommands(l *lamp.Lamp, store *history.Store) {
	specs := []command.Spec{
		{
			Nodes: []command.NodeSpec{
				command.Literal("greet"),
				command.Param("name", types.String()),
				command.Default("times", types.Int(), "1"),
			},
			Description: "Greet someone, optionally more than once",
			Handler: func(ctx *command.Context) error {
				name := ctx.String("name", "")
				for i := 0; i < ctx.Int("times", 1); i++ {
					ctx.Actor().Reply("Hello, " + name + "!")
				}
				return nil
			},
		},
		{
			Nodes: []command.NodeSpec{
				command.Literal("echo"),
				command.Greedy("message", types.Greedy()),
			},
			Description: "Echo the remaining input",
			Handler: func(ctx *command.Context) error {
				ctx.Actor().Reply(ctx.String("message", ""))
				return nil
			},
		},
		{
			Nodes: []command.NodeSpec{
				command.Literal("add"),
				command.Param("a", types.Float64()),
				command.Param("b", types.Float64()),
			},
			Description: "Add two numbers",
			Handler: func(ctx *command.Context) error {
				sum := ctx.Float64("a", 0) + ctx.Float64("b", 0)
				ctx.Actor().Reply(fmt.Sprintf("%g", sum))
				return nil
			},
		},
		{
			Nodes: []command.NodeSpec{
				command.Literal("ban"),
				command.Param("player", types.Word()),
				command.Flag("reason", types.String(), 'r'),
				command.Switch("silent", 's'),
			},
			Description: "Pretend to ban a player",
			Handler: func(ctx *command.Context) error {
				msg := "Banned " + ctx.String("player", "")
				if reason := ctx.String("reason", ""); reason != "" {
					msg += " (" + reason + ")"
				}
				if !ctx.Bool("silent", false) {
					ctx.Actor().Reply(msg)
				}
				return nil
			},
		},
		{
			Nodes: []command.NodeSpec{
				command.Literal("history"),
				command.Default("limit", types.Int(), "10"),
			},
			Description: "Show recent invocations",
			Handler: func(ctx *command.Context) error {
				recent, err := store.Recent(ctx.Int("limit", 10))
				if err != nil {
					return err
				}
				for _, inv := range recent {
					line := inv.InvokedAt.Local().Format("15:04:05") + "  " + inv.Input
					if !inv.Success {
						line += "  " + style.Error("(failed)")
					}
					ctx.Actor().Reply(line)
				}
				return nil
			},
		},
		{
			Nodes: []command.NodeSpec{
				command.Literal("commands"),
			},
			Description: "List registered commands",
			Handler: func(ctx *command.Context) error {
				for _, e := range l.Executions() {
					if e.IsSecret() {
						continue
					}
					line := style.Info(e.Usage())
					if d := e.Description(); d != "" {
						line += "  " + style.Muted(d)
					}
					ctx.Actor().Reply(line)
				}
				return nil
			},
		},
	}

	if _, err := l.RegisterAll(specs...); err != nil {
		fmt.Fprintln(os.Stderr, style.Error("lampsh: "+err.Error()))
		os.Exit(1)
	}
}

func runShell(l *lamp.Lamp) {
	actor := consoleActor{}
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	scanner := bufio.NewScanner(os.Stdin)

	for {
		if interactive {
			fmt.Print(style.Header("lamp> "))
		}
		if !scanner.Scan() {
			break
		}
		input := strings.TrimRight(scanner.Text(), "\r\n")
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}
		if err := l.Dispatch(actor, input); err != nil {
			fmt.Fprintln(os.Stderr, style.Error(err.Error()))
		}
	}
}

func extractFlags(args []string) []string {
	var flags []string
	for _, a := range args {
		if len(a) > 0 && a[0] == '-' {
			flags = append(flags, a)
		}
	}
	return flags
}

func hasFlag(flags []string, name string) bool {
	for _, f := range flags {
		if f == name {
			return true
		}
	}
	return false
}

func flagValue(flags []string, name string) string {
	prefix := name + "="
	for _, f := range flags {
		if strings.HasPrefix(f, prefix) {
			return strings.TrimPrefix(f, prefix)
		}
	}
	return ""
}
