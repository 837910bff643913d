package lamp

import (
	"fmt"

	"github.com/footprint-tools/lamp/command"
	"github.com/footprint-tools/lamp/internal/log"
	"github.com/footprint-tools/lamp/stream"
)

const defaultSuggestionsCount = 3

// Resolve matches raw input against every registered execution sharing
// its root literal and returns the best-ranked successful attempt.
//
// When no candidate succeeds, the failure that explains the input best
// is surfaced: the attempt whose error sits at the greatest cursor
// position (longest successful prefix), ties broken by execution
// ordering.
func (l *Lamp) Resolve(actor command.Actor, input string) (*command.Potential, error) {
	in := stream.New(input)
	first := in.PeekUnquotedString()
	if first == "" {
		return nil, command.UnknownCommand("")
	}

	candidates := l.registry.candidates(first)
	if len(candidates) == 0 {
		suggestions := similarRoots(first, l.registry.roots(), defaultSuggestionsCount)
		return nil, command.UnknownCommand(first, suggestions...)
	}

	var best, bestFailure *command.Potential
	for _, e := range candidates {
		// Every candidate walks its own fork so partial consumption
		// never leaks between attempts.
		p := e.Test(actor, in.Fork(), l.resolveDependency)
		if p.Successful() {
			if best == nil || p.Compare(best) < 0 {
				best = p
			}
			continue
		}
		if betterFailure(p, bestFailure) {
			bestFailure = p
		}
	}

	if best != nil {
		log.Debug("lamp: resolved '%s' to %s", input, best.Execution().Path())
		return best, nil
	}
	log.Debug("lamp: no match for '%s': %v", input, bestFailure.Err())
	return nil, bestFailure.Err()
}

// betterFailure picks the failure to surface when all candidates failed.
func betterFailure(p, current *command.Potential) bool {
	if current == nil {
		return true
	}
	if p.Err().Position != current.Err().Position {
		return p.Err().Position > current.Err().Position
	}
	return p.Execution().Compare(current.Execution()) < 0
}

// Dispatch resolves the input and executes the winning command: the
// actor's permission is checked, pre-execution hooks may cancel the
// invocation, and post-execution hooks observe the outcome.
func (l *Lamp) Dispatch(actor command.Actor, input string) error {
	p, err := l.Resolve(actor, input)
	if err != nil {
		return err
	}
	return l.execute(p)
}

func (l *Lamp) execute(p *command.Potential) (err error) {
	execution := p.Execution()
	ctx := p.Context()

	if !execution.Allowed(ctx.Actor()) {
		return command.PermissionDenied(ctx.Actor())
	}

	if !l.hooks.PreExecute(execution, ctx) {
		log.Debug("lamp: execution of '%s' cancelled by hook", execution.Path())
		return nil
	}

	// Post-execution hooks observe the outcome even when the handler
	// panics; the panic resumes afterwards.
	defer func() {
		if r := recover(); r != nil {
			if !l.skipPostHooksOnError {
				l.hooks.PostExecute(execution, ctx, fmt.Errorf("handler panic: %v", r))
			}
			panic(r)
		}
	}()

	err = execution.Handler()(ctx)
	if err == nil || !l.skipPostHooksOnError {
		l.hooks.PostExecute(execution, ctx, err)
	}
	return err
}
