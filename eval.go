package main

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// evalContext holds everything expression evaluation needs: the compiled
// justfile, command-line variable overrides (which win over the
// justfile's own assignments), a cache of already-evaluated assignments,
// and the shell used to run backticks.
type evalContext struct {
	jf         *justfile
	overrides  map[string]string
	evaluated  map[string]string
	shell      []string
	dryRun     bool
	interrupts *interruptHandler

	invocationDirectory string
	justfilePath        string
	justfileDirectory   string
}

func newEvalContext(jf *justfile, overrides map[string]string, shell []string, dryRun bool, interrupts *interruptHandler, invocationDirectory, justfilePath, justfileDirectory string) *evalContext {
	return &evalContext{
		jf:                  jf,
		overrides:           overrides,
		evaluated:           map[string]string{},
		shell:               shell,
		dryRun:              dryRun,
		interrupts:          interrupts,
		invocationDirectory: invocationDirectory,
		justfilePath:        justfilePath,
		justfileDirectory:   justfileDirectory,
	}
}

// variable evaluates a justfile assignment by name, consulting overrides
// and the memoization cache first, so each assignment is evaluated at
// most once per run regardless of how many times it's referenced.
func (ctx *evalContext) variable(name string) (string, error) {
	if v, ok := ctx.overrides[name]; ok {
		return v, nil
	}
	if v, ok := ctx.evaluated[name]; ok {
		return v, nil
	}
	expr, ok := ctx.jf.assignments[name]
	if !ok {
		return "", &runtimeError{kind: errRuntimeInternal, message: fmt.Sprintf("undefined variable %q", name)}
	}
	v, err := ctx.eval(expr)
	if err != nil {
		return "", err
	}
	ctx.evaluated[name] = v
	return v, nil
}

func (ctx *evalContext) eval(e *expression) (string, error) {
	switch e.kind {
	case exprString:
		return e.cooked, nil
	case exprVariable:
		return ctx.variable(e.name)
	case exprConcatenation:
		l, err := ctx.eval(e.lhs)
		if err != nil {
			return "", err
		}
		r, err := ctx.eval(e.rhs)
		if err != nil {
			return "", err
		}
		return l + r, nil
	case exprGroup:
		return ctx.eval(e.inner)
	case exprCall:
		return ctx.evalCall(e)
	case exprBacktick:
		return ctx.evalBacktick(e)
	}
	return "", nil
}

func (ctx *evalContext) evalCall(e *expression) (string, error) {
	fn, ok := builtinFunctions[e.name]
	if !ok {
		return "", &runtimeError{
			kind: errFunctionCall, token: e.token, hasToken: true,
			message: "call to unknown function",
		}
	}

	args := make([]string, len(e.arguments))
	for i, a := range e.arguments {
		v, err := ctx.eval(a)
		if err != nil {
			return "", err
		}
		args[i] = v
	}

	if len(args) < fn.minArgs || (fn.maxArgs >= 0 && len(args) > fn.maxArgs) {
		return "", &runtimeError{
			kind: errFunctionCall, token: e.token, hasToken: true,
			message: fmt.Sprintf("expected %d argument(s), found %d", fn.minArgs, len(args)),
		}
	}

	v, err := fn.call(ctx, args)
	if err != nil {
		return "", &runtimeError{kind: errFunctionCall, token: e.token, hasToken: true, message: err.Error()}
	}
	return v, nil
}

// evalBacktick spawns the configured shell to run a backtick's raw
// command text, or, in dry-run mode, passes the raw text through
// literally rather than executing it and risking a side effect.
func (ctx *evalContext) evalBacktick(e *expression) (string, error) {
	if ctx.dryRun {
		return e.raw, nil
	}

	shell := ctx.shell
	if len(shell) == 0 {
		shell = []string{"sh", "-c"}
	}
	cmd := exec.Command(shell[0], append(append([]string{}, shell[1:]...), e.raw)...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := ctx.interrupts.guard(cmd.Run)
	if err == nil {
		out := stdout.String()
		if !utf8.ValidString(out) {
			return "", &runtimeError{
				kind: errBacktick, token: e.token, hasToken: true,
				output: outputError{kind: outputUtf8, err: fmt.Errorf("stdout is not valid UTF-8")},
			}
		}
		return strings.TrimRight(out, "\r\n"), nil
	}

	if sig, ok := signalFromExitError(err); ok {
		return "", &runtimeError{kind: errBacktick, token: e.token, hasToken: true, output: outputError{kind: outputSignal, sig: sig}}
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return "", &runtimeError{kind: errBacktick, token: e.token, hasToken: true, output: outputError{kind: outputCode, code: exitErr.ExitCode()}}
	}
	return "", &runtimeError{kind: errBacktick, token: e.token, hasToken: true, output: outputError{kind: outputIo, err: err}}
}
