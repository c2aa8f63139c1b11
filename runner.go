package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/google/shlex"
	"github.com/pkg/errors"
)

// invocation is one resolved `just TARGET arg...` request, already split
// out from a chained command line by the CLI layer.
type invocation struct {
	name      string
	arguments []string
}

type runConfig struct {
	dryRun    bool
	quiet     bool
	verbose   int
	shell     []string
	color     color
	highlight bool
}

// runner executes a sequence of recipe invocations against a compiled
// justfile, tracking which recipes have already run so a recipe depended
// on by more than one target still runs exactly once.
type runner struct {
	jf       *justfile
	cfg      runConfig
	ctx      *evalContext
	dotenv   map[string]string
	executed map[string]bool
}

func newRunner(jf *justfile, cfg runConfig, ctx *evalContext, dotenv map[string]string) *runner {
	return &runner{jf: jf, cfg: cfg, ctx: ctx, dotenv: dotenv, executed: map[string]bool{}}
}

// checkOverrides reports errUnknownOverrides when a command-line
// variable override doesn't name any assignment in the justfile.
func checkOverrides(jf *justfile, overrides map[string]string) error {
	var unknown []string
	for name := range overrides {
		if _, ok := jf.assignments[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return &runtimeError{kind: errUnknownOverrides, overrides: unknown}
	}
	return nil
}

// resolveTarget looks a name up as an alias, then as a recipe, reporting
// errUnknownRecipes with a Levenshtein-suggested name on failure.
func resolveTarget(jf *justfile, name string) (*recipe, error) {
	if a, ok := jf.aliases[name]; ok {
		return jf.recipes[a.target], nil
	}
	if r, ok := jf.recipes[name]; ok {
		return r, nil
	}

	candidates := make([]string, 0, len(jf.recipes)+len(jf.aliases))
	for n := range jf.recipes {
		candidates = append(candidates, n)
	}
	for n := range jf.aliases {
		candidates = append(candidates, n)
	}
	return nil, &runtimeError{kind: errUnknownRecipes, recipes: []string{name}, suggestion: suggestName(name, candidates)}
}

// RunAll executes each invocation in order, honoring their dependencies.
func (rn *runner) RunAll(invocations []invocation) error {
	for _, inv := range invocations {
		r, err := resolveTarget(rn.jf, inv.name)
		if err != nil {
			return err
		}
		if err := rn.runRecipe(r, inv.arguments); err != nil {
			return err
		}
	}
	return nil
}

func (rn *runner) runRecipe(r *recipe, args []string) error {
	if rn.executed[r.name] {
		return nil
	}

	bound, err := rn.bindArguments(r, args)
	if err != nil {
		return err
	}

	for _, dep := range r.dependencies {
		if err := rn.runRecipe(rn.jf.recipes[dep], nil); err != nil {
			return err
		}
	}

	rn.executed[r.name] = true

	for name, value := range bound {
		rn.ctx.evaluated[name] = value
	}
	defer func() {
		for name := range bound {
			delete(rn.ctx.evaluated, name)
		}
	}()

	if r.shebang {
		return rn.runShebang(r)
	}
	return rn.runLines(r)
}

// bindArguments checks arity and produces the parameter->value bindings
// for one recipe invocation. Parameter names are guaranteed (at compile
// time) never to collide with an assignment name, so these bindings can
// be layered directly into the evaluation cache as scoped local variables.
func (rn *runner) bindArguments(r *recipe, args []string) (map[string]string, error) {
	min, max := r.minArguments(), r.maxArguments()
	if len(args) < min || (max >= 0 && len(args) > max) {
		return nil, &runtimeError{
			kind: errArgumentCountMismatch, recipe: r.name,
			parameters: r.parameters, min: min, max: max, found: len(args),
		}
	}

	bound := map[string]string{}
	for i, p := range r.parameters {
		if p.variadic {
			bound[p.name] = strings.Join(args[i:], " ")
			break
		}
		if i < len(args) {
			bound[p.name] = args[i]
			continue
		}
		v, err := rn.ctx.eval(p.def)
		if err != nil {
			return nil, err
		}
		bound[p.name] = v
	}
	return bound, nil
}

// renderLine concatenates a body line's fragments into the text that will
// actually be echoed/executed, evaluating any interpolations. When
// stripAt is true, a leading '@' on the first text fragment marks the
// line quiet and is stripped from the rendered output.
func (rn *runner) renderLine(frags []fragment, stripAt bool) (text string, quiet bool, err error) {
	var b strings.Builder
	for i, f := range frags {
		if f.kind == fragmentExpression {
			v, err := rn.ctx.eval(f.expression)
			if err != nil {
				return "", false, err
			}
			b.WriteString(v)
			continue
		}
		s := f.text.lexeme
		if i == 0 && stripAt && strings.HasPrefix(s, "@") {
			quiet = true
			s = s[1:]
		}
		b.WriteString(s)
	}
	return b.String(), quiet, nil
}

func (rn *runner) runLines(r *recipe) error {
	var pending []fragment
	lineNo := 0

	for _, frags := range r.lines {
		if len(frags) == 0 {
			continue
		}
		pending = append(pending, frags...)
		if fragmentLine(frags).continuationEnds() {
			last := &pending[len(pending)-1]
			last.text.lexeme = strings.TrimSuffix(last.text.lexeme, "\\")
			continue
		}

		text, quiet, err := rn.renderLine(pending, true)
		pending = nil
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if err := rn.executeLine(r, text, quiet, lineNo); err != nil {
			return err
		}
		lineNo++
	}
	return nil
}

func (rn *runner) executeLine(r *recipe, text string, quietLine bool, lineNo int) error {
	echo := !quietLine && !r.quiet && !rn.cfg.quiet
	if rn.cfg.dryRun || echo {
		out := text
		if rn.cfg.highlight {
			out = rn.cfg.color.cyan(text)
		}
		fmt.Fprintln(os.Stderr, out)
	}
	if rn.cfg.dryRun {
		return nil
	}

	shell := rn.cfg.shell
	if len(shell) == 0 {
		shell = []string{"sh", "-c"}
	}
	cmd := exec.Command(shell[0], append(append([]string{}, shell[1:]...), text)...)
	cmd.Stdout, cmd.Stderr, cmd.Stdin = os.Stdout, os.Stderr, os.Stdin
	cmd.Env = rn.environ()

	err := rn.ctx.interrupts.guard(cmd.Run)
	if err == nil {
		return nil
	}
	if sig, ok := signalFromExitError(err); ok {
		return &runtimeError{kind: errSignal, recipe: r.name, lineNumber: lineNo + 1, hasLine: true, signal: sig}
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return &runtimeError{kind: errCode, recipe: r.name, lineNumber: lineNo + 1, hasLine: true, code: exitErr.ExitCode()}
	}
	return &runtimeError{kind: errIoError, recipe: r.name, err: errors.Wrap(err, "exec.Cmd.Run")}
}

// runShebang writes the recipe's body to a temporary script, padded with
// enough leading blank lines that the script's own line numbers (as
// reported by its interpreter) roughly line up with the justfile's, then
// executes it via the interpreter named on its shebang line.
func (rn *runner) runShebang(r *recipe) error {
	var b strings.Builder
	b.WriteString(strings.Repeat("\n", r.lineNumber))

	var shebangLine string
	for i, frags := range r.lines {
		line, _, err := rn.renderLine(frags, false)
		if err != nil {
			return err
		}
		if i == 0 {
			shebangLine = line
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	tmp, err := os.CreateTemp("", "just-*")
	if err != nil {
		return &runtimeError{kind: errTmpdirIoError, recipe: r.name, err: errors.Wrap(err, "os.CreateTemp")}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		return &runtimeError{kind: errTmpdirIoError, recipe: r.name, err: errors.Wrap(err, "File.WriteString")}
	}
	if err := tmp.Close(); err != nil {
		return &runtimeError{kind: errTmpdirIoError, recipe: r.name, err: errors.Wrap(err, "File.Close")}
	}
	if err := setExecutePermission(tmp.Name()); err != nil {
		return &runtimeError{kind: errTmpdirIoError, recipe: r.name, err: errors.Wrap(err, "setExecutePermission")}
	}

	interpreter, err := shlex.Split(strings.TrimSpace(strings.TrimPrefix(shebangLine, "#!")))
	if err != nil || len(interpreter) == 0 {
		return &runtimeError{kind: errShebang, recipe: r.name, err: fmt.Errorf("missing or invalid shebang interpreter")}
	}

	cmd := makeShebangCommand(tmp.Name(), interpreter)
	cmd.Stdout, cmd.Stderr, cmd.Stdin = os.Stdout, os.Stderr, os.Stdin
	cmd.Env = rn.environ()

	if rn.cfg.dryRun {
		fmt.Fprintln(os.Stderr, shebangLine)
		return nil
	}

	err = rn.ctx.interrupts.guard(cmd.Run)
	if err == nil {
		return nil
	}
	if sig, ok := signalFromExitError(err); ok {
		return &runtimeError{kind: errSignal, recipe: r.name, signal: sig}
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return &runtimeError{kind: errCode, recipe: r.name, code: exitErr.ExitCode()}
	}
	return &runtimeError{kind: errShebang, recipe: r.name, err: errors.Wrap(err, "exec.Cmd.Run")}
}

// environ builds the child process environment: the process's own
// environment, overlaid with .env values, overlaid with the justfile's
// exported variables (exports win over dotenv).
func (rn *runner) environ() []string {
	overrides := map[string]string{}
	for k, v := range rn.dotenv {
		overrides[k] = v
	}
	for name := range rn.jf.exports {
		if v, err := rn.ctx.variable(name); err == nil {
			overrides[name] = v
		}
	}

	base := os.Environ()
	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key := kv
		if i := strings.IndexByte(kv, '='); i >= 0 {
			key = kv[:i]
		}
		if _, shadowed := overrides[key]; shadowed {
			continue
		}
		out = append(out, kv)
	}
	for k, v := range overrides {
		out = append(out, k+"="+v)
	}
	return out
}
