package main

import (
	"fmt"
	"strings"
)

// compilationErrorKind enumerates every way compiling a justfile can fail,
// per spec.md §7.
type compilationErrorKind int

const (
	errUnexpectedToken compilationErrorKind = iota
	errExtraLeadingWhitespace
	errInconsistentLeadingWhitespace
	errUnterminatedString
	errUnterminatedInterpolation
	errUnknownStartOfToken
	errDuplicateRecipe
	errDuplicateAlias
	errDuplicateVariable
	errDuplicateParameter
	errDuplicateDependency
	errParameterFollowsVariadicParameter
	errRequiredParameterFollowsDefaultParameter
	errParameterShadowsVariable
	errDependencyHasParameters
	errUnknownAliasTarget
	errAliasShadowsRecipe
	errUnknownDependency
	errUndefinedVariable
	errCircularVariableDependency
	errCircularRecipeDependency
	errInvalidEscapeSequence
	errInternal
)

// compilationError is anchored to a byte offset / line / column / width in
// the source text so the printer can underline the offending token.
type compilationError struct {
	offset int
	line   int
	column int
	width  int
	kind   compilationErrorKind

	// payload, populated according to kind
	expected   []tokenKind
	found      tokenKind
	recipe     string
	first      int
	alias      string
	variable   string
	parameter  string
	dependency string
	circle     []string
	message    string

	source string // full source text, for the context stanza
}

func (e *compilationError) Error() string {
	var b strings.Builder
	b.WriteString("error: ")

	switch e.kind {
	case errUnexpectedToken:
		parts := make([]string, len(e.expected))
		for i, k := range e.expected {
			parts[i] = k.String()
		}
		fmt.Fprintf(&b, "Expected %s, but found %s", strings.Join(parts, ", "), e.found)
	case errExtraLeadingWhitespace:
		b.WriteString("Recipe line has extra leading whitespace")
	case errInconsistentLeadingWhitespace:
		fmt.Fprintf(&b, "Recipe line has inconsistent leading whitespace: %q", e.message)
	case errUnterminatedString:
		b.WriteString("Unterminated string")
	case errUnterminatedInterpolation:
		b.WriteString("Unterminated interpolation")
	case errUnknownStartOfToken:
		b.WriteString("Unknown start of token")
	case errDuplicateRecipe:
		fmt.Fprintf(&b, "Recipe `%s` first defined on line %d is redefined on this line", e.recipe, e.first+1)
	case errDuplicateAlias:
		fmt.Fprintf(&b, "Alias `%s` first defined on line %d is redefined on this line", e.alias, e.first+1)
	case errDuplicateVariable:
		fmt.Fprintf(&b, "Variable `%s` has multiple definitions", e.variable)
	case errDuplicateParameter:
		fmt.Fprintf(&b, "Recipe `%s` has duplicate parameter `%s`", e.recipe, e.parameter)
	case errDuplicateDependency:
		fmt.Fprintf(&b, "Recipe `%s` has duplicate dependency `%s`", e.recipe, e.dependency)
	case errParameterFollowsVariadicParameter:
		fmt.Fprintf(&b, "Parameter `%s` follows variadic parameter", e.parameter)
	case errRequiredParameterFollowsDefaultParameter:
		fmt.Fprintf(&b, "Non-default parameter `%s` follows default parameter", e.parameter)
	case errParameterShadowsVariable:
		fmt.Fprintf(&b, "Parameter `%s` shadows variable of the same name", e.parameter)
	case errDependencyHasParameters:
		fmt.Fprintf(&b, "Recipe `%s` depends on `%s` which requires arguments. Dependencies may not require arguments", e.recipe, e.dependency)
	case errUnknownAliasTarget:
		fmt.Fprintf(&b, "Alias `%s` has an unknown target `%s`", e.alias, e.dependency)
	case errAliasShadowsRecipe:
		fmt.Fprintf(&b, "Alias `%s` is redefining existing recipe", e.alias)
	case errUnknownDependency:
		fmt.Fprintf(&b, "Recipe `%s` has unknown dependency `%s`", e.recipe, e.dependency)
	case errUndefinedVariable:
		fmt.Fprintf(&b, "Variable `%s` not defined", e.variable)
	case errCircularVariableDependency:
		fmt.Fprintf(&b, "Variable `%s` is defined in terms of itself: %s", e.variable, strings.Join(e.circle, " -> "))
	case errCircularRecipeDependency:
		fmt.Fprintf(&b, "Recipe `%s` depends on itself: %s", e.recipe, strings.Join(e.circle, " -> "))
	case errInvalidEscapeSequence:
		fmt.Fprintf(&b, "Invalid escape sequence `%s`", e.message)
	case errInternal:
		fmt.Fprintf(&b, "Internal compilation error, this may indicate a bug: %s consider filing an issue", e.message)
	}

	if e.source != "" || e.width > 0 {
		b.WriteString(writeMessageContext(e.source, e.offset, e.line, e.column, e.width))
	}

	return b.String()
}

// runtimeErrorKind enumerates execution-time failures, per spec.md §7.
type runtimeErrorKind int

const (
	errArgumentCountMismatch runtimeErrorKind = iota
	errBacktick
	errCode
	errCygpath
	errDotenv
	errFunctionCall
	errIoError
	errShebang
	errSignal
	errTmpdirIoError
	errUnknownOverrides
	errUnknownRecipes
	errRuntimeUnknown
	errRuntimeInternal
)

// outputErrorKind classifies how a spawned subprocess failed to produce
// the expected output (used by Backtick and Cygpath runtime errors).
type outputErrorKind int

const (
	outputCode outputErrorKind = iota
	outputSignal
	outputUnknown
	outputIo
	outputUtf8
)

type outputError struct {
	kind outputErrorKind
	code int
	sig  int
	err  error
}

// runtimeError is a non-recoverable failure during evaluation or execution.
type runtimeError struct {
	kind runtimeErrorKind

	recipe     string
	lineNumber int
	hasLine    bool

	token    token
	hasToken bool

	message string
	code    int
	signal  int

	output outputError

	parameters []parameter
	min, max   int
	found      int

	recipes    []string
	overrides  []string
	suggestion string

	err error
}

func (e *runtimeError) Error() string {
	var b strings.Builder
	b.WriteString("error: ")

	switch e.kind {
	case errUnknownRecipes:
		if len(e.recipes) == 1 {
			fmt.Fprintf(&b, "Justfile does not contain recipe `%s`.", e.recipes[0])
		} else {
			fmt.Fprintf(&b, "Justfile does not contain recipes %s.", strings.Join(quoteAll(e.recipes), ", "))
		}
		if e.suggestion != "" {
			fmt.Fprintf(&b, "\nDid you mean `%s`?", e.suggestion)
		}
	case errUnknownOverrides:
		fmt.Fprintf(&b, "%s %s overridden on the command line but not present in justfile",
			pluralCount("Variable", len(e.overrides)), strings.Join(quoteAll(e.overrides), ", "))
	case errArgumentCountMismatch:
		if e.min == e.max {
			adj := ""
			if e.min < e.found {
				adj = "only "
			}
			fmt.Fprintf(&b, "Recipe `%s` got %d %s but %stakes %d", e.recipe, e.found, pluralCount("argument", e.found), adj, e.min)
		} else if e.found < e.min {
			fmt.Fprintf(&b, "Recipe `%s` got %d %s but takes at least %d", e.recipe, e.found, pluralCount("argument", e.found), e.min)
		} else {
			fmt.Fprintf(&b, "Recipe `%s` got %d %s but takes at most %d", e.recipe, e.found, pluralCount("argument", e.found), e.max)
		}
		fmt.Fprintf(&b, "\nusage:\n    just %s", e.recipe)
		for _, p := range e.parameters {
			b.WriteByte(' ')
			b.WriteString(formatParameter(p))
		}
	case errCode:
		if e.hasLine {
			fmt.Fprintf(&b, "Recipe `%s` failed on line %d with exit code %d", e.recipe, e.lineNumber, e.code)
		} else {
			fmt.Fprintf(&b, "Recipe `%s` failed with exit code %d", e.recipe, e.code)
		}
	case errSignal:
		if e.hasLine {
			fmt.Fprintf(&b, "Recipe `%s` was terminated on line %d by signal %d", e.recipe, e.lineNumber, e.signal)
		} else {
			fmt.Fprintf(&b, "Recipe `%s` was terminated by signal %d", e.recipe, e.signal)
		}
	case errRuntimeUnknown:
		if e.hasLine {
			fmt.Fprintf(&b, "Recipe `%s` failed on line %d for an unknown reason", e.recipe, e.lineNumber)
		} else {
			fmt.Fprintf(&b, "Recipe `%s` failed for an unknown reason", e.recipe)
		}
	case errIoError:
		fmt.Fprintf(&b, "Recipe `%s` could not be run because of an I/O error while launching the shell: %s", e.recipe, e.err)
	case errTmpdirIoError:
		fmt.Fprintf(&b, "Recipe `%s` could not be run because of an I/O error while creating its temporary script: %s", e.recipe, e.err)
	case errShebang:
		fmt.Fprintf(&b, "Recipe `%s` shebang script execution error: %s", e.recipe, e.err)
	case errCygpath:
		fmt.Fprintf(&b, "Cygpath failed while translating recipe `%s` shebang interpreter path: %s", e.recipe, describeOutputError(e.output))
	case errDotenv:
		fmt.Fprintf(&b, "Failed to load .env: %s", e.err)
	case errFunctionCall:
		fmt.Fprintf(&b, "Call to function `%s` failed: %s", e.token.lexeme, e.message)
	case errBacktick:
		fmt.Fprintf(&b, "Backtick failed: %s", describeOutputError(e.output))
	case errRuntimeInternal:
		fmt.Fprintf(&b, "Internal runtime error, this may indicate a bug: %s consider filing an issue", e.message)
	}

	if e.hasToken && e.kind != errFunctionCall && e.kind != errBacktick {
		fmt.Fprintf(&b, " (at line %d)", e.token.line+1)
	}

	return b.String()
}

// exitCode reports the process exit code this error should produce, per
// spec.md §6: the child's exit code for Code/Backtick{Code}, 128+signo for
// Signal, and 1 otherwise.
func (e *runtimeError) exitCode() int {
	switch e.kind {
	case errCode:
		return e.code
	case errBacktick:
		if e.output.kind == outputCode {
			return e.output.code
		}
	case errSignal:
		return 128 + e.signal
	}
	return 1
}

func describeOutputError(o outputError) string {
	switch o.kind {
	case outputCode:
		return fmt.Sprintf("exited with code %d", o.code)
	case outputSignal:
		return fmt.Sprintf("terminated by signal %d", o.sig)
	case outputIo:
		return fmt.Sprintf("I/O error: %s", o.err)
	case outputUtf8:
		return fmt.Sprintf("output was not valid UTF-8: %s", o.err)
	default:
		return "failed for an unknown reason"
	}
}

func pluralCount(noun string, n int) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = "`" + s + "`"
	}
	return out
}

// writeMessageContext renders the "source line + caret underline" stanza
// that anchors an error to a specific token, mirroring the teacher's own
// simple stderr diagnostics and the original implementation's
// write_message_context.
func writeMessageContext(source string, offset, line, column, width int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	src := lines[line]
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", src)
	b.WriteString(strings.Repeat(" ", column))
	if width < 1 {
		width = 1
	}
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}
