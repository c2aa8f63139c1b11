package main

import (
	"fmt"
	"sort"
	"strings"
)

// formatExpression reconstructs source-like text for an expression, used
// by the canonical --dump/--show printer.
func formatExpression(e *expression) string {
	if e == nil {
		return ""
	}
	switch e.kind {
	case exprString:
		return fmt.Sprintf("%q", e.cooked)
	case exprVariable:
		return e.name
	case exprCall:
		parts := make([]string, len(e.arguments))
		for i, a := range e.arguments {
			parts[i] = formatExpression(a)
		}
		return e.name + "(" + strings.Join(parts, ", ") + ")"
	case exprBacktick:
		return "`" + e.raw + "`"
	case exprConcatenation:
		return formatExpression(e.lhs) + " + " + formatExpression(e.rhs)
	case exprGroup:
		return "(" + formatExpression(e.inner) + ")"
	}
	return ""
}

func formatParameterList(params []parameter) string {
	var b strings.Builder
	for _, p := range params {
		b.WriteByte(' ')
		b.WriteString(formatParameter(p))
	}
	return b.String()
}

// formatRecipe reconstructs the recipe's canonical source text: its
// header, then its body lines indented with a single tab regardless of
// the whitespace originally used, mirroring the teacher's own
// tab-indented recipe bodies.
func formatRecipe(r *recipe) string {
	var b strings.Builder
	if r.hasDoc {
		fmt.Fprintf(&b, "# %s\n", r.doc)
	}
	if r.quiet {
		b.WriteByte('@')
	}
	b.WriteString(r.name)
	b.WriteString(formatParameterList(r.parameters))
	b.WriteString(":")
	for _, dep := range r.dependencies {
		b.WriteByte(' ')
		b.WriteString(dep)
	}
	b.WriteByte('\n')

	for _, frags := range r.lines {
		if len(frags) == 0 {
			b.WriteByte('\n')
			continue
		}
		b.WriteByte('\t')
		for _, f := range frags {
			if f.kind == fragmentText {
				b.WriteString(f.text.lexeme)
			} else {
				b.WriteString("{{")
				b.WriteString(formatExpression(f.expression))
				b.WriteString("}}")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// dumpJustfile renders the whole compiled justfile back to canonical
// source text: assignments sorted by name (each followed by a blank
// line), then aliases, then recipes, each group separated by a blank line.
func dumpJustfile(jf *justfile) string {
	var b strings.Builder

	sortedAssignments := append([]string{}, jf.assignmentOrder...)
	sort.Strings(sortedAssignments)
	for _, name := range sortedAssignments {
		if jf.exports[name] {
			b.WriteString("export ")
		}
		fmt.Fprintf(&b, "%s := %s\n\n", name, formatExpression(jf.assignments[name]))
	}

	for _, name := range jf.aliasOrder {
		a := jf.aliases[name]
		fmt.Fprintf(&b, "alias %s := %s\n", a.name, a.target)
	}
	if len(jf.aliasOrder) > 0 {
		b.WriteByte('\n')
	}

	for i, name := range jf.recipeOrder {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(formatRecipe(jf.recipes[name]))
	}

	return b.String()
}
