package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

// listRecipes writes a `--list`-style listing: each public recipe's
// signature, right-padded to a common column so the (optional) doc
// comments line up, using display width rather than byte length so the
// alignment holds even with wide characters in recipe names.
func listRecipes(w io.Writer, jf *justfile, c color) {
	names := make([]string, 0, len(jf.recipeOrder))
	for _, name := range jf.recipeOrder {
		if !jf.recipes[name].private {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	signatures := make([]string, len(names))
	width := 0
	for i, name := range names {
		r := jf.recipes[name]
		sig := name + formatParameterList(r.parameters)
		signatures[i] = sig
		if w := runewidth.StringWidth(sig); w > width {
			width = w
		}
	}

	for i, name := range names {
		r := jf.recipes[name]
		fmt.Fprintf(w, "    %s", c.cyan(signatures[i]))
		if r.hasDoc {
			pad := width - runewidth.StringWidth(signatures[i])
			fmt.Fprintf(w, "%s # %s", strings.Repeat(" ", pad+1), r.doc)
		}
		fmt.Fprintln(w)
	}
}

// summarizeRecipes writes a single-line `--summary` listing of every
// public recipe name, sorted and space separated.
func summarizeRecipes(w io.Writer, jf *justfile) {
	names := make([]string, 0, len(jf.recipeOrder))
	for _, name := range jf.recipeOrder {
		if !jf.recipes[name].private {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	fmt.Fprintln(w, strings.Join(names, " "))
}

// showRecipe writes one recipe's canonical source text for `--show NAME`.
func showRecipe(w io.Writer, jf *justfile, name string) error {
	r, ok := jf.recipes[name]
	if !ok {
		if a, ok := jf.aliases[name]; ok {
			r, ok = jf.recipes[a.target]
			if !ok {
				return &runtimeError{kind: errUnknownRecipes, recipes: []string{name}}
			}
		} else {
			return &runtimeError{kind: errUnknownRecipes, recipes: []string{name}}
		}
	}
	fmt.Fprint(w, formatRecipe(r))
	return nil
}

// evaluateAll writes every assignment's name and evaluated value for
// `--evaluate`, in declaration order.
func evaluateAll(w io.Writer, ctx *evalContext) error {
	for _, name := range ctx.jf.assignmentOrder {
		v, err := ctx.variable(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s := %q\n", name, v)
	}
	return nil
}
