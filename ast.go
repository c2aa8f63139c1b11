package main

// Expression is a tagged-variant AST node yielding a string value when
// evaluated. Exactly one of the concrete expressionKind fields below is
// meaningful for a given node, selected by kind.
type expressionKind int

const (
	exprVariable expressionKind = iota
	exprCall
	exprString
	exprBacktick
	exprConcatenation
	exprGroup
)

type expression struct {
	kind expressionKind

	// exprVariable
	name  string
	token token

	// exprCall
	arguments []*expression

	// exprString
	cooked string

	// exprBacktick
	raw string

	// exprConcatenation
	lhs *expression
	rhs *expression

	// exprGroup
	inner *expression
}

// fragment is one piece of a recipe body line: either a literal run of
// text or an interpolated expression.
type fragmentKind int

const (
	fragmentText fragmentKind = iota
	fragmentExpression
)

type fragment struct {
	kind       fragmentKind
	text       token       // fragmentText
	expression *expression // fragmentExpression
}

// continuation reports whether this fragment is a Text fragment whose
// lexeme ends with a backslash immediately before the line's end.
func (f fragment) continuation() bool {
	return f.kind == fragmentText && len(f.text.lexeme) > 0 && f.text.lexeme[len(f.text.lexeme)-1] == '\\'
}

// parameter is one formal argument of a recipe.
type parameter struct {
	name     string
	token    token
	def      *expression // nil if required
	variadic bool
}

// recipe is a named, parameterized block of recipe-body lines.
type recipe struct {
	name             string
	doc              string
	hasDoc           bool
	lineNumber       int
	parameters       []parameter
	dependencies     []string
	dependencyTokens []token
	lines            [][]fragment
	private          bool
	quiet            bool
	shebang          bool
}

func (r *recipe) minArguments() int {
	n := 0
	for _, p := range r.parameters {
		if p.def == nil && !p.variadic {
			n++
		}
	}
	return n
}

// maxArguments returns -1 to mean "unbounded" (a variadic parameter is present).
func (r *recipe) maxArguments() int {
	for _, p := range r.parameters {
		if p.variadic {
			return -1
		}
	}
	return len(r.parameters)
}

// formatParameter renders a parameter the way a usage line does:
// NAME, +NAME for variadic, or NAME='default' when it has one.
func formatParameter(p parameter) string {
	name := p.name
	if p.variadic {
		name = "+" + name
	}
	if p.def == nil {
		return name
	}
	text := p.def.cooked
	if p.def.kind != exprString {
		text = formatExpression(p.def)
	}
	return name + "='" + text + "'"
}

// alias is a second name for an existing recipe.
type alias struct {
	name       string
	target     string
	lineNumber int
	private    bool
}

// warningKind enumerates non-fatal parser diagnostics.
type warningKind int

const (
	warningDeprecatedEquals warningKind = iota
)

type warning struct {
	kind  warningKind
	token token
}

// justfile is the fully compiled, immutable program.
type justfile struct {
	recipes          map[string]*recipe
	recipeOrder      []string
	assignments      map[string]*expression
	assignmentOrder  []string
	assignmentTokens map[string]token
	exports          map[string]bool
	aliases          map[string]*alias
	aliasOrder       []string
	warnings         []warning
	path             string
	text             string
}

func (jf *justfile) source() string {
	return jf.text
}
