package main

import "strings"

// parser builds a justfile from a filtered token stream, in the same
// recursive-descent style as the original implementation's parser: each
// production is a method that consumes exactly the tokens belonging to it
// and returns a compilationError the moment something unexpected appears.
type parser struct {
	tokens []token
	pos    int
	source string

	justfile *justfile

	pendingDoc    string
	pendingDocSet bool
}

// parse lexes, parses, and resolves source text into a complete justfile.
// CR is stripped up front (even inside a line-continuation sequence) so
// CRLF-authored justfiles lex identically to LF-authored ones.
func parse(path, source string) (*justfile, error) {
	source = strings.ReplaceAll(source, "\r", "")
	lx := lex(source)
	tokens, lexErr := lx.tokenize()
	if lexErr != nil {
		return nil, lexErr
	}

	filtered := make([]token, 0, len(tokens))
	for _, t := range tokens {
		if t.kind != tokenWhitespace && t.kind != tokenComment {
			filtered = append(filtered, t)
			continue
		}
		if t.kind == tokenComment {
			filtered = append(filtered, t)
		}
	}

	p := &parser{
		tokens: filtered,
		source: source,
		justfile: &justfile{
			recipes:          map[string]*recipe{},
			assignments:      map[string]*expression{},
			assignmentTokens: map[string]token{},
			exports:          map[string]bool{},
			aliases:          map[string]*alias{},
			path:             path,
			text:             source,
		},
	}

	if err := p.parseJustfile(); err != nil {
		return nil, err
	}
	if err := resolveAssignments(p.justfile); err != nil {
		return nil, err
	}
	if err := resolveRecipes(p.justfile); err != nil {
		return nil, err
	}
	return p.justfile, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) peekKind() tokenKind {
	return p.tokens[p.pos].kind
}

func (p *parser) advance() token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) at(kind tokenKind) bool {
	return p.peekKind() == kind
}

func (p *parser) accept(kind tokenKind) (token, bool) {
	if p.at(kind) {
		return p.advance(), true
	}
	return token{}, false
}

func (p *parser) expect(kind tokenKind) (token, *compilationError) {
	if t, ok := p.accept(kind); ok {
		return t, nil
	}
	err := p.peek().errorf(errUnexpectedToken)
	err.expected = []tokenKind{kind}
	err.found = p.peekKind()
	err.source = p.source
	return token{}, err
}

func (p *parser) unexpected(expected ...tokenKind) *compilationError {
	err := p.peek().errorf(errUnexpectedToken)
	err.expected = expected
	err.found = p.peekKind()
	err.source = p.source
	return err
}

func (p *parser) parseJustfile() error {
	for {
		switch p.peekKind() {
		case tokenEof:
			return nil

		case tokenEol:
			p.advance()
			p.pendingDoc, p.pendingDocSet = "", false

		case tokenComment:
			c := p.advance()
			if _, err := p.expect(tokenEol); err != nil {
				return err
			}
			p.pendingDoc = strings.TrimPrefix(strings.TrimPrefix(c.lexeme, "#"), " ")
			p.pendingDocSet = true

		case tokenName:
			if err := p.parseItem(); err != nil {
				return err
			}

		case tokenAt:
			if err := p.parseRecipe(false); err != nil {
				return err
			}

		default:
			return p.unexpected(tokenName, tokenAt, tokenEol, tokenEof)
		}
	}
}

func (p *parser) parseItem() error {
	name := p.peek()

	if name.lexeme == "alias" {
		save := p.pos
		p.advance()
		if p.at(tokenName) {
			return p.parseAlias()
		}
		p.pos = save
	}

	if name.lexeme == "export" {
		save := p.pos
		p.advance()
		if p.at(tokenName) && (p.peekAhead(1).kind == tokenColonEquals || p.peekAhead(1).kind == tokenEquals) {
			return p.parseAssignment(true)
		}
		p.pos = save
	}

	if p.peekAhead(1).kind == tokenColonEquals || p.peekAhead(1).kind == tokenEquals {
		return p.parseAssignment(false)
	}

	return p.parseRecipe(false)
}

func (p *parser) peekAhead(n int) token {
	i := p.pos + n
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// parseAlias parses `alias NAME := TARGET`, the "alias" keyword already consumed.
func (p *parser) parseAlias() error {
	nameTok, err := p.expect(tokenName)
	if err != nil {
		return err
	}
	if _, err := p.expect(tokenColonEquals); err != nil {
		return err
	}
	targetTok, err := p.expect(tokenName)
	if err != nil {
		return err
	}
	if _, err := p.expect(tokenEol); err != nil {
		return err
	}

	if existing, ok := p.justfile.aliases[nameTok.lexeme]; ok {
		e := nameTok.errorf(errDuplicateAlias)
		e.alias = nameTok.lexeme
		e.first = existing.lineNumber
		e.source = p.source
		return e
	}

	p.justfile.aliases[nameTok.lexeme] = &alias{
		name:       nameTok.lexeme,
		target:     targetTok.lexeme,
		lineNumber: nameTok.line,
		private:    strings.HasPrefix(nameTok.lexeme, "_"),
	}
	p.justfile.aliasOrder = append(p.justfile.aliasOrder, nameTok.lexeme)
	p.pendingDoc, p.pendingDocSet = "", false
	return nil
}

func (p *parser) parseAssignment(exported bool) error {
	nameTok, err := p.expect(tokenName)
	if err != nil {
		return err
	}

	switch p.peekKind() {
	case tokenColonEquals:
		p.advance()
	case tokenEquals:
		p.advance()
		p.justfile.warnings = append(p.justfile.warnings, warning{kind: warningDeprecatedEquals, token: nameTok})
	default:
		return p.unexpected(tokenColonEquals, tokenEquals)
	}

	expr, err := p.parseExpression()
	if err != nil {
		return err
	}
	if _, err := p.expect(tokenEol); err != nil {
		return err
	}

	if _, ok := p.justfile.assignments[nameTok.lexeme]; ok {
		e := nameTok.errorf(errDuplicateVariable)
		e.variable = nameTok.lexeme
		e.source = p.source
		return e
	}

	p.justfile.assignments[nameTok.lexeme] = expr
	p.justfile.assignmentOrder = append(p.justfile.assignmentOrder, nameTok.lexeme)
	p.justfile.assignmentTokens[nameTok.lexeme] = nameTok
	if exported {
		p.justfile.exports[nameTok.lexeme] = true
	}
	p.pendingDoc, p.pendingDocSet = "", false
	return nil
}

func (p *parser) parseExpression() (*expression, error) {
	lhs, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	for p.at(tokenPlus) {
		p.advance()
		rhs, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		lhs = &expression{kind: exprConcatenation, lhs: lhs, rhs: rhs}
	}
	return lhs, nil
}

func (p *parser) parseValue() (*expression, error) {
	switch p.peekKind() {
	case tokenStringCooked:
		t := p.advance()
		cooked, err := decodeCookedString(t, p.source)
		if err != nil {
			return nil, err
		}
		return &expression{kind: exprString, cooked: cooked, token: t}, nil

	case tokenStringRaw:
		t := p.advance()
		return &expression{kind: exprString, cooked: decodeRawString(t), token: t}, nil

	case tokenBacktick:
		t := p.advance()
		return &expression{kind: exprBacktick, raw: decodeRawBacktick(t), token: t}, nil

	case tokenParenL:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenParenR); err != nil {
			return nil, err
		}
		return &expression{kind: exprGroup, inner: inner}, nil

	case tokenName:
		t := p.advance()
		if p.at(tokenParenL) {
			p.advance()
			var args []*expression
			if !p.at(tokenParenR) {
				for {
					arg, err := p.parseExpression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !p.at(tokenComma) {
						break
					}
					p.advance()
					if p.at(tokenParenR) {
						break
					}
				}
			}
			if _, err := p.expect(tokenParenR); err != nil {
				return nil, err
			}
			return &expression{kind: exprCall, name: t.lexeme, token: t, arguments: args}, nil
		}
		return &expression{kind: exprVariable, name: t.lexeme, token: t}, nil
	}

	err := p.unexpected(tokenStringCooked, tokenStringRaw, tokenBacktick, tokenParenL, tokenName)
	return nil, err
}

func (p *parser) parseRecipe(forceQuiet bool) error {
	quiet := forceQuiet
	if p.at(tokenAt) {
		p.advance()
		quiet = true
	}

	nameTok, err := p.expect(tokenName)
	if err != nil {
		return err
	}

	var params []parameter
	sawVariadic := false
	sawDefault := false
	for p.at(tokenName) || p.at(tokenPlus) {
		variadic := false
		if p.at(tokenPlus) {
			p.advance()
			variadic = true
		}
		pnameTok, err := p.expect(tokenName)
		if err != nil {
			return err
		}
		if sawVariadic {
			e := pnameTok.errorf(errParameterFollowsVariadicParameter)
			e.parameter = pnameTok.lexeme
			e.source = p.source
			return e
		}
		var def *expression
		if p.at(tokenEquals) || p.at(tokenColonEquals) {
			p.advance()
			def, err = p.parseValue()
			if err != nil {
				return err
			}
			sawDefault = true
		} else if sawDefault && !variadic {
			e := pnameTok.errorf(errRequiredParameterFollowsDefaultParameter)
			e.parameter = pnameTok.lexeme
			e.source = p.source
			return e
		}
		for _, existing := range params {
			if existing.name == pnameTok.lexeme {
				e := pnameTok.errorf(errDuplicateParameter)
				e.recipe = nameTok.lexeme
				e.parameter = pnameTok.lexeme
				e.source = p.source
				return e
			}
		}
		params = append(params, parameter{name: pnameTok.lexeme, token: pnameTok, def: def, variadic: variadic})
		if variadic {
			sawVariadic = true
		}
	}

	if _, err := p.expect(tokenColon); err != nil {
		return err
	}

	var deps []string
	var depTokens []token
	for p.at(tokenName) {
		dt := p.advance()
		for _, d := range deps {
			if d == dt.lexeme {
				e := dt.errorf(errDuplicateDependency)
				e.recipe = nameTok.lexeme
				e.dependency = dt.lexeme
				e.source = p.source
				return e
			}
		}
		deps = append(deps, dt.lexeme)
		depTokens = append(depTokens, dt)
	}

	if _, err := p.expect(tokenEol); err != nil {
		return err
	}

	var lines [][]fragment
	shebang := false
	if p.at(tokenIndent) {
		p.advance()
		for p.at(tokenLine) || p.at(tokenEol) {
			if p.at(tokenEol) {
				p.advance()
				lines = append(lines, nil)
				continue
			}
			p.advance() // tokenLine marker

			var frags []fragment
			for p.at(tokenText) || p.at(tokenInterpolationStart) {
				if p.at(tokenText) {
					t := p.advance()
					frags = append(frags, fragment{kind: fragmentText, text: t})
					continue
				}
				p.advance() // InterpolationStart
				expr, err := p.parseExpression()
				if err != nil {
					return err
				}
				if _, err := p.expect(tokenInterpolationEnd); err != nil {
					return err
				}
				frags = append(frags, fragment{kind: fragmentExpression, expression: expr})
			}
			if _, err := p.expect(tokenEol); err != nil {
				return err
			}

			if len(lines) == 0 {
				if len(frags) == 1 && frags[0].kind == fragmentText && strings.HasPrefix(frags[0].text.lexeme, "#!") {
					shebang = true
				}
			} else if !shebang && len(frags) > 0 && frags[0].kind == fragmentText &&
				!fragmentLine(lines[len(lines)-1]).continuationEnds() &&
				(strings.HasPrefix(frags[0].text.lexeme, " ") || strings.HasPrefix(frags[0].text.lexeme, "\t")) {
				e := frags[0].text.errorf(errExtraLeadingWhitespace)
				e.source = p.source
				return e
			}

			lines = append(lines, frags)
		}
		if _, err := p.expect(tokenDedent); err != nil {
			return err
		}
	}

	if existing, ok := p.justfile.recipes[nameTok.lexeme]; ok {
		e := nameTok.errorf(errDuplicateRecipe)
		e.recipe = nameTok.lexeme
		e.first = existing.lineNumber
		e.source = p.source
		return e
	}

	p.justfile.recipes[nameTok.lexeme] = &recipe{
		name:             nameTok.lexeme,
		doc:              p.pendingDoc,
		hasDoc:           p.pendingDocSet,
		lineNumber:       nameTok.line,
		parameters:       params,
		dependencies:     deps,
		dependencyTokens: depTokens,
		lines:            lines,
		private:          strings.HasPrefix(nameTok.lexeme, "_"),
		quiet:            quiet,
		shebang:          shebang,
	}
	p.justfile.recipeOrder = append(p.justfile.recipeOrder, nameTok.lexeme)
	p.pendingDoc, p.pendingDocSet = "", false
	return nil
}

// continuationEnds reports whether the last fragment of a parsed body line
// is a backslash line-continuation, used to decide whether the next
// line's leading whitespace is legitimate continuation indentation rather
// than an ExtraLeadingWhitespace violation.
type fragmentLine []fragment

func (fl fragmentLine) continuationEnds() bool {
	if len(fl) == 0 {
		return false
	}
	return fl[len(fl)-1].continuation()
}
