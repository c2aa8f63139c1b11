package main

import "fmt"

// eof is returned by the reader in place of a rune once the input is exhausted.
const eof rune = 0

// tokenKind enumerates every lexeme the lexer can produce.
type tokenKind int

const (
	tokenName tokenKind = iota
	tokenStringCooked
	tokenStringRaw
	tokenBacktick
	tokenPlus
	tokenEquals
	tokenColonEquals
	tokenColon
	tokenComma
	tokenParenL
	tokenParenR
	tokenAt
	tokenEol
	tokenEof
	tokenIndent
	tokenDedent
	tokenLine
	tokenText
	tokenInterpolationStart
	tokenInterpolationEnd
	tokenComment
	tokenWhitespace
)

func (k tokenKind) String() string {
	switch k {
	case tokenName:
		return "name"
	case tokenStringCooked:
		return "cooked string"
	case tokenStringRaw:
		return "raw string"
	case tokenBacktick:
		return "backtick"
	case tokenPlus:
		return "'+'"
	case tokenEquals:
		return "'='"
	case tokenColonEquals:
		return "':='"
	case tokenColon:
		return "':'"
	case tokenComma:
		return "','"
	case tokenParenL:
		return "'('"
	case tokenParenR:
		return "')'"
	case tokenAt:
		return "'@'"
	case tokenEol:
		return "end of line"
	case tokenEof:
		return "end of file"
	case tokenIndent:
		return "indent"
	case tokenDedent:
		return "dedent"
	case tokenLine:
		return "line"
	case tokenText:
		return "text"
	case tokenInterpolationStart:
		return "'{{'"
	case tokenInterpolationEnd:
		return "'}}'"
	case tokenComment:
		return "comment"
	case tokenWhitespace:
		return "whitespace"
	}
	return "unknown token"
}

// token is a lexeme anchored to its position in the source text.
type token struct {
	kind   tokenKind
	lexeme string
	offset int
	line   int
	column int
}

func (t token) String() string {
	return fmt.Sprintf("%s(%q)", t.kind, t.lexeme)
}

// errorf builds a compilationError anchored to this token.
func (t token) errorf(kind compilationErrorKind) *compilationError {
	return &compilationError{
		offset: t.offset,
		line:   t.line,
		column: t.column,
		width:  len([]rune(t.lexeme)),
		kind:   kind,
	}
}
