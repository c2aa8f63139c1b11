package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCookedStringEscapes(t *testing.T) {
	tok := token{kind: tokenStringCooked, lexeme: `"a\nb\tc\r\"\\"`}
	got, err := decodeCookedString(tok, tok.lexeme)
	require.Nil(t, err)
	assert.Equal(t, "a\nb\tc\r\"\\", got)
}

func TestDecodeCookedStringInvalidEscape(t *testing.T) {
	tok := token{kind: tokenStringCooked, lexeme: `"a\qb"`}
	_, err := decodeCookedString(tok, tok.lexeme)
	require.NotNil(t, err)
	assert.Equal(t, errInvalidEscapeSequence, err.kind)
	assert.Equal(t, `\q`, err.message)
}

func TestDecodeRawStringNoEscapeProcessing(t *testing.T) {
	tok := token{kind: tokenStringRaw, lexeme: `'a\nb'`}
	assert.Equal(t, `a\nb`, decodeRawString(tok))
}

func TestDecodeRawBacktick(t *testing.T) {
	tok := token{kind: tokenBacktick, lexeme: "`echo hi`"}
	assert.Equal(t, "echo hi", decodeRawBacktick(tok))
}
