package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignmentAndRecipe(t *testing.T) {
	src := `name := "world"

# greets someone
greet recipient=name:
	echo "hello {{recipient}}"
`
	jf, err := parse("justfile", src)
	require.NoError(t, err)

	assert.Equal(t, []string{"name"}, jf.assignmentOrder)
	assert.Equal(t, []string{"greet"}, jf.recipeOrder)

	r := jf.recipes["greet"]
	require.Len(t, r.parameters, 1)
	assert.Equal(t, "recipient", r.parameters[0].name)
	assert.True(t, r.hasDoc)
	assert.Equal(t, "greets someone", r.doc)
	assert.Equal(t, 0, r.minArguments())
	assert.Equal(t, 1, r.maxArguments())
}

func TestParseVariadicAndDefaultOrdering(t *testing.T) {
	src := "build target='debug' +flags:\n\techo {{target}} {{flags}}\n"
	jf, err := parse("justfile", src)
	require.NoError(t, err)

	r := jf.recipes["build"]
	require.Len(t, r.parameters, 2)
	assert.True(t, r.parameters[1].variadic)
	assert.Equal(t, -1, r.maxArguments())
}

func TestParseRequiredAfterDefaultIsError(t *testing.T) {
	src := "build target='debug' flags:\n\techo {{target}}\n"
	_, err := parse("justfile", src)
	require.Error(t, err)
	cerr, ok := err.(*compilationError)
	require.True(t, ok)
	assert.Equal(t, errRequiredParameterFollowsDefaultParameter, cerr.kind)
}

func TestParseDuplicateRecipe(t *testing.T) {
	src := "foo:\n\techo a\nfoo:\n\techo b\n"
	_, err := parse("justfile", src)
	require.Error(t, err)
	cerr, ok := err.(*compilationError)
	require.True(t, ok)
	assert.Equal(t, errDuplicateRecipe, cerr.kind)
}

func TestParseDuplicateAlias(t *testing.T) {
	src := "foo:\n\techo a\nalias x := foo\nalias x := foo\n"
	_, err := parse("justfile", src)
	require.Error(t, err)
	cerr, ok := err.(*compilationError)
	require.True(t, ok)
	assert.Equal(t, errDuplicateAlias, cerr.kind)
}

func TestParseExport(t *testing.T) {
	src := "export name := \"value\"\nfoo:\n\techo {{name}}\n"
	jf, err := parse("justfile", src)
	require.NoError(t, err)
	assert.True(t, jf.exports["name"])
}

func TestParseDeprecatedEqualsWarning(t *testing.T) {
	src := "name = \"value\"\nfoo:\n\techo {{name}}\n"
	jf, err := parse("justfile", src)
	require.NoError(t, err)
	require.Len(t, jf.warnings, 1)
	assert.Equal(t, warningDeprecatedEquals, jf.warnings[0].kind)
}

func TestParseExtraLeadingWhitespace(t *testing.T) {
	src := "foo:\n\techo a\n\t  echo b\n"
	_, err := parse("justfile", src)
	require.Error(t, err)
	cerr, ok := err.(*compilationError)
	require.True(t, ok)
	assert.Equal(t, errExtraLeadingWhitespace, cerr.kind)
}

func TestParseTolerateCRLF(t *testing.T) {
	src := "name := \"value\"\r\nfoo:\r\n\techo {{name}}\r\n"
	jf, err := parse("justfile", src)
	require.NoError(t, err)
	assert.Contains(t, jf.recipes, "foo")
	assert.NotContains(t, jf.source(), "\r")
}

func TestParseTolerateCRInsideLineContinuation(t *testing.T) {
	src := "foo:\r\n\techo a \\\r\n\t\tb\r\n"
	jf, err := parse("justfile", src)
	require.NoError(t, err)
	assert.Contains(t, jf.recipes, "foo")
}

func TestParseUnexpectedToken(t *testing.T) {
	_, err := parse("justfile", ":= \"value\"\n")
	require.Error(t, err)
	cerr, ok := err.(*compilationError)
	require.True(t, ok)
	assert.Equal(t, errUnexpectedToken, cerr.kind)
}

func TestResolveUndefinedVariable(t *testing.T) {
	src := "a := b\n"
	_, err := parse("justfile", src)
	require.Error(t, err)
	cerr, ok := err.(*compilationError)
	require.True(t, ok)
	assert.Equal(t, errUndefinedVariable, cerr.kind)
}

func TestResolveUndefinedVariableInRecipeBody(t *testing.T) {
	src := "foo:\n\techo {{bogus}}\n"
	_, err := parse("justfile", src)
	require.Error(t, err)
	cerr, ok := err.(*compilationError)
	require.True(t, ok)
	assert.Equal(t, errUndefinedVariable, cerr.kind)
	assert.Equal(t, "bogus", cerr.variable)
}

func TestResolveRecipeBodyMayReferenceParameterAndVariable(t *testing.T) {
	src := "name := \"world\"\nfoo target:\n\techo {{name}} {{target}}\n"
	_, err := parse("justfile", src)
	require.NoError(t, err)
}

func TestResolveCircularVariableDependency(t *testing.T) {
	src := "a := b\nb := a\n"
	_, err := parse("justfile", src)
	require.Error(t, err)
	cerr, ok := err.(*compilationError)
	require.True(t, ok)
	assert.Equal(t, errCircularVariableDependency, cerr.kind)
}

func TestResolveCircularRecipeDependency(t *testing.T) {
	src := "a: b\n\techo a\nb: a\n\techo b\n"
	_, err := parse("justfile", src)
	require.Error(t, err)
	cerr, ok := err.(*compilationError)
	require.True(t, ok)
	assert.Equal(t, errCircularRecipeDependency, cerr.kind)
}

func TestResolveParameterShadowsVariable(t *testing.T) {
	src := "name := \"value\"\nfoo name:\n\techo {{name}}\n"
	_, err := parse("justfile", src)
	require.Error(t, err)
	cerr, ok := err.(*compilationError)
	require.True(t, ok)
	assert.Equal(t, errParameterShadowsVariable, cerr.kind)
}

func TestResolveUnknownDependency(t *testing.T) {
	src := "foo: bar\n\techo foo\n"
	_, err := parse("justfile", src)
	require.Error(t, err)
	cerr, ok := err.(*compilationError)
	require.True(t, ok)
	assert.Equal(t, errUnknownDependency, cerr.kind)
}

func TestResolveDependencyHasParameters(t *testing.T) {
	src := "foo: bar\n\techo foo\nbar name:\n\techo {{name}}\n"
	_, err := parse("justfile", src)
	require.Error(t, err)
	cerr, ok := err.(*compilationError)
	require.True(t, ok)
	assert.Equal(t, errDependencyHasParameters, cerr.kind)
}

func TestResolveUnknownAliasTarget(t *testing.T) {
	src := "foo:\n\techo foo\nalias bar := baz\n"
	_, err := parse("justfile", src)
	require.Error(t, err)
	cerr, ok := err.(*compilationError)
	require.True(t, ok)
	assert.Equal(t, errUnknownAliasTarget, cerr.kind)
}

func TestParseShebangRecipe(t *testing.T) {
	src := "foo:\n\t#!/bin/sh\n\techo hi\n"
	jf, err := parse("justfile", src)
	require.NoError(t, err)
	assert.True(t, jf.recipes["foo"].shebang)
}

func TestDumpRoundTripsRecipeNames(t *testing.T) {
	src := "name := \"world\"\n\nfoo:\n\techo {{name}}\n"
	jf, err := parse("justfile", src)
	require.NoError(t, err)

	dumped := dumpJustfile(jf)
	jf2, err := parse("justfile", dumped)
	require.NoError(t, err)
	assert.Equal(t, jf.recipeOrder, jf2.recipeOrder)
	assert.Equal(t, jf.assignmentOrder, jf2.assignmentOrder)
}
