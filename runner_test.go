package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindArgumentsFillsDefaultsAndVariadic(t *testing.T) {
	src := "build target='debug' +flags:\n\techo {{target}} {{flags}}\n"
	jf, ctx := newTestContext(t, src, nil)
	rn := newRunner(jf, runConfig{dryRun: true}, ctx, nil)

	bound, err := rn.bindArguments(jf.recipes["build"], []string{"release", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "release", bound["target"])
	assert.Equal(t, "a b", bound["flags"])
}

func TestBindArgumentsUsesDefaultWhenOmitted(t *testing.T) {
	src := "build target='debug':\n\techo {{target}}\n"
	jf, ctx := newTestContext(t, src, nil)
	rn := newRunner(jf, runConfig{dryRun: true}, ctx, nil)

	bound, err := rn.bindArguments(jf.recipes["build"], nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", bound["target"])
}

func TestBindArgumentsArityMismatch(t *testing.T) {
	src := "build target:\n\techo {{target}}\n"
	jf, ctx := newTestContext(t, src, nil)
	rn := newRunner(jf, runConfig{dryRun: true}, ctx, nil)

	_, err := rn.bindArguments(jf.recipes["build"], []string{"a", "b"})
	require.Error(t, err)
	rerr, ok := err.(*runtimeError)
	require.True(t, ok)
	assert.Equal(t, errArgumentCountMismatch, rerr.kind)
}

func TestResolveTargetByAlias(t *testing.T) {
	src := "foo:\n\techo foo\nalias bar := foo\n"
	jf, _ := newTestContext(t, src, nil)

	r, err := resolveTarget(jf, "bar")
	require.NoError(t, err)
	assert.Equal(t, "foo", r.name)
}

func TestResolveTargetUnknownSuggestsClosest(t *testing.T) {
	src := "build:\n\techo build\n"
	jf, _ := newTestContext(t, src, nil)

	_, err := resolveTarget(jf, "biuld")
	require.Error(t, err)
	rerr, ok := err.(*runtimeError)
	require.True(t, ok)
	assert.Equal(t, errUnknownRecipes, rerr.kind)
	assert.Equal(t, "build", rerr.suggestion)
}

func TestCheckOverridesRejectsUnknownVariable(t *testing.T) {
	src := "a := \"x\"\nfoo:\n\techo {{a}}\n"
	jf, _ := newTestContext(t, src, nil)

	err := checkOverrides(jf, map[string]string{"nope": "1"})
	require.Error(t, err)
	rerr, ok := err.(*runtimeError)
	require.True(t, ok)
	assert.Equal(t, errUnknownOverrides, rerr.kind)
}

func TestCheckOverridesAcceptsKnownVariable(t *testing.T) {
	src := "a := \"x\"\nfoo:\n\techo {{a}}\n"
	jf, _ := newTestContext(t, src, nil)

	assert.NoError(t, checkOverrides(jf, map[string]string{"a": "1"}))
}

func TestRunnerExportsOverrideDotenv(t *testing.T) {
	src := "export a := \"from-justfile\"\nfoo:\n\techo {{a}}\n"
	jf, ctx := newTestContext(t, src, nil)
	rn := newRunner(jf, runConfig{dryRun: true}, ctx, map[string]string{"a": "from-dotenv"})

	env := rn.environ()
	found := false
	for _, kv := range env {
		if kv == "a=from-justfile" {
			found = true
		}
		assert.NotEqual(t, "a=from-dotenv", kv)
	}
	assert.True(t, found)
}
