package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, src string, overrides map[string]string) (*justfile, *evalContext) {
	t.Helper()
	jf, err := parse("justfile", src)
	require.NoError(t, err)
	if overrides == nil {
		overrides = map[string]string{}
	}
	ctx := newEvalContext(jf, overrides, nil, true, newInterruptHandler(), "/invoke", "/work/justfile", "/work")
	return jf, ctx
}

func TestEvalConcatenationAndVariable(t *testing.T) {
	src := "a := \"x\"\nb := a + \"y\"\nfoo:\n\techo {{b}}\n"
	jf, ctx := newTestContext(t, src, nil)

	v, err := ctx.variable("b")
	require.NoError(t, err)
	assert.Equal(t, "xy", v)
	_ = jf
}

func TestEvalOverrideWinsOverAssignment(t *testing.T) {
	src := "a := \"x\"\nfoo:\n\techo {{a}}\n"
	_, ctx := newTestContext(t, src, map[string]string{"a": "override"})

	v, err := ctx.variable("a")
	require.NoError(t, err)
	assert.Equal(t, "override", v)
}

func TestEvalMemoizesAssignment(t *testing.T) {
	src := "a := `echo hi`\nfoo:\n\techo {{a}}\n"
	_, ctx := newTestContext(t, src, nil)

	v1, err := ctx.variable("a")
	require.NoError(t, err)
	v2, err := ctx.variable("a")
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
	assert.Len(t, ctx.evaluated, 1)
}

func TestEvalBacktickDryRunPassesThroughRaw(t *testing.T) {
	src := "a := `echo hi`\nfoo:\n\techo {{a}}\n"
	_, ctx := newTestContext(t, src, nil)

	v, err := ctx.variable("a")
	require.NoError(t, err)
	assert.Equal(t, "echo hi", v)
}

func TestEvalBuiltinFunctionCall(t *testing.T) {
	src := "a := env_var_or_default(\"MKJUST_TEST_NOPE\", \"fallback\")\nfoo:\n\techo {{a}}\n"
	_, ctx := newTestContext(t, src, nil)

	v, err := ctx.variable("a")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)
}

func TestEvalBacktickInvalidUtf8IsRuntimeError(t *testing.T) {
	src := "a := `printf '\\377'`\nfoo:\n\techo {{a}}\n"
	jf, err := parse("justfile", src)
	require.NoError(t, err)
	ctx := newEvalContext(jf, map[string]string{}, nil, false, newInterruptHandler(), "/invoke", "/work/justfile", "/work")

	_, err = ctx.variable("a")
	require.Error(t, err)
	rerr, ok := err.(*runtimeError)
	require.True(t, ok)
	assert.Equal(t, errBacktick, rerr.kind)
	assert.Equal(t, outputUtf8, rerr.output.kind)
}

func TestEvalUnknownFunctionIsRuntimeError(t *testing.T) {
	expr := &expression{kind: exprCall, name: "nonexistent", token: token{}}
	_, ctx := newTestContext(t, "foo:\n\techo hi\n", nil)

	_, err := ctx.eval(expr)
	require.Error(t, err)
	rerr, ok := err.(*runtimeError)
	require.True(t, ok)
	assert.Equal(t, errFunctionCall, rerr.kind)
}
