package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColorAlwaysAndNever(t *testing.T) {
	assert.True(t, resolveColor("always").enabled)
	assert.False(t, resolveColor("never").enabled)
}

func TestResolveColorWrap(t *testing.T) {
	c := color{enabled: true}
	assert.Equal(t, "\x1b[36mhi\x1b[0m", c.cyan("hi"))

	off := color{enabled: false}
	assert.Equal(t, "hi", off.cyan("hi"))
}
