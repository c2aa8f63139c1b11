package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpSortsAssignmentsAndSeparatesEachWithBlankLine(t *testing.T) {
	src := "a := \"0\"\nc := a + b + a + b\nb := \"1\"\n"
	jf, err := parse("justfile", src)
	require.NoError(t, err)

	dumped := dumpJustfile(jf)
	assert.True(t, strings.HasPrefix(dumped, "a := \"0\"\n\nb := \"1\"\n\nc := a + b + a + b\n\n"))
}
