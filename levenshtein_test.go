package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"build", "build", 0},
		{"build", "buidl", 2},
		{"build", "buil", 1},
		{"kitten", "sitting", 3},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, levenshtein(c.a, c.b), "%s vs %s", c.a, c.b)
	}
}

func TestSuggestNameWithinThreshold(t *testing.T) {
	candidates := []string{"build", "test", "deploy"}
	assert.Equal(t, "build", suggestName("biuld", candidates))
}

func TestSuggestNameNoMatchBeyondThreshold(t *testing.T) {
	candidates := []string{"build", "test", "deploy"}
	assert.Equal(t, "", suggestName("xxxxxxxxxx", candidates))
}
