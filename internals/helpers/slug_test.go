package helper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Intro to Go":           "intro-to-go",
		"  Spaces  &  Symbols! ": "spaces-symbols",
		"ALREADY-dashed--twice": "already-dashed-twice",
		"éclair au café":        "éclair-au-café",
		"":                      "",
		"---":                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, GenerateSlug(in), "input %q", in)
	}
}

func TestGenerateSlugMaxLen(t *testing.T) {
	long := strings.Repeat("a", 400)
	got := GenerateSlug(long)
	assert.LessOrEqual(t, len(got), DefaultSlugMaxLen)
}
