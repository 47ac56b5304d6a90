package skim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformMarkdown(t *testing.T) {
	src := loadFixture(t, "markdown/simple.md")

	t.Run("structure keeps h1-h3", func(t *testing.T) {
		out, err := transformMarkdown(src, ModeStructure)
		require.NoError(t, err)

		assert.Contains(t, out, "# Title")
		assert.Contains(t, out, "## Section One")
		assert.Contains(t, out, "### Subsection")
		assert.Contains(t, out, "Setext Title")
		assert.Contains(t, out, "Setext Section")
		assert.NotContains(t, out, "#### Deep Heading")
		assert.NotContains(t, out, "Intro paragraph")
		assert.NotContains(t, out, "not a header")
	})

	t.Run("signatures keeps all levels", func(t *testing.T) {
		out, err := transformMarkdown(src, ModeSignatures)
		require.NoError(t, err)

		assert.Contains(t, out, "#### Deep Heading")
		assert.NotContains(t, out, "Intro paragraph")
	})

	t.Run("full is identity", func(t *testing.T) {
		out, err := transformMarkdown(src, ModeFull)
		require.NoError(t, err)
		assert.Equal(t, string(src), out)
	})

	t.Run("fenced code ignored", func(t *testing.T) {
		out, err := transformMarkdown([]byte("```\n# fake\n```\n# real\n"), ModeStructure)
		require.NoError(t, err)
		assert.Equal(t, "# real", out)
	})

	t.Run("list dash is not setext", func(t *testing.T) {
		out, err := transformMarkdown([]byte("item one\n-\nitem two\n"), ModeStructure)
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestAtxLevel(t *testing.T) {
	cases := []struct {
		line  string
		level int
		ok    bool
	}{
		{"# One", 1, true},
		{"### Three", 3, true},
		{"###### Six", 6, true},
		{"####### Seven", 0, false},
		{"#NoSpace", 0, false},
		{"plain", 0, false},
		{"#", 1, true},
	}
	for _, tc := range cases {
		level, ok := atxLevel(tc.line)
		assert.Equal(t, tc.ok, ok, tc.line)
		assert.Equal(t, tc.level, level, tc.line)
	}
}
