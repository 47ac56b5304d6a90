package skim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromExtension(t *testing.T) {
	cases := []struct {
		ext  string
		want Language
		ok   bool
	}{
		{"ts", LangTypeScript, true},
		{"tsx", LangTypeScript, true},
		{"js", LangJavaScript, true},
		{"py", LangPython, true},
		{"pyi", LangPython, true},
		{"rs", LangRust, true},
		{"go", LangGo, true},
		{"java", LangJava, true},
		{"md", LangMarkdown, true},
		{"json", LangJSON, true},
		{"yml", LangYAML, true},
		{"YAML", LangYAML, true},
		{"unknown", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.ext, func(t *testing.T) {
			got, ok := FromExtension(tc.ext)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromPath(t *testing.T) {
	t.Run("detects by extension", func(t *testing.T) {
		lang, ok := FromPath("src/main.rs")
		assert.True(t, ok)
		assert.Equal(t, LangRust, lang)

		lang, ok = FromPath("test.py")
		assert.True(t, ok)
		assert.Equal(t, LangPython, lang)
	})

	t.Run("no extension", func(t *testing.T) {
		_, ok := FromPath("Makefile")
		assert.False(t, ok)
	})

	t.Run("rejects parent traversal", func(t *testing.T) {
		_, ok := FromPath("../etc/config.yaml")
		assert.False(t, ok)

		_, ok = FromPath("src/../../secrets.json")
		assert.False(t, ok)
	})

	t.Run("absolute paths allowed", func(t *testing.T) {
		lang, ok := FromPath("/home/user/project/main.go")
		assert.True(t, ok)
		assert.Equal(t, LangGo, lang)
	})
}

func TestParseLanguage(t *testing.T) {
	for alias, want := range map[string]Language{
		"typescript": LangTypeScript,
		"ts":         LangTypeScript,
		"PY":         LangPython,
		"golang":     LangGo,
		"rs":         LangRust,
		"md":         LangMarkdown,
	} {
		got, ok := ParseLanguage(alias)
		assert.True(t, ok, alias)
		assert.Equal(t, want, got, alias)
	}

	_, ok := ParseLanguage("brainfuck")
	assert.False(t, ok)
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"structure", "STRUCTURE", "Structure"} {
		mode, ok := ParseMode(s)
		assert.True(t, ok)
		assert.Equal(t, ModeStructure, mode)
	}

	_, ok := ParseMode("everything")
	assert.False(t, ok)
}

func TestSupported(t *testing.T) {
	langs := Supported()
	assert.Len(t, langs, 9)
	for _, l := range langs {
		assert.NotEmpty(t, l.Name())
		if l != LangMarkdown && l != LangJSON && l != LangYAML {
			assert.NotEmpty(t, l.Extensions())
			assert.True(t, l.usesTreeSitter(), l)
		}
	}
}
