// Package skim transforms source code by stripping implementation detail
// while preserving structure, signatures, and types. It is a pure library:
// it accepts byte slices, returns strings, and performs no I/O. The CLI in
// cmd/goskim handles files, caching, and output.
package skim

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language identifies a supported input language or markup format.
type Language string

const (
	LangGo         Language = "go"
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangRust       Language = "rust"
	LangJava       Language = "java"
	LangMarkdown   Language = "markdown"
	LangJSON       Language = "json"
	LangYAML       Language = "yaml"
)

// Supported returns every language the library can transform.
func Supported() []Language {
	return []Language{
		LangGo,
		LangPython,
		LangJavaScript,
		LangTypeScript,
		LangRust,
		LangJava,
		LangMarkdown,
		LangJSON,
		LangYAML,
	}
}

// FromExtension detects a language from a file extension (without dot).
func FromExtension(ext string) (Language, bool) {
	switch strings.ToLower(ext) {
	case "go":
		return LangGo, true
	case "py", "pyi":
		return LangPython, true
	case "js", "jsx":
		return LangJavaScript, true
	case "ts", "tsx":
		return LangTypeScript, true
	case "rs":
		return LangRust, true
	case "java":
		return LangJava, true
	case "md", "markdown":
		return LangMarkdown, true
	case "json":
		return LangJSON, true
	case "yaml", "yml":
		return LangYAML, true
	}
	return "", false
}

// FromPath detects a language from a file path. Paths containing parent
// directory components are rejected outright so callers cannot be tricked
// into classifying (and later caching) traversal paths.
func FromPath(path string) (Language, bool) {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return "", false
		}
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	return FromExtension(ext)
}

// Extensions lists the file extensions recognized for this language.
func (l Language) Extensions() []string {
	switch l {
	case LangGo:
		return []string{"go"}
	case LangPython:
		return []string{"py", "pyi"}
	case LangJavaScript:
		return []string{"js", "jsx"}
	case LangTypeScript:
		return []string{"ts", "tsx"}
	case LangRust:
		return []string{"rs"}
	case LangJava:
		return []string{"java"}
	case LangMarkdown:
		return []string{"md", "markdown"}
	case LangJSON:
		return []string{"json"}
	case LangYAML:
		return []string{"yaml", "yml"}
	}
	return nil
}

// Name returns the display name of the language.
func (l Language) Name() string {
	switch l {
	case LangGo:
		return "Go"
	case LangPython:
		return "Python"
	case LangJavaScript:
		return "JavaScript"
	case LangTypeScript:
		return "TypeScript"
	case LangRust:
		return "Rust"
	case LangJava:
		return "Java"
	case LangMarkdown:
		return "Markdown"
	case LangJSON:
		return "JSON"
	case LangYAML:
		return "YAML"
	}
	return string(l)
}

// ParseLanguage resolves a user-supplied language name or alias.
func ParseLanguage(s string) (Language, bool) {
	switch strings.ToLower(s) {
	case "go", "golang":
		return LangGo, true
	case "python", "py":
		return LangPython, true
	case "javascript", "js":
		return LangJavaScript, true
	case "typescript", "ts":
		return LangTypeScript, true
	case "rust", "rs":
		return LangRust, true
	case "java":
		return LangJava, true
	case "markdown", "md":
		return LangMarkdown, true
	case "json":
		return LangJSON, true
	case "yaml", "yml":
		return LangYAML, true
	}
	return "", false
}

// sitterLanguage maps a Language to its tree-sitter grammar. Markdown, JSON
// and YAML return nil: they are handled without tree-sitter (see markdown.go
// and data.go).
func (l Language) sitterLanguage() *sitter.Language {
	switch l {
	case LangGo:
		return golang.GetLanguage()
	case LangPython:
		return python.GetLanguage()
	case LangJavaScript:
		return javascript.GetLanguage()
	case LangTypeScript:
		return typescript.GetLanguage()
	case LangRust:
		return rust.GetLanguage()
	case LangJava:
		return java.GetLanguage()
	}
	return nil
}

// usesTreeSitter reports whether the language is parsed with tree-sitter.
func (l Language) usesTreeSitter() bool {
	return l.sitterLanguage() != nil
}
