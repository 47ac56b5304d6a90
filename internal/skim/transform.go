package skim

import (
	"context"
	"fmt"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
)

// Traversal limits shared by the tree-sitter transforms. Hostile input must
// not be able to blow the stack or allocate without bound.
const (
	maxASTDepth    = 500
	maxReplacement = 100_000
	maxSignatures  = 10_000
	maxTypeDefs    = 10_000
)

// Result carries a transformed source plus timing metadata.
type Result struct {
	Content  string
	Duration time.Duration
}

// Transform transforms source in the given language and mode.
func Transform(ctx context.Context, source []byte, lang Language, mode Mode) (string, error) {
	return TransformWithConfig(ctx, source, lang, WithMode(mode))
}

// TransformWithConfig transforms source with a full configuration.
func TransformWithConfig(ctx context.Context, source []byte, lang Language, cfg *Config) (string, error) {
	if cfg.Mode == ModeFull {
		if _, ok := ParseLanguage(string(lang)); !ok {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
		}
		return string(source), nil
	}

	switch lang {
	case LangJSON:
		return transformJSON(source)
	case LangYAML:
		return transformYAML(source)
	case LangMarkdown:
		return transformMarkdown(source, cfg.Mode)
	}

	if !lang.usesTreeSitter() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	parser, err := NewParser(lang)
	if err != nil {
		return "", err
	}
	defer parser.Close()

	tree, err := parser.Parse(ctx, source)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	return transformTree(source, tree, lang, cfg)
}

// TransformAuto transforms source, detecting the language from path. The
// path is used only for detection; nothing is read from disk.
func TransformAuto(ctx context.Context, source []byte, path string, mode Mode) (string, error) {
	lang, ok := FromPath(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
	}
	return Transform(ctx, source, lang, mode)
}

// TransformDetailed transforms source and reports how long it took.
func TransformDetailed(ctx context.Context, source []byte, lang Language, mode Mode) (*Result, error) {
	start := time.Now()
	content, err := Transform(ctx, source, lang, mode)
	if err != nil {
		return nil, err
	}
	return &Result{Content: content, Duration: time.Since(start)}, nil
}

// transformTree routes a parsed tree to the mode-specific transform.
func transformTree(source []byte, tree *sitter.Tree, lang Language, cfg *Config) (string, error) {
	switch cfg.Mode {
	case ModeStructure:
		return transformStructure(source, tree, lang)
	case ModeSignatures:
		return transformSignatures(source, tree, lang)
	case ModeTypes:
		return transformTypes(source, tree, lang)
	case ModeFull:
		return string(source), nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, cfg.Mode)
}
