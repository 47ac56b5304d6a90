package skim

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Parser wraps a tree-sitter parser bound to a single language. A Parser is
// not safe for concurrent use; create one per goroutine.
type Parser struct {
	lang Language
	ts   *sitter.Parser
}

// NewParser creates a parser for the given language. Languages that do not
// use tree-sitter (Markdown, JSON, YAML) return ErrInvalidConfig.
func NewParser(lang Language) (*Parser, error) {
	grammar := lang.sitterLanguage()
	if grammar == nil {
		return nil, fmt.Errorf("%w: %s does not use a tree-sitter parser", ErrInvalidConfig, lang.Name())
	}

	ts := sitter.NewParser()
	ts.SetLanguage(grammar)

	return &Parser{lang: lang, ts: ts}, nil
}

// Parse parses source into a tree-sitter tree. The caller owns the tree and
// must Close it.
func (p *Parser) Parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	tree, err := p.ts.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &ParseError{Language: p.lang, Detail: err.Error()}
	}
	if tree == nil {
		return nil, &ParseError{Language: p.lang, Detail: "parser returned no tree"}
	}
	return tree, nil
}

// Language returns the language this parser is bound to.
func (p *Parser) Language() Language { return p.lang }

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	p.ts.Close()
}
