package skim

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrUnsupportedLanguage is returned when no language can be resolved
	// for an input.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrInvalidConfig is returned for configurations the library cannot
	// honor, such as requesting a tree-sitter parser for JSON.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ParseError reports that an input could not be parsed.
type ParseError struct {
	Language Language
	Detail   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s source: %s", e.Language.Name(), e.Detail)
}

// LimitError reports that an input exceeded a hard traversal limit. The
// limits exist so hostile inputs cannot exhaust the stack or memory.
type LimitError struct {
	What  string
	Count int
	Max   int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s limit exceeded: %d (max %d)", e.What, e.Count, e.Max)
}
