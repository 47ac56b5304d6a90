package skim

import (
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

const bodyPlaceholder = " { /* ... */ }"

// nodeKinds names the function and method node types of a language's
// tree-sitter grammar.
type nodeKinds struct {
	function string
	method   string
}

func callableKinds(lang Language) nodeKinds {
	switch lang {
	case LangTypeScript, LangJavaScript:
		return nodeKinds{function: "function_declaration", method: "method_definition"}
	case LangPython:
		return nodeKinds{function: "function_definition", method: "function_definition"}
	case LangRust:
		return nodeKinds{function: "function_item", method: "function_item"}
	case LangGo:
		return nodeKinds{function: "function_declaration", method: "method_declaration"}
	case LangJava:
		return nodeKinds{function: "method_declaration", method: "method_declaration"}
	}
	return nodeKinds{}
}

func isCallableNode(kind string, kinds nodeKinds) bool {
	return kind == kinds.function ||
		kind == kinds.method ||
		kind == "arrow_function" ||
		kind == "function_expression" ||
		kind == "method_declaration"
}

// findBody returns the body node of a function or method, if any.
func findBody(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "statement_block", "block", "compound_statement", "body":
			return child
		}
	}
	return nil
}

type byteRange struct {
	start uint32
	end   uint32
}

// transformStructure strips callable bodies, keeping everything else.
func transformStructure(source []byte, tree *sitter.Tree, lang Language) (string, error) {
	kinds := callableKinds(lang)

	var ranges []byteRange
	if err := collectBodyRanges(tree.RootNode(), kinds, &ranges, 0); err != nil {
		return "", err
	}
	if len(ranges) > maxReplacement {
		return "", &LimitError{What: "body replacement", Count: len(ranges), Max: maxReplacement}
	}

	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })

	var out strings.Builder
	out.Grow(len(source) + len(ranges)*len(bodyPlaceholder))

	last := uint32(0)
	for _, r := range ranges {
		if r.end < r.start || int(r.end) > len(source) {
			return "", &ParseError{Language: lang, Detail: "body range outside source"}
		}
		// Nested bodies are already covered by the enclosing replacement.
		if r.start < last {
			continue
		}
		out.Write(source[last:r.start])
		out.WriteString(bodyPlaceholder)
		last = r.end
	}
	out.Write(source[last:])

	return out.String(), nil
}

func collectBodyRanges(node *sitter.Node, kinds nodeKinds, ranges *[]byteRange, depth int) error {
	if depth > maxASTDepth {
		return &LimitError{What: "AST depth", Count: depth, Max: maxASTDepth}
	}

	if isCallableNode(node.Type(), kinds) {
		if body := findBody(node); body != nil {
			*ranges = append(*ranges, byteRange{start: body.StartByte(), end: body.EndByte()})
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if err := collectBodyRanges(node.Child(i), kinds, ranges, depth+1); err != nil {
			return err
		}
	}
	return nil
}
