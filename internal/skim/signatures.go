package skim

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// transformSignatures keeps only callable signatures, one per line. More
// aggressive than structure mode: no bodies, no surrounding declarations.
func transformSignatures(source []byte, tree *sitter.Tree, lang Language) (string, error) {
	kinds := callableKinds(lang)

	var signatures []string
	if err := collectSignatures(tree.RootNode(), source, kinds, &signatures, 0); err != nil {
		return "", err
	}
	if len(signatures) > maxSignatures {
		return "", &LimitError{What: "signature", Count: len(signatures), Max: maxSignatures}
	}

	return strings.Join(signatures, "\n"), nil
}

func collectSignatures(node *sitter.Node, source []byte, kinds nodeKinds, signatures *[]string, depth int) error {
	if depth > maxASTDepth {
		return &LimitError{What: "AST depth", Count: depth, Max: maxASTDepth}
	}

	if isCallableNode(node.Type(), kinds) {
		if sig := extractSignature(node, source); sig != "" {
			*signatures = append(*signatures, sig)
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if err := collectSignatures(node.Child(i), source, kinds, signatures, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// extractSignature returns the text of a callable up to (but excluding) its
// body. Callables without a body (interface methods, abstract declarations)
// are returned whole.
func extractSignature(node *sitter.Node, source []byte) string {
	start := node.StartByte()
	end := node.EndByte()
	if body := findBody(node); body != nil {
		end = body.StartByte()
	}
	if end < start || int(end) > len(source) {
		return ""
	}
	return strings.TrimSpace(string(source[start:end]))
}
