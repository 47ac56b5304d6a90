package skim

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// typeKinds names the type-definition node types of a language's grammar.
// Empty fields mean the construct does not exist in that language.
type typeKinds struct {
	alias     string
	iface     string
	enum      string
	classDecl string
	structDef string
}

func typeDefKinds(lang Language) typeKinds {
	switch lang {
	case LangTypeScript:
		return typeKinds{
			alias:     "type_alias_declaration",
			iface:     "interface_declaration",
			enum:      "enum_declaration",
			classDecl: "class_declaration",
		}
	case LangJavaScript:
		return typeKinds{classDecl: "class_declaration"}
	case LangPython:
		return typeKinds{
			alias:     "type_alias_statement",
			classDecl: "class_definition",
		}
	case LangRust:
		return typeKinds{
			alias:     "type_item",
			iface:     "trait_item",
			enum:      "enum_item",
			structDef: "struct_item",
		}
	case LangGo:
		return typeKinds{
			alias:     "type_declaration",
			iface:     "interface_type",
			structDef: "struct_type",
		}
	case LangJava:
		return typeKinds{
			iface:     "interface_declaration",
			enum:      "enum_declaration",
			classDecl: "class_declaration",
		}
	}
	return typeKinds{}
}

func isTypeNode(kind string, kinds typeKinds) bool {
	if kind == "" {
		return false
	}
	return kind == kinds.alias ||
		kind == kinds.iface ||
		kind == kinds.enum ||
		kind == kinds.classDecl ||
		kind == kinds.structDef
}

// transformTypes keeps only type definitions, joined by blank lines. Class
// definitions are cut at their body: the declaration head is the type.
func transformTypes(source []byte, tree *sitter.Tree, lang Language) (string, error) {
	kinds := typeDefKinds(lang)

	var defs []string
	if err := collectTypeDefs(tree.RootNode(), source, kinds, &defs, 0); err != nil {
		return "", err
	}
	if len(defs) > maxTypeDefs {
		return "", &LimitError{What: "type definition", Count: len(defs), Max: maxTypeDefs}
	}

	return strings.Join(defs, "\n\n"), nil
}

func collectTypeDefs(node *sitter.Node, source []byte, kinds typeKinds, defs *[]string, depth int) error {
	if depth > maxASTDepth {
		return &LimitError{What: "AST depth", Count: depth, Max: maxASTDepth}
	}

	if isTypeNode(node.Type(), kinds) {
		if def := extractTypeDef(node, source, kinds); def != "" {
			*defs = append(*defs, def)
		}
		// Do not recurse into a definition; nested content is part of it.
		return nil
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if err := collectTypeDefs(node.Child(i), source, kinds, defs, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func extractTypeDef(node *sitter.Node, source []byte, kinds typeKinds) string {
	start := node.StartByte()
	end := node.EndByte()

	if node.Type() == kinds.classDecl {
		if body := findClassBody(node); body != nil {
			end = body.StartByte()
		}
	}

	if end < start || int(end) > len(source) {
		return ""
	}
	return strings.TrimSpace(string(source[start:end]))
}

func findClassBody(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "class_body", "declaration_list", "block":
			return child
		}
	}
	return nil
}
