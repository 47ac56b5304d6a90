package skim

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// JSON and YAML are not parsed with tree-sitter. Both reduce to a key-only
// structure: values are stripped, key order is preserved, arrays of objects
// show the first object's shape, arrays of primitives and empty containers
// show just the key.
//
// Both formats decode through yaml.Node (JSON is a YAML subset) because the
// node API preserves key order, which plain map decoding loses. Inputs
// claiming to be JSON are validated with encoding/json first so YAML-only
// syntax in a .json file is still rejected.

const (
	maxDataDepth = 500
	maxDataKeys  = 10_000
)

// transformJSON reduces JSON to its brace-delimited key structure.
func transformJSON(source []byte) (string, error) {
	var probe any
	if err := json.Unmarshal(source, &probe); err != nil {
		return "", &ParseError{Language: LangJSON, Detail: "invalid JSON: " + err.Error()}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(source, &doc); err != nil {
		return "", &ParseError{Language: LangJSON, Detail: "invalid JSON: " + err.Error()}
	}

	keys := 0
	return jsonStructure(unwrapDocument(&doc), 0, &keys)
}

// transformYAML reduces YAML to its indented key structure. Multi-document
// files keep their `---` separators.
func transformYAML(source []byte) (string, error) {
	dec := yaml.NewDecoder(bytes.NewReader(source))

	var parts []string
	keys := 0
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", &ParseError{Language: LangYAML, Detail: "invalid YAML: " + err.Error()}
		}

		part, err := yamlStructure(unwrapDocument(&doc), 0, &keys)
		if err != nil {
			return "", err
		}
		if part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, "\n---\n"), nil
}

// unwrapDocument steps through document and alias nodes to the content.
func unwrapDocument(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) > 0:
			n = n.Content[0]
		case n.Kind == yaml.AliasNode && n.Alias != nil:
			n = n.Alias
		default:
			return n
		}
	}
	return n
}

func jsonStructure(n *yaml.Node, depth int, keys *int) (string, error) {
	if depth > maxDataDepth {
		return "", &LimitError{What: "JSON depth", Count: depth, Max: maxDataDepth}
	}
	if n == nil {
		return "", nil
	}

	switch n.Kind {
	case yaml.MappingNode:
		return jsonObjectStructure(n, depth, keys)
	case yaml.SequenceNode:
		if first := firstMapping(n); first != nil {
			return jsonStructure(first, depth, keys)
		}
		return "[]", nil
	case yaml.AliasNode:
		return jsonStructure(unwrapDocument(n), depth, keys)
	}
	return "", nil
}

func jsonObjectStructure(n *yaml.Node, depth int, keys *int) (string, error) {
	pairs := len(n.Content) / 2
	if pairs == 0 {
		return "{}", nil
	}

	*keys += pairs
	if *keys > maxDataKeys {
		return "", &LimitError{What: "JSON key", Count: *keys, Max: maxDataKeys}
	}

	indent := strings.Repeat("  ", depth)
	next := strings.Repeat("  ", depth+1)

	var out strings.Builder
	out.Grow(pairs*24 + 8)
	out.WriteString("{\n")

	for i := 0; i < pairs; i++ {
		key := n.Content[2*i]
		val := n.Content[2*i+1]

		out.WriteString(next)
		out.WriteString(key.Value)

		suffix, err := jsonValueSuffix(val, depth+1, keys)
		if err != nil {
			return "", err
		}
		out.WriteString(suffix)

		if i < pairs-1 {
			out.WriteByte(',')
		}
		out.WriteByte('\n')
	}

	out.WriteString(indent)
	out.WriteByte('}')
	return out.String(), nil
}

func jsonValueSuffix(val *yaml.Node, depth int, keys *int) (string, error) {
	val = unwrapDocument(val)
	if val == nil {
		return "", nil
	}

	switch val.Kind {
	case yaml.MappingNode:
		structure, err := jsonStructure(val, depth, keys)
		if err != nil {
			return "", err
		}
		return ": " + structure, nil
	case yaml.SequenceNode:
		first := firstMapping(val)
		if first == nil {
			return "", nil
		}
		structure, err := jsonStructure(first, depth, keys)
		if err != nil {
			return "", err
		}
		return ": " + structure, nil
	}
	return "", nil
}

func yamlStructure(n *yaml.Node, depth int, keys *int) (string, error) {
	if depth > maxDataDepth {
		return "", &LimitError{What: "YAML depth", Count: depth, Max: maxDataDepth}
	}
	if n == nil {
		return "", nil
	}

	switch n.Kind {
	case yaml.MappingNode:
		return yamlMappingStructure(n, depth, keys)
	case yaml.SequenceNode:
		if first := firstMapping(n); first != nil {
			return yamlStructure(first, depth, keys)
		}
		return "[]", nil
	case yaml.AliasNode:
		return yamlStructure(unwrapDocument(n), depth, keys)
	}
	return "", nil
}

func yamlMappingStructure(n *yaml.Node, depth int, keys *int) (string, error) {
	pairs := len(n.Content) / 2
	if pairs == 0 {
		return "{}", nil
	}

	*keys += pairs
	if *keys > maxDataKeys {
		return "", &LimitError{What: "YAML key", Count: *keys, Max: maxDataKeys}
	}

	indent := strings.Repeat("  ", depth)

	var lines []string
	for i := 0; i < pairs; i++ {
		key := n.Content[2*i]
		val := n.Content[2*i+1]

		// YAML allows non-scalar keys; skip them.
		if key.Kind != yaml.ScalarNode {
			continue
		}

		suffix, err := yamlValueSuffix(val, depth+1, keys)
		if err != nil {
			return "", err
		}
		lines = append(lines, indent+key.Value+suffix)
	}

	return strings.Join(lines, "\n"), nil
}

func yamlValueSuffix(val *yaml.Node, depth int, keys *int) (string, error) {
	val = unwrapDocument(val)
	if val == nil {
		return "", nil
	}

	switch val.Kind {
	case yaml.MappingNode:
		structure, err := yamlStructure(val, depth, keys)
		if err != nil {
			return "", err
		}
		if structure == "" || structure == "{}" {
			return "", nil
		}
		return ":\n" + structure, nil
	case yaml.SequenceNode:
		first := firstMapping(val)
		if first == nil {
			return "", nil
		}
		structure, err := yamlStructure(first, depth, keys)
		if err != nil {
			return "", err
		}
		if structure == "" {
			return "", nil
		}
		return ":\n" + structure, nil
	}
	return "", nil
}

// firstMapping returns the first sequence element if it is a mapping.
func firstMapping(seq *yaml.Node) *yaml.Node {
	if len(seq.Content) == 0 {
		return nil
	}
	first := unwrapDocument(seq.Content[0])
	if first != nil && first.Kind == yaml.MappingNode {
		return first
	}
	return nil
}
