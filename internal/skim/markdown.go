package skim

import (
	"bufio"
	"bytes"
	"strings"
)

const maxHeaders = 10_000

// transformMarkdown extracts headers from markdown. Structure mode keeps
// the top-level document shape (H1-H3); the other modes keep all headers.
// There is nothing body-like to strip beyond that, so signatures and types
// behave identically.
//
// Both ATX (`## Title`) and setext (underlined with === or ---) forms are
// recognized with a line scan.
func transformMarkdown(source []byte, mode Mode) (string, error) {
	if mode == ModeFull {
		return string(source), nil
	}

	maxLevel := 6
	if mode == ModeStructure {
		maxLevel = 3
	}

	var headers []string

	var prev string
	inFence := false
	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		// Fenced code blocks can contain lines that look like headers.
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			prev = ""
			continue
		}
		if inFence {
			prev = ""
			continue
		}

		if level, ok := atxLevel(trimmed); ok {
			if level <= maxLevel {
				headers = append(headers, trimmed)
			}
			prev = ""
		} else if level, ok := setextLevel(trimmed, prev); ok {
			if level <= maxLevel {
				headers = append(headers, prev)
			}
			prev = ""
		} else {
			prev = trimmed
		}

		if len(headers) > maxHeaders {
			return "", &LimitError{What: "markdown header", Count: len(headers), Max: maxHeaders}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", &ParseError{Language: LangMarkdown, Detail: err.Error()}
	}

	return strings.Join(headers, "\n"), nil
}

// atxLevel returns the header level of an ATX header line.
func atxLevel(line string) (int, bool) {
	if !strings.HasPrefix(line, "#") {
		return 0, false
	}
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level > 6 {
		return 0, false
	}
	if level == len(line) || line[level] == ' ' || line[level] == '\t' {
		return level, true
	}
	return 0, false
}

// setextLevel reports whether line is a setext underline for the previous
// line: === for H1, --- for H2.
func setextLevel(line, prev string) (int, bool) {
	if prev == "" || line == "" {
		return 0, false
	}
	if strings.Trim(line, "=") == "" {
		return 1, true
	}
	// Require at least two dashes so a single "-" list item does not
	// promote the previous line.
	if len(line) >= 2 && strings.Trim(line, "-") == "" {
		return 2, true
	}
	return 0, false
}
