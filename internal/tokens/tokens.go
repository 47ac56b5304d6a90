// Package tokens counts LLM tokens so the CLI can report how much context a
// transform saves. Counting uses the cl100k_base encoding (GPT-3.5/GPT-4),
// the budget most consumers of skimmed output care about.
package tokens

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
	encErr  error
)

// Count returns the cl100k_base token count of text. The encoder is loaded
// once and reused; loading can fail (the BPE table may be unavailable), in
// which case every call reports the same error.
func Count(text string) (int, error) {
	encOnce.Do(func() {
		enc, encErr = tiktoken.GetEncoding("cl100k_base")
	})
	if encErr != nil {
		return 0, fmt.Errorf("load cl100k_base encoding: %w", encErr)
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// Stats holds before/after token counts for one or more transforms.
type Stats struct {
	Original    int
	Transformed int
}

// ReductionPercent returns the percentage of tokens removed.
func (s Stats) ReductionPercent() float64 {
	if s.Original == 0 {
		return 0
	}
	return float64(s.Original-s.Transformed) / float64(s.Original) * 100
}

// Saved returns the number of tokens removed, never negative.
func (s Stats) Saved() int {
	if s.Transformed > s.Original {
		return 0
	}
	return s.Original - s.Transformed
}

// Format renders the stats for display, e.g.
// "1,000 tokens -> 200 tokens (80.0% reduction)".
func (s Stats) Format() string {
	return fmt.Sprintf("%s tokens -> %s tokens (%.1f%% reduction)",
		group(s.Original), group(s.Transformed), s.ReductionPercent())
}

// group formats n with thousands separators.
func group(n int) string {
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits
	}

	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	return strings.Join(parts, ",")
}
