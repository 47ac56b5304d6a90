package skim

import "strings"

// Mode selects what a transform keeps.
type Mode string

const (
	// ModeStructure keeps signatures, declarations, types and imports,
	// replacing function and method bodies with a placeholder.
	ModeStructure Mode = "structure"

	// ModeSignatures keeps only callable signatures, one per line.
	ModeSignatures Mode = "signatures"

	// ModeTypes keeps only type definitions.
	ModeTypes Mode = "types"

	// ModeFull returns the source unchanged.
	ModeFull Mode = "full"
)

// Modes returns all transformation modes.
func Modes() []Mode {
	return []Mode{ModeStructure, ModeSignatures, ModeTypes, ModeFull}
}

// ParseMode resolves a user-supplied mode name, case-insensitively.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(s) {
	case "structure":
		return ModeStructure, true
	case "signatures":
		return ModeSignatures, true
	case "types":
		return ModeTypes, true
	case "full":
		return ModeFull, true
	}
	return "", false
}

// Name returns the mode name for display.
func (m Mode) Name() string { return string(m) }
