package tui

import (
	"os"
	"strings"
	"sync"
)

// Some fonts render box-drawing and check glyphs poorly; TASKORIUM_TUI_GLYPHS=ascii swaps them.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TASKORIUM_TUI_GLYPHS"))) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

func glyphCheckbox(done bool) string {
	switch {
	case glyphs() == glyphSetASCII && done:
		return "[x]"
	case glyphs() == glyphSetASCII:
		return "[ ]"
	case done:
		return "☑"
	default:
		return "☐"
	}
}

func glyphGrip() string {
	if glyphs() == glyphSetASCII {
		return "="
	}
	return "≡"
}

func glyphDropBar() string {
	if glyphs() == glyphSetASCII {
		return "|"
	}
	return "┃"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}

func glyphBreadcrumb() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "›"
}
