package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane pads or cuts s to exactly width x height cells. A zero height keeps the line count.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i, ln := range lines {
		// Bound the cost of StringWidth on pathological lines.
		if width > 0 && len(ln) > 8192 {
			ln = xansi.Truncate(ln, width, "…")
		}
		w := xansi.StringWidth(ln)
		if w > width {
			ln = truncateText(ln, width)
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// truncateText cuts s to w cells, ending in an ellipsis when it had to cut.
func truncateText(s string, w int) string {
	switch {
	case w <= 0:
		return ""
	case xansi.StringWidth(s) <= w:
		return s
	case w == 1:
		return xansi.Truncate(s, 1, "")
	default:
		return xansi.Truncate(s, w, "…")
	}
}
