package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"taskorium-cli/internal/model"
)

// The board must stay readable on light and dark terminals: colors are adaptive and "faint" is
// only applied on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted       lipgloss.TerminalColor = ac("240", "243")
	colorSurfaceFg   lipgloss.TerminalColor = ac("235", "252")
	colorControlBg   lipgloss.TerminalColor = ac("252", "235")
	colorSelectedBg  lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg  lipgloss.TerminalColor = ac("235", "255")
	colorAccent      lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg    lipgloss.TerminalColor = ac("255", "235")
	colorDropFg      lipgloss.TerminalColor = ac("28", "78")
	colorErrorFg     lipgloss.TerminalColor = ac("160", "203")
	colorCardMetaFg  lipgloss.TerminalColor = ac("238", "250")
	colorDraggingFg  lipgloss.TerminalColor = ac("244", "240")
	colorHeaderMuted lipgloss.TerminalColor = ac("240", "245")
)

// planetColors tints the project header by theme.
var planetColors = map[model.Theme]lipgloss.AdaptiveColor{
	model.ThemeMercury: ac("245", "250"),
	model.ThemeVenus:   ac("136", "222"),
	model.ThemeEarth:   ac("25", "75"),
	model.ThemeMars:    ac("160", "203"),
	model.ThemeJupiter: ac("130", "180"),
	model.ThemeSaturn:  ac("136", "229"),
	model.ThemeUranus:  ac("30", "87"),
	model.ThemeNeptune: ac("19", "69"),
}

func planetColor(t model.Theme) lipgloss.TerminalColor {
	if c, ok := planetColors[t]; ok {
		return c
	}
	return colorAccent
}

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive board.
//
// termenv.EnvColorProfile honors CLICOLOR/CLICOLOR_FORCE, which can switch colors off inside a
// TUI; only NO_COLOR (or the config's noColor) disables them here.
func applyColorProfilePreference(noColor bool) {
	if noColor || strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Some terminals under-report; trust TERM/COLORTERM when they claim more.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && (profile == termenv.Ascii || profile == termenv.ANSI) {
		profile = termenv.ANSI256
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures background detection.
//
// Priority:
// 1) TASKORIUM_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg")
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TASKORIUM_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}

	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
