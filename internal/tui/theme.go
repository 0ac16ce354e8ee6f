package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The dashboard must stay readable on both light and dark terminal
// backgrounds, so colors are lipgloss.AdaptiveColor and "faint" styling is
// applied only on dark backgrounds (faint on light terminals often becomes
// illegible).

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
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorAccent     lipgloss.TerminalColor = ac("26", "39")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorTodayFg    lipgloss.TerminalColor = ac("28", "42")
	colorHoverBg    lipgloss.TerminalColor = ac("153", "24")
	colorFlashBg    lipgloss.TerminalColor = ac("120", "22")
	colorErrorFg    lipgloss.TerminalColor = ac("124", "203")
	colorGhostBg    lipgloss.TerminalColor = ac("229", "58")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI.
// Only NO_COLOR is honored beyond the terminal's own capabilities;
// CLICOLOR-style vars are for non-interactive output and can accidentally
// strip a TUI of color.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Trust TERM/COLORTERM when they indicate stronger support than the
	// detector reports; some terminals under-report on probing.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures background detection. Some terminals don't
// reliably report their background, which makes AdaptiveColor pick the wrong
// variant.
//
// Priority:
// 1) DESKPLAN_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic (format like "15;0" = fg;bg)
func applyThemePreference() {
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("DESKPLAN_TUI_THEME"))); v != "" {
		switch v {
		case "light":
			lipgloss.SetHasDarkBackground(false)
			return
		case "dark":
			lipgloss.SetHasDarkBackground(true)
			return
		}
	}

	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if len(parts) >= 2 {
			switch strings.TrimSpace(parts[len(parts)-1]) {
			case "0", "1", "2", "3", "4", "5", "6", "8":
				lipgloss.SetHasDarkBackground(true)
			case "7", "15":
				lipgloss.SetHasDarkBackground(false)
			}
		}
	}
}
