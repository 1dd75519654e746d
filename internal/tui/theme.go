package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// EnvTheme forces the palette variant: light, dark or auto.
const EnvTheme = "FLEXSIM_TUI_THEME"

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// Faint text on light terminals is often illegible.
func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorChromeFg   lipgloss.TerminalColor = ac("240", "245")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorAccent     lipgloss.TerminalColor = ac("27", "62")
	colorBorder     lipgloss.TerminalColor = ac("250", "238")
	colorWarn       lipgloss.TerminalColor = ac("130", "214")
	colorError      lipgloss.TerminalColor = ac("160", "203")
	colorStale      lipgloss.TerminalColor = ac("166", "208")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
}

func styleChrome() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorChromeFg)
}

func styleSelectedRow() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
}

func styleScheme() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

func styleStale() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorStale)
}

func stylePane() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(colorBorder).
		PaddingLeft(1)
}

func styleStatus(isErr bool) lipgloss.Style {
	if isErr {
		return lipgloss.NewStyle().Foreground(colorError)
	}
	return styleMuted()
}

func styleLogLevel(warn bool) lipgloss.Style {
	if warn {
		return lipgloss.NewStyle().Foreground(colorWarn)
	}
	return styleMuted()
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI. Only NO_COLOR is
// honored from the env toggles; CLICOLOR is meant for piped CLI output.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// TERM/COLORTERM win when they claim more than the detector reports.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && profile != termenv.TrueColor {
		profile = termenv.ANSI256
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference picks the adaptive palette variant. FLEXSIM_TUI_THEME wins, then the
// COLORFGBG heuristic ("fg;bg"); otherwise Lip Gloss's own detection stands.
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvTheme))) {
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
