package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	stylePromptOK = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	stylePromptBad = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleOption = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleLog = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// lineKind identifies the type of an output line for styling. Output text
// is locale-dependent, so classification keys on structural markers only:
// dialog options carry a [id] prefix, transcript lines a | prefix.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindOption
	kindLog
)

func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "["):
		return kindOption
	case strings.HasPrefix(line, "|"):
		return kindLog
	default:
		return kindNarrative
	}
}

func renderLine(line string, kind lineKind) string {
	switch kind {
	case kindOption:
		return styleOption.Render(line)
	case kindLog:
		return styleLog.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}
