package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Faint(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
)

var (
	quiet   bool
	noColor bool
)

// SetQuiet suppresses all non-error output
func SetQuiet(q bool) {
	quiet = q
}

// SetNoColor disables styled output
func SetNoColor(nc bool) {
	noColor = nc
}

func render(style lipgloss.Style, text string) string {
	if noColor {
		return text
	}
	return style.Render(text)
}

// PrintError prints an error message in red. Errors print even in
// quiet mode.
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Println(render(errorStyle, msg))
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	if quiet {
		return
	}
	fmt.Println(render(successStyle, msg))
}

// PrintInfo prints a labeled value
func PrintInfo(label string, value string) {
	if quiet {
		return
	}
	fmt.Printf("%s: %s\n", render(labelStyle, label), value)
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if quiet {
		return
	}
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Println(render(warningStyle, msg))
}

// PrintHighlight prints a highlighted message
func PrintHighlight(msg string) {
	if quiet {
		return
	}
	fmt.Println(render(highlightStyle, msg))
}

// PrintDim prints de-emphasized text
func PrintDim(msg string) {
	if quiet {
		return
	}
	fmt.Println(render(dimStyle, msg))
}
