package formatter

import "github.com/charmbracelet/lipgloss"

// Terminal styles for progress and summary lines
var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
)
