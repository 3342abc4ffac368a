package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a course progress bar for the dashboard.
type ProgressBar struct {
	completed int
	total     int
	label     string
	width     int
}

// NewProgressBar creates a new progress bar with the specified total and width.
func NewProgressBar(total int, width int) *ProgressBar {
	if width <= 0 {
		width = 20
	}
	return &ProgressBar{
		total: total,
		width: width,
	}
}

// Update sets the current progress and label.
func (p *ProgressBar) Update(completed int, label string) {
	p.completed = completed
	p.label = label
}

// fill returns the bar body without styling.
func (p *ProgressBar) fill() string {
	completed := p.completed
	if completed > p.total {
		completed = p.total
	}
	if completed < 0 {
		completed = 0
	}
	filled := p.width * completed / p.total
	return strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)
}

// Render returns the formatted bar. Finished courses are drawn green,
// courses in progress amber.
func (p *ProgressBar) Render() string {
	if p.total == 0 {
		return ""
	}

	color := lipgloss.Color("#F59E0B")
	if p.completed >= p.total {
		color = lipgloss.Color("#10B981")
	}

	barStyle := lipgloss.NewStyle().Foreground(color)
	countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B6B6B"))
	labelStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	return barStyle.Render("["+p.fill()+"]") +
		countStyle.Render(fmt.Sprintf(" %3d%% ", p.completed*100/p.total)) +
		labelStyle.Render(p.label)
}
