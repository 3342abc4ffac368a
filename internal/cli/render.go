package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/asteroid-belt/learnpath/internal/cli/prompts"
	"github.com/asteroid-belt/learnpath/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B6B6B"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
)

const rule = "──────────────────────────────────────────────────"

// stars renders an average on a five star scale, rounded to the nearest star.
func stars(avg float64) string {
	n := int(math.Round(avg))
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// ratingSummary reads like "★★★★☆ 4.2 (12 ratings)".
func ratingSummary(c *models.Course) string {
	count := c.Ratings().Count()
	if count == 0 {
		return "not rated yet"
	}
	word := "ratings"
	if count == 1 {
		word = "rating"
	}
	return fmt.Sprintf("%s %.1f (%d %s)", stars(c.AverageRating()), c.AverageRating(), count, word)
}

// courseMarkdown renders the course card shown by "course show".
func courseMarkdown(c *models.Course, reviews []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Title)
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| **ID** | `%s` |\n", c.ID)
	fmt.Fprintf(&b, "| **Category** | %s |\n", prompts.CategoryLabel(c.Category))
	fmt.Fprintf(&b, "| **Difficulty** | %s |\n", c.Difficulty)
	fmt.Fprintf(&b, "| **Provider** | %s |\n", c.Provider)
	fmt.Fprintf(&b, "| **Enrollments** | %d |\n", c.Enrollments())
	fmt.Fprintf(&b, "| **Rating** | %s |\n\n", ratingSummary(c))
	fmt.Fprintf(&b, "%s\n", c.Description)

	if len(reviews) > 0 {
		b.WriteString("\n## Reviews\n\n")
		for _, r := range reviews {
			fmt.Fprintf(&b, "> %s\n\n", r)
		}
	}
	return b.String()
}

// renderMarkdown renders content with glamour, falling back to the raw text.
func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// courseLine is the one-line listing form of a course.
func courseLine(c *models.Course) string {
	return fmt.Sprintf("  %-8s %-40s %s", c.ID, c.Title, mutedStyle.Render(fmt.Sprintf("%s · %s · %s", c.Category, c.Difficulty, ratingSummary(c))))
}
