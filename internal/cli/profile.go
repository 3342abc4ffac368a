package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/learnpath/internal/models"
	"github.com/asteroid-belt/learnpath/internal/record"
)

var profileCmd = &cobra.Command{
	Use:   "profile <learner-id>",
	Short: "Show a learner's profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfile,
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <learner-id>",
	Short: "Show progress on every enrolled course",
	Args:  cobra.ExactArgs(1),
	RunE:  runDashboard,
}

func runProfile(cmd *cobra.Command, args []string) error {
	l, err := service.Learner(args[0])
	if err != nil {
		return trackCLIError("profile", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, headerStyle.Render("PROFILE · "+l.ID))
	_, _ = fmt.Fprintln(out, rule)
	_, _ = fmt.Fprintf(out, "Name:        %s\n", l.Name)
	_, _ = fmt.Fprintf(out, "Email:       %s\n", l.Email)
	_, _ = fmt.Fprintf(out, "Skill level: %s\n", l.SkillLevel)
	_, _ = fmt.Fprintf(out, "Interests:   %s\n", formatInterests(l.Interests))

	_, _ = fmt.Fprintf(out, "\nEnrolled (%d):\n", len(l.Enrolled))
	for _, id := range l.Enrolled {
		_, _ = fmt.Fprintf(out, "  %-8s %s\n", id, courseTitle(id))
	}
	_, _ = fmt.Fprintf(out, "\nCompleted (%d):\n", len(l.Completed))
	for _, id := range l.Completed {
		_, _ = fmt.Fprintf(out, "  %-8s %s\n", id, courseTitle(id))
	}

	if len(l.Ratings) > 0 {
		_, _ = fmt.Fprintln(out, "\nYour ratings:")
		for _, id := range append(append([]string(nil), l.Enrolled...), l.Completed...) {
			if v := l.LatestRating(id); v > 0 {
				_, _ = fmt.Fprintf(out, "  %-8s %s\n", id, stars(float64(v)))
			}
		}
	}
	return nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	l, err := service.Learner(args[0])
	if err != nil {
		return trackCLIError("dashboard", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, headerStyle.Render("DASHBOARD · "+l.ID))
	_, _ = fmt.Fprintln(out, rule)
	if len(l.Enrolled) == 0 && len(l.Completed) == 0 {
		_, _ = fmt.Fprintln(out, "Not enrolled in any course yet.")
		return nil
	}

	bar := NewProgressBar(100, 20)
	for _, id := range l.Enrolled {
		bar.Update(l.Progress[id], courseTitle(id))
		_, _ = fmt.Fprintln(out, bar.Render())
		if detail := accessDetail(l, id); detail != "" {
			_, _ = fmt.Fprintln(out, mutedStyle.Render("      "+detail))
		}
	}
	for _, id := range l.Completed {
		bar.Update(100, courseTitle(id))
		_, _ = fmt.Fprintln(out, bar.Render())
	}
	return nil
}

// accessDetail reads like "Module 3 · last accessed 2025-06-01 12:00".
func accessDetail(l *models.Learner, courseID string) string {
	module := l.LastModule[courseID]
	at, ok := l.LastAccess[courseID]
	switch {
	case module != "" && ok:
		return fmt.Sprintf("%s · last accessed %s", module, record.FormatTime(at))
	case module != "":
		return module
	case ok:
		return "last accessed " + record.FormatTime(at)
	default:
		return ""
	}
}

func courseTitle(id string) string {
	if c, err := service.Course(id); err == nil {
		return c.Title
	}
	return record.MissingTitle
}
