package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/learnpath/internal/models"
)

var progressModule string

var enrollCmd = &cobra.Command{
	Use:   "enroll <learner-id> <course-id>",
	Short: "Enroll a learner in a course",
	Args:  cobra.ExactArgs(2),
	RunE:  runEnroll,
}

var unenrollCmd = &cobra.Command{
	Use:   "unenroll <learner-id> <course-id>",
	Short: "Drop a course the learner is enrolled in",
	Long: `Drop a course the learner is enrolled in.

Progress recorded so far is kept and shows up again on re-enrollment.`,
	Args: cobra.ExactArgs(2),
	RunE: runUnenroll,
}

var completeCmd = &cobra.Command{
	Use:   "complete <learner-id> <course-id>",
	Short: "Mark an enrolled course as completed",
	Long: `Mark an enrolled course as completed.

Completing 5 courses raises the skill level to INTERMEDIATE and 10 to
ADVANCED. The level never goes down.`,
	Args: cobra.ExactArgs(2),
	RunE: runComplete,
}

var progressCmd = &cobra.Command{
	Use:   "progress <learner-id> <course-id> <percent>",
	Short: "Record progress on an enrolled course",
	Long: `Record progress on an enrolled course.

The percentage is clamped to 0-100. Reaching 100 completes the course.`,
	Args: cobra.ExactArgs(3),
	RunE: runProgress,
}

func init() {
	progressCmd.Flags().StringVarP(&progressModule, "module", "m", "", "Module or lesson last worked on")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	l, err := service.Enroll(cmd.Context(), args[0], args[1])
	if err != nil {
		return trackCLIError("enroll", err)
	}
	course, _ := service.Course(args[1])

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("✓ %s enrolled in %s", l.ID, course.Title)))
	return nil
}

func runUnenroll(cmd *cobra.Command, args []string) error {
	l, err := service.Unenroll(cmd.Context(), args[0], args[1])
	if err != nil {
		return trackCLIError("unenroll", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("✓ %s dropped %s", l.ID, args[1])))
	return nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	before := models.SkillLevel("")
	if l, err := service.Learner(args[0]); err == nil {
		before = l.SkillLevel
	}

	l, done, err := service.Complete(cmd.Context(), args[0], args[1])
	if err != nil {
		return trackCLIError("complete", err)
	}

	out := cmd.OutOrStdout()
	if !done {
		_, _ = fmt.Fprintf(out, "%s has already completed %s.\n", l.ID, args[1])
		return nil
	}
	_, _ = fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("✓ %s completed %s (%d completed)", l.ID, args[1], len(l.Completed))))
	printLevelUp(cmd, before, l.SkillLevel)
	return nil
}

func runProgress(cmd *cobra.Command, args []string) error {
	percent, err := strconv.Atoi(strings.TrimSuffix(args[2], "%"))
	if err != nil {
		return trackCLIError("progress", fmt.Errorf("%w: percent must be a whole number, got %q", models.ErrValidation, args[2]))
	}

	before := models.SkillLevel("")
	if l, err := service.Learner(args[0]); err == nil {
		before = l.SkillLevel
	}

	l, completed, err := service.UpdateProgress(cmd.Context(), args[0], args[1], percent, progressModule)
	if err != nil {
		return trackCLIError("progress", err)
	}

	bar := NewProgressBar(100, 20)
	bar.Update(l.Progress[args[1]], args[1])
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), bar.Render())
	if completed {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("✓ Course completed"))
		printLevelUp(cmd, before, l.SkillLevel)
	}
	return nil
}

func printLevelUp(cmd *cobra.Command, before, after models.SkillLevel) {
	if before != "" && after.Rank() > before.Rank() {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render(fmt.Sprintf("★ Skill level up: %s → %s", before, after)))
	}
}
