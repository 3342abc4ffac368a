package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/learnpath/internal/cli/prompts"
	"github.com/asteroid-belt/learnpath/internal/learning"
	"github.com/asteroid-belt/learnpath/internal/models"
)

// categorySelector is replaced in tests.
var categorySelector = prompts.RunCategorySelector

var interestsCmd = &cobra.Command{
	Use:   "interests <learner-id> [set|add|remove|clear] [categories...]",
	Short: "Show or change a learner's interests",
	Long: `Show or change a learner's interests.

With only a learner id the current interests are listed. Categories may be
given as separate arguments or comma separated. "set" with no categories opens
an interactive selector.

Categories: PROGRAMMING, BUSINESS, DATA_SCIENCE, ARTIFICIAL_INTELLIGENCE,
DESIGN, MARKETING`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInterests,
}

func runInterests(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	learnerID := args[0]

	if len(args) == 1 {
		l, err := service.Learner(learnerID)
		if err != nil {
			return trackCLIError("interests", err)
		}
		_, _ = fmt.Fprintf(out, "Interests: %s\n", formatInterests(l.Interests))
		return nil
	}

	op, err := learning.ParseInterestOp(args[1])
	if err != nil {
		return trackCLIError("interests", err)
	}
	names := args[2:]

	if op == learning.InterestsSet && len(names) == 0 {
		l, err := service.Learner(learnerID)
		if err != nil {
			return trackCLIError("interests", err)
		}
		names, err = categorySelector(l.Interests)
		if err != nil {
			return trackCLIError("interests", fmt.Errorf("select interests: %w", err))
		}
		if len(names) == 0 {
			op = learning.InterestsClear
		}
	}

	l, invalid, err := service.UpdateInterests(cmd.Context(), learnerID, op, names)
	for _, name := range invalid {
		_, _ = fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("! Ignored unknown category %q", name)))
	}
	if err != nil {
		return trackCLIError("interests", err)
	}

	_, _ = fmt.Fprintf(out, "Interests: %s\n", formatInterests(l.Interests))
	return nil
}

func formatInterests(cats []models.Category) string {
	if len(cats) == 0 {
		return "none"
	}
	labels := make([]string, len(cats))
	for i, c := range cats {
		labels[i] = prompts.CategoryLabel(c)
	}
	return strings.Join(labels, ", ")
}
