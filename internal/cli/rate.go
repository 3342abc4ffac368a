package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/learnpath/internal/models"
)

var rateReview string

var rateCmd = &cobra.Command{
	Use:   "rate <learner-id> <course-id> <1-5>",
	Short: "Rate a course",
	Long: `Rate a course from 1 to 5 stars, optionally with a written review.

Only courses the learner is enrolled in or has completed can be rated.
Rating again adds a new rating; every rating counts toward the average.`,
	Args: cobra.ExactArgs(3),
	RunE: runRate,
}

func init() {
	rateCmd.Flags().StringVarP(&rateReview, "review", "r", "", "Written review")
}

func runRate(cmd *cobra.Command, args []string) error {
	value, err := strconv.Atoi(args[2])
	if err != nil {
		return trackCLIError("rate", fmt.Errorf("%w: rating must be a number from 1 to 5, got %q", models.ErrValidation, args[2]))
	}

	course, err := service.Rate(cmd.Context(), args[0], args[1], value, rateReview)
	if errors.Is(err, models.ErrRatingsNotSaved) {
		err = service.SaveRatings(course.ID)
	}
	if err != nil {
		return trackCLIError("rate", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, okStyle.Render("✓ Thank you for your rating!"))
	_, _ = fmt.Fprintf(out, "%s: %s\n", course.Title, ratingSummary(course))
	return nil
}
