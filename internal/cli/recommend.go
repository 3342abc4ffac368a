package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	recommendLimit   int
	recommendExplain bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <learner-id>",
	Short: "Recommend courses for a learner",
	Long: `Recommend courses for a learner.

Courses the learner is enrolled in or has completed are excluded. When the
learner has interests only those categories are considered. The rest are
ranked on average rating, recency, popularity and interest match.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().IntVarP(&recommendLimit, "limit", "n", 0, "Maximum number of courses (default from config)")
	recommendCmd.Flags().BoolVar(&recommendExplain, "explain", false, "Show the score breakdown")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	scored, err := service.Recommend(cmd.Context(), args[0], recommendLimit)
	if err != nil {
		return trackCLIError("recommend", err)
	}

	out := cmd.OutOrStdout()
	if len(scored) == 0 {
		_, _ = fmt.Fprintln(out, "No recommendations right now. Try broadening your interests.")
		return nil
	}

	_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("RECOMMENDED FOR %s", args[0])))
	_, _ = fmt.Fprintln(out, rule)
	for i, s := range scored {
		_, _ = fmt.Fprintf(out, "%2d.%s\n", i+1, courseLine(s.Course))
		if recommendExplain {
			_, _ = fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf(
				"      score %.3f = rating %.3f + recency %.3f + popularity %.3f + interest %.3f",
				s.Score, s.Rating, s.Recency, s.Popularity, s.Interest)))
		}
	}
	return nil
}
