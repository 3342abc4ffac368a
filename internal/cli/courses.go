package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/learnpath/internal/models"
)

var (
	coursesCategory string

	addTitle       string
	addCategory    string
	addDifficulty  string
	addProvider    string
	addDescription string

	showReviews  int
	reviewsLimit int
	topLimit     int
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the course catalog",
	Args:  cobra.NoArgs,
	RunE:  runCourses,
}

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Show or add a single course",
}

var courseShowCmd = &cobra.Command{
	Use:   "show <course-id>",
	Short: "Show detailed information about a course",
	Args:  cobra.ExactArgs(1),
	RunE:  runCourseShow,
}

var courseAddCmd = &cobra.Command{
	Use:   "add <course-id>",
	Short: "Add a course to the catalog",
	Long: `Add a course to the catalog.

The course is appended to the catalog CSV so it is loaded on the next run.`,
	Args: cobra.ExactArgs(1),
	RunE: runCourseAdd,
}

var reviewsCmd = &cobra.Command{
	Use:   "reviews <course-id>",
	Short: "Show the top reviews of a course",
	Args:  cobra.ExactArgs(1),
	RunE:  runReviews,
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "List the highest rated courses",
	Long: `List the highest rated courses.

Courses are ordered by average rating, then by number of ratings. Courses
nobody has rated are left out.`,
	Args: cobra.NoArgs,
	RunE: runTop,
}

func init() {
	coursesCmd.Flags().StringVarP(&coursesCategory, "category", "c", "", "Only list courses in this category")

	courseAddCmd.Flags().StringVar(&addTitle, "title", "", "Course title (required)")
	courseAddCmd.Flags().StringVar(&addCategory, "category", "", "Category (required)")
	courseAddCmd.Flags().StringVar(&addDifficulty, "difficulty", "", "BEGINNER, INTERMEDIATE or ADVANCED (required)")
	courseAddCmd.Flags().StringVar(&addProvider, "provider", "", "Course provider (required)")
	courseAddCmd.Flags().StringVar(&addDescription, "description", "", "Short description")
	for _, name := range []string{"title", "category", "difficulty", "provider"} {
		_ = courseAddCmd.MarkFlagRequired(name)
	}

	courseShowCmd.Flags().IntVar(&showReviews, "reviews", 3, "Number of reviews to show")
	courseCmd.AddCommand(courseShowCmd)
	courseCmd.AddCommand(courseAddCmd)

	reviewsCmd.Flags().IntVarP(&reviewsLimit, "limit", "n", 5, "Maximum number of reviews")
	topCmd.Flags().IntVarP(&topLimit, "limit", "n", 5, "Maximum number of courses")
}

func runCourses(cmd *cobra.Command, args []string) error {
	var category models.Category
	if coursesCategory != "" {
		c, err := models.ParseCategory(coursesCategory)
		if err != nil {
			return trackCLIError("courses", err)
		}
		category = c
	}

	courses := service.Courses(category)
	out := cmd.OutOrStdout()
	if len(courses) == 0 {
		_, _ = fmt.Fprintln(out, "No courses found.")
		return nil
	}

	_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("COURSES (%d)", len(courses))))
	_, _ = fmt.Fprintln(out, rule)
	for _, c := range courses {
		_, _ = fmt.Fprintln(out, courseLine(c))
	}
	return nil
}

func runCourseShow(cmd *cobra.Command, args []string) error {
	course, err := service.Course(args[0])
	if err != nil {
		return trackCLIError("show", err)
	}
	reviews, err := service.TopReviews(course.ID, showReviews)
	if err != nil {
		return trackCLIError("show", err)
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(courseMarkdown(course, reviews)))
	return nil
}

func runCourseAdd(cmd *cobra.Command, args []string) error {
	category, err := models.ParseCategory(addCategory)
	if err != nil {
		return trackCLIError("add", err)
	}
	difficulty, err := models.ParseDifficulty(addDifficulty)
	if err != nil {
		return trackCLIError("add", err)
	}

	course, err := models.NewCourse(args[0], addTitle, category, difficulty, addProvider, addDescription, time.Now())
	if err != nil {
		return trackCLIError("add", err)
	}
	if err := service.AddCourse(course); err != nil {
		return trackCLIError("add", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("✓ Added %s (%s)", course.ID, course.Title)))
	return nil
}

func runReviews(cmd *cobra.Command, args []string) error {
	course, err := service.Course(args[0])
	if err != nil {
		return trackCLIError("reviews", err)
	}
	reviews, err := service.TopReviews(course.ID, reviewsLimit)
	if err != nil {
		return trackCLIError("reviews", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, headerStyle.Render("REVIEWS · "+course.Title))
	_, _ = fmt.Fprintln(out, rule)
	if len(reviews) == 0 {
		_, _ = fmt.Fprintln(out, "No reviews yet.")
		return nil
	}
	for i, r := range reviews {
		_, _ = fmt.Fprintf(out, "%d. %s\n", i+1, r)
	}
	return nil
}

func runTop(cmd *cobra.Command, args []string) error {
	top := service.TopRated(topLimit)

	out := cmd.OutOrStdout()
	if len(top) == 0 {
		_, _ = fmt.Fprintln(out, "No rated courses yet.")
		return nil
	}

	_, _ = fmt.Fprintln(out, headerStyle.Render("TOP RATED"))
	_, _ = fmt.Fprintln(out, rule)
	for i, c := range top {
		_, _ = fmt.Fprintf(out, "%2d. %-8s %-40s %s\n", i+1, c.ID, c.Title, ratingSummary(c))
	}
	return nil
}
