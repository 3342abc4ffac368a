package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func recommendTool() mcp.Tool {
	return mcp.NewTool("learnpath_recommend",
		mcp.WithDescription("Recommend courses for a learner. Courses the learner is enrolled in or has completed are excluded, and when the learner has interests only those categories are considered. Results are ranked on average rating, recency, popularity and interest match."),
		mcp.WithString("learner_id",
			mcp.Required(),
			mcp.Description("The learner's id"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of courses to return (default: 5, max: 50)"),
		),
	)
}

func listCoursesTool() mcp.Tool {
	return mcp.NewTool("learnpath_list_courses",
		mcp.WithDescription("List courses in the catalog, optionally filtered by category."),
		mcp.WithString("category",
			mcp.Description("PROGRAMMING, BUSINESS, DATA_SCIENCE, ARTIFICIAL_INTELLIGENCE, DESIGN or MARKETING (optional - returns all if not specified)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 50, max: 200)"),
		),
	)
}

func getCourseTool() mcp.Tool {
	return mcp.NewTool("learnpath_get_course",
		mcp.WithDescription("Get detailed information about a course including its average rating, enrollment count and top reviews."),
		mcp.WithString("course_id",
			mcp.Required(),
			mcp.Description("The course id, e.g. GO101"),
		),
	)
}

func getLearnerTool() mcp.Tool {
	return mcp.NewTool("learnpath_get_learner",
		mcp.WithDescription("Get a learner's profile: skill level, interests, enrolled and completed courses, progress and ratings."),
		mcp.WithString("learner_id",
			mcp.Required(),
			mcp.Description("The learner's id"),
		),
	)
}

func rateCourseTool() mcp.Tool {
	return mcp.NewTool("learnpath_rate_course",
		mcp.WithDescription("Rate a course from 1 to 5 on behalf of a learner. The learner must be enrolled in or have completed the course."),
		mcp.WithString("learner_id",
			mcp.Required(),
			mcp.Description("The learner's id"),
		),
		mcp.WithString("course_id",
			mcp.Required(),
			mcp.Description("The course id"),
		),
		mcp.WithNumber("rating",
			mcp.Required(),
			mcp.Description("Star rating from 1 to 5"),
		),
		mcp.WithString("review",
			mcp.Description("Optional written review"),
		),
	)
}

func topReviewsTool() mcp.Tool {
	return mcp.NewTool("learnpath_top_reviews",
		mcp.WithDescription("Get the most detailed reviews of a course, longest first."),
		mcp.WithString("course_id",
			mcp.Required(),
			mcp.Description("The course id"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of reviews to return (default: 3, max: 20)"),
		),
	)
}
