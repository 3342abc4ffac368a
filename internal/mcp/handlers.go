package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/asteroid-belt/learnpath/internal/models"
	"github.com/asteroid-belt/learnpath/internal/recommend"
)

const (
	defaultRecommendLimit = 5
	maxRecommendLimit     = 50
	defaultListLimit      = 50
	maxListLimit          = 200
	defaultReviewLimit    = 3
	maxReviewLimit        = 20
)

// parseLimit extracts and validates a limit parameter from MCP tool arguments.
// Returns defaultVal if not present, caps at maxVal if exceeded.
func parseLimit(arguments map[string]interface{}, defaultVal, maxVal int) int {
	if l, ok := arguments["limit"].(float64); ok && l > 0 {
		limit := int(l)
		if limit > maxVal {
			return maxVal
		}
		return limit
	}
	return defaultVal
}

// stringArg returns a required string argument or an error result.
func stringArg(arguments map[string]interface{}, name string) (string, *mcp.CallToolResult) {
	v, ok := arguments[name].(string)
	if !ok || v == "" {
		return "", mcp.NewToolResultError(name + " parameter is required")
	}
	return v, nil
}

func (s *Server) trackToolCall(toolName string, start time.Time, success bool) {
	if s.telemetry != nil {
		durationMs := time.Since(start).Milliseconds()
		s.telemetry.TrackMCPToolCalled(toolName, durationMs, success)
	}
}

// CourseResponse represents a course in MCP tool responses.
type CourseResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	Provider      string   `json:"provider"`
	Description   string   `json:"description,omitempty"`
	AverageRating float64  `json:"average_rating"`
	RatingCount   int      `json:"rating_count"`
	Enrollments   int      `json:"enrollments"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
	TopReviews    []string `json:"top_reviews,omitempty"`
}

// RecommendationResponse is a ranked course with its score breakdown.
type RecommendationResponse struct {
	Course     CourseResponse `json:"course"`
	Score      float64        `json:"score"`
	Rating     float64        `json:"rating"`
	Recency    float64        `json:"recency"`
	Popularity float64        `json:"popularity"`
	Interest   float64        `json:"interest"`
}

// LearnerResponse represents a learner profile. The password digest is never
// included.
type LearnerResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	SkillLevel string            `json:"skill_level"`
	Interests  []string          `json:"interests"`
	Enrolled   []string          `json:"enrolled"`
	Completed  []string          `json:"completed"`
	Progress   map[string]int    `json:"progress,omitempty"`
	LastModule map[string]string `json:"last_module,omitempty"`
	Ratings    map[string]int    `json:"ratings,omitempty"`
}

// RateResult is returned by learnpath_rate_course.
type RateResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Course  CourseResponse `json:"course"`
}

// ReviewsResponse is returned by learnpath_top_reviews.
type ReviewsResponse struct {
	CourseID string   `json:"course_id"`
	Reviews  []string `json:"reviews"`
}

func toCourseResponse(c *models.Course) CourseResponse {
	return CourseResponse{
		ID:            c.ID,
		Title:         c.Title,
		Category:      string(c.Category),
		Difficulty:    string(c.Difficulty),
		Provider:      c.Provider,
		Description:   c.Description,
		AverageRating: c.AverageRating(),
		RatingCount:   c.Ratings().Count(),
		Enrollments:   c.Enrollments(),
		CreatedAt:     c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toRecommendationResponse(sc recommend.Scored) RecommendationResponse {
	return RecommendationResponse{
		Course:     toCourseResponse(sc.Course),
		Score:      sc.Score,
		Rating:     sc.Rating,
		Recency:    sc.Recency,
		Popularity: sc.Popularity,
		Interest:   sc.Interest,
	}
}

func toLearnerResponse(l *models.Learner) LearnerResponse {
	resp := LearnerResponse{
		ID:         l.ID,
		Name:       l.Name,
		Email:      l.Email,
		SkillLevel: string(l.SkillLevel),
		Interests:  make([]string, 0, len(l.Interests)),
		Enrolled:   append([]string{}, l.Enrolled...),
		Completed:  append([]string{}, l.Completed...),
		Progress:   l.Progress,
		LastModule: l.LastModule,
	}
	for _, c := range l.Interests {
		resp.Interests = append(resp.Interests, string(c))
	}
	if len(l.Ratings) > 0 {
		resp.Ratings = make(map[string]int, len(l.Ratings))
		for id := range l.Ratings {
			resp.Ratings[id] = l.LatestRating(id)
		}
	}
	return resp
}

// jsonResult marshals v into a text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// serviceError turns a service error into a tool error message.
func serviceError(action string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrValidation):
		return mcp.NewToolResultError(err.Error())
	default:
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", action, err))
	}
}

func (s *Server) handleRecommend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "learnpath_recommend"
	start := time.Now()

	learnerID, errResult := stringArg(req.Params.Arguments, "learner_id")
	if errResult != nil {
		s.trackToolCall(tool, start, false)
		return errResult, nil
	}
	limit := parseLimit(req.Params.Arguments, defaultRecommendLimit, maxRecommendLimit)

	scored, err := s.svc.Recommend(ctx, learnerID, limit)
	if err != nil {
		s.trackToolCall(tool, start, false)
		return serviceError("recommend courses", err), nil
	}

	results := make([]RecommendationResponse, 0, len(scored))
	for _, sc := range scored {
		results = append(results, toRecommendationResponse(sc))
	}

	s.trackToolCall(tool, start, true)
	return jsonResult(results)
}

func (s *Server) handleListCourses(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "learnpath_list_courses"
	start := time.Now()

	var category models.Category
	if c, ok := req.Params.Arguments["category"].(string); ok && c != "" {
		parsed, err := models.ParseCategory(c)
		if err != nil {
			s.trackToolCall(tool, start, false)
			return mcp.NewToolResultError(err.Error()), nil
		}
		category = parsed
	}
	limit := parseLimit(req.Params.Arguments, defaultListLimit, maxListLimit)

	courses := s.svc.Courses(category)
	if len(courses) > limit {
		courses = courses[:limit]
	}

	results := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		results = append(results, toCourseResponse(c))
	}

	s.trackToolCall(tool, start, true)
	return jsonResult(results)
}

func (s *Server) handleGetCourse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "learnpath_get_course"
	start := time.Now()

	courseID, errResult := stringArg(req.Params.Arguments, "course_id")
	if errResult != nil {
		s.trackToolCall(tool, start, false)
		return errResult, nil
	}

	course, err := s.svc.Course(courseID)
	if err != nil {
		s.trackToolCall(tool, start, false)
		return serviceError("get course", err), nil
	}

	resp := toCourseResponse(course)
	resp.TopReviews = course.Ratings().TopReviews(defaultReviewLimit)

	s.trackToolCall(tool, start, true)
	return jsonResult(resp)
}

func (s *Server) handleGetLearner(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "learnpath_get_learner"
	start := time.Now()

	learnerID, errResult := stringArg(req.Params.Arguments, "learner_id")
	if errResult != nil {
		s.trackToolCall(tool, start, false)
		return errResult, nil
	}

	l, err := s.svc.Learner(learnerID)
	if err != nil {
		s.trackToolCall(tool, start, false)
		return serviceError("get learner", err), nil
	}

	s.trackToolCall(tool, start, true)
	return jsonResult(toLearnerResponse(l))
}

func (s *Server) handleRateCourse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "learnpath_rate_course"
	start := time.Now()

	learnerID, errResult := stringArg(req.Params.Arguments, "learner_id")
	if errResult != nil {
		s.trackToolCall(tool, start, false)
		return errResult, nil
	}
	courseID, errResult := stringArg(req.Params.Arguments, "course_id")
	if errResult != nil {
		s.trackToolCall(tool, start, false)
		return errResult, nil
	}
	rating, ok := req.Params.Arguments["rating"].(float64)
	if !ok || rating != float64(int(rating)) {
		s.trackToolCall(tool, start, false)
		return mcp.NewToolResultError("rating must be a whole number from 1 to 5"), nil
	}
	review, _ := req.Params.Arguments["review"].(string)

	course, err := s.svc.Rate(ctx, learnerID, courseID, int(rating), review)
	if err != nil {
		s.trackToolCall(tool, start, false)
		return serviceError("rate course", err), nil
	}

	s.trackToolCall(tool, start, true)
	return jsonResult(RateResult{
		Success: true,
		Message: fmt.Sprintf("Rated %s %d/5", course.ID, int(rating)),
		Course:  toCourseResponse(course),
	})
}

func (s *Server) handleTopReviews(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "learnpath_top_reviews"
	start := time.Now()

	courseID, errResult := stringArg(req.Params.Arguments, "course_id")
	if errResult != nil {
		s.trackToolCall(tool, start, false)
		return errResult, nil
	}
	limit := parseLimit(req.Params.Arguments, defaultReviewLimit, maxReviewLimit)

	reviews, err := s.svc.TopReviews(courseID, limit)
	if err != nil {
		s.trackToolCall(tool, start, false)
		return serviceError("get reviews", err), nil
	}
	if reviews == nil {
		reviews = []string{}
	}

	s.trackToolCall(tool, start, true)
	return jsonResult(ReviewsResponse{CourseID: courseID, Reviews: reviews})
}
