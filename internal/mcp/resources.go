package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
)

const resourcePrefix = "learnpath://"

// parseCourseURI extracts the course id from a learnpath://course/{id} URI.
func parseCourseURI(uri string) (id string, isMetadata bool, err error) {
	if !strings.HasPrefix(uri, resourcePrefix+"course/") {
		return "", false, fmt.Errorf("invalid URI scheme: %s", uri)
	}

	path := strings.TrimPrefix(uri, resourcePrefix+"course/")
	id, isMetadata = strings.CutSuffix(path, "/metadata")
	if id == "" || strings.Contains(id, "/") {
		return "", false, fmt.Errorf("invalid course id in URI: %s", uri)
	}
	return id, isMetadata, nil
}

func (s *Server) handleCourseResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id, _, err := parseCourseURI(req.Params.URI)
	if err != nil {
		return nil, err
	}
	course, err := s.svc.Course(id)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", course.Title)
	fmt.Fprintf(&b, "- Category: %s\n- Difficulty: %s\n- Provider: %s\n", course.Category, course.Difficulty, course.Provider)
	fmt.Fprintf(&b, "- Rating: %.1f (%d ratings)\n- Enrollments: %d\n\n", course.AverageRating(), course.Ratings().Count(), course.Enrollments())
	fmt.Fprintf(&b, "%s\n", course.Description)
	if reviews := course.Ratings().TopReviews(defaultReviewLimit); len(reviews) > 0 {
		b.WriteString("\n## Reviews\n\n")
		for _, r := range reviews {
			fmt.Fprintf(&b, "> %s\n\n", r)
		}
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     b.String(),
		},
	}, nil
}

func (s *Server) handleCourseMetadataResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id, _, err := parseCourseURI(req.Params.URI)
	if err != nil {
		return nil, err
	}
	course, err := s.svc.Course(id)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(toCourseResponse(course))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %v", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
