// Package mcp provides the Model Context Protocol server for learnpath.
//
// The server exposes the course catalog, learner profiles, ratings and
// recommendations to MCP-compatible clients. It goes through the same
// learning.Service as the CLI so both surfaces enforce the same rules.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/asteroid-belt/learnpath/internal/learning"
	"github.com/asteroid-belt/learnpath/internal/telemetry"
	"github.com/asteroid-belt/learnpath/pkg/version"
)

// Server wraps the MCP server with learnpath tools and resources.
type Server struct {
	svc       learning.Service
	server    *server.MCPServer
	telemetry telemetry.Client
}

// NewServer creates a new MCP server instance. tc may be nil.
func NewServer(svc learning.Service, tc telemetry.Client) *Server {
	s := &Server{
		svc:       svc,
		telemetry: tc,
	}

	s.server = server.NewMCPServer(
		"learnpath",
		version.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools()
	s.registerResources()

	return s
}

// Serve starts the MCP server over stdio.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.server)
}

func (s *Server) registerTools() {
	// Catalog
	s.server.AddTool(listCoursesTool(), s.handleListCourses)
	s.server.AddTool(getCourseTool(), s.handleGetCourse)
	s.server.AddTool(topReviewsTool(), s.handleTopReviews)

	// Learner
	s.server.AddTool(getLearnerTool(), s.handleGetLearner)
	s.server.AddTool(rateCourseTool(), s.handleRateCourse)
	s.server.AddTool(recommendTool(), s.handleRecommend)
}

func (s *Server) registerResources() {
	s.server.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"learnpath://course/{id}",
			"Course card",
			mcp.WithTemplateDescription("Markdown summary of a course with its top reviews"),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		s.handleCourseResource,
	)

	s.server.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"learnpath://course/{id}/metadata",
			"Course metadata",
			mcp.WithTemplateDescription("JSON metadata for a course including rating and enrollment counts"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleCourseMetadataResource,
	)
}
