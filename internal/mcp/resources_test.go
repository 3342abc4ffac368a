package mcp

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCourseURI(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		wantID   string
		wantMeta bool
		wantErr  bool
	}{
		{name: "content", uri: "learnpath://course/GO101", wantID: "GO101"},
		{name: "metadata", uri: "learnpath://course/GO101/metadata", wantID: "GO101", wantMeta: true},
		{name: "invalid scheme", uri: "http://course/GO101", wantErr: true},
		{name: "empty id", uri: "learnpath://course/", wantErr: true},
		{name: "nested path", uri: "learnpath://course/a/b", wantErr: true},
		{name: "wrong prefix", uri: "learnpath://learner/ada", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, meta, err := parseCourseURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantMeta, meta)
		})
	}
}

func TestCourseResources(t *testing.T) {
	s := setupTestServer(t, nil)
	ctx := context.Background()

	t.Run("markdown card", func(t *testing.T) {
		req := mcp.ReadResourceRequest{}
		req.Params.URI = "learnpath://course/GO101"

		contents, err := s.handleCourseResource(ctx, req)
		require.NoError(t, err)
		require.Len(t, contents, 1)
		text, ok := contents[0].(mcp.TextResourceContents)
		require.True(t, ok)
		assert.Equal(t, "text/markdown", text.MIMEType)
		assert.Contains(t, text.Text, "# Go Fundamentals")
	})

	t.Run("metadata", func(t *testing.T) {
		req := mcp.ReadResourceRequest{}
		req.Params.URI = "learnpath://course/GO101/metadata"

		contents, err := s.handleCourseMetadataResource(ctx, req)
		require.NoError(t, err)
		text, ok := contents[0].(mcp.TextResourceContents)
		require.True(t, ok)

		var resp CourseResponse
		require.NoError(t, json.Unmarshal([]byte(text.Text), &resp))
		assert.Equal(t, "GO101", resp.ID)
		assert.Equal(t, 1, resp.Enrollments)
	})

	t.Run("unknown course", func(t *testing.T) {
		req := mcp.ReadResourceRequest{}
		req.Params.URI = "learnpath://course/NOPE"

		_, err := s.handleCourseResource(ctx, req)
		assert.Error(t, err)
	})
}
