package mcp

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/learnpath/internal/learning"
	"github.com/asteroid-belt/learnpath/internal/store"
	"github.com/asteroid-belt/learnpath/internal/telemetry"
	"github.com/asteroid-belt/learnpath/internal/testutil"
)

// mockTelemetryClient records MCP tool calls.
type mockTelemetryClient struct {
	telemetry.Client
	mu    sync.Mutex
	calls []toolCall
}

type toolCall struct {
	name    string
	success bool
}

func newMockTelemetry() *mockTelemetryClient {
	return &mockTelemetryClient{Client: telemetry.NewNoop()}
}

func (m *mockTelemetryClient) TrackMCPToolCalled(toolName string, durationMs int64, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, toolCall{name: toolName, success: success})
}

func (m *mockTelemetryClient) Calls() []toolCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]toolCall(nil), m.calls...)
}

const testPassword = "Secr3t!pass"

// setupTestServer returns a server over the sample catalog with learner
// "ada" registered and enrolled in GO101.
func setupTestServer(t *testing.T, tc telemetry.Client) *Server {
	t.Helper()
	dir := t.TempDir()
	log := testutil.Logger(t)
	cat := testutil.SampleCatalog(t)
	clock := testutil.NewClock()

	svc := learning.NewService(learning.Options{
		Catalog:    cat,
		CoursesCSV: filepath.Join(dir, "courses.csv"),
		Learners:   store.NewLearnerStore(filepath.Join(dir, "learners"), cat, log),
		Ratings:    store.NewRatingStore(filepath.Join(dir, "ratings"), log),
		Logger:     log,
		Now:        clock.Now,
	})

	ctx := context.Background()
	_, err := svc.Register(ctx, learning.Registration{
		ID:       "ada",
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, "ada", "GO101")
	require.NoError(t, err)

	return NewServer(svc, tc)
}

func callTool(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func decodeResult(t *testing.T, result *mcp.CallToolResult, v any) {
	t.Helper()
	require.NotNil(t, result)
	require.False(t, result.IsError, "unexpected tool error")
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(textContent.Text), v))
}

func TestNewServer(t *testing.T) {
	s := setupTestServer(t, nil)
	assert.NotNil(t, s.server)
	assert.NotNil(t, s.svc)
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want int
	}{
		{"missing", map[string]interface{}{}, 10},
		{"valid", map[string]interface{}{"limit": float64(4)}, 4},
		{"capped", map[string]interface{}{"limit": float64(500)}, 50},
		{"zero", map[string]interface{}{"limit": float64(0)}, 10},
		{"negative", map[string]interface{}{"limit": float64(-3)}, 10},
		{"wrong type", map[string]interface{}{"limit": "7"}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLimit(tt.args, 10, 50))
		})
	}
}

func TestToolCallsAreTracked(t *testing.T) {
	tel := newMockTelemetry()
	s := setupTestServer(t, tel)
	ctx := context.Background()

	_, err := s.handleGetCourse(ctx, callTool(map[string]any{"course_id": "GO101"}))
	require.NoError(t, err)
	_, err = s.handleGetCourse(ctx, callTool(map[string]any{}))
	require.NoError(t, err)

	assert.Equal(t, []toolCall{
		{name: "learnpath_get_course", success: true},
		{name: "learnpath_get_course", success: false},
	}, tel.Calls())
}
