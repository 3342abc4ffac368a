package telemetry

import (
	"runtime"
	"strings"

	"github.com/asteroid-belt/learnpath/internal/hash"
	"github.com/asteroid-belt/learnpath/pkg/version"
)

// Event names - process and CLI
const (
	EventAppStarted         = "app_started"
	EventAppExited          = "app_exited"
	EventCLICommandExecuted = "cli_command_executed"
	EventCLIErrorOccurred   = "cli_error_occurred"
	EventCLIHelpViewed      = "cli_help_viewed"
)

// Event names - learners
const (
	EventLearnerRegistered = "learner_registered"
	EventLearnerLoggedIn   = "learner_logged_in"
	EventCourseEnrolled    = "course_enrolled"
	EventCourseUnenrolled  = "course_unenrolled"
	EventCourseCompleted   = "course_completed"
	EventProgressUpdated   = "progress_updated"
	EventCourseRated       = "course_rated"
	EventInterestsUpdated  = "interests_updated"
)

// Event names - catalog and MCP
const (
	EventRecommendationsGenerated = "recommendations_generated"
	EventCoursesListed            = "courses_listed"
	EventMCPToolCalled            = "mcp_tool_called"
)

// baseProperties returns common properties for all events.
func baseProperties() map[string]interface{} {
	return map[string]interface{}{
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"version":    version.Short(),
		"prerelease": version.IsPrerelease(),
		"dev_build":  version.IsDevBuild(),
	}
}

// anonymize never lets a raw learner id leave the process.
func anonymize(learnerID string) string {
	return hash.TruncatedSHA256(learnerID)
}

func (c *posthogClient) TrackAppStarted(mode string, courseCount int) {
	props := baseProperties()
	props["mode"] = mode
	props["course_count"] = courseCount
	c.Track(EventAppStarted, props)
}

func (c *posthogClient) TrackAppExited(mode string, sessionDurationMs int64) {
	props := baseProperties()
	props["mode"] = mode
	props["session_duration_ms"] = sessionDurationMs
	c.Track(EventAppExited, props)
}

func (c *posthogClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
	props := baseProperties()
	props["command_name"] = commandName
	props["has_flags"] = hasFlags
	props["duration_ms"] = durationMs
	c.Track(EventCLICommandExecuted, props)
}

func (c *posthogClient) TrackCLIError(commandName, errorType string) {
	props := baseProperties()
	props["command_name"] = commandName
	props["error_type"] = errorType
	c.Track(EventCLIErrorOccurred, props)
}

// TrackCLIHelpViewed records the help topic. Only the argument count is kept.
func (c *posthogClient) TrackCLIHelpViewed(commandName string, cliArgs []string) {
	props := baseProperties()
	props["command_name"] = commandName
	props["arg_count"] = len(cliArgs)
	props["flags"] = strings.Join(flagsOnly(cliArgs), ",")
	c.Track(EventCLIHelpViewed, props)
}

func (c *posthogClient) TrackLearnerRegistered(learnerID string) {
	props := baseProperties()
	props["learner"] = anonymize(learnerID)
	c.Track(EventLearnerRegistered, props)
}

func (c *posthogClient) TrackLearnerLoggedIn(learnerID string, success, upgradedDigest bool) {
	props := baseProperties()
	props["learner"] = anonymize(learnerID)
	props["success"] = success
	props["upgraded_digest"] = upgradedDigest
	c.Track(EventLearnerLoggedIn, props)
}

func (c *posthogClient) TrackCourseEnrolled(learnerID, courseID, category string) {
	props := baseProperties()
	props["learner"] = anonymize(learnerID)
	props["course_id"] = courseID
	props["category"] = category
	c.Track(EventCourseEnrolled, props)
}

func (c *posthogClient) TrackCourseUnenrolled(learnerID, courseID string) {
	props := baseProperties()
	props["learner"] = anonymize(learnerID)
	props["course_id"] = courseID
	c.Track(EventCourseUnenrolled, props)
}

func (c *posthogClient) TrackCourseCompleted(learnerID, courseID, skillLevel string, completedCount int) {
	props := baseProperties()
	props["learner"] = anonymize(learnerID)
	props["course_id"] = courseID
	props["skill_level"] = skillLevel
	props["completed_count"] = completedCount
	c.Track(EventCourseCompleted, props)
}

func (c *posthogClient) TrackProgressUpdated(learnerID, courseID string, percent int) {
	props := baseProperties()
	props["learner"] = anonymize(learnerID)
	props["course_id"] = courseID
	props["percent"] = percent
	c.Track(EventProgressUpdated, props)
}

func (c *posthogClient) TrackCourseRated(learnerID, courseID string, rating int, hasReview bool) {
	props := baseProperties()
	props["learner"] = anonymize(learnerID)
	props["course_id"] = courseID
	props["rating"] = rating
	props["has_review"] = hasReview
	c.Track(EventCourseRated, props)
}

func (c *posthogClient) TrackInterestsUpdated(learnerID string, interestCount int) {
	props := baseProperties()
	props["learner"] = anonymize(learnerID)
	props["interest_count"] = interestCount
	c.Track(EventInterestsUpdated, props)
}

func (c *posthogClient) TrackRecommendationsGenerated(learnerID string, eligible, returned int, durationMs int64) {
	props := baseProperties()
	props["learner"] = anonymize(learnerID)
	props["eligible"] = eligible
	props["returned"] = returned
	props["duration_ms"] = durationMs
	c.Track(EventRecommendationsGenerated, props)
}

func (c *posthogClient) TrackCoursesListed(count int, filter string) {
	props := baseProperties()
	props["count"] = count
	props["filter"] = filter
	c.Track(EventCoursesListed, props)
}

func (c *posthogClient) TrackMCPToolCalled(toolName string, durationMs int64, success bool) {
	props := baseProperties()
	props["tool_name"] = toolName
	props["duration_ms"] = durationMs
	props["success"] = success
	c.Track(EventMCPToolCalled, props)
}

// flagsOnly keeps the flag names from args and drops positional values,
// which may be learner ids.
func flagsOnly(args []string) []string {
	var flags []string
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			name, _, _ := strings.Cut(a, "=")
			flags = append(flags, name)
		}
	}
	return flags
}

func (c *noopClient) TrackAppStarted(mode string, courseCount int)                               {}
func (c *noopClient) TrackAppExited(mode string, sessionDurationMs int64)                        {}
func (c *noopClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {}
func (c *noopClient) TrackCLIError(commandName, errorType string)                                {}
func (c *noopClient) TrackCLIHelpViewed(commandName string, cliArgs []string)                    {}
func (c *noopClient) TrackLearnerRegistered(learnerID string)                                    {}
func (c *noopClient) TrackLearnerLoggedIn(learnerID string, success, upgradedDigest bool)        {}
func (c *noopClient) TrackCourseEnrolled(learnerID, courseID, category string)                   {}
func (c *noopClient) TrackCourseUnenrolled(learnerID, courseID string)                           {}
func (c *noopClient) TrackCourseCompleted(learnerID, courseID, skillLevel string, completedCount int) {
}
func (c *noopClient) TrackProgressUpdated(learnerID, courseID string, percent int)             {}
func (c *noopClient) TrackCourseRated(learnerID, courseID string, rating int, hasReview bool) {}
func (c *noopClient) TrackInterestsUpdated(learnerID string, interestCount int)               {}
func (c *noopClient) TrackRecommendationsGenerated(learnerID string, eligible, returned int, durationMs int64) {
}
func (c *noopClient) TrackCoursesListed(count int, filter string)                       {}
func (c *noopClient) TrackMCPToolCalled(toolName string, durationMs int64, success bool) {}
