// Package cli provides the command-line interface for learnpath.
package cli

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/learnpath/internal/learning"
	"github.com/asteroid-belt/learnpath/internal/models"
	"github.com/asteroid-belt/learnpath/internal/telemetry"
	"github.com/asteroid-belt/learnpath/pkg/version"
)

var telemetryClient telemetry.Client = telemetry.NewNoop()

// service backs every command. Execute sets it; tests assign it directly.
var service learning.Service

var commandStartTime time.Time

var rootCmd = &cobra.Command{
	Use:   "learnpath",
	Short: "Course tracking and recommendations",
	Long: `Course tracking and recommendations

Register as a learner, enroll in courses from the catalog, record progress
and ratings, and get course recommendations ranked on rating, recency,
popularity and your interests.

Data lives under the base directory (default $XDG_DATA_HOME/learnpath) as
plain text records you can read and edit.

Telemetry:
  Telemetry is enabled by default, always anonymous, and never sends learner
  ids, names, reviews or IP addresses.

  Opt-out with:
  	LEARNPATH_TELEMETRY_TRACKING_ENABLED=false`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commandStartTime = time.Now()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() != "learnpath" {
			durationMs := time.Since(commandStartTime).Milliseconds()
			hasFlags := cmd.Flags().NFlag() > 0
			telemetryClient.TrackCLICommandExecuted(cmd.Name(), hasFlags, durationMs)
		}

		if cmd.Flags().Changed("help") {
			telemetryClient.TrackCLIHelpViewed(cmd.Name(), os.Args[1:])
		}
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(courseCmd)
	rootCmd.AddCommand(enrollCmd)
	rootCmd.AddCommand(unenrollCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(interestsCmd)
	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(reviewsCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context, svc learning.Service, tc telemetry.Client) error {
	if tc == nil {
		tc = telemetry.New(nil)
	}
	telemetryClient = tc
	service = svc

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Short()),
		fang.WithCommit(version.Commit),
	)

	if rootCmd.CalledAs() != "" {
		durationMs := time.Since(commandStartTime).Milliseconds()
		telemetryClient.TrackAppExited("cli", durationMs)
	}

	return err
}

// trackCLIError wraps an error with telemetry tracking.
// Call this before returning errors from CLI commands.
func trackCLIError(cmdName string, err error) error {
	if err == nil {
		return nil
	}
	errorType := classifyError(err)
	telemetryClient.TrackCLIError(cmdName, errorType)
	return err
}

// classifyError determines the error type for telemetry.
func classifyError(err error) string {
	switch {
	case errors.Is(err, models.ErrValidation):
		return "validation_error"
	case errors.Is(err, models.ErrNotFound):
		return "not_found_error"
	case errors.Is(err, models.ErrAlreadyExists):
		return "conflict_error"
	case errors.Is(err, models.ErrInvalidCredentials):
		return "auth_error"
	case errors.Is(err, models.ErrRateLimited):
		return "rate_limit_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}

	errStr := err.Error()
	switch {
	case containsAny(errStr, "config", "configuration"):
		return "config_error"
	case containsAny(errStr, "database", "sqlite"):
		return "database_error"
	case containsAny(errStr, "permission", "access denied"):
		return "permission_error"
	case containsAny(errStr, "not found", "does not exist", "no such file"):
		return "not_found_error"
	case containsAny(errStr, "invalid", "parse", "format"):
		return "validation_error"
	default:
		return "unknown_error"
	}
}

// containsAny checks if s contains any of the substrings (case-insensitive).
func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
