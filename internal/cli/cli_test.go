package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/learnpath/internal/learning"
	"github.com/asteroid-belt/learnpath/internal/models"
	"github.com/asteroid-belt/learnpath/internal/store"
	"github.com/asteroid-belt/learnpath/internal/telemetry"
	"github.com/asteroid-belt/learnpath/internal/testutil"
)

const testPassword = "Secr3t!pass"

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "learnpath", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{
		"register", "login", "courses", "course", "enroll", "unenroll",
		"complete", "progress", "dashboard", "interests", "rate", "reviews",
		"recommend", "top", "profile", "version",
	} {
		assert.Contains(t, names, want)
	}
}

func TestCourseCmd_HasShowAndAdd(t *testing.T) {
	var names []string
	for _, cmd := range courseCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"show", "add"}, names)
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd      *cobra.Command
		flag     string
		defValue string
	}{
		{registerCmd, "name", ""},
		{registerCmd, "email", ""},
		{registerCmd, "password", ""},
		{loginCmd, "password", ""},
		{coursesCmd, "category", ""},
		{courseShowCmd, "reviews", "3"},
		{courseAddCmd, "difficulty", ""},
		{reviewsCmd, "limit", "5"},
		{topCmd, "limit", "5"},
		{progressCmd, "module", ""},
		{rateCmd, "review", ""},
		{recommendCmd, "limit", "0"},
		{recommendCmd, "explain", "false"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd.Name()+"/"+tt.flag, func(t *testing.T) {
			f := tt.cmd.Flags().Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.defValue, f.DefValue)
		})
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("wrap: %w", models.ErrValidation), "validation_error"},
		{fmt.Errorf("wrap: %w", models.ErrNotFound), "not_found_error"},
		{models.ErrAlreadyExists, "conflict_error"},
		{models.ErrInvalidCredentials, "auth_error"},
		{models.ErrRateLimited, "rate_limit_error"},
		{context.Canceled, "canceled"},
		{errors.New("load config file"), "config_error"},
		{errors.New("sqlite: locked"), "database_error"},
		{errors.New("permission denied"), "permission_error"},
		{errors.New("open x: no such file or directory"), "not_found_error"},
		{errors.New("cannot parse line"), "validation_error"},
		{errors.New("boom"), "unknown_error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyError(tt.err), tt.err.Error())
	}
}

func TestTrackCLIError_Nil(t *testing.T) {
	assert.NoError(t, trackCLIError("x", nil))
}

// errorRecorder captures CLI error events.
type errorRecorder struct {
	telemetry.Client
	errs []string
}

func (r *errorRecorder) TrackCLIError(cmd, errType string) {
	r.errs = append(r.errs, cmd+":"+errType)
}

// setupCLI points the package service at a fresh temp directory.
func setupCLI(t *testing.T) *errorRecorder {
	t.Helper()
	dir := t.TempDir()
	log := testutil.Logger(t)
	cat := testutil.SampleCatalog(t)
	rec := &errorRecorder{Client: telemetry.NewNoop()}

	prevService, prevTelemetry, prevPrompt, prevSelector := service, telemetryClient, passwordPrompt, categorySelector
	t.Cleanup(func() {
		service, telemetryClient, passwordPrompt, categorySelector = prevService, prevTelemetry, prevPrompt, prevSelector
	})

	service = learning.NewService(learning.Options{
		Catalog:    cat,
		CoursesCSV: filepath.Join(dir, "courses.csv"),
		Learners:   store.NewLearnerStore(filepath.Join(dir, "learners"), cat, log),
		Ratings:    store.NewRatingStore(filepath.Join(dir, "ratings"), log),
		Logger:     log,
	})
	telemetryClient = rec
	passwordPrompt = func(string, bool) (string, error) { return "", errors.New("no prompt in tests") }
	return rec
}

// resetFlags restores every flag to its default. Flag variables are package
// state and survive between Execute calls.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, out)
	return out
}

func registerAda(t *testing.T) {
	t.Helper()
	mustRun(t, "register", "ada", "--name", "Ada Lovelace", "--email", "ada@example.com", "--password", testPassword)
}

func TestRegisterAndLogin(t *testing.T) {
	rec := setupCLI(t)

	out := mustRun(t, "register", "ada", "--name", "Ada Lovelace", "--email", "ada@example.com", "--password", testPassword)
	assert.Contains(t, out, "Registered ada")

	out = mustRun(t, "login", "ada", "--password", testPassword)
	assert.Contains(t, out, "Welcome back, Ada Lovelace")

	_, err := run(t, "login", "ada", "--password", "Wr0ng!pass")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = run(t, "register", "ada", "--name", "Ada", "--email", "ada@example.com", "--password", testPassword)
	assert.ErrorIs(t, err, models.ErrAlreadyExists)

	assert.Equal(t, []string{"login:auth_error", "register:conflict_error"}, rec.errs)
}

func TestRegister_PromptsForPassword(t *testing.T) {
	setupCLI(t)
	var confirmed bool
	passwordPrompt = func(_ string, confirm bool) (string, error) {
		confirmed = confirm
		return testPassword, nil
	}

	mustRun(t, "register", "grace", "--name", "Grace Hopper", "--email", "grace@example.com")
	assert.True(t, confirmed)

	out := mustRun(t, "login", "grace")
	assert.Contains(t, out, "Grace Hopper")
}

func TestRegister_RequiresNameAndEmail(t *testing.T) {
	setupCLI(t)
	_, err := run(t, "register", "ada", "--password", testPassword)
	assert.Error(t, err)
}

func TestCourses(t *testing.T) {
	setupCLI(t)

	out := mustRun(t, "courses")
	assert.Contains(t, out, "COURSES (6)")
	assert.Contains(t, out, "GO101")

	out = mustRun(t, "courses", "--category", "design")
	assert.Contains(t, out, "UX101")
	assert.NotContains(t, out, "GO101")

	_, err := run(t, "courses", "-c", "cooking")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCourseAddAndShow(t *testing.T) {
	setupCLI(t)

	out := mustRun(t, "course", "add", "PM101",
		"--title", "Product Management", "--category", "business",
		"--difficulty", "beginner", "--provider", "Acme")
	assert.Contains(t, out, "Added PM101")

	out = mustRun(t, "course", "show", "PM101")
	assert.Contains(t, out, "Product Management")
	assert.Contains(t, out, models.DefaultDescription)

	_, err := run(t, "course", "show", "NOPE")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestEnrollProgressComplete(t *testing.T) {
	setupCLI(t)
	registerAda(t)

	out := mustRun(t, "enroll", "ada", "GO101")
	assert.Contains(t, out, "ada enrolled in Go Fundamentals")

	out = mustRun(t, "progress", "ada", "GO101", "40%", "--module", "Module 2")
	assert.Contains(t, out, "40%")

	out = mustRun(t, "dashboard", "ada")
	assert.Contains(t, out, "Go Fundamentals")
	assert.Contains(t, out, "Module 2")

	out = mustRun(t, "progress", "ada", "GO101", "100")
	assert.Contains(t, out, "Course completed")

	out = mustRun(t, "complete", "ada", "GO101")
	assert.Contains(t, out, "already completed")

	_, err := run(t, "progress", "ada", "GO101", "half")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUnenroll(t *testing.T) {
	setupCLI(t)
	registerAda(t)
	mustRun(t, "enroll", "ada", "DS101")

	out := mustRun(t, "unenroll", "ada", "DS101")
	assert.Contains(t, out, "dropped DS101")

	out = mustRun(t, "dashboard", "ada")
	assert.Contains(t, out, "Not enrolled")
}

func TestInterests(t *testing.T) {
	setupCLI(t)
	registerAda(t)

	out := mustRun(t, "interests", "ada")
	assert.Contains(t, out, "Interests: none")

	out = mustRun(t, "interests", "ada", "set", "programming,design", "cooking")
	assert.Contains(t, out, `Ignored unknown category "cooking"`)
	assert.Contains(t, out, "Interests: Design, Programming")

	out = mustRun(t, "interests", "ada", "remove", "design")
	assert.Contains(t, out, "Interests: Programming")

	out = mustRun(t, "interests", "ada", "clear")
	assert.Contains(t, out, "Interests: none")

	_, err := run(t, "interests", "ada", "toggle", "design")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestInterests_SelectorWhenNoNames(t *testing.T) {
	setupCLI(t)
	registerAda(t)
	categorySelector = func([]models.Category) ([]string, error) {
		return []string{"DATA_SCIENCE"}, nil
	}

	out := mustRun(t, "interests", "ada", "set")
	assert.Contains(t, out, "Interests: Data Science")
}

func TestRateAndReviews(t *testing.T) {
	setupCLI(t)
	registerAda(t)

	_, err := run(t, "rate", "ada", "GO101", "5")
	assert.ErrorIs(t, err, models.ErrValidation)

	mustRun(t, "enroll", "ada", "GO101")
	out := mustRun(t, "rate", "ada", "GO101", "5", "--review", "Clear and practical")
	assert.Contains(t, out, "Thank you for your rating")
	assert.Contains(t, out, "5.0 (1 rating)")

	out = mustRun(t, "reviews", "GO101")
	assert.Contains(t, out, "Clear and practical")

	out = mustRun(t, "top")
	assert.Contains(t, out, "GO101")

	out = mustRun(t, "profile", "ada")
	assert.Contains(t, out, "Your ratings:")
	assert.Contains(t, out, "★★★★★")

	_, err = run(t, "rate", "ada", "GO101", "six")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRecommend(t *testing.T) {
	setupCLI(t)
	registerAda(t)
	mustRun(t, "interests", "ada", "set", "programming")
	mustRun(t, "enroll", "ada", "GO101")

	out := mustRun(t, "recommend", "ada", "--explain")
	assert.Contains(t, out, "GO201")
	assert.NotContains(t, out, "GO101")
	assert.NotContains(t, out, "UX101")
	assert.Contains(t, out, "score")

	_, err := run(t, "recommend", "nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestVersionCmd(t *testing.T) {
	setupCLI(t)
	out := mustRun(t, "version")
	assert.NotEmpty(t, out)
}
