// Package testutil provides testing utilities.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/learnpath/internal/catalog"
	"github.com/asteroid-belt/learnpath/internal/models"
)

// Epoch is the fixed "now" used across tests.
var Epoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// Clock is a settable clock for Now fields.
type Clock struct {
	T time.Time
}

// NewClock returns a clock stopped at Epoch.
func NewClock() *Clock { return &Clock{T: Epoch} }

// Now returns the current clock time.
func (c *Clock) Now() time.Time { return c.T }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// Logger returns a logger that discards everything, or writes to the test
// log when LEARNPATH_TEST_LOG is set.
func Logger(t testing.TB) zerolog.Logger {
	t.Helper()
	if os.Getenv("LEARNPATH_TEST_LOG") == "" {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
}

// SampleCourse is one row of SampleCatalog.
type SampleCourse struct {
	ID         string
	Title      string
	Category   models.Category
	Difficulty models.Difficulty
	AgeDays    int
}

// SampleCourses are the courses of SampleCatalog, in catalog order.
var SampleCourses = []SampleCourse{
	{"GO101", "Go Fundamentals", models.CategoryProgramming, models.DifficultyBeginner, 10},
	{"GO201", "Concurrency in Go", models.CategoryProgramming, models.DifficultyIntermediate, 200},
	{"DS101", "Statistics for Data Science", models.CategoryDataScience, models.DifficultyBeginner, 30},
	{"AI301", "Deep Learning", models.CategoryArtificialIntelligence, models.DifficultyAdvanced, 400},
	{"UX101", "Interface Design Basics", models.CategoryDesign, models.DifficultyBeginner, 5},
	{"MK101", "Growth Marketing", models.CategoryMarketing, models.DifficultyIntermediate, 90},
}

// SampleCatalog returns a catalog holding SampleCourses, each created
// AgeDays before Epoch.
func SampleCatalog(t testing.TB) *catalog.Catalog {
	t.Helper()
	c := catalog.New()
	for _, sc := range SampleCourses {
		created := Epoch.AddDate(0, 0, -sc.AgeDays)
		course, err := models.NewCourse(sc.ID, sc.Title, sc.Category, sc.Difficulty, "Acme", "", created)
		require.NoError(t, err)
		require.NoError(t, c.Add(course))
	}
	return c
}
