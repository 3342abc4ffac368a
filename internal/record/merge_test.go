package record

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/learnpath/internal/models"
)

var mergeEntry = models.RatingEntry{
	Value:  5,
	Review: "Excellent pacing",
	At:     time.Date(2025, 4, 1, 12, 0, 0, 0, time.Local),
}

func merge(t *testing.T, text, courseID, title string) string {
	t.Helper()
	return JoinLines(AppendRating(SplitLines(text), courseID, title, mergeEntry))
}

func TestAppendRating_ProgressButNoRatingsSection(t *testing.T) {
	text := `USER_ID: u1
NAME: Ada
COURSE_PROGRESS:
  COURSE_ID: C1
  COURSE_NAME: Intro to Go
  PROGRESS: 40%
  YOUR_RATING: Not rated
LAST_ACCESS_TIME:
  COURSE_ID: C1
  COURSE_NAME: Intro to Go
  TIME: 2025-03-14 09:30
`
	out := merge(t, text, "C1", "Intro to Go")

	rated := strings.Replace(text, "YOUR_RATING: Not rated", "YOUR_RATING: 5/5", 1)
	assert.True(t, strings.HasPrefix(out, rated), "only the rating summary changes")
	assert.Equal(t, 1, strings.Count(out, "    RATINGS:"))
	assert.Equal(t, rated+`RATINGS:
  COURSE_ID: C1
  COURSE_NAME: Intro to Go
    RATINGS:
      - RATING: 5
        REVIEW: Excellent pacing
        DATE: 2025-04-01 12:00
`, out)

	l, err := DecodeLearner(strings.NewReader(out), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 40, l.Progress["C1"])
	assert.Equal(t, []models.RatingEntry{mergeEntry}, l.Ratings["C1"])
}

func TestAppendRating_ExistingSubsection(t *testing.T) {
	text := `USER_ID: u1
RATINGS:
  COURSE_ID: C1
  COURSE_NAME: Intro to Go
    RATINGS:
      - RATING: 2
        DATE: 2025-03-01 10:00

  COURSE_ID: C2
  COURSE_NAME: Design
    RATINGS:
      - RATING: 4
`
	out := merge(t, text, "C1", "Intro to Go")

	assert.Equal(t, `USER_ID: u1
RATINGS:
  COURSE_ID: C1
  COURSE_NAME: Intro to Go
    RATINGS:
      - RATING: 2
        DATE: 2025-03-01 10:00
      - RATING: 5
        REVIEW: Excellent pacing
        DATE: 2025-04-01 12:00

  COURSE_ID: C2
  COURSE_NAME: Design
    RATINGS:
      - RATING: 4
`, out)

	l, err := DecodeLearner(strings.NewReader(out), zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, l.Ratings["C1"], 2)
	assert.Equal(t, 5, l.Ratings["C1"][1].Value)
	assert.Len(t, l.Ratings["C2"], 1)
}

func TestAppendRating_CourseBlockWithoutSubsection(t *testing.T) {
	text := `USER_ID: u1
RATINGS:
  COURSE_ID: C1
  COURSE_NAME: Intro to Go
ENROLLED_COURSES:
  C1 - Intro to Go
`
	out := merge(t, text, "C1", "ignored title")

	assert.Equal(t, `USER_ID: u1
RATINGS:
  COURSE_ID: C1
  COURSE_NAME: Intro to Go
    RATINGS:
      - RATING: 5
        REVIEW: Excellent pacing
        DATE: 2025-04-01 12:00
ENROLLED_COURSES:
  C1 - Intro to Go
`, out)
}

func TestAppendRating_NewCourseBlockAtEndOfSection(t *testing.T) {
	text := `USER_ID: u1
RATINGS:
  COURSE_ID: C10
  COURSE_NAME: Advanced Go
    RATINGS:
      - RATING: 3

EXTRA_SECTION:
  something
`
	out := merge(t, text, "C1", "Intro to Go")

	assert.Equal(t, `USER_ID: u1
RATINGS:
  COURSE_ID: C10
  COURSE_NAME: Advanced Go
    RATINGS:
      - RATING: 3
  COURSE_ID: C1
  COURSE_NAME: Intro to Go
    RATINGS:
      - RATING: 5
        REVIEW: Excellent pacing
        DATE: 2025-04-01 12:00

EXTRA_SECTION:
  something
`, out, "C1 must not match the C10 block")
}

func TestAppendRating_EmptyRatingsSection(t *testing.T) {
	out := merge(t, "USER_ID: u1\nRATINGS:\n", "C1", "")
	assert.Equal(t, `USER_ID: u1
RATINGS:
  COURSE_ID: C1
  COURSE_NAME: (Course not found)
    RATINGS:
      - RATING: 5
        REVIEW: Excellent pacing
        DATE: 2025-04-01 12:00
`, out)
}

func TestAppendRating_RepeatedMergesAccumulate(t *testing.T) {
	lines := SplitLines("USER_ID: u1\n")
	for _, v := range []int{1, 2, 3} {
		lines = AppendRating(lines, "C1", "Intro", models.RatingEntry{Value: v})
	}
	l, err := DecodeLearner(strings.NewReader(JoinLines(lines)), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []models.RatingEntry{{Value: 1}, {Value: 2}, {Value: 3}}, l.Ratings["C1"])
	assert.Equal(t, 1, strings.Count(JoinLines(lines), "\nRATINGS:"))
}

func TestAppendRating_RewritesYourRating(t *testing.T) {
	text := `USER_ID: u1
COURSE_PROGRESS:
  COURSE_ID: C1
  COURSE_NAME: Intro to Go
  PROGRESS: 40%
  YOUR_RATING: Not rated
  COURSE_ID: C10
  COURSE_NAME: Advanced Go
  PROGRESS: 10%
  YOUR_RATING: 2/5
RATINGS:
  COURSE_ID: C10
  COURSE_NAME: Advanced Go
    RATINGS:
      - RATING: 2
`
	tests := []struct {
		name     string
		courseID string
		value    int
		want     []string
	}{
		{"unrated course", "C1", 4, []string{"  YOUR_RATING: 4/5", "  YOUR_RATING: 2/5"}},
		{"rated course", "C10", 5, []string{"  YOUR_RATING: Not rated", "  YOUR_RATING: 5/5"}},
		{"no progress block", "C2", 3, []string{"  YOUR_RATING: Not rated", "  YOUR_RATING: 2/5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := AppendRating(SplitLines(text), tt.courseID, "", models.RatingEntry{Value: tt.value})

			var got []string
			for _, line := range lines {
				if strings.HasPrefix(strings.TrimSpace(line), "YOUR_RATING:") {
					got = append(got, line)
				}
			}
			assert.Equal(t, tt.want, got)

			l, err := DecodeLearner(strings.NewReader(JoinLines(lines)), zerolog.Nop())
			require.NoError(t, err)
			assert.Equal(t, tt.value, l.LatestRating(tt.courseID))
		})
	}
}

func TestAppendRating_MatchesFullEncode(t *testing.T) {
	l := models.NewLearner("u1", "Ada", "ada@example.com", "digest")
	require.NoError(t, l.Enroll("C1"))

	before := encode(t, l)
	merged := JoinLines(AppendRating(SplitLines(before), "C1", "Intro to Go", mergeEntry))

	l.AddRating("C1", mergeEntry)
	assert.Equal(t, encode(t, l), merged)
}

func TestSplitJoinLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\nb\n"))
	assert.Equal(t, "a\nb\n", JoinLines([]string{"a", "b"}))
	assert.Equal(t, "", JoinLines(nil))
}
