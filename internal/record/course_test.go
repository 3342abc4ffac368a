package record

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/learnpath/internal/ledger"
)

func TestEncodeCourseRatings_Layout(t *testing.T) {
	l := ledger.New()
	l.AddRating("u1", 4)
	l.AddReview("u1", "Clear examples")
	l.AddRating("u1", 5)
	l.AddRating("u2", 3)
	l.AddReview("u3", "Only words")

	var buf bytes.Buffer
	require.NoError(t, EncodeCourseRatings(&buf, "C1", "Intro to Go", l))

	assert.Equal(t, `COURSE_ID: C1
COURSE_NAME: Intro to Go
AVERAGE_RATING: 4.0
TOTAL_RATINGS: 3

USER_RATINGS:
  USER_ID: u1
  RATING: 4
  REVIEW: Clear examples

  USER_ID: u1
  RATING: 5

  USER_ID: u2
  RATING: 3

  USER_ID: u3
  REVIEW: Only words

`, buf.String())
}

func TestCourseRatings_RoundTrip(t *testing.T) {
	orig := ledger.New()
	orig.AddRating("u1", 2)
	orig.AddReview("u1", "Slow start")
	orig.AddRating("u1", 4)
	orig.AddRating("u2", 5)
	orig.AddReview("u2", "Great")

	var buf bytes.Buffer
	require.NoError(t, EncodeCourseRatings(&buf, "C1", "Intro", orig))

	back := ledger.New()
	n, err := DecodeCourseRatings(&buf, back, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, orig.Entries(), back.Entries())
	assert.InDelta(t, orig.Average(), back.Average(), 1e-9)
}

func TestDecodeCourseRatings_Boundaries(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		want  []ledger.Entry
		count int
	}{
		{
			name:  "user id starts a new entry without a blank line",
			body:  "  USER_ID: u1\n  RATING: 4\n  USER_ID: u2\n  RATING: 2\n",
			want:  []ledger.Entry{{LearnerID: "u1", Ratings: []int{4}}, {LearnerID: "u2", Ratings: []int{2}}},
			count: 2,
		},
		{
			name:  "end of stream commits",
			body:  "  USER_ID: u1\n  RATING: 3\n  REVIEW: fine",
			want:  []ledger.Entry{{LearnerID: "u1", Ratings: []int{3}, Reviews: []string{"fine"}}},
			count: 1,
		},
		{
			name:  "out of range rating keeps review",
			body:  "  USER_ID: u1\n  RATING: 7\n  REVIEW: odd\n\n",
			want:  []ledger.Entry{{LearnerID: "u1", Reviews: []string{"odd"}}},
			count: 0,
		},
		{
			name:  "fields before any user id are ignored",
			body:  "  RATING: 5\n  REVIEW: orphan\n\n  USER_ID: u9\n  RATING: 1\n",
			want:  []ledger.Entry{{LearnerID: "u9", Ratings: []int{1}}},
			count: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "COURSE_ID: C1\nCOURSE_NAME: X\nAVERAGE_RATING: 9.9\nTOTAL_RATINGS: 42\n\nUSER_RATINGS:\n" + tt.body
			l := ledger.New()
			n, err := DecodeCourseRatings(strings.NewReader(text), l, zerolog.Nop())
			require.NoError(t, err)
			assert.Equal(t, tt.count, n)
			assert.Equal(t, tt.count, l.Count(), "stored header stats are ignored")

			got := l.Entries()
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].LearnerID, got[i].LearnerID)
				assert.ElementsMatch(t, tt.want[i].Ratings, got[i].Ratings)
				assert.ElementsMatch(t, tt.want[i].Reviews, got[i].Reviews)
			}
		})
	}
}
