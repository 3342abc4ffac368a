package record

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/asteroid-belt/learnpath/internal/ledger"
)

const (
	fieldCourseID      = "COURSE_ID:"
	fieldCourseName    = "COURSE_NAME:"
	fieldAverageRating = "AVERAGE_RATING:"
	fieldTotalRatings  = "TOTAL_RATINGS:"
	headerUserRatings  = "USER_RATINGS:"
	memberUserRating   = "RATING:"
)

// EncodeCourseRatings writes the rating set of one course. A learner's Nth
// review is written alongside their Nth rating.
func EncodeCourseRatings(w io.Writer, courseID, title string, l *ledger.Ledger) error {
	bw := bufio.NewWriter(w)

	_, _ = fmt.Fprintf(bw, "%s %s\n", fieldCourseID, courseID)
	_, _ = fmt.Fprintf(bw, "%s %s\n", fieldCourseName, title)
	_, _ = fmt.Fprintf(bw, "%s %.1f\n", fieldAverageRating, l.Average())
	_, _ = fmt.Fprintf(bw, "%s %d\n", fieldTotalRatings, l.Count())
	_, _ = fmt.Fprintln(bw)
	_, _ = fmt.Fprintln(bw, headerUserRatings)

	for _, e := range l.Entries() {
		n := len(e.Ratings)
		if len(e.Reviews) > n {
			n = len(e.Reviews)
		}
		for i := 0; i < n; i++ {
			_, _ = fmt.Fprintf(bw, "%s%s %s\n", indentMember, fieldUserID, e.LearnerID)
			if i < len(e.Ratings) {
				_, _ = fmt.Fprintf(bw, "%s%s %d\n", indentMember, memberUserRating, e.Ratings[i])
			}
			if i < len(e.Reviews) {
				if review := oneLine(e.Reviews[i]); review != "" {
					_, _ = fmt.Fprintf(bw, "%s%s %s\n", indentMember, memberReview, review)
				}
			}
			_, _ = fmt.Fprintln(bw)
		}
	}

	return bw.Flush()
}

// courseEntry accumulates one USER_RATINGS entry.
type courseEntry struct {
	learnerID string
	rating    int
	review    string
}

// DecodeCourseRatings replays a course rating record into l and returns the
// number of entries applied. AVERAGE_RATING and TOTAL_RATINGS are ignored;
// the ledger recomputes them from the entries.
func DecodeCourseRatings(r io.Reader, l *ledger.Ledger, log zerolog.Logger) (int, error) {
	var (
		pending *courseEntry
		inUsers bool
		applied int
		lineNo  int
	)

	flush := func() {
		if pending == nil {
			return
		}
		if pending.rating != 0 && l.AddRating(pending.learnerID, pending.rating) {
			applied++
		}
		if pending.review != "" {
			l.AddReview(pending.learnerID, pending.review)
		}
		pending = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			flush()
		case line == headerUserRatings:
			flush()
			inUsers = true
		case !inUsers:
			// header fields
		case strings.HasPrefix(line, fieldUserID):
			flush()
			if id := value(line, fieldUserID); id != "" {
				pending = &courseEntry{learnerID: id}
			}
		case pending == nil:
		case strings.HasPrefix(line, memberUserRating):
			v, err := strconv.Atoi(value(line, memberUserRating))
			if err != nil || !ledger.ValidRating(v) {
				log.Warn().Int("line", lineNo).Str("text", line).Msg("skipping invalid course rating")
				continue
			}
			pending.rating = v
		case strings.HasPrefix(line, memberReview):
			pending.review = value(line, memberReview)
		}
	}
	if err := scanner.Err(); err != nil {
		return applied, &DecodeError{Line: lineNo, Msg: "read failed", Err: err}
	}
	flush()
	return applied, nil
}
