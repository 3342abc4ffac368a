// Package record reads and writes the line-oriented text records that hold
// learner state and per-course rating sets.
//
// A learner record looks like:
//
//	USER_ID: u1
//	NAME: Ada
//	...
//	RATINGS:
//	  COURSE_ID: C1
//	  COURSE_NAME: Intro to Go
//	    RATINGS:
//	      - RATING: 5
//	        REVIEW: Loved it
//	        DATE: 2025-03-14 09:30
//
// Section headers are unindented and end with a colon. Members are indented.
// Lines the decoder does not recognise are skipped so newer files stay
// readable by older builds.
package record

import (
	"fmt"
	"time"
)

// TimeLayout is the timestamp format used throughout the records.
const TimeLayout = "2006-01-02 15:04"

// MissingTitle is written when a course id cannot be resolved to a title.
const MissingTitle = "(Course not found)"

// Identity field prefixes.
const (
	fieldUserID     = "USER_ID:"
	fieldName       = "NAME:"
	fieldEmail      = "EMAIL:"
	fieldPassword   = "PASSWORD:"
	fieldSkillLevel = "SKILL_LEVEL:"
)

// Section headers.
const (
	headerInterests  = "INTERESTS:"
	headerEnrolled   = "ENROLLED_COURSES:"
	headerCompleted  = "COMPLETED_COURSES:"
	headerProgress   = "COURSE_PROGRESS:"
	headerLastModule = "LAST_ACCESSED_MODULE:"
	headerLastAccess = "LAST_ACCESS_TIME:"
	headerRatings    = "RATINGS:"
)

// Member prefixes, matched after trimming indentation.
const (
	memberCourseID   = "COURSE_ID:"
	memberCourseName = "COURSE_NAME:"
	memberProgress   = "PROGRESS:"
	memberYourRating = "YOUR_RATING:"
	memberModule     = "MODULE:"
	memberTime       = "TIME:"
	memberRatings    = "RATINGS:"
	memberRating     = "- RATING:"
	memberReview     = "REVIEW:"
	memberDate       = "DATE:"
)

// Indentation used by the encoder.
const (
	indentMember = "  "
	indentSub    = "    "
	indentEntry  = "      "
	indentField  = "        "
)

// TitleResolver maps a course id to its display title.
type TitleResolver interface {
	CourseTitle(id string) (string, bool)
}

// TitleFunc adapts a function to TitleResolver.
type TitleFunc func(id string) (string, bool)

// CourseTitle implements TitleResolver.
func (f TitleFunc) CourseTitle(id string) (string, bool) { return f(id) }

// resolveTitle returns the course title or MissingTitle.
func resolveTitle(titles TitleResolver, id string) string {
	if titles != nil {
		if title, ok := titles.CourseTitle(id); ok {
			return title
		}
	}
	return MissingTitle
}

// FormatTime renders t in TimeLayout using local time.
func FormatTime(t time.Time) string {
	return t.In(time.Local).Format(TimeLayout)
}

// ParseTime parses a TimeLayout timestamp in local time.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, s, time.Local)
}

// DecodeError reports a record that could not be decoded at all.
type DecodeError struct {
	Line int
	Msg  string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("decode record: line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("decode record: %s", e.Msg)
}

func (e *DecodeError) Unwrap() error { return e.Err }
