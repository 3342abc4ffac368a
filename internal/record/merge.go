package record

import (
	"fmt"
	"strings"

	"github.com/asteroid-belt/learnpath/internal/models"
)

// AppendRating inserts one rating entry into an existing learner record
// without rewriting anything else. The target is found in this order:
//
//  1. the course block has a RATINGS subsection: append after its entries
//  2. the course block has none: open one right after the COURSE_NAME line
//  3. the course has no block: add one at the end of the RATINGS section
//  4. there is no RATINGS section: add one at the end of the record
//
// The YOUR_RATING line of the course's COURSE_PROGRESS block, when there is
// one, is rewritten to the new value. Course ids are compared exactly.
func AppendRating(lines []string, courseID, title string, e models.RatingEntry) []string {
	return setYourRating(appendEntry(lines, courseID, title, e), courseID, e.Value)
}

func appendEntry(lines []string, courseID, title string, e models.RatingEntry) []string {
	entry := entryLines(e)

	start, end, ok := findSection(lines, headerRatings)
	if !ok {
		out := trimTrailingBlank(lines)
		out = append(out, headerRatings)
		out = append(out, courseBlock(courseID, title)...)
		return append(out, entry...)
	}

	blockStart, blockEnd, ok := findCourseBlock(lines, start+1, end, courseID)
	if !ok {
		at := lastContent(lines, start, end) + 1
		block := append(courseBlock(courseID, title), entry...)
		return insertAt(lines, at, block)
	}

	if sub := findSubsection(lines, blockStart, blockEnd); sub >= 0 {
		at := lastContent(lines, sub, blockEnd) + 1
		return insertAt(lines, at, entry)
	}

	at := blockStart + 1
	for i := blockStart + 1; i < blockEnd; i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), memberCourseName) {
			at = i + 1
			break
		}
	}
	return insertAt(lines, at, append([]string{indentSub + memberRatings}, entry...))
}

func courseBlock(courseID, title string) []string {
	if title == "" {
		title = MissingTitle
	}
	return []string{
		fmt.Sprintf("%s%s %s", indentMember, memberCourseID, courseID),
		fmt.Sprintf("%s%s %s", indentMember, memberCourseName, title),
		indentSub + memberRatings,
	}
}

// setYourRating rewrites the YOUR_RATING member of courseID's progress block
// in place. Records without one are returned unchanged.
func setYourRating(lines []string, courseID string, v int) []string {
	start, end, ok := findSection(lines, headerProgress)
	if !ok {
		return lines
	}
	blockStart, blockEnd, ok := findCourseBlock(lines, start+1, end, courseID)
	if !ok {
		return lines
	}
	for i := blockStart + 1; i < blockEnd; i++ {
		item := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(item, memberYourRating) {
			continue
		}
		indent := lines[i][:len(lines[i])-len(strings.TrimLeft(lines[i], " \t"))]
		lines[i] = fmt.Sprintf("%s%s %d/5", indent, memberYourRating, v)
		break
	}
	return lines
}

// findSection returns the index of the top-level header line and the index
// one past the section's last line.
func findSection(lines []string, header string) (start, end int, ok bool) {
	start = -1
	for i, line := range lines {
		if strings.TrimRight(line, " \t\r") == header {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, 0, false
	}
	end = len(lines)
	for i := start + 1; i < len(lines); i++ {
		if isTopLevel(lines[i]) {
			end = i
			break
		}
	}
	return start, end, true
}

// findCourseBlock locates the COURSE_ID member for courseID within [from, to).
func findCourseBlock(lines []string, from, to int, courseID string) (start, end int, ok bool) {
	start = -1
	for i := from; i < to; i++ {
		item := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(item, memberCourseID) {
			continue
		}
		if start >= 0 {
			return start, i, true
		}
		if value(item, memberCourseID) == courseID {
			start = i
		}
	}
	if start < 0 {
		return 0, 0, false
	}
	return start, to, true
}

// findSubsection returns the index of the indented RATINGS line within the block, or -1.
func findSubsection(lines []string, from, to int) int {
	for i := from + 1; i < to; i++ {
		if lines[i] != "" && !isTopLevel(lines[i]) && strings.TrimSpace(lines[i]) == memberRatings {
			return i
		}
	}
	return -1
}

// lastContent returns the index of the last non-blank line in [from, to),
// or from when the range holds nothing else.
func lastContent(lines []string, from, to int) int {
	for i := to - 1; i > from; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return i
		}
	}
	return from
}

func isTopLevel(line string) bool {
	return line != "" && line[0] != ' ' && line[0] != '\t'
}

func insertAt(lines []string, at int, ins []string) []string {
	out := make([]string, 0, len(lines)+len(ins))
	out = append(out, lines[:at]...)
	out = append(out, ins...)
	return append(out, lines[at:]...)
}

func trimTrailingBlank(lines []string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return append([]string(nil), lines[:end]...)
}

// SplitLines breaks record text into lines without their terminators.
func SplitLines(data string) []string {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	data = strings.TrimSuffix(data, "\n")
	if data == "" {
		return nil
	}
	return strings.Split(data, "\n")
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
