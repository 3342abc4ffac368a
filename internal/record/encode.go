package record

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/asteroid-belt/learnpath/internal/models"
)

// EncodeLearner writes l as a learner record. Map-keyed sections are written
// in course id order. Unknown course ids are written with MissingTitle.
func EncodeLearner(w io.Writer, l *models.Learner, titles TitleResolver) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...interface{}) {
		_, _ = fmt.Fprintf(bw, format+"\n", args...)
	}

	p("%s %s", fieldUserID, l.ID)
	p("%s %s", fieldName, oneLine(l.Name))
	p("%s %s", fieldEmail, oneLine(l.Email))
	p("%s %s", fieldPassword, l.PasswordDigest)
	level := l.SkillLevel
	if level.Rank() < 0 {
		level = models.SkillBeginner
	}
	p("%s %s", fieldSkillLevel, level)

	p("%s", headerInterests)
	for _, c := range l.Interests {
		p("%s%s", indentMember, c)
	}

	p("%s", headerEnrolled)
	for _, id := range l.Enrolled {
		p("%s%s - %s", indentMember, id, resolveTitle(titles, id))
	}

	p("%s", headerCompleted)
	for _, id := range l.Completed {
		p("%s%s - %s", indentMember, id, resolveTitle(titles, id))
	}

	p("%s", headerProgress)
	for _, id := range sortedKeys(l.Progress) {
		p("%s%s %s", indentMember, memberCourseID, id)
		p("%s%s %s", indentMember, memberCourseName, resolveTitle(titles, id))
		p("%s%s %d%%", indentMember, memberProgress, l.Progress[id])
		if r := l.LatestRating(id); r > 0 {
			p("%s%s %d/5", indentMember, memberYourRating, r)
		} else {
			p("%s%s Not rated", indentMember, memberYourRating)
		}
	}

	if len(l.LastModule) > 0 {
		p("%s", headerLastModule)
		for _, id := range sortedKeys(l.LastModule) {
			p("%s%s %s", indentMember, memberCourseID, id)
			p("%s%s %s", indentMember, memberModule, l.LastModule[id])
		}
	}

	p("%s", headerLastAccess)
	for _, id := range sortedKeys(l.LastAccess) {
		p("%s%s %s", indentMember, memberCourseID, id)
		p("%s%s %s", indentMember, memberCourseName, resolveTitle(titles, id))
		p("%s%s %s", indentMember, memberTime, FormatTime(l.LastAccess[id]))
	}

	p("%s", headerRatings)
	for _, id := range sortedKeys(l.Ratings) {
		entries := l.Ratings[id]
		if len(entries) == 0 {
			continue
		}
		p("%s%s %s", indentMember, memberCourseID, id)
		p("%s%s %s", indentMember, memberCourseName, resolveTitle(titles, id))
		p("%s%s", indentSub, memberRatings)
		for _, e := range entries {
			for _, line := range entryLines(e) {
				p("%s", line)
			}
		}
	}

	return bw.Flush()
}

// entryLines renders one rating entry, indented for a RATINGS subsection.
func entryLines(e models.RatingEntry) []string {
	lines := []string{fmt.Sprintf("%s%s %d", indentEntry, memberRating, e.Value)}
	if review := oneLine(e.Review); review != "" {
		lines = append(lines, fmt.Sprintf("%s%s %s", indentField, memberReview, review))
	}
	if !e.At.IsZero() {
		lines = append(lines, fmt.Sprintf("%s%s %s", indentField, memberDate, FormatTime(e.At)))
	}
	return lines
}

// oneLine folds line breaks so free text cannot start a new record line.
func oneLine(s string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
