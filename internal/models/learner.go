package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RatingEntry is one rating a learner gave a course. Entries are never edited;
// re-rating appends a new entry.
type RatingEntry struct {
	Value  int
	Review string
	At     time.Time
}

// Learner is a registered user and everything they have done.
//
// The exported collections are owned by the Learner methods; callers that
// modify them directly are responsible for keeping enrollment and completion
// disjoint.
type Learner struct {
	ID             string
	Name           string
	Email          string
	PasswordDigest string
	SkillLevel     SkillLevel

	Interests  []Category
	Enrolled   []string
	Completed  []string
	Progress   map[string]int
	LastModule map[string]string
	LastAccess map[string]time.Time
	Ratings    map[string][]RatingEntry
}

// NewLearner returns a learner at the BEGINNER tier with no history.
func NewLearner(id, name, email, digest string) *Learner {
	return &Learner{
		ID:             id,
		Name:           name,
		Email:          email,
		PasswordDigest: digest,
		SkillLevel:     SkillBeginner,
		Progress:       make(map[string]int),
		LastModule:     make(map[string]string),
		LastAccess:     make(map[string]time.Time),
		Ratings:        make(map[string][]RatingEntry),
	}
}

// ensureMaps fills nil maps so a zero Learner is usable.
func (l *Learner) ensureMaps() {
	if l.Progress == nil {
		l.Progress = make(map[string]int)
	}
	if l.LastModule == nil {
		l.LastModule = make(map[string]string)
	}
	if l.LastAccess == nil {
		l.LastAccess = make(map[string]time.Time)
	}
	if l.Ratings == nil {
		l.Ratings = make(map[string][]RatingEntry)
	}
}

// IsEnrolled reports whether the learner is enrolled in courseID.
func (l *Learner) IsEnrolled(courseID string) bool {
	return contains(l.Enrolled, courseID)
}

// HasCompleted reports whether the learner has completed courseID.
func (l *Learner) HasCompleted(courseID string) bool {
	return contains(l.Completed, courseID)
}

// Enroll adds courseID to the enrolled list.
func (l *Learner) Enroll(courseID string) error {
	if courseID == "" {
		return fmt.Errorf("%w: course id is required", ErrValidation)
	}
	if l.IsEnrolled(courseID) {
		return fmt.Errorf("%w: already enrolled in %s", ErrValidation, courseID)
	}
	if l.HasCompleted(courseID) {
		return fmt.Errorf("%w: already completed %s", ErrValidation, courseID)
	}
	l.ensureMaps()
	l.Enrolled = append(l.Enrolled, courseID)
	if _, ok := l.Progress[courseID]; !ok {
		l.Progress[courseID] = 0
	}
	return nil
}

// Unenroll removes courseID from the enrolled list. Progress history is kept.
func (l *Learner) Unenroll(courseID string) error {
	if !l.IsEnrolled(courseID) {
		return fmt.Errorf("%w: not enrolled in %s", ErrValidation, courseID)
	}
	l.Enrolled = remove(l.Enrolled, courseID)
	return nil
}

// Complete moves courseID from enrolled to completed and re-derives the skill
// tier. Completing a course twice is a no-op. It returns true when the course
// was newly completed.
func (l *Learner) Complete(courseID string) (bool, error) {
	if l.HasCompleted(courseID) {
		return false, nil
	}
	if !l.IsEnrolled(courseID) {
		return false, fmt.Errorf("%w: not enrolled in %s", ErrValidation, courseID)
	}
	l.ensureMaps()
	l.Enrolled = remove(l.Enrolled, courseID)
	l.Completed = append(l.Completed, courseID)
	l.Progress[courseID] = 100
	l.updateSkillLevel()
	return true, nil
}

// updateSkillLevel raises the tier to match the completed count. It never lowers it.
func (l *Learner) updateSkillLevel() {
	earned := SkillLevelFor(len(l.Completed))
	if earned.Rank() > l.SkillLevel.Rank() {
		l.SkillLevel = earned
	}
}

// UpdateProgress records progress on an enrolled course. The value is clamped
// to 0..100 and reaching 100 completes the course. module may be empty.
// It returns true when the update completed the course.
func (l *Learner) UpdateProgress(courseID string, percent int, module string, at time.Time) (bool, error) {
	if !l.IsEnrolled(courseID) {
		return false, fmt.Errorf("%w: not enrolled in %s", ErrValidation, courseID)
	}
	l.ensureMaps()
	percent = ClampProgress(percent)
	l.Progress[courseID] = percent
	l.LastAccess[courseID] = at
	if module = strings.TrimSpace(module); module != "" {
		l.LastModule[courseID] = module
	}
	if percent == 100 {
		return l.Complete(courseID)
	}
	return false, nil
}

// ClampProgress limits a percentage to 0..100.
func ClampProgress(percent int) int {
	switch {
	case percent < 0:
		return 0
	case percent > 100:
		return 100
	default:
		return percent
	}
}

// AddRating appends a rating entry for courseID.
func (l *Learner) AddRating(courseID string, e RatingEntry) {
	l.ensureMaps()
	l.Ratings[courseID] = append(l.Ratings[courseID], e)
}

// LatestRating returns the learner's newest rating value for courseID, or 0.
func (l *Learner) LatestRating(courseID string) int {
	entries := l.Ratings[courseID]
	if len(entries) == 0 {
		return 0
	}
	return entries[len(entries)-1].Value
}

// HasInterest reports whether c is one of the learner's interests.
func (l *Learner) HasInterest(c Category) bool {
	for _, i := range l.Interests {
		if i == c {
			return true
		}
	}
	return false
}

// AddInterests merges cats into the interest set and returns how many were new.
func (l *Learner) AddInterests(cats ...Category) int {
	added := 0
	for _, c := range cats {
		if !c.IsValid() || l.HasInterest(c) {
			continue
		}
		l.Interests = append(l.Interests, c)
		added++
	}
	l.sortInterests()
	return added
}

// RemoveInterests drops cats from the interest set and returns how many were removed.
func (l *Learner) RemoveInterests(cats ...Category) int {
	removed := 0
	for _, c := range cats {
		for i, have := range l.Interests {
			if have == c {
				l.Interests = append(l.Interests[:i], l.Interests[i+1:]...)
				removed++
				break
			}
		}
	}
	return removed
}

// SetInterests replaces the interest set.
func (l *Learner) SetInterests(cats ...Category) {
	l.Interests = nil
	l.AddInterests(cats...)
}

func (l *Learner) sortInterests() {
	sort.Slice(l.Interests, func(i, j int) bool { return l.Interests[i] < l.Interests[j] })
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
