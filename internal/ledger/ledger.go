// Package ledger aggregates the ratings and reviews a course has received.
//
// Ratings and reviews are kept per learner in insertion order. A learner may
// rate the same course many times and every value counts toward the average.
package ledger

import (
	"sort"
	"strings"
	"sync"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Entry is one learner's history on a course.
type Entry struct {
	LearnerID string
	Ratings   []int
	Reviews   []string
}

// Ledger is safe for concurrent use.
type Ledger struct {
	mu      sync.RWMutex
	order   []string
	ratings map[string][]int
	reviews map[string][]string
	average float64
	count   int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		ratings: make(map[string][]int),
		reviews: make(map[string][]string),
	}
}

// ValidRating reports whether value is on the 1 to 5 scale.
func ValidRating(value int) bool {
	return value >= MinRating && value <= MaxRating
}

// AddRating appends a rating for learnerID. Values outside 1..5 are rejected
// and leave the ledger untouched.
func (l *Ledger) AddRating(learnerID string, value int) bool {
	if !ValidRating(value) {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.track(learnerID)
	l.ratings[learnerID] = append(l.ratings[learnerID], value)
	l.recompute()
	return true
}

// AddReview appends review text for learnerID. Empty ids and empty text are rejected.
func (l *Ledger) AddReview(learnerID, text string) bool {
	if learnerID == "" || strings.TrimSpace(text) == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.track(learnerID)
	l.reviews[learnerID] = append(l.reviews[learnerID], text)
	return true
}

func (l *Ledger) track(learnerID string) {
	if _, ok := l.ratings[learnerID]; ok {
		return
	}
	if _, ok := l.reviews[learnerID]; ok {
		return
	}
	l.order = append(l.order, learnerID)
}

// recompute rebuilds the aggregate from every retained value. Caller holds mu.
func (l *Ledger) recompute() {
	sum, count := 0, 0
	for _, values := range l.ratings {
		for _, v := range values {
			sum += v
			count++
		}
	}
	l.count = count
	if count == 0 {
		l.average = 0
		return
	}
	l.average = float64(sum) / float64(count)
}

// Average returns the mean of all ratings, or 0 when there are none.
func (l *Ledger) Average() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.average
}

// Count returns the number of retained ratings across all learners.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.count
}

// UserRatings returns a copy of the ratings learnerID has given.
func (l *Ledger) UserRatings(learnerID string) []int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]int(nil), l.ratings[learnerID]...)
}

// LatestRating returns the most recent rating from learnerID, or 0.
func (l *Ledger) LatestRating(learnerID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	values := l.ratings[learnerID]
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}

// Reviews returns a copy of the reviews learnerID has written.
func (l *Ledger) Reviews(learnerID string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.reviews[learnerID]...)
}

// Learners returns the ids of every learner with a rating or review, in the
// order they first appeared.
func (l *Ledger) Learners() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.order...)
}

// Restore replaces the ledger contents with entries, as returned by Entries.
func (l *Ledger) Restore(entries []Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.order = l.order[:0]
	l.ratings = make(map[string][]int, len(entries))
	l.reviews = make(map[string][]string, len(entries))
	for _, e := range entries {
		l.order = append(l.order, e.LearnerID)
		if len(e.Ratings) > 0 {
			l.ratings[e.LearnerID] = append([]int(nil), e.Ratings...)
		}
		if len(e.Reviews) > 0 {
			l.reviews[e.LearnerID] = append([]string(nil), e.Reviews...)
		}
	}
	l.recompute()
}

// Entries returns a snapshot of the whole ledger in learner order.
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]Entry, 0, len(l.order))
	for _, id := range l.order {
		entries = append(entries, Entry{
			LearnerID: id,
			Ratings:   append([]int(nil), l.ratings[id]...),
			Reviews:   append([]string(nil), l.reviews[id]...),
		})
	}
	return entries
}

// TopReviews returns up to n reviews, longest first. Reviews of equal length
// keep learner order. Length stands in for quality until a real signal exists.
func (l *Ledger) TopReviews(n int) []string {
	if n <= 0 {
		return nil
	}

	l.mu.RLock()
	var all []string
	for _, id := range l.order {
		all = append(all, l.reviews[id]...)
	}
	l.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return len(all[i]) > len(all[j])
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}
