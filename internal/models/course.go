package models

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/asteroid-belt/learnpath/internal/ledger"
)

// DefaultDescription replaces an empty course description.
const DefaultDescription = "No description available"

// Course is a catalog entry together with its enrollment counter and ratings.
type Course struct {
	ID          string
	Title       string
	Category    Category
	Difficulty  Difficulty
	Provider    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	mu          sync.Mutex
	enrollments int
	ratings     *ledger.Ledger
}

// CheckRecordID rejects ids that cannot name a record file or appear as the
// id part of an "id - title" record line: empty ids, path separators, dot
// names and whitespace.
func CheckRecordID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s id is required", ErrValidation, kind)
	}
	if strings.ContainsAny(id, "/\\ \t\r\n") || id == "." || id == ".." {
		return fmt.Errorf("%w: %s id %q is not allowed", ErrValidation, kind, id)
	}
	return nil
}

// NewCourse validates the fields and returns a course created at now.
func NewCourse(id, title string, category Category, difficulty Difficulty, provider, description string, now time.Time) (*Course, error) {
	id = strings.TrimSpace(id)
	title = strings.TrimSpace(title)
	if err := CheckRecordID("course", id); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, fmt.Errorf("%w: course title is required", ErrValidation)
	}
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	if difficulty.Rank() < 0 {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrValidation, difficulty)
	}
	if strings.TrimSpace(description) == "" {
		description = DefaultDescription
	}
	return &Course{
		ID:          id,
		Title:       title,
		Category:    category,
		Difficulty:  difficulty,
		Provider:    strings.TrimSpace(provider),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		ratings:     ledger.New(),
	}, nil
}

// Ratings returns the course's rating ledger.
func (c *Course) Ratings() *ledger.Ledger {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ratings == nil {
		c.ratings = ledger.New()
	}
	return c.ratings
}

// AverageRating is shorthand for Ratings().Average().
func (c *Course) AverageRating() float64 {
	return c.Ratings().Average()
}

// Enrollments returns the current enrollment counter.
func (c *Course) Enrollments() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enrollments
}

// SetEnrollments restores a persisted counter. Negative values become zero.
func (c *Course) SetEnrollments(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 0 {
		n = 0
	}
	c.enrollments = n
}

// IncrementEnrollment bumps the counter and the modification time.
func (c *Course) IncrementEnrollment(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enrollments++
	c.UpdatedAt = now
}

// DecrementEnrollment lowers the counter, never below zero.
func (c *Course) DecrementEnrollment(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enrollments > 0 {
		c.enrollments--
	}
	c.UpdatedAt = now
}

// Touch records a modification, for example a new rating.
func (c *Course) Touch(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.UpdatedAt = now
}
