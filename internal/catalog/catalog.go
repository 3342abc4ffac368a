// Package catalog holds the in-memory course collection.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/asteroid-belt/learnpath/internal/models"
)

// Provider is the read side of the catalog used by ranking and rendering.
type Provider interface {
	Get(id string) (*models.Course, bool)
	All() []*models.Course
}

// Catalog keeps courses in insertion order. It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	order   []string
	courses map[string]*models.Course
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{courses: make(map[string]*models.Course)}
}

// Add inserts a course. Duplicate ids are rejected.
func (c *Catalog) Add(course *models.Course) error {
	if course == nil || course.ID == "" {
		return fmt.Errorf("%w: course id is required", models.ErrValidation)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.courses[course.ID]; exists {
		return fmt.Errorf("%w: course %s already exists", models.ErrValidation, course.ID)
	}
	c.courses[course.ID] = course
	c.order = append(c.order, course.ID)
	return nil
}

// Get returns the course with the given id.
func (c *Catalog) Get(id string) (*models.Course, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	course, ok := c.courses[id]
	return course, ok
}

// All returns every course in insertion order.
func (c *Catalog) All() []*models.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*models.Course, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.courses[id])
	}
	return out
}

// Len returns the number of courses.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// ByCategory returns the courses in category, in insertion order.
func (c *Catalog) ByCategory(category models.Category) []*models.Course {
	var out []*models.Course
	for _, course := range c.All() {
		if course.Category == category {
			out = append(out, course)
		}
	}
	return out
}

// CourseTitle implements record.TitleResolver.
func (c *Catalog) CourseTitle(id string) (string, bool) {
	course, ok := c.Get(id)
	if !ok {
		return "", false
	}
	return course.Title, true
}

// TopRated returns up to n rated courses ordered by average rating, then by
// number of ratings. Unrated courses are left out.
func TopRated(p Provider, n int) []*models.Course {
	var rated []*models.Course
	for _, course := range p.All() {
		if course.Ratings().Count() > 0 {
			rated = append(rated, course)
		}
	}

	sort.SliceStable(rated, func(i, j int) bool {
		ai, aj := rated[i].AverageRating(), rated[j].AverageRating()
		if ai != aj {
			return ai > aj
		}
		return rated[i].Ratings().Count() > rated[j].Ratings().Count()
	})

	if n > 0 && len(rated) > n {
		rated = rated[:n]
	}
	return rated
}
