package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/asteroid-belt/learnpath/internal/models"
)

// GetCourseState returns the stored state of a course, or nil if there is none.
func (db *DB) GetCourseState(id string) (*models.CourseState, error) {
	var state models.CourseState
	err := db.Where("id = ?", id).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course state %s: %w", id, err)
	}
	return &state, nil
}

// UpsertCourseState stores the enrollment counter of course. created_at is
// written only when the row is first inserted.
func (db *DB) UpsertCourseState(course *models.Course) error {
	state := models.CourseState{
		ID:              course.ID,
		EnrollmentCount: course.Enrollments(),
		CreatedAt:       course.CreatedAt,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"enrollment_count", "updated_at"}),
	}).Create(&state).Error
	if err != nil {
		return fmt.Errorf("upsert course state %s: %w", course.ID, err)
	}
	return nil
}

// SeedCourseStates inserts a row for every course that has none, then copies
// the stored counter and creation time back onto each course. Catalogs loaded
// from CSV thereby keep their history across runs.
func (db *DB) SeedCourseStates(courses []*models.Course) error {
	return db.Transaction(func(tx *DB) error {
		for _, course := range courses {
			state := models.CourseState{ID: course.ID}
			err := tx.Where("id = ?", course.ID).
				Attrs(models.CourseState{
					EnrollmentCount: course.Enrollments(),
					CreatedAt:       course.CreatedAt,
				}).
				FirstOrCreate(&state).Error
			if err != nil {
				return fmt.Errorf("seed course state %s: %w", course.ID, err)
			}
			course.SetEnrollments(state.EnrollmentCount)
			if !state.CreatedAt.IsZero() {
				course.CreatedAt = state.CreatedAt
			}
		}
		return nil
	})
}

// CountCourseStates returns the number of tracked courses.
func (db *DB) CountCourseStates() (int64, error) {
	var n int64
	if err := db.Model(&models.CourseState{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count course states: %w", err)
	}
	return n, nil
}
