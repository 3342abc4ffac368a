package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/asteroid-belt/learnpath/internal/models"
	"github.com/asteroid-belt/learnpath/internal/record"
)

// RatingStore reads and writes ratings/<course>_ratings.txt records.
type RatingStore struct {
	dir string
	log zerolog.Logger
}

// NewRatingStore returns a store rooted at dir.
func NewRatingStore(dir string, log zerolog.Logger) *RatingStore {
	return &RatingStore{
		dir: dir,
		log: log.With().Str("component", "rating_store").Logger(),
	}
}

// Path returns the record path for courseID.
func (s *RatingStore) Path(courseID string) string {
	return filepath.Join(s.dir, courseID+"_ratings.txt")
}

// Load replays the stored ratings of course into its ledger and returns how
// many ratings were applied. A missing file applies nothing.
func (s *RatingStore) Load(course *models.Course) (int, error) {
	if err := checkID("course", course.ID); err != nil {
		return 0, err
	}

	data, err := os.ReadFile(s.Path(course.ID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read ratings for %s: %w", course.ID, err)
	}

	n, err := record.DecodeCourseRatings(bytes.NewReader(data), course.Ratings(), s.log)
	if err != nil {
		return n, fmt.Errorf("decode ratings for %s: %w", course.ID, err)
	}
	return n, nil
}

// Save writes the rating record of course.
func (s *RatingStore) Save(course *models.Course) error {
	if err := checkID("course", course.ID); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := record.EncodeCourseRatings(&buf, course.ID, course.Title, course.Ratings()); err != nil {
		return fmt.Errorf("encode ratings for %s: %w", course.ID, err)
	}
	return writeFileAtomic(s.Path(course.ID), buf.Bytes())
}

// LoadAll loads the ratings of every course and returns the total applied.
// Failures are logged per course and do not stop the others.
func (s *RatingStore) LoadAll(courses []*models.Course) int {
	total := 0
	for _, course := range courses {
		n, err := s.Load(course)
		if err != nil {
			s.log.Warn().Err(err).Str("course", course.ID).Msg("failed to load course ratings")
		}
		total += n
	}
	return total
}
