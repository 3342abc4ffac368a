package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/asteroid-belt/learnpath/internal/models"
	"github.com/asteroid-belt/learnpath/internal/record"
)

const (
	learnerPrefix = "user_"
	learnerSuffix = ".txt"
)

// LearnerStore reads and writes learners/user_<id>.txt records.
type LearnerStore struct {
	dir    string
	titles record.TitleResolver
	log    zerolog.Logger
}

// NewLearnerStore returns a store rooted at dir. titles resolves course names
// written next to course ids.
func NewLearnerStore(dir string, titles record.TitleResolver, log zerolog.Logger) *LearnerStore {
	return &LearnerStore{
		dir:    dir,
		titles: titles,
		log:    log.With().Str("component", "learner_store").Logger(),
	}
}

// Path returns the record path for id.
func (s *LearnerStore) Path(id string) string {
	return filepath.Join(s.dir, learnerPrefix+id+learnerSuffix)
}

// Exists reports whether a record for id is on disk.
func (s *LearnerStore) Exists(id string) bool {
	if checkID("learner", id) != nil {
		return false
	}
	_, err := os.Stat(s.Path(id))
	return err == nil
}

// Load returns the learner stored under id. A missing or undecodable record
// yields nil, nil; the latter is logged.
func (s *LearnerStore) Load(id string) (*models.Learner, error) {
	if err := checkID("learner", id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read learner %s: %w", id, err)
	}

	l, err := record.DecodeLearner(bytes.NewReader(data), s.log)
	if err != nil {
		s.log.Warn().Err(err).Str("learner", id).Msg("ignoring malformed learner record")
		return nil, nil
	}
	if l.ID != id {
		s.log.Warn().Str("learner", id).Str("record_id", l.ID).Msg("learner record id does not match file name")
	}
	return l, nil
}

// Save writes the full learner record.
func (s *LearnerStore) Save(l *models.Learner) error {
	if err := checkID("learner", l.ID); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := record.EncodeLearner(&buf, l, s.titles); err != nil {
		return fmt.Errorf("encode learner %s: %w", l.ID, err)
	}
	return writeFileAtomic(s.Path(l.ID), buf.Bytes())
}

// AppendRating persists one new rating entry for courseID, which the caller
// has already added to l. An existing record is merged line by line so
// content this build does not understand survives; otherwise l is saved whole.
func (s *LearnerStore) AppendRating(l *models.Learner, courseID string, e models.RatingEntry) error {
	if err := checkID("learner", l.ID); err != nil {
		return err
	}

	data, err := os.ReadFile(s.Path(l.ID))
	if errors.Is(err, fs.ErrNotExist) {
		return s.Save(l)
	}
	if err != nil {
		return fmt.Errorf("read learner %s: %w", l.ID, err)
	}

	title := ""
	if s.titles != nil {
		title, _ = s.titles.CourseTitle(courseID)
	}
	lines := record.AppendRating(record.SplitLines(string(data)), courseID, title, e)
	return writeFileAtomic(s.Path(l.ID), []byte(record.JoinLines(lines)))
}

// Update loads id, applies fn and saves the result. A missing learner is
// reported as models.ErrNotFound. When fn fails nothing is written. When the
// save fails the mutated learner is returned together with the error.
func (s *LearnerStore) Update(id string, fn func(*models.Learner) error) (*models.Learner, error) {
	l, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("learner %s: %w", id, models.ErrNotFound)
	}
	if err := fn(l); err != nil {
		return nil, err
	}
	if err := s.Save(l); err != nil {
		return l, err
	}
	return l, nil
}

// List returns the ids of every stored learner, sorted.
func (s *LearnerStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list learners: %w", err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, learnerPrefix) || !strings.HasSuffix(name, learnerSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(name, learnerPrefix), learnerSuffix))
	}
	sort.Strings(ids)
	return ids, nil
}
