// Package learning is the application layer: it applies learner actions to
// the catalog, the record stores and the optional database, and reports them
// to telemetry.
package learning

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/asteroid-belt/learnpath/internal/catalog"
	"github.com/asteroid-belt/learnpath/internal/db"
	"github.com/asteroid-belt/learnpath/internal/models"
	"github.com/asteroid-belt/learnpath/internal/recommend"
	"github.com/asteroid-belt/learnpath/internal/store"
	"github.com/asteroid-belt/learnpath/internal/telemetry"
)

// DefaultAttemptsPerMinute bounds Authenticate calls per process.
const DefaultAttemptsPerMinute = 5

// Service defines the operations available to the CLI and the MCP server.
type Service interface {
	Register(ctx context.Context, reg Registration) (*models.Learner, error)
	Authenticate(ctx context.Context, learnerID, password string) (*models.Learner, error)
	Learner(learnerID string) (*models.Learner, error)
	SaveLearner(l *models.Learner) error

	Enroll(ctx context.Context, learnerID, courseID string) (*models.Learner, error)
	Unenroll(ctx context.Context, learnerID, courseID string) (*models.Learner, error)
	Complete(ctx context.Context, learnerID, courseID string) (*models.Learner, bool, error)
	UpdateProgress(ctx context.Context, learnerID, courseID string, percent int, module string) (*models.Learner, bool, error)
	UpdateInterests(ctx context.Context, learnerID string, op InterestOp, names []string) (*models.Learner, []string, error)
	Rate(ctx context.Context, learnerID, courseID string, value int, review string) (*models.Course, error)
	SaveRatings(courseID string) error

	Recommend(ctx context.Context, learnerID string, limit int) ([]recommend.Scored, error)
	TopRated(n int) []*models.Course
	TopReviews(courseID string, n int) ([]string, error)

	AddCourse(course *models.Course) error
	Course(courseID string) (*models.Course, error)
	Courses(category models.Category) []*models.Course
}

// Options carries the collaborators of a Service. DB and Telemetry may be nil.
type Options struct {
	Catalog           *catalog.Catalog
	CoursesCSV        string
	Learners          *store.LearnerStore
	Ratings           *store.RatingStore
	Engine            *recommend.Engine
	DB                *db.DB
	Telemetry         telemetry.Client
	Logger            zerolog.Logger
	AttemptsPerMinute int
	Now               func() time.Time
}

// service implements the Service interface.
type service struct {
	catalog   *catalog.Catalog
	csvPath   string
	learners  *store.LearnerStore
	ratings   *store.RatingStore
	engine    *recommend.Engine
	db        *db.DB
	telemetry telemetry.Client
	log       zerolog.Logger
	limiter   *rate.Limiter
	now       func() time.Time

	// writeMu serializes record writes; the stores assume a single writer.
	writeMu sync.Mutex
}

// NewService returns a Service over opts.
func NewService(opts Options) Service {
	attempts := opts.AttemptsPerMinute
	if attempts <= 0 {
		attempts = DefaultAttemptsPerMinute
	}
	tc := opts.Telemetry
	if tc == nil {
		tc = telemetry.NewNoop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	engine := opts.Engine
	if engine == nil {
		engine = recommend.New(recommend.Config{Now: now}, opts.Logger)
	}

	return &service{
		catalog:   opts.Catalog,
		csvPath:   opts.CoursesCSV,
		learners:  opts.Learners,
		ratings:   opts.Ratings,
		engine:    engine,
		db:        opts.DB,
		telemetry: tc,
		log:       opts.Logger.With().Str("component", "learning").Logger(),
		limiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(attempts)), attempts),
		now:       now,
	}
}

// Learner loads learnerID or reports models.ErrNotFound.
func (s *service) Learner(learnerID string) (*models.Learner, error) {
	l, err := s.learners.Load(learnerID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("learner %s: %w", learnerID, models.ErrNotFound)
	}
	return l, nil
}

// SaveLearner writes l in full.
func (s *service) SaveLearner(l *models.Learner) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.learners.Save(l)
}

// Course returns the catalog entry for courseID or reports models.ErrNotFound.
func (s *service) Course(courseID string) (*models.Course, error) {
	c, ok := s.catalog.Get(courseID)
	if !ok {
		return nil, fmt.Errorf("course %s: %w", courseID, models.ErrNotFound)
	}
	return c, nil
}

// Courses lists the catalog in insertion order. An empty category lists all.
func (s *service) Courses(category models.Category) []*models.Course {
	var out []*models.Course
	if category == "" {
		out = s.catalog.All()
	} else {
		out = s.catalog.ByCategory(category)
	}
	s.telemetry.TrackCoursesListed(len(out), string(category))
	return out
}

// AddCourse adds course to the catalog, appends it to the catalog file when
// one is configured and records its state.
func (s *service) AddCourse(course *models.Course) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.catalog.Add(course); err != nil {
		return err
	}
	if s.csvPath != "" {
		if err := catalog.AppendCSVFile(s.csvPath, course); err != nil {
			return err
		}
	}
	s.persistCourseState(course)
	s.log.Info().Str("course", course.ID).Msg("course added")
	return nil
}

// persistCourseState stores the counter of course when a database is
// configured. A failure is logged and the in-memory state kept.
func (s *service) persistCourseState(course *models.Course) {
	if s.db == nil {
		return
	}
	if err := s.db.UpsertCourseState(course); err != nil {
		s.log.Warn().Err(err).Str("course", course.ID).Msg("failed to persist course state")
	}
}

// Enroll adds courseID to the learner's enrolled list and bumps the course
// enrollment counter.
func (s *service) Enroll(ctx context.Context, learnerID, courseID string) (*models.Learner, error) {
	course, err := s.Course(courseID)
	if err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	l, err := s.learners.Update(learnerID, func(l *models.Learner) error {
		return l.Enroll(course.ID)
	})
	if err != nil {
		return nil, err
	}

	course.IncrementEnrollment(s.now())
	s.persistCourseState(course)
	s.telemetry.TrackCourseEnrolled(l.ID, course.ID, string(course.Category))
	s.log.Info().Str("learner", l.ID).Str("course", course.ID).Msg("enrolled")
	return l, nil
}

// Unenroll removes courseID from the learner's enrolled list. The course
// counter never drops below zero.
func (s *service) Unenroll(ctx context.Context, learnerID, courseID string) (*models.Learner, error) {
	course, err := s.Course(courseID)
	if err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	l, err := s.learners.Update(learnerID, func(l *models.Learner) error {
		return l.Unenroll(course.ID)
	})
	if err != nil {
		return nil, err
	}

	course.DecrementEnrollment(s.now())
	s.persistCourseState(course)
	s.telemetry.TrackCourseUnenrolled(l.ID, course.ID)
	s.log.Info().Str("learner", l.ID).Str("course", course.ID).Msg("unenrolled")
	return l, nil
}

// Complete marks courseID completed. The bool is false when the course was
// already completed, in which case nothing is written.
func (s *service) Complete(ctx context.Context, learnerID, courseID string) (*models.Learner, bool, error) {
	if _, err := s.Course(courseID); err != nil {
		return nil, false, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	l, err := s.learners.Load(learnerID)
	if err != nil {
		return nil, false, err
	}
	if l == nil {
		return nil, false, fmt.Errorf("learner %s: %w", learnerID, models.ErrNotFound)
	}

	done, err := l.Complete(courseID)
	if err != nil || !done {
		return l, false, err
	}
	if err := s.learners.Save(l); err != nil {
		return l, true, err
	}

	s.telemetry.TrackCourseCompleted(l.ID, courseID, string(l.SkillLevel), len(l.Completed))
	s.log.Info().Str("learner", l.ID).Str("course", courseID).Str("skill_level", string(l.SkillLevel)).Msg("completed")
	return l, true, nil
}

// UpdateProgress records progress on an enrolled course. The bool reports
// whether the update reached 100 and completed the course.
func (s *service) UpdateProgress(ctx context.Context, learnerID, courseID string, percent int, module string) (*models.Learner, bool, error) {
	if _, err := s.Course(courseID); err != nil {
		return nil, false, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	completed := false
	l, err := s.learners.Update(learnerID, func(l *models.Learner) error {
		var err error
		completed, err = l.UpdateProgress(courseID, percent, module, s.now())
		return err
	})
	if err != nil {
		return l, false, err
	}

	s.telemetry.TrackProgressUpdated(l.ID, courseID, l.Progress[courseID])
	if completed {
		s.telemetry.TrackCourseCompleted(l.ID, courseID, string(l.SkillLevel), len(l.Completed))
	}
	return l, completed, nil
}

// Rate records a rating, and optionally a review, from a learner who is
// enrolled in or has completed courseID. The learner record is merged in
// place and the course rating file rewritten.
//
// When the learner record cannot be written the course is left as it was and
// the call can be repeated. When only the course file fails the rating stands
// and the error wraps models.ErrRatingsNotSaved; use SaveRatings to retry the
// file instead of rating again.
func (s *service) Rate(ctx context.Context, learnerID, courseID string, value int, review string) (*models.Course, error) {
	course, err := s.Course(courseID)
	if err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	l, err := s.Learner(learnerID)
	if err != nil {
		return nil, err
	}
	if !l.IsEnrolled(course.ID) && !l.HasCompleted(course.ID) {
		return nil, fmt.Errorf("%w: %s must be enrolled in or have completed %s to rate it", models.ErrValidation, l.ID, course.ID)
	}

	ratings := course.Ratings()
	before, touched := ratings.Entries(), course.UpdatedAt
	if !ratings.AddRating(l.ID, value) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5, got %d", models.ErrValidation, value)
	}
	hasReview := ratings.AddReview(l.ID, review)
	if !hasReview {
		review = ""
	}

	entry := models.RatingEntry{Value: value, Review: review, At: s.now()}
	l.AddRating(course.ID, entry)
	course.Touch(entry.At)

	if err := s.learners.AppendRating(l, course.ID, entry); err != nil {
		ratings.Restore(before)
		course.Touch(touched)
		return nil, fmt.Errorf("save rating for %s: %w", l.ID, err)
	}
	if err := s.ratings.Save(course); err != nil {
		s.log.Error().Err(err).Str("learner", l.ID).Str("course", course.ID).Msg("rating kept on learner only")
		return course, fmt.Errorf("%w for %s: %w", models.ErrRatingsNotSaved, course.ID, err)
	}

	s.telemetry.TrackCourseRated(l.ID, course.ID, value, hasReview)
	s.log.Info().
		Str("learner", l.ID).
		Str("course", course.ID).
		Int("rating", value).
		Float64("average", ratings.Average()).
		Msg("rated")
	return course, nil
}

// SaveRatings rewrites the rating record of courseID from the catalog.
func (s *service) SaveRatings(courseID string) error {
	course, err := s.Course(courseID)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.ratings.Save(course); err != nil {
		return fmt.Errorf("%w for %s: %w", models.ErrRatingsNotSaved, course.ID, err)
	}
	return nil
}

// Recommend ranks the catalog for learnerID and returns at most limit
// entries. A limit of zero or less uses the engine's configured maximum.
func (s *service) Recommend(ctx context.Context, learnerID string, limit int) ([]recommend.Scored, error) {
	l, err := s.Learner(learnerID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	scored, err := s.engine.Rank(ctx, l, s.catalog)
	if err != nil {
		return nil, fmt.Errorf("rank courses: %w", err)
	}
	eligible := len(scored)

	if limit <= 0 {
		limit = s.engine.MaxResults()
	}
	if len(scored) > limit {
		scored = scored[:limit]
	}

	s.telemetry.TrackRecommendationsGenerated(l.ID, eligible, len(scored), time.Since(start).Milliseconds())
	return scored, nil
}

// TopRated returns the n best-rated courses. n <= 0 returns every rated course.
func (s *service) TopRated(n int) []*models.Course {
	return catalog.TopRated(s.catalog, n)
}

// TopReviews returns up to n reviews of courseID.
func (s *service) TopReviews(courseID string, n int) ([]string, error) {
	course, err := s.Course(courseID)
	if err != nil {
		return nil, err
	}
	return course.Ratings().TopReviews(n), nil
}
