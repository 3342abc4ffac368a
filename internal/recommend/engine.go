// Package recommend ranks catalog courses for a learner.
//
// A course is eligible when the learner has neither enrolled in nor completed
// it and, if the learner has interests, its category is one of them. Eligible
// courses are scored on rating, recency, popularity and interest match, then
// sorted by score with catalog order breaking ties.
package recommend

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/asteroid-belt/learnpath/internal/catalog"
	"github.com/asteroid-belt/learnpath/internal/models"
)

// Weights are the coefficients of the composite score.
type Weights struct {
	Rating     float64
	Recency    float64
	Popularity float64
	Interest   float64
}

// DefaultWeights returns the standard weighting.
func DefaultWeights() Weights {
	return Weights{Rating: 0.4, Recency: 0.3, Popularity: 0.3, Interest: 0.2}
}

// Preference returns the interest bonus for a category the learner follows.
type Preference func(models.Category) float64

// FlatPreference gives every followed category a bonus of 1.
func FlatPreference(models.Category) float64 { return 1.0 }

// Config controls an Engine. Zero fields take defaults.
type Config struct {
	Weights    Weights
	MaxResults int
	Workers    int
	Preference Preference
	Now        func() time.Time
}

const (
	DefaultMaxResults = 10
	DefaultWorkers    = 4
	recencyScaleDays  = 365.0
	hoursPerDay       = 24
)

// Engine scores and ranks courses. It holds no per-learner state and is safe
// for concurrent use.
type Engine struct {
	cfg Config
	log zerolog.Logger
}

// New returns an engine with cfg, filling unset fields with defaults.
func New(cfg Config, log zerolog.Logger) *Engine {
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights()
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Preference == nil {
		cfg.Preference = FlatPreference
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{cfg: cfg, log: log}
}

// MaxResults returns the configured result limit.
func (e *Engine) MaxResults() int { return e.cfg.MaxResults }

// Scored pairs a course with its composite score and the parts that made it.
type Scored struct {
	Course     *models.Course
	Score      float64
	Rating     float64
	Recency    float64
	Popularity float64
	Interest   float64
}

// Eligible reports whether course can be recommended to learner.
func Eligible(learner *models.Learner, course *models.Course) bool {
	if learner.HasCompleted(course.ID) || learner.IsEnrolled(course.ID) {
		return false
	}
	if len(learner.Interests) > 0 && !learner.HasInterest(course.Category) {
		return false
	}
	return true
}

// Score computes the composite score of course for learner at now. maxEnroll
// is the highest enrollment count in the catalog.
func (e *Engine) Score(learner *models.Learner, course *models.Course, maxEnroll int, now time.Time) Scored {
	w := e.cfg.Weights

	days := math.Floor(now.Sub(course.CreatedAt).Hours() / hoursPerDay)
	if days < 0 {
		days = 0
	}
	if maxEnroll < 1 {
		maxEnroll = 1
	}

	s := Scored{
		Course:     course,
		Rating:     w.Rating * (course.AverageRating() / 5),
		Recency:    w.Recency * math.Exp(-days/recencyScaleDays),
		Popularity: w.Popularity * float64(course.Enrollments()) / float64(maxEnroll),
	}
	if learner.HasInterest(course.Category) {
		s.Interest = w.Interest * e.cfg.Preference(course.Category)
	}
	s.Score = s.Rating + s.Recency + s.Popularity + s.Interest
	return s
}

// Rank returns every eligible course scored and sorted, without truncation.
func (e *Engine) Rank(ctx context.Context, learner *models.Learner, provider catalog.Provider) ([]Scored, error) {
	all := provider.All()
	maxEnroll := 0
	var candidates []*models.Course
	for _, course := range all {
		if n := course.Enrollments(); n > maxEnroll {
			maxEnroll = n
		}
		if Eligible(learner, course) {
			candidates = append(candidates, course)
		}
	}

	now := e.cfg.Now()
	scored := make([]Scored, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, course := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scored[i] = e.Score(learner, course, maxEnroll, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	e.log.Debug().
		Str("learner", learner.ID).
		Int("catalog", len(all)).
		Int("eligible", len(scored)).
		Msg("ranked courses")
	return scored, nil
}

// Recommend returns at most MaxResults courses for learner, best first.
func (e *Engine) Recommend(ctx context.Context, learner *models.Learner, provider catalog.Provider) ([]*models.Course, error) {
	scored, err := e.Rank(ctx, learner, provider)
	if err != nil {
		return nil, err
	}
	if len(scored) > e.cfg.MaxResults {
		scored = scored[:e.cfg.MaxResults]
	}
	out := make([]*models.Course, len(scored))
	for i, s := range scored {
		out[i] = s.Course
	}
	return out, nil
}
