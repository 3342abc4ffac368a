package learning

import (
	"errors"
	"io/fs"
	"time"

	"github.com/rs/zerolog"

	"github.com/asteroid-belt/learnpath/internal/catalog"
	"github.com/asteroid-belt/learnpath/internal/config"
	"github.com/asteroid-belt/learnpath/internal/db"
	"github.com/asteroid-belt/learnpath/internal/recommend"
	"github.com/asteroid-belt/learnpath/internal/store"
	"github.com/asteroid-belt/learnpath/internal/telemetry"
	"github.com/asteroid-belt/learnpath/pkg/version"
)

// Startup summarizes what Open loaded.
type Startup struct {
	Courses     catalog.LoadResult
	Ratings     int
	Data        version.DataStatus
	LastVersion string
}

// Open builds a Service from configuration: it loads the course catalog,
// restores course state from database, replays course rating files and
// records the running version in the data directory. database and tc may be
// nil.
func Open(cfg *config.Config, database *db.DB, tc telemetry.Client, log zerolog.Logger) (Service, Startup, error) {
	paths := config.GetPaths(cfg)
	now := time.Now()
	var st Startup

	cat := catalog.New()
	res, err := catalog.LoadCSVFile(cat, paths.CoursesCSV, now, log)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn().Str("path", paths.CoursesCSV).Msg("course catalog not found, starting empty")
	case err != nil:
		return nil, st, err
	}
	st.Courses = res
	if cat.Len() == 0 {
		log.Warn().Msg("no courses loaded, recommendations will be empty")
	}

	if database != nil {
		if err := database.SeedCourseStates(cat.All()); err != nil {
			log.Warn().Err(err).Msg("failed to restore course state")
		}
		st.LastVersion, err = database.RecordVersion(version.Version)
		if err != nil {
			log.Warn().Err(err).Msg("failed to record version")
		}
		st.Data = version.CheckData(st.LastVersion)
		if st.Data == version.DataNewer {
			log.Warn().
				Str("data_version", st.LastVersion).
				Str("version", version.Short()).
				Msg("data directory was written by a newer learnpath; unknown record sections will be skipped")
		}
	}

	ratings := store.NewRatingStore(paths.Ratings, log)
	st.Ratings = ratings.LoadAll(cat.All())

	engine := recommend.New(recommend.Config{
		MaxResults: cfg.Recommend.MaxResults,
		Workers:    cfg.Recommend.Workers,
	}, log)

	svc := NewService(Options{
		Catalog:           cat,
		CoursesCSV:        paths.CoursesCSV,
		Learners:          store.NewLearnerStore(paths.Learners, cat, log),
		Ratings:           ratings,
		Engine:            engine,
		DB:                database,
		Telemetry:         tc,
		Logger:            log,
		AttemptsPerMinute: cfg.Auth.AttemptsPerMinute,
	})
	return svc, st, nil
}
