package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/asteroid-belt/learnpath/internal/models"
)

// csvFields is the column count of a course row:
// id,title,category,difficulty,provider,description
const csvFields = 6

var csvHeader = []string{"id", "title", "category", "difficulty", "provider", "description"}

// LoadResult summarizes a CSV load.
type LoadResult struct {
	Loaded  int
	Skipped int
}

// LoadCSVFile opens path and loads it with LoadCSV.
func LoadCSVFile(c *Catalog, path string, now time.Time, log zerolog.Logger) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("open courses file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadCSV(c, f, now, log)
}

// LoadCSV reads course rows into c. The first row is a header. Rows that are
// short, carry an unknown category or difficulty, lack a provider, or repeat
// an id are skipped with a warning. Unquoted commas in the final column are
// kept as part of the description.
func LoadCSV(c *Catalog, r io.Reader, now time.Time, log zerolog.Logger) (LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var res LoadResult
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return res, fmt.Errorf("courses file is empty")
		}
		return res, fmt.Errorf("read courses header: %w", err)
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return res, fmt.Errorf("read courses: %w", err)
			}
			log.Warn().Err(err).Int("line", perr.Line).Msg("skipping unreadable course row")
			res.Skipped++
			continue
		}
		line, _ := reader.FieldPos(0)

		course, err := parseRow(row, now)
		if err == nil {
			err = c.Add(course)
		}
		if err != nil {
			log.Warn().Err(err).Int("line", line).Str("row", strings.Join(row, ",")).Msg("skipping course row")
			res.Skipped++
			continue
		}
		res.Loaded++
	}

	log.Info().Int("loaded", res.Loaded).Int("skipped", res.Skipped).Msg("course catalog loaded")
	return res, nil
}

func parseRow(row []string, now time.Time) (*models.Course, error) {
	if len(row) < csvFields {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", models.ErrValidation, csvFields, len(row))
	}

	category, err := models.ParseCategory(row[2])
	if err != nil {
		return nil, err
	}
	difficulty, err := models.ParseDifficulty(row[3])
	if err != nil {
		return nil, err
	}
	provider := strings.TrimSpace(row[4])
	if provider == "" {
		return nil, fmt.Errorf("%w: course provider is required", models.ErrValidation)
	}
	description := strings.TrimSpace(strings.Join(row[csvFields-1:], ","))

	return models.NewCourse(row[0], row[1], category, difficulty, provider, description, now)
}

// AppendCSVFile appends course as one row of the catalog at path, writing the
// header first when the file does not exist yet.
func AppendCSVFile(path string, course *models.Course) error {
	_, statErr := os.Stat(path)
	fresh := errors.Is(statErr, os.ErrNotExist)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open courses file: %w", err)
	}

	w := csv.NewWriter(f)
	if fresh {
		_ = w.Write(csvHeader)
	}
	_ = w.Write([]string{
		course.ID,
		course.Title,
		string(course.Category),
		string(course.Difficulty),
		course.Provider,
		course.Description,
	})
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("append course %s: %w", course.ID, err)
	}
	return f.Close()
}
