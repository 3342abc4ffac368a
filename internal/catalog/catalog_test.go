package catalog

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/learnpath/internal/models"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func course(t *testing.T, id string, cat models.Category) *models.Course {
	t.Helper()
	c, err := models.NewCourse(id, "Course "+id, cat, models.DifficultyBeginner, "Acme", "", now)
	require.NoError(t, err)
	return c
}

func TestCatalog_AddGetAll(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(course(t, "C2", models.CategoryDesign)))
	require.NoError(t, c.Add(course(t, "C1", models.CategoryProgramming)))

	err := c.Add(course(t, "C1", models.CategoryBusiness))
	assert.True(t, errors.Is(err, models.ErrValidation))

	got, ok := c.Get("C1")
	require.True(t, ok)
	assert.Equal(t, models.CategoryProgramming, got.Category)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	var ids []string
	for _, course := range c.All() {
		ids = append(ids, course.ID)
	}
	assert.Equal(t, []string{"C2", "C1"}, ids, "insertion order")
	assert.Equal(t, 2, c.Len())
	assert.Len(t, c.ByCategory(models.CategoryDesign), 1)
}

func TestCatalog_CourseTitle(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(course(t, "C1", models.CategoryDesign)))

	title, ok := c.CourseTitle("C1")
	assert.True(t, ok)
	assert.Equal(t, "Course C1", title)

	_, ok = c.CourseTitle("C9")
	assert.False(t, ok)
}

func TestTopRated(t *testing.T) {
	c := New()
	a := course(t, "A", models.CategoryDesign)
	b := course(t, "B", models.CategoryDesign)
	d := course(t, "D", models.CategoryDesign)
	unrated := course(t, "U", models.CategoryDesign)
	for _, x := range []*models.Course{a, b, d, unrated} {
		require.NoError(t, c.Add(x))
	}

	a.Ratings().AddRating("u1", 4)
	b.Ratings().AddRating("u1", 5)
	d.Ratings().AddRating("u1", 4)
	d.Ratings().AddRating("u2", 4)

	var ids []string
	for _, course := range TopRated(c, 0) {
		ids = append(ids, course.ID)
	}
	assert.Equal(t, []string{"B", "D", "A"}, ids, "ties broken by rating count")
	assert.Len(t, TopRated(c, 2), 2)
}

func TestLoadCSV(t *testing.T) {
	input := `id,title,category,difficulty,provider,description
C1,Intro to Go,PROGRAMMING,BEGINNER,Acme,Learn Go
C2,Short,DESIGN
C3,Bad Cat,COOKING,BEGINNER,Acme,nope
C4,Design 101, design , intermediate ,Studio,
C5,Commas,BUSINESS,ADVANCED,Acme,one, two, three
C6,No Provider,BUSINESS,ADVANCED, ,desc
C1,Duplicate,PROGRAMMING,BEGINNER,Acme,again
`
	c := New()
	res, err := LoadCSV(c, strings.NewReader(input), now, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, LoadResult{Loaded: 3, Skipped: 4}, res)

	c4, ok := c.Get("C4")
	require.True(t, ok)
	assert.Equal(t, models.CategoryDesign, c4.Category)
	assert.Equal(t, models.DifficultyIntermediate, c4.Difficulty)
	assert.Equal(t, models.DefaultDescription, c4.Description)
	assert.Equal(t, now, c4.CreatedAt)

	c5, _ := c.Get("C5")
	assert.Equal(t, "one,two,three", c5.Description)
}

func TestLoadCSV_SkipsUnlistableIDs(t *testing.T) {
	input := `id,title,category,difficulty,provider,description
GO 101,Go,PROGRAMMING,BEGINNER,Acme,x
../C9,Escape,PROGRAMMING,BEGINNER,Acme,x
GO-101,Go,PROGRAMMING,BEGINNER,Acme,x
`
	c := New()
	res, err := LoadCSV(c, strings.NewReader(input), now, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, LoadResult{Loaded: 1, Skipped: 2}, res)
	_, ok := c.Get("GO 101")
	assert.False(t, ok)
	_, ok = c.Get("GO-101")
	assert.True(t, ok)
}

func TestLoadCSV_Empty(t *testing.T) {
	_, err := LoadCSV(New(), strings.NewReader(""), now, zerolog.Nop())
	assert.Error(t, err)
}

func TestLoadCSVFile_Missing(t *testing.T) {
	_, err := LoadCSVFile(New(), t.TempDir()+"/none.csv", now, zerolog.Nop())
	assert.Error(t, err)
}

func TestAppendCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.csv")
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	first, err := models.NewCourse("N1", "Design, Fast", models.CategoryDesign, models.DifficultyBeginner, "Studio", "Grids, type and color", now)
	require.NoError(t, err)
	second, err := models.NewCourse("N2", "Pitching", models.CategoryBusiness, models.DifficultyAdvanced, "Acme", "", now)
	require.NoError(t, err)

	require.NoError(t, AppendCSVFile(path, first))
	require.NoError(t, AppendCSVFile(path, second))

	c := New()
	res, err := LoadCSVFile(c, path, now, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, LoadResult{Loaded: 2}, res)

	got, ok := c.Get("N1")
	require.True(t, ok)
	assert.Equal(t, "Design, Fast", got.Title)
	assert.Equal(t, "Grids, type and color", got.Description)

	got, ok = c.Get("N2")
	require.True(t, ok)
	assert.Equal(t, models.DefaultDescription, got.Description)
}
