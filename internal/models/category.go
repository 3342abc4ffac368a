package models

import (
	"fmt"
	"strings"
)

// Category is the closed set of course subject areas.
type Category string

const (
	CategoryProgramming            Category = "PROGRAMMING"
	CategoryBusiness               Category = "BUSINESS"
	CategoryDataScience            Category = "DATA_SCIENCE"
	CategoryArtificialIntelligence Category = "ARTIFICIAL_INTELLIGENCE"
	CategoryDesign                 Category = "DESIGN"
	CategoryMarketing              Category = "MARKETING"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryProgramming,
		CategoryBusiness,
		CategoryDataScience,
		CategoryArtificialIntelligence,
		CategoryDesign,
		CategoryMarketing,
	}
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory parses a category name, ignoring case and surrounding space.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrValidation, s)
	}
	return c, nil
}

// Difficulty is the ordered course difficulty scale.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
)

// Difficulties returns the difficulty scale from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
}

// Rank returns the position of d on the scale, or -1 if d is unknown.
func (d Difficulty) Rank() int {
	for i, known := range Difficulties() {
		if d == known {
			return i
		}
	}
	return -1
}

// ParseDifficulty parses a difficulty name, ignoring case and surrounding space.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToUpper(strings.TrimSpace(s)))
	if d.Rank() < 0 {
		return "", fmt.Errorf("%w: unknown difficulty %q", ErrValidation, s)
	}
	return d, nil
}

// SkillLevel is a learner's tier. It shares the difficulty scale.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "BEGINNER"
	SkillIntermediate SkillLevel = "INTERMEDIATE"
	SkillAdvanced     SkillLevel = "ADVANCED"
)

// Rank orders skill levels; unknown levels rank below BEGINNER.
func (s SkillLevel) Rank() int {
	switch s {
	case SkillBeginner:
		return 0
	case SkillIntermediate:
		return 1
	case SkillAdvanced:
		return 2
	default:
		return -1
	}
}

// ParseSkillLevel parses a skill level name.
func ParseSkillLevel(s string) (SkillLevel, error) {
	l := SkillLevel(strings.ToUpper(strings.TrimSpace(s)))
	if l.Rank() < 0 {
		return "", fmt.Errorf("%w: unknown skill level %q", ErrValidation, s)
	}
	return l, nil
}

// SkillLevelFor derives the tier earned by a number of completed courses.
func SkillLevelFor(completed int) SkillLevel {
	switch {
	case completed >= 10:
		return SkillAdvanced
	case completed >= 5:
		return SkillIntermediate
	default:
		return SkillBeginner
	}
}
