package config

import "path/filepath"

const configFileName = "config.yaml"

// Paths contains commonly used file paths.
type Paths struct {
	Learners   string // learners/user_<id>.txt records
	Ratings    string // ratings/<course>_ratings.txt records
	CoursesCSV string // course catalog
	Database   string // SQLite state database
	Logs       string // log directory
	Config     string // config file
}

// GetPaths returns all commonly used paths based on config.
func GetPaths(cfg *Config) Paths {
	courses := cfg.CoursesCSV
	if courses == "" {
		courses = filepath.Join(cfg.BaseDir, "courses.csv")
	}
	return Paths{
		Learners:   filepath.Join(cfg.BaseDir, "learners"),
		Ratings:    filepath.Join(cfg.BaseDir, "ratings"),
		CoursesCSV: courses,
		Database:   filepath.Join(cfg.BaseDir, "learnpath.db"),
		Logs:       filepath.Join(cfg.BaseDir, "logs"),
		Config:     filepath.Join(cfg.BaseDir, configFileName),
	}
}
