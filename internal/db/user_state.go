package db

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/asteroid-belt/learnpath/internal/models"
)

const defaultStateID = "default"

// GetUserState retrieves the installation state, or a blank default.
func (db *DB) GetUserState() (*models.UserState, error) {
	var state models.UserState
	err := db.Where("id = ?", defaultStateID).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.UserState{ID: defaultStateID}, nil
		}
		return nil, err
	}
	return &state, nil
}

// GetOrCreateTrackingID returns the persistent tracking ID, creating one if it doesn't exist.
// On any error, it falls back to generating a per-session ID.
func (db *DB) GetOrCreateTrackingID() string {
	state, err := db.GetUserState()
	if err != nil {
		return generateSessionID()
	}
	if state.TrackingID != "" {
		return state.TrackingID
	}

	state.TrackingID = generateSessionID()
	// Even if the save fails the generated ID serves this session.
	_ = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tracking_id", "updated_at"}),
	}).Create(state).Error

	return state.TrackingID
}

// RecordVersion stores v as the version that last opened the data directory
// and returns the version stored before, which is empty on first run.
func (db *DB) RecordVersion(v string) (string, error) {
	state, err := db.GetUserState()
	if err != nil {
		return "", err
	}
	previous := state.LastVersion

	state.LastVersion = v
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_version", "updated_at"}),
	}).Create(state).Error
	return previous, err
}

func generateSessionID() string {
	return uuid.New().String()
}
