package models

import "time"

// UserState holds per-installation state such as the anonymous tracking ID.
// Note: The table name is "user_state" to avoid conflicts with reserved keywords.
type UserState struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	TrackingID  string    `gorm:"size:64" json:"tracking_id"`
	LastVersion string    `gorm:"size:64" json:"last_version"` // learnpath version that last opened the data dir
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (UserState) TableName() string {
	return "user_state"
}

// CourseState persists the course fields the catalog CSV does not carry.
type CourseState struct {
	ID              string    `gorm:"primaryKey;size:64" json:"id"`
	EnrollmentCount int       `gorm:"default:0" json:"enrollment_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (CourseState) TableName() string {
	return "course_state"
}
