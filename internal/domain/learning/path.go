package learning

import (
	"time"

	"github.com/google/uuid"
)

// LearningPath groups the activities generated from one Document.
// DurationEstimateHours is written once, after the activities are persisted.
type LearningPath struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID            uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`
	Title                 string    `gorm:"column:title;not null" json:"title"`
	Description           string    `gorm:"column:description;type:text" json:"description,omitempty"`
	DurationEstimateHours int       `gorm:"column:duration_estimate_hours;not null;default:0" json:"duration_estimate_hours"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (LearningPath) TableName() string { return "learning_path" }
