package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Activity is one generated unit of learning content. Config holds the
// type-specific payload and always matches Type.
type Activity struct {
	ID     uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	PathID uuid.UUID     `gorm:"type:uuid;not null;index:idx_learning_activity_path,priority:1" json:"path_id"`
	Path   *LearningPath `gorm:"constraint:OnDelete:CASCADE;foreignKey:PathID;references:ID" json:"path,omitempty"`

	Index       int            `gorm:"column:index;not null;index:idx_learning_activity_path,priority:2" json:"index"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description;type:text" json:"description,omitempty"`
	Type        string         `gorm:"column:type;not null;index" json:"type"`
	Config      datatypes.JSON `gorm:"column:config" json:"config"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Activity) TableName() string { return "learning_activity" }
