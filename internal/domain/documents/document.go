package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document is the raw text a learning path is generated from. Written once at ingest.
type Document struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Path   string    `gorm:"column:path;not null" json:"path"`
	Type   string    `gorm:"column:type;not null;default:'text'" json:"type"`
	Source string    `gorm:"column:source" json:"source,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Document) TableName() string { return "document" }

// Title is the document's display name: the last path element without extension.
func (d *Document) Title() string {
	if d == nil {
		return ""
	}
	p := d.Path
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' || p[i] == '\\' {
			p = p[i+1:]
			break
		}
	}
	for i := len(p) - 1; i > 0; i-- {
		if p[i] == '.' {
			p = p[:i]
			break
		}
	}
	if p == "" {
		return "Untitled document"
	}
	return p
}
