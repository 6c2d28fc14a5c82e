package documents

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Section is one packed chunk of a Document with its embedding. Immutable once written.
type Section struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index:idx_document_section,priority:1" json:"document_id"`
	Document   *Document `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"document,omitempty"`

	Index      int            `gorm:"column:index;not null;index:idx_document_section,priority:2" json:"index"`
	Heading    string         `gorm:"column:heading" json:"heading"`
	Content    string         `gorm:"column:content;type:text;not null" json:"content"`
	Slug       string         `gorm:"column:slug;index" json:"slug"`
	TokenCount int            `gorm:"column:token_count;not null;default:0" json:"token_count"`
	Embedding  datatypes.JSON `gorm:"column:embedding" json:"embedding,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Section) TableName() string { return "document_section" }
