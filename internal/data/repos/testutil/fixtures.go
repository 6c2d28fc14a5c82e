package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-pathgen/internal/domain"
)

func SeedDocument(tb testing.TB, ctx context.Context, tx *gorm.DB, path string) *types.Document {
	tb.Helper()
	d := &types.Document{
		ID:     uuid.New(),
		Path:   path,
		Type:   "markdown",
		Source: "upload",
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed document: %v", err)
	}
	return d
}

func SeedSection(tb testing.TB, ctx context.Context, tx *gorm.DB, documentID uuid.UUID, index int, heading, content string) *types.Section {
	tb.Helper()
	s := &types.Section{
		ID:         uuid.New(),
		DocumentID: documentID,
		Index:      index,
		Heading:    heading,
		Content:    content,
		Slug:       "section",
		TokenCount: len(content) / 4,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed section: %v", err)
	}
	return s
}

func SeedLearningPath(tb testing.TB, ctx context.Context, tx *gorm.DB, documentID uuid.UUID) *types.LearningPath {
	tb.Helper()
	p := &types.LearningPath{
		ID:         uuid.New(),
		DocumentID: documentID,
		Title:      "path",
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed learning path: %v", err)
	}
	return p
}
