package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-pathgen/internal/data/repos/documents"
	"github.com/yungbote/neurobridge-pathgen/internal/data/repos/learning"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/logger"
)

type DocumentRepo = documents.DocumentRepo
type SectionRepo = documents.SectionRepo

type LearningPathRepo = learning.LearningPathRepo
type ActivityRepo = learning.ActivityRepo

type Repos struct {
	Documents     DocumentRepo
	Sections      SectionRepo
	LearningPaths LearningPathRepo
	Activities    ActivityRepo
}

func Wire(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Documents:     documents.NewDocumentRepo(db, log),
		Sections:      documents.NewSectionRepo(db, log),
		LearningPaths: learning.NewLearningPathRepo(db, log),
		Activities:    learning.NewActivityRepo(db, log),
	}
}
