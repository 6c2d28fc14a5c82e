package domain

import (
	"github.com/yungbote/neurobridge-pathgen/internal/domain/documents"
	"github.com/yungbote/neurobridge-pathgen/internal/domain/learning"
)

type Document = documents.Document
type Section = documents.Section

type LearningPath = learning.LearningPath
type Activity = learning.Activity

// Models lists every table the pipeline owns, in migration order.
func Models() []any {
	return []any{
		&Document{},
		&Section{},
		&LearningPath{},
		&Activity{},
	}
}
