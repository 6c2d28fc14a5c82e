package documents

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-pathgen/internal/domain"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/logger"
)

type DocumentRepo interface {
	Create(dbc dbctx.Context, row *types.Document) (*types.Document, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Document, error)
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	return &documentRepo{db: db, log: baseLog.With("repo", "DocumentRepo")}
}

func (r *documentRepo) Create(dbc dbctx.Context, row *types.Document) (*types.Document, error) {
	if row == nil {
		return nil, errors.New("document required")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := dbc.DB(r.db).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// GetByID returns (nil, nil) when no document has that id.
func (r *documentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Document, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Document
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
