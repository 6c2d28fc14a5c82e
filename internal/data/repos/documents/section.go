package documents

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-pathgen/internal/domain"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/logger"
)

// SectionRepo is insert/read only; sections are never updated.
type SectionRepo interface {
	Create(dbc dbctx.Context, row *types.Section) (*types.Section, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Section, error)
	ListByDocumentID(dbc dbctx.Context, documentID uuid.UUID) ([]*types.Section, error)
}

type sectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
	return &sectionRepo{db: db, log: baseLog.With("repo", "SectionRepo")}
}

func (r *sectionRepo) Create(dbc dbctx.Context, row *types.Section) (*types.Section, error) {
	if row == nil {
		return nil, errors.New("section required")
	}
	if row.DocumentID == uuid.Nil {
		return nil, errors.New("section document_id required")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := dbc.DB(r.db).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *sectionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Section, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Section
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListByDocumentID returns sections in ingest order.
func (r *sectionRepo) ListByDocumentID(dbc dbctx.Context, documentID uuid.UUID) ([]*types.Section, error) {
	var out []*types.Section
	if documentID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("document_id = ?", documentID).
		Order("\"index\" ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
