package learning

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-pathgen/internal/domain"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/logger"
)

type LearningPathRepo interface {
	Create(dbc dbctx.Context, row *types.LearningPath) (*types.LearningPath, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LearningPath, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type learningPathRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningPathRepo(db *gorm.DB, baseLog *logger.Logger) LearningPathRepo {
	return &learningPathRepo{db: db, log: baseLog.With("repo", "LearningPathRepo")}
}

func (r *learningPathRepo) Create(dbc dbctx.Context, row *types.LearningPath) (*types.LearningPath, error) {
	if row == nil {
		return nil, errors.New("learning path required")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := dbc.DB(r.db).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *learningPathRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LearningPath, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.LearningPath
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *learningPathRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return dbc.DB(r.db).
		Model(&types.LearningPath{}).
		Where("id = ?", id).
		Updates(updates).Error
}
