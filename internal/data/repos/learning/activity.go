package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-pathgen/internal/domain"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/logger"
)

// ActivityRepo writes a path's activity set in bulk; rows are never updated here.
type ActivityRepo interface {
	Create(dbc dbctx.Context, rows []*types.Activity) ([]*types.Activity, error)
	ListByPathID(dbc dbctx.Context, pathID uuid.UUID) ([]*types.Activity, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (r *activityRepo) Create(dbc dbctx.Context, rows []*types.Activity) ([]*types.Activity, error) {
	if len(rows) == 0 {
		return []*types.Activity{}, nil
	}
	for _, row := range rows {
		if row != nil && row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}

	// Configs are small; one statement per 100 rows keeps parameter counts sane.
	const batchSize = 100

	if err := dbc.DB(r.db).CreateInBatches(rows, batchSize).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *activityRepo) ListByPathID(dbc dbctx.Context, pathID uuid.UUID) ([]*types.Activity, error) {
	var out []*types.Activity
	if pathID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("path_id = ?", pathID).
		Order("\"index\" ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
