package steps

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"

	"github.com/yungbote/neurobridge-pathgen/internal/data/repos"
	types "github.com/yungbote/neurobridge-pathgen/internal/domain"
	"github.com/yungbote/neurobridge-pathgen/internal/modules/learning/activities"
	"github.com/yungbote/neurobridge-pathgen/internal/observability"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/logger"
)

// ActivitiesPerHour drives the duration estimate.
const ActivitiesPerHour = 5

type PersistActivitiesDeps struct {
	Log           *logger.Logger
	Activities    repos.ActivityRepo
	LearningPaths repos.LearningPathRepo
}

type PersistActivitiesInput struct {
	PathID uuid.UUID
	Drafts []activities.Draft
}

type PersistActivitiesOutput struct {
	Created       []*types.Activity
	DurationHours int
	// Failed is set when the bulk insert did not go through; Created is empty then.
	Failed bool
}

// EstimateDurationHours is ceil(count / ActivitiesPerHour).
func EstimateDurationHours(count int) int {
	if count <= 0 {
		return 0
	}
	return (count + ActivitiesPerHour - 1) / ActivitiesPerHour
}

// PersistActivities bulk-inserts the drafts and then records the duration
// estimate on the path. Write failures are logged and reported through
// Failed, never returned.
func PersistActivities(ctx context.Context, deps PersistActivitiesDeps, in PersistActivitiesInput) (PersistActivitiesOutput, error) {
	out := PersistActivitiesOutput{Created: []*types.Activity{}}
	if deps.Log == nil || deps.Activities == nil || deps.LearningPaths == nil {
		return out, fmt.Errorf("persist_activities: missing deps")
	}
	if in.PathID == uuid.Nil {
		return out, fmt.Errorf("persist_activities: missing path_id")
	}

	ctx, span := observability.Tracer().Start(ctx, "pathgen.persist_activities")
	defer span.End()
	span.SetAttributes(attribute.Int("activities.count", len(in.Drafts)))

	log := deps.Log.With("step", "persist_activities", "path_id", in.PathID.String())

	rows := make([]*types.Activity, 0, len(in.Drafts))
	for i, d := range in.Drafts {
		cfg, err := json.Marshal(d.Config)
		if err != nil {
			log.Error("encode activity config failed", "index", i, "type", string(d.Type), "error", err)
			span.SetStatus(codes.Error, "encode config")
			out.Failed = true
			return out, nil
		}
		rows = append(rows, &types.Activity{
			ID:          uuid.New(),
			PathID:      in.PathID,
			Index:       i,
			Title:       d.Title,
			Description: d.Description,
			Type:        string(d.Type),
			Config:      datatypes.JSON(cfg),
		})
	}

	created, err := deps.Activities.Create(dbctx.Context{Ctx: ctx}, rows)
	if err != nil {
		log.Error("bulk insert activities failed", "activities", len(rows), "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert activities")
		out.Failed = true
		return out, nil
	}
	out.Created = created

	hours := EstimateDurationHours(len(created))
	if err := deps.LearningPaths.UpdateFields(dbctx.Context{Ctx: ctx}, in.PathID, map[string]interface{}{
		"duration_estimate_hours": hours,
	}); err != nil {
		log.Error("update duration estimate failed", "error", err)
		span.RecordError(err)
		return out, nil
	}
	out.DurationHours = hours
	log.Info("activities persisted", "activities", len(created), "duration_hours", hours)
	return out, nil
}
