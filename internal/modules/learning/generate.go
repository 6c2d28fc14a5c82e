package learning

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	types "github.com/yungbote/neurobridge-pathgen/internal/domain"
	"github.com/yungbote/neurobridge-pathgen/internal/modules/learning/steps"
	"github.com/yungbote/neurobridge-pathgen/internal/observability"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/apierr"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/dbctx"
)

type GenerateLearningPathOutput struct {
	Path       *types.LearningPath
	Activities []*types.Activity
}

// GenerateLearningPath builds a LearningPath and its activities from a stored
// document. Concurrent calls for the same document in this process share one
// run; a run already holding the distributed lock elsewhere yields
// ErrGenerationInProgress.
//
// The shared run is detached from the caller's cancellation. A caller whose
// ctx ends stops waiting, while the run completes for everyone else.
func (u Usecases) GenerateLearningPath(ctx context.Context, documentID uuid.UUID) (*GenerateLearningPathOutput, error) {
	if documentID == uuid.Nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_document_id", fmt.Errorf("missing document_id"))
	}
	if u.deps.Documents == nil || u.deps.Sections == nil || u.deps.LearningPaths == nil || u.deps.Activities == nil || u.deps.Generator == nil {
		return nil, apierr.New(http.StatusInternalServerError, "generation_not_configured", fmt.Errorf("missing deps"))
	}
	if err := ctx.Err(); err != nil {
		return nil, apierr.New(http.StatusRequestTimeout, "generation_canceled", err)
	}

	runCtx := context.WithoutCancel(ctx)
	ch := u.flight.DoChan(documentID.String(), func() (any, error) {
		return u.generateLearningPath(runCtx, documentID)
	})
	select {
	case <-ctx.Done():
		u.deps.Log.Debug("caller left in-flight generation", "document_id", documentID.String())
		return nil, apierr.New(http.StatusRequestTimeout, "generation_canceled", ctx.Err())
	case res := <-ch:
		if res.Shared {
			u.deps.Log.Debug("joined in-flight generation", "document_id", documentID.String())
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*GenerateLearningPathOutput).clone(), nil
	}
}

// clone gives each caller of a shared run its own rows.
func (o *GenerateLearningPathOutput) clone() *GenerateLearningPathOutput {
	path := *o.Path
	acts := make([]*types.Activity, len(o.Activities))
	for i, a := range o.Activities {
		cp := *a
		acts[i] = &cp
	}
	return &GenerateLearningPathOutput{Path: &path, Activities: acts}
}

func (u Usecases) generateLearningPath(ctx context.Context, documentID uuid.UUID) (*GenerateLearningPathOutput, error) {
	ctx, span := observability.Tracer().Start(ctx, "pathgen.generate_learning_path")
	defer span.End()
	span.SetAttributes(attribute.String("document.id", documentID.String()))

	log := u.deps.Log.With("usecase", "GenerateLearningPath", "document_id", documentID.String())

	release, ok, err := u.deps.Locks.TryAcquire(ctx, "generate:"+documentID.String())
	if err != nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "generation_lock_failed", err)
	}
	if !ok {
		return nil, apierr.New(http.StatusConflict, "generation_in_progress", ErrGenerationInProgress)
	}
	defer release()

	dbc := dbctx.Context{Ctx: ctx}
	doc, err := u.deps.Documents.GetByID(dbc, documentID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "load_document_failed", err)
	}
	if doc == nil {
		return nil, apierr.New(http.StatusNotFound, "document_not_found", ErrDocumentNotFound)
	}

	sections, err := u.deps.Sections.ListByDocumentID(dbc, documentID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "load_sections_failed", err)
	}
	settings := u.deps.Settings
	qualifying := steps.QualifyingSections(sections, settings.MinSectionChars)
	if len(qualifying) == 0 {
		return nil, apierr.New(http.StatusUnprocessableEntity, "insufficient_content", ErrInsufficientContent)
	}
	span.SetAttributes(attribute.Int("sections.qualifying", len(qualifying)))

	path, err := u.deps.LearningPaths.Create(dbc, &types.LearningPath{
		ID:          uuid.New(),
		DocumentID:  doc.ID,
		Title:       "Learning Path: " + doc.Title(),
		Description: fmt.Sprintf("Interactive activities for %d sections of %s.", len(qualifying), doc.Title()),
	})
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "create_learning_path_failed", err)
	}

	gen, err := steps.GenerateActivities(ctx, steps.GenerateActivitiesDeps{
		Log:       u.deps.Log,
		Generator: u.deps.Generator,
	}, steps.GenerateActivitiesInput{Sections: qualifying, Settings: settings})
	if err != nil {
		if errors.Is(err, ErrInsufficientContent) {
			return nil, apierr.New(http.StatusUnprocessableEntity, "insufficient_content", err)
		}
		return nil, apierr.New(http.StatusInternalServerError, "generate_activities_failed", err)
	}

	persisted, err := steps.PersistActivities(ctx, steps.PersistActivitiesDeps{
		Log:           u.deps.Log,
		Activities:    u.deps.Activities,
		LearningPaths: u.deps.LearningPaths,
	}, steps.PersistActivitiesInput{PathID: path.ID, Drafts: gen.Drafts})
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "persist_activities_failed", err)
	}
	path.DurationEstimateHours = persisted.DurationHours

	log.Info("learning path generated",
		"path_id", path.ID.String(),
		"activities", len(persisted.Created),
		"fallback_batches", gen.FallbackBatches,
		"duration_hours", path.DurationEstimateHours,
	)
	return &GenerateLearningPathOutput{Path: path, Activities: persisted.Created}, nil
}
