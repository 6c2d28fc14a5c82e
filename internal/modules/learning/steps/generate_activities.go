package steps

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	types "github.com/yungbote/neurobridge-pathgen/internal/domain"
	"github.com/yungbote/neurobridge-pathgen/internal/modules/learning/activities"
	"github.com/yungbote/neurobridge-pathgen/internal/observability"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/logger"
)

type GenerateActivitiesDeps struct {
	Log       *logger.Logger
	Generator ActivityGenerator
	// Limiter paces batches. Nil builds one from Settings.BatchPause.
	Limiter *rate.Limiter
}

type GenerateActivitiesInput struct {
	Sections []*types.Section
	Settings Settings
}

type GenerateActivitiesOutput struct {
	Drafts          []activities.Draft
	Qualifying      int
	Batches         int
	FallbackBatches int
}

// QualifyingSections keeps sections whose content has at least minChars characters.
func QualifyingSections(sections []*types.Section, minChars int) []*types.Section {
	out := make([]*types.Section, 0, len(sections))
	for _, s := range sections {
		if s != nil && utf8.RuneCountInString(s.Content) >= minChars {
			out = append(out, s)
		}
	}
	return out
}

// NewBatchLimiter allows one batch per pause interval; pause <= 0 disables pacing.
func NewBatchLimiter(pause time.Duration) *rate.Limiter {
	if pause <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(pause), 1)
}

// GenerateActivities runs the qualifying sections through the generator in
// strictly sequential batches. A failed batch is replaced by fallback
// activities, so the output always holds ActivitiesPerSection drafts per
// qualifying section.
func GenerateActivities(ctx context.Context, deps GenerateActivitiesDeps, in GenerateActivitiesInput) (GenerateActivitiesOutput, error) {
	out := GenerateActivitiesOutput{}
	if deps.Log == nil || deps.Generator == nil {
		return out, fmt.Errorf("generate_activities: missing deps")
	}
	settings := in.Settings
	if settings.BatchSize <= 0 {
		settings.BatchSize = DefaultSettings().BatchSize
	}
	if settings.ActivitiesPerSection <= 0 {
		settings.ActivitiesPerSection = DefaultSettings().ActivitiesPerSection
	}

	qualifying := QualifyingSections(in.Sections, settings.MinSectionChars)
	out.Qualifying = len(qualifying)
	if len(qualifying) == 0 {
		return out, fmt.Errorf("generate_activities: %w", ErrInsufficientContent)
	}

	limiter := deps.Limiter
	if limiter == nil {
		limiter = NewBatchLimiter(settings.BatchPause)
	}
	log := deps.Log.With("step", "generate_activities")

	out.Drafts = make([]activities.Draft, 0, len(qualifying)*settings.ActivitiesPerSection)
	for start := 0; start < len(qualifying); start += settings.BatchSize {
		end := min(start+settings.BatchSize, len(qualifying))
		if err := limiter.Wait(ctx); err != nil {
			return out, fmt.Errorf("generate_activities: %w", err)
		}
		drafts, fellBack := generateBatch(ctx, log, deps.Generator, settings, qualifying[start:end], start, out.Batches)
		out.Drafts = append(out.Drafts, drafts...)
		out.Batches++
		if fellBack {
			out.FallbackBatches++
		}
	}

	log.Info("activities generated",
		"qualifying", out.Qualifying,
		"batches", out.Batches,
		"fallback_batches", out.FallbackBatches,
		"activities", len(out.Drafts),
	)
	return out, nil
}

// generateBatch returns exactly len(batch)*ActivitiesPerSection drafts. offset
// is the position of batch[0] among all qualifying sections.
func generateBatch(ctx context.Context, log *logger.Logger, gen ActivityGenerator, settings Settings, batch []*types.Section, offset, batchIndex int) ([]activities.Draft, bool) {
	ctx, span := observability.Tracer().Start(ctx, "pathgen.generate_batch")
	defer span.End()
	span.SetAttributes(attribute.Int("batch.index", batchIndex), attribute.Int("batch.size", len(batch)))

	per := settings.ActivitiesPerSection
	secs := make([]activities.Section, len(batch))
	contexts := make([]SectionContext, len(batch))
	for i, s := range batch {
		secs[i] = toActivitySection(s)
		contexts[i] = SectionContext{
			ID:      secs[i].ID,
			Heading: s.Heading,
			Excerpt: truncateRunes(s.Content, settings.ExcerptChars),
		}
	}

	raws, err := gen.Generate(ctx, settings.SystemPrompt, contexts, per)
	if err == nil && len(raws) == 0 {
		err = fmt.Errorf("generator returned no activities")
	}
	if err != nil {
		log.Warn("batch generation failed; using fallback", "batch", batchIndex, "sections", len(batch), "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		span.SetAttributes(attribute.Bool("batch.fallback", true))
		drafts := make([]activities.Draft, 0, len(batch)*per)
		for i, sec := range secs {
			for slot := 0; slot < per; slot++ {
				drafts = append(drafts, activities.FallbackDraft(sec, offset+i, slot))
			}
		}
		return drafts, true
	}
	span.SetAttributes(attribute.Bool("batch.fallback", false))

	total := len(batch) * per
	if len(raws) != total {
		log.Debug("generator returned unexpected activity count", "batch", batchIndex, "want", total, "got", len(raws))
	}
	drafts := make([]activities.Draft, 0, total)
	for i := 0; i < total; i++ {
		owner := min(i/per, len(batch)-1)
		if i < len(raws) {
			drafts = append(drafts, activities.FromRaw(raws[i], secs[owner], offset+owner))
			continue
		}
		drafts = append(drafts, activities.FallbackDraft(secs[owner], offset+owner, i%per))
	}
	return drafts, false
}

func toActivitySection(s *types.Section) activities.Section {
	return activities.Section{ID: s.ID.String(), Heading: s.Heading, Content: s.Content}
}

func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
