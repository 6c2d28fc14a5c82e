package steps

import (
	"context"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/yungbote/neurobridge-pathgen/internal/data/repos/testutil"
	types "github.com/yungbote/neurobridge-pathgen/internal/domain"
	"github.com/yungbote/neurobridge-pathgen/internal/modules/learning/activities"
)

func unpaced() *rate.Limiter { return rate.NewLimiter(rate.Inf, 1) }

func TestGenerateActivities_FailedFirstBatchFallsBack(t *testing.T) {
	sections := makeSections(6, 80)
	short := &types.Section{Heading: "Tiny", Content: "too short"}
	sections = append(sections[:3], append([]*types.Section{short}, sections[3:]...)...)

	gen := &fakeGenerator{script: []func([]SectionContext, int) ([]RawActivity, error){failing}}
	out, err := GenerateActivities(context.Background(), GenerateActivitiesDeps{
		Log:       testutil.Logger(t),
		Generator: gen,
		Limiter:   unpaced(),
	}, GenerateActivitiesInput{Sections: sections, Settings: testSettings()})
	require.NoError(t, err)

	assert.Equal(t, 6, out.Qualifying)
	assert.Equal(t, 2, out.Batches)
	assert.Equal(t, 1, out.FallbackBatches)
	assert.Equal(t, []int{5, 1}, gen.batchSizes())
	require.Len(t, out.Drafts, 12)

	for i := 0; i < 10; i++ {
		d := out.Drafts[i]
		assert.True(t, d.Fallback, "draft %d", i)
		assert.Equal(t, activities.FallbackType(i/2, i%2), d.Type, "draft %d", i)
		require.NoError(t, d.Config.Validate())
	}
	for i := 10; i < 12; i++ {
		d := out.Drafts[i]
		assert.False(t, d.Fallback)
		assert.Equal(t, activities.TypeQuiz, d.Type)
		assert.Equal(t, 2, d.Config.Quiz.CorrectAnswer)
	}
	// the sixth qualifying section comes after the short one in the input
	assert.Equal(t, sections[6].ID.String(), out.Drafts[11].SectionID)
}

func TestGenerateActivities_SlotsArePaddedAndTrimmed(t *testing.T) {
	sections := makeSections(2, 60)
	gen := &fakeGenerator{script: []func([]SectionContext, int) ([]RawActivity, error){
		func(batch []SectionContext, per int) ([]RawActivity, error) {
			return quizzesFor(batch, per)[:3], nil
		},
		func(batch []SectionContext, per int) ([]RawActivity, error) {
			return append(quizzesFor(batch, per), quizzesFor(batch, per)...), nil
		},
	}}
	deps := GenerateActivitiesDeps{Log: testutil.Logger(t), Generator: gen, Limiter: unpaced()}

	short, err := GenerateActivities(context.Background(), deps, GenerateActivitiesInput{Sections: sections, Settings: testSettings()})
	require.NoError(t, err)
	require.Len(t, short.Drafts, 4)
	assert.Equal(t, 0, short.FallbackBatches)
	last := short.Drafts[3]
	assert.True(t, last.Fallback)
	assert.Equal(t, activities.FallbackType(1, 1), last.Type)
	assert.Equal(t, sections[1].ID.String(), last.SectionID)

	long, err := GenerateActivities(context.Background(), deps, GenerateActivitiesInput{Sections: sections, Settings: testSettings()})
	require.NoError(t, err)
	require.Len(t, long.Drafts, 4)
	for _, d := range long.Drafts {
		assert.False(t, d.Fallback)
	}
	assert.Equal(t, sections[0].ID.String(), long.Drafts[1].SectionID)
	assert.Equal(t, sections[1].ID.String(), long.Drafts[2].SectionID)
}

func TestGenerateActivities_EmptyResultFallsBack(t *testing.T) {
	gen := &fakeGenerator{script: []func([]SectionContext, int) ([]RawActivity, error){
		func([]SectionContext, int) ([]RawActivity, error) { return []RawActivity{}, nil },
	}}
	out, err := GenerateActivities(context.Background(), GenerateActivitiesDeps{
		Log: testutil.Logger(t), Generator: gen, Limiter: unpaced(),
	}, GenerateActivitiesInput{Sections: makeSections(3, 60), Settings: testSettings()})
	require.NoError(t, err)
	require.Len(t, out.Drafts, 6)
	assert.Equal(t, 1, out.FallbackBatches)
	for _, d := range out.Drafts {
		assert.True(t, d.Fallback)
	}
}

func TestGenerateActivities_InsufficientContent(t *testing.T) {
	gen := &fakeGenerator{}
	_, err := GenerateActivities(context.Background(), GenerateActivitiesDeps{
		Log: testutil.Logger(t), Generator: gen, Limiter: unpaced(),
	}, GenerateActivitiesInput{
		Sections: []*types.Section{{Content: "short"}, {Content: ""}},
		Settings: testSettings(),
	})
	require.ErrorIs(t, err, ErrInsufficientContent)
	assert.Empty(t, gen.batchSizes())
}

func TestGenerateActivities_SendsTruncatedContext(t *testing.T) {
	sections := makeSections(1, 3000)
	gen := &fakeGenerator{}
	settings := testSettings()
	settings.SystemPrompt = "be brief"
	_, err := GenerateActivities(context.Background(), GenerateActivitiesDeps{
		Log: testutil.Logger(t), Generator: gen, Limiter: unpaced(),
	}, GenerateActivitiesInput{Sections: sections, Settings: settings})
	require.NoError(t, err)

	require.Len(t, gen.batches, 1)
	ctx := gen.batches[0][0]
	assert.Equal(t, sections[0].ID.String(), ctx.ID)
	assert.Equal(t, "Topic 0", ctx.Heading)
	assert.Equal(t, 1500, utf8.RuneCountInString(ctx.Excerpt))
	assert.Equal(t, []string{"be brief"}, gen.systems)
}

func TestGenerateActivities_PacesBatches(t *testing.T) {
	gen := &fakeGenerator{}
	settings := testSettings()
	settings.BatchSize = 1

	start := time.Now()
	out, err := GenerateActivities(context.Background(), GenerateActivitiesDeps{
		Log:       testutil.Logger(t),
		Generator: gen,
		Limiter:   rate.NewLimiter(rate.Every(25*time.Millisecond), 1),
	}, GenerateActivitiesInput{Sections: makeSections(3, 60), Settings: settings})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Batches)
	assert.GreaterOrEqual(t, time.Since(start), 45*time.Millisecond)
}

func TestGenerateActivities_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GenerateActivities(ctx, GenerateActivitiesDeps{
		Log:       testutil.Logger(t),
		Generator: &fakeGenerator{},
		Limiter:   rate.NewLimiter(rate.Every(time.Hour), 1),
	}, GenerateActivitiesInput{Sections: makeSections(2, 60), Settings: testSettings()})
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerateActivities_MissingDeps(t *testing.T) {
	_, err := GenerateActivities(context.Background(), GenerateActivitiesDeps{}, GenerateActivitiesInput{})
	require.Error(t, err)
}

func TestNewBatchLimiter(t *testing.T) {
	assert.Equal(t, rate.Inf, NewBatchLimiter(0).Limit())
	assert.Equal(t, rate.Every(time.Second), NewBatchLimiter(time.Second).Limit())
}
