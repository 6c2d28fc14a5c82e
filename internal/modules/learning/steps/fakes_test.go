package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	types "github.com/yungbote/neurobridge-pathgen/internal/domain"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/openai"
)

type fakeEmbedder struct {
	mu     sync.Mutex
	calls  []string
	failAt int // 1-based call number that fails; 0 never fails
	tokens int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) (Embedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	if f.failAt > 0 && len(f.calls) == f.failAt {
		return Embedding{}, errors.New("embedding service unavailable")
	}
	return Embedding{Vector: []float32{float32(len(f.calls)), 0.5}, TokenCount: f.tokens}, nil
}

// fakeGenerator answers each call with script[call] or, past the script, one
// quiz per requested slot.
type fakeGenerator struct {
	mu      sync.Mutex
	batches [][]SectionContext
	systems []string
	script  []func(batch []SectionContext, per int) ([]RawActivity, error)
}

func (f *fakeGenerator) Generate(_ context.Context, system string, batch []SectionContext, per int) ([]RawActivity, error) {
	f.mu.Lock()
	call := len(f.batches)
	f.batches = append(f.batches, batch)
	f.systems = append(f.systems, system)
	f.mu.Unlock()
	if call < len(f.script) && f.script[call] != nil {
		return f.script[call](batch, per)
	}
	return quizzesFor(batch, per), nil
}

func (f *fakeGenerator) batchSizes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.batches))
	for i, b := range f.batches {
		out[i] = len(b)
	}
	return out
}

func failing(batch []SectionContext, per int) ([]RawActivity, error) {
	return nil, errors.New("upstream 500")
}

func quizzesFor(batch []SectionContext, per int) []RawActivity {
	var out []RawActivity
	for _, s := range batch {
		for k := 0; k < per; k++ {
			out = append(out, RawActivity{
				Title: fmt.Sprintf("Quiz %s #%d", s.Heading, k),
				Type:  "quiz",
				Config: map[string]any{
					"question":       "What is " + s.Heading + "?",
					"options":        []any{"a", "b", "c"},
					"correct_answer": 2.0,
				},
			})
		}
	}
	return out
}

func makeSections(n int, minLen int) []*types.Section {
	out := make([]*types.Section, 0, n)
	for i := 0; i < n; i++ {
		content := fmt.Sprintf("Section %d explains one idea. ", i)
		for len(content) < minLen {
			content += "More detail follows here. "
		}
		out = append(out, &types.Section{
			ID:      uuid.New(),
			Index:   i,
			Heading: fmt.Sprintf("Topic %d", i),
			Content: strings.TrimSpace(content),
		})
	}
	return out
}

type fakeOpenAI struct {
	mu         sync.Mutex
	schemaName string
	system     string
	user       string
	payload    map[string]any
	err        error
	embedRes   openai.EmbedResult
}

func (f *fakeOpenAI) Embed(_ context.Context, inputs []string) (openai.EmbedResult, error) {
	if f.err != nil {
		return openai.EmbedResult{}, f.err
	}
	return f.embedRes, nil
}

func (f *fakeOpenAI) GenerateJSON(_ context.Context, system, user, schemaName string, _ map[string]any) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.system, f.user, f.schemaName = system, user, schemaName
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

type failingActivityRepo struct{}

func (failingActivityRepo) Create(dbctx.Context, []*types.Activity) ([]*types.Activity, error) {
	return nil, errors.New("disk full")
}

func (failingActivityRepo) ListByPathID(dbctx.Context, uuid.UUID) ([]*types.Activity, error) {
	return nil, nil
}

func testSettings() Settings {
	s := DefaultSettings()
	s.BatchPause = 0
	return s
}
