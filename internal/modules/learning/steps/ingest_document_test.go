package steps

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/neurobridge-pathgen/internal/data/repos/documents"
	"github.com/yungbote/neurobridge-pathgen/internal/data/repos/testutil"
	types "github.com/yungbote/neurobridge-pathgen/internal/domain"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/dbctx"
)

const handbook = `Welcome to the handbook.

# Setup
Install Go and clone the repository. Run the bootstrap script once.

## Editors
Any editor with gopls support works well for this codebase.

# Testing
Run the unit tests before every push, and keep them fast.
`

func newIngestDeps(t *testing.T, emb Embedder) (IngestDocumentDeps, func() []*types.Section) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	sections := documents.NewSectionRepo(db, log)
	deps := IngestDocumentDeps{
		Log:       log,
		Documents: documents.NewDocumentRepo(db, log),
		Sections:  sections,
		Embedder:  emb,
	}
	list := func() []*types.Section {
		var rows []*types.Section
		require.NoError(t, db.Order("\"index\" ASC").Find(&rows).Error)
		return rows
	}
	return deps, list
}

func TestIngestDocument_StoresOneSectionPerChunk(t *testing.T) {
	emb := &fakeEmbedder{}
	deps, _ := newIngestDeps(t, emb)

	out, err := IngestDocument(context.Background(), deps, IngestDocumentInput{
		Path:         "docs/handbook.md",
		Type:         "markdown",
		Text:         handbook,
		MaxChunkSize: 80,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Document)
	assert.Equal(t, "markdown", out.Document.Type)
	assert.Equal(t, "handbook", out.Document.Title())

	stored, err := deps.Sections.ListByDocumentID(dbctx.Context{Ctx: context.Background()}, out.Document.ID)
	require.NoError(t, err)
	require.Len(t, stored, len(out.Sections))
	require.Len(t, emb.calls, len(stored))
	require.GreaterOrEqual(t, len(stored), 2)

	for i, s := range stored {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, emb.calls[i], s.Content)
		assert.NotEmpty(t, s.Heading)
		assert.Equal(t, len(s.Content)/4, s.TokenCount, "falls back to the chars/4 estimate")
		var vec []float32
		require.NoError(t, json.Unmarshal(s.Embedding, &vec))
		assert.Equal(t, []float32{float32(i + 1), 0.5}, vec)
	}
	for _, want := range []string{"Welcome to the handbook.", "gopls", "keep them fast."} {
		found := false
		for _, s := range stored {
			found = found || strings.Contains(s.Content, want)
		}
		assert.True(t, found, "missing %q", want)
	}
}

func TestIngestDocument_SlugAndReportedTokens(t *testing.T) {
	emb := &fakeEmbedder{tokens: 42}
	deps, list := newIngestDeps(t, emb)

	_, err := IngestDocument(context.Background(), deps, IngestDocumentInput{
		Text: "# Hello, World!  Foo\n" + strings.Repeat("body text ", 10),
	})
	require.NoError(t, err)
	rows := list()
	require.Len(t, rows, 1)
	assert.Equal(t, "Hello, World!  Foo", rows[0].Heading)
	assert.Equal(t, "hello-world-foo", rows[0].Slug)
	assert.Equal(t, 42, rows[0].TokenCount)
}

func TestIngestDocument_EmptyContent(t *testing.T) {
	deps, list := newIngestDeps(t, &fakeEmbedder{})
	for _, text := range []string{"", "   \n\t\n"} {
		_, err := IngestDocument(context.Background(), deps, IngestDocumentInput{Text: text})
		require.ErrorIs(t, err, ErrEmptyContent)
	}
	assert.Empty(t, list())
}

func TestIngestDocument_EmbedFailureKeepsEarlierRows(t *testing.T) {
	emb := &fakeEmbedder{failAt: 2}
	deps, list := newIngestDeps(t, emb)

	out, err := IngestDocument(context.Background(), deps, IngestDocumentInput{Text: handbook, MaxChunkSize: 40})
	require.ErrorIs(t, err, ErrIngestFailure)
	assert.Contains(t, err.Error(), "embedding service unavailable")
	require.NotNil(t, out.Document)
	assert.Len(t, list(), 1)
}

func TestIngestDocument_HTMLIsConvertedBeforeSegmenting(t *testing.T) {
	deps, list := newIngestDeps(t, &fakeEmbedder{})

	out, err := IngestDocument(context.Background(), deps, IngestDocumentInput{
		Path: "docs/page.html",
		Type: "html",
		Text: `<h1>Setup</h1><p>Install Go and clone the repository.</p>`,
	})
	require.NoError(t, err)
	assert.Equal(t, "html", out.Document.Type)

	rows := list()
	require.Len(t, rows, 1)
	assert.Equal(t, "Setup", rows[0].Heading)
	assert.Contains(t, rows[0].Content, "Install Go")
	assert.NotContains(t, rows[0].Content, "<p>")
}

func TestIngestDocument_MissingDeps(t *testing.T) {
	_, err := IngestDocument(context.Background(), IngestDocumentDeps{}, IngestDocumentInput{Text: "x"})
	require.Error(t, err)
}

func TestOpenAIEmbedder(t *testing.T) {
	ai := &fakeOpenAI{}
	ai.embedRes.Vectors = [][]float32{{1, 2, 3}}
	ai.embedRes.PromptTokens = 9
	got, err := NewOpenAIEmbedder(ai).Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, Embedding{Vector: []float32{1, 2, 3}, TokenCount: 9}, got)

	ai.embedRes.Vectors = nil
	_, err = NewOpenAIEmbedder(ai).Embed(context.Background(), "text")
	require.Error(t, err)
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, estimateTokens(""))
	assert.Equal(t, 1, estimateTokens("abc"))
	assert.Equal(t, 25, estimateTokens(strings.Repeat("x", 100)))
}
