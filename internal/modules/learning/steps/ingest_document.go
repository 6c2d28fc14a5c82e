package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"

	"github.com/yungbote/neurobridge-pathgen/internal/data/repos"
	types "github.com/yungbote/neurobridge-pathgen/internal/domain"
	"github.com/yungbote/neurobridge-pathgen/internal/modules/learning/ingestion/segment"
	"github.com/yungbote/neurobridge-pathgen/internal/observability"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/logger"
)

type IngestDocumentDeps struct {
	Log       *logger.Logger
	Documents repos.DocumentRepo
	Sections  repos.SectionRepo
	Embedder  Embedder
}

type IngestDocumentInput struct {
	Path   string
	Type   string
	Source string
	Text   string
	// MaxChunkSize <= 0 uses segment.DefaultMaxChunkSize.
	MaxChunkSize int
}

type IngestDocumentOutput struct {
	Document *types.Document
	Sections []*types.Section
}

// IngestDocument segments raw text, packs it into chunks, embeds each chunk
// and stores one Section per chunk. Rows written before a failure are kept.
func IngestDocument(ctx context.Context, deps IngestDocumentDeps, in IngestDocumentInput) (IngestDocumentOutput, error) {
	out := IngestDocumentOutput{}
	if deps.Log == nil || deps.Documents == nil || deps.Sections == nil || deps.Embedder == nil {
		return out, fmt.Errorf("ingest_document: missing deps")
	}

	ctx, span := observability.Tracer().Start(ctx, "pathgen.ingest_document")
	defer span.End()

	text := in.Text
	if segment.IsHTML(in.Type) {
		md, err := segment.HTMLToMarkdown(text)
		if err != nil {
			span.SetStatus(codes.Error, "convert html")
			return out, fmt.Errorf("ingest_document: %w: %w", ErrIngestFailure, err)
		}
		text = md
	}

	heads := segment.Headings(text)
	if len(heads) == 0 {
		return out, fmt.Errorf("ingest_document: %w", ErrEmptyContent)
	}
	chunks := segment.Pack(heads, in.MaxChunkSize)
	span.SetAttributes(
		attribute.Int("document.headings", len(heads)),
		attribute.Int("document.chunks", len(chunks)),
	)

	docType := strings.TrimSpace(in.Type)
	if docType == "" {
		docType = "text"
	}
	doc, err := deps.Documents.Create(dbctx.Context{Ctx: ctx}, &types.Document{
		ID:     uuid.New(),
		Path:   strings.TrimSpace(in.Path),
		Type:   docType,
		Source: strings.TrimSpace(in.Source),
	})
	if err != nil {
		span.SetStatus(codes.Error, "create document")
		return out, fmt.Errorf("ingest_document: %w: create document: %w", ErrIngestFailure, err)
	}
	out.Document = doc
	log := deps.Log.With("step", "ingest_document", "document_id", doc.ID.String())

	for i, ch := range chunks {
		emb, err := deps.Embedder.Embed(ctx, ch.Text)
		if err != nil {
			span.SetStatus(codes.Error, "embed chunk")
			log.Error("embed chunk failed", "chunk", i, "error", err)
			return out, fmt.Errorf("ingest_document: %w: embed chunk %d: %w", ErrIngestFailure, i, err)
		}
		vec, err := json.Marshal(emb.Vector)
		if err != nil {
			return out, fmt.Errorf("ingest_document: %w: encode embedding: %w", ErrIngestFailure, err)
		}
		tokens := emb.TokenCount
		if tokens <= 0 {
			tokens = estimateTokens(ch.Text)
		}
		sec, err := deps.Sections.Create(dbctx.Context{Ctx: ctx}, &types.Section{
			ID:         uuid.New(),
			DocumentID: doc.ID,
			Index:      i,
			Heading:    ch.Heading,
			Content:    ch.Text,
			Slug:       segment.Slugify(ch.Heading),
			TokenCount: tokens,
			Embedding:  datatypes.JSON(vec),
		})
		if err != nil {
			span.SetStatus(codes.Error, "create section")
			log.Error("create section failed", "chunk", i, "error", err)
			return out, fmt.Errorf("ingest_document: %w: create section %d: %w", ErrIngestFailure, i, err)
		}
		out.Sections = append(out.Sections, sec)
	}

	log.Info("document ingested", "sections", len(out.Sections))
	return out, nil
}
