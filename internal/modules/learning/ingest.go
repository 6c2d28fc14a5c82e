package learning

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	types "github.com/yungbote/neurobridge-pathgen/internal/domain"
	"github.com/yungbote/neurobridge-pathgen/internal/modules/learning/steps"
	"github.com/yungbote/neurobridge-pathgen/internal/platform/apierr"
)

type IngestDocumentInput struct {
	Path   string
	Type   string
	Source string
	Text   string
}

// IngestDocument stores the text as a Document with embedded Sections.
func (u Usecases) IngestDocument(ctx context.Context, in IngestDocumentInput) (*types.Document, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, apierr.New(http.StatusUnprocessableEntity, "empty_content", ErrEmptyContent)
	}
	if u.deps.Documents == nil || u.deps.Sections == nil || u.deps.Embedder == nil {
		return nil, apierr.New(http.StatusInternalServerError, "ingest_not_configured", fmt.Errorf("missing deps"))
	}

	out, err := steps.IngestDocument(ctx, steps.IngestDocumentDeps{
		Log:       u.deps.Log,
		Documents: u.deps.Documents,
		Sections:  u.deps.Sections,
		Embedder:  u.deps.Embedder,
	}, steps.IngestDocumentInput{
		Path:         in.Path,
		Type:         in.Type,
		Source:       in.Source,
		Text:         in.Text,
		MaxChunkSize: u.deps.Settings.MaxChunkSize,
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrEmptyContent):
		return nil, apierr.New(http.StatusUnprocessableEntity, "empty_content", err)
	case errors.Is(err, ErrIngestFailure):
		return nil, apierr.New(http.StatusBadGateway, "ingest_failed", err)
	default:
		return nil, apierr.New(http.StatusInternalServerError, "ingest_document_failed", err)
	}
	return out.Document, nil
}
