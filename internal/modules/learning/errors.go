package learning

import (
	"errors"

	"github.com/yungbote/neurobridge-pathgen/internal/modules/learning/steps"
)

var (
	ErrDocumentNotFound     = errors.New("document not found")
	ErrGenerationInProgress = errors.New("learning path generation already running for document")

	ErrEmptyContent        = steps.ErrEmptyContent
	ErrInsufficientContent = steps.ErrInsufficientContent
	ErrIngestFailure       = steps.ErrIngestFailure
)
