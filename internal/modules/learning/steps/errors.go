package steps

import "errors"

var (
	ErrEmptyContent        = errors.New("document has no content")
	ErrInsufficientContent = errors.New("no section has enough content to generate activities")
	ErrIngestFailure       = errors.New("document ingest failed")
)
