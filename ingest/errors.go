package ingest

import "errors"

var (
	// ErrUnsupportedType is returned for local files whose extension has
	// no registered extractor.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrLoadFailed wraps extraction and fetch failures; the underlying
	// cause is preserved in the chain.
	ErrLoadFailed = errors.New("could not load source")

	// ErrEmptyDocument indicates a source that yielded no text.
	ErrEmptyDocument = errors.New("source contains no text")
)
