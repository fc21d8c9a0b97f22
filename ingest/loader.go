// Copyright 2026 Calyptra Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Extractor resolves a local file to plain text.
type Extractor func(ctx context.Context, path string) (string, error)

// Loader resolves a source reference, either a local file path or a URL,
// to extracted plain text. Local files dispatch by extension through an
// explicit extractor map; anything that is not an existing file is treated
// as a URL.
type Loader struct {
	extractors   map[string]Extractor
	fetchTimeout time.Duration
	logger       *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithExtractor registers or replaces the extractor for a file extension.
// The extension must include the leading dot and is matched lowercase.
func WithExtractor(ext string, extractor Extractor) LoaderOption {
	return func(l *Loader) {
		l.extractors[strings.ToLower(ext)] = extractor
	}
}

// WithFetchTimeout sets the timeout for URL fetches.
// Default is 30 seconds.
func WithFetchTimeout(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		if timeout > 0 {
			l.fetchTimeout = timeout
		}
	}
}

// WithLoaderLogger sets a custom logger.
// Default is slog.Default().
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
	}
}

// NewLoader creates a loader with extractors for .pdf, .docx, .txt, and
// .csv files registered.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		extractors: map[string]Extractor{
			".pdf":  extractPDF,
			".docx": extractDOCX,
			".txt":  extractText,
			".csv":  extractCSV,
		},
		fetchTimeout: 30 * time.Second,
		logger:       slog.Default().With("component", "loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves sourceRef to plain text. Existing local files dispatch by
// extension; unknown extensions fail with ErrUnsupportedType. Everything
// else is fetched as a URL. Extraction and fetch failures are wrapped in
// ErrLoadFailed with the cause preserved.
func (l *Loader) Load(ctx context.Context, sourceRef string) (string, error) {
	if info, err := os.Stat(sourceRef); err == nil && !info.IsDir() {
		return l.loadFile(ctx, sourceRef)
	}
	l.logger.Debug("source is not a local file, fetching as URL", "source", sourceRef)
	return l.fetchURL(ctx, sourceRef)
}

func (l *Loader) loadFile(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	extractor, ok := l.extractors[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}

	l.logger.Info("extracting local file", "path", path, "type", ext)
	text, err := extractor(ctx, path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrLoadFailed, path, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyDocument, path)
	}
	return text, nil
}
