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
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is how many characters consecutive chunks share.
	DefaultChunkOverlap = 200
)

// Splitter cuts extracted text into overlapping chunks sized for embedding.
type Splitter struct {
	inner textsplitter.RecursiveCharacter
}

// SplitterOption configures a Splitter.
type SplitterOption func(*splitterConfig)

type splitterConfig struct {
	chunkSize    int
	chunkOverlap int
}

// WithChunkSize overrides the default chunk size.
func WithChunkSize(size int) SplitterOption {
	return func(c *splitterConfig) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithChunkOverlap overrides the default chunk overlap.
func WithChunkOverlap(overlap int) SplitterOption {
	return func(c *splitterConfig) {
		if overlap >= 0 {
			c.chunkOverlap = overlap
		}
	}
}

// NewSplitter creates a splitter with the default 1000/200 geometry.
func NewSplitter(opts ...SplitterOption) *Splitter {
	cfg := splitterConfig{
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Splitter{
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(cfg.chunkSize),
			textsplitter.WithChunkOverlap(cfg.chunkOverlap),
		),
	}
}

// Split cuts text into chunks, dropping any that are blank after trimming.
func (s *Splitter) Split(text string) ([]string, error) {
	raw, err := s.inner.SplitText(text)
	if err != nil {
		return nil, err
	}
	chunks := make([]string, 0, len(raw))
	for _, chunk := range raw {
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}
