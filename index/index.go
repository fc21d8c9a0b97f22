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


package index

import (
	"context"
	"slices"

	"github.com/calyptra/datachat/ai"
	"github.com/calyptra/datachat/core"
)

// DefaultTopK is how many chunks a search returns when the caller does
// not specify a count.
const DefaultTopK = 4

// scored pairs a chunk with its similarity to the query.
type scored struct {
	text  string
	score float32
}

// Index is an in-memory snapshot of one user's embedded chunks.
// It is immutable after construction; a rebuild produces a new Index.
type Index struct {
	snapshot core.IndexSnapshot
	embedder ai.Embedder
}

// NewIndex wraps a snapshot with the embedder used for queries.
func NewIndex(snapshot core.IndexSnapshot, embedder ai.Embedder) (*Index, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	return &Index{snapshot: snapshot, embedder: embedder}, nil
}

// Source returns the reference of the knowledge source this index was
// built from.
func (idx *Index) Source() string {
	return idx.snapshot.Source
}

// Len returns the number of chunks in the index.
func (idx *Index) Len() int {
	return len(idx.snapshot.Chunks)
}

// Search embeds the query and returns the topK most similar chunk texts,
// best first. topK values less than 1 use DefaultTopK.
func (idx *Index) Search(ctx context.Context, query string, topK int) ([]string, error) {
	if topK < 1 {
		topK = DefaultTopK
	}

	vector, err := idx.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]scored, 0, len(idx.snapshot.Chunks))
	for _, chunk := range idx.snapshot.Chunks {
		if len(chunk.Vector) == 0 {
			continue
		}
		results = append(results, scored{
			text:  chunk.Text,
			score: dotProduct(vector, chunk.Vector),
		})
	}

	slices.SortFunc(results, func(a, b scored) int {
		if a.score > b.score {
			return -1
		}
		if a.score < b.score {
			return 1
		}
		return 0
	})

	if len(results) > topK {
		results = results[:topK]
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.text
	}
	return texts, nil
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
