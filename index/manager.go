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
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/calyptra/datachat/ai"
	"github.com/calyptra/datachat/core"
	"github.com/calyptra/datachat/storage/flatfile"
)

// embedBatchSize is how many chunks go into a single embedding request.
const embedBatchSize = 32

// SourceLoader resolves a source reference to plain text.
type SourceLoader interface {
	Load(ctx context.Context, sourceRef string) (string, error)
}

// TextSplitter cuts text into chunks sized for embedding.
type TextSplitter interface {
	Split(text string) ([]string, error)
}

// Manager builds and loads per-user semantic indexes.
// Rebuilds replace the whole index; embedding runs on a worker pool.
type Manager struct {
	layout   *flatfile.Layout
	embedder ai.Embedder
	loader   SourceLoader
	splitter TextSplitter
	pool     *ants.Pool
	model    string
	logger   *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(m *Manager) error {
		if size < 1 {
			size = 1
		}
		if m.pool != nil {
			m.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		m.pool = pool
		return nil
	}
}

// WithModelName records the embedding model name in built snapshots.
func WithModelName(model string) Option {
	return func(m *Manager) error {
		m.model = model
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewManager creates a new index manager.
func NewManager(
	layout *flatfile.Layout,
	embedder ai.Embedder,
	loader SourceLoader,
	splitter TextSplitter,
	opts ...Option,
) (*Manager, error) {
	if layout == nil {
		return nil, ErrLayoutRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	if splitter == nil {
		return nil, ErrSplitterRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		layout:   layout,
		embedder: embedder,
		loader:   loader,
		splitter: splitter,
		pool:     pool,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(m); optErr != nil {
			m.Release()
			return nil, optErr
		}
	}

	return m, nil
}

// Build rebuilds the user's index from sourceRef and atomically replaces
// any existing index. The previous index stays intact if any stage fails.
func (m *Manager) Build(ctx context.Context, username, sourceRef string) (*Index, error) {
	if err := core.ValidateUsername(username); err != nil {
		return nil, err
	}

	start := time.Now()
	text, err := m.loader.Load(ctx, sourceRef)
	if err != nil {
		return nil, err
	}

	chunks, err := m.splitter.Split(text)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoContent, sourceRef)
	}

	vectors, err := m.embedAll(ctx, chunks)
	if err != nil {
		return nil, err
	}

	snapshot := core.IndexSnapshot{
		Source:    sourceRef,
		Model:     m.model,
		CreatedAt: time.Now().UTC(),
		Chunks:    make([]core.Chunk, len(chunks)),
	}
	for i, chunk := range chunks {
		snapshot.Chunks[i] = core.Chunk{Text: chunk, Vector: vectors[i]}
	}

	if err := m.layout.EnsureUser(username); err != nil {
		return nil, err
	}
	if err := flatfile.WriteFileAtomic(m.layout.IndexPath(username), MarshalSnapshot(&snapshot), 0o644); err != nil {
		return nil, err
	}

	m.logger.Info("index built",
		"user", username,
		"source", sourceRef,
		"chunks", len(snapshot.Chunks),
		"elapsed", time.Since(start))

	return NewIndex(snapshot, m.embedder)
}

// embedAll embeds chunks in fixed-size batches on the worker pool,
// preserving chunk order. The first batch error aborts the whole build.
func (m *Manager) embedAll(ctx context.Context, chunks []string) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for offset := 0; offset < len(chunks); offset += embedBatchSize {
		end := offset + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batchStart, batch := offset, chunks[offset:end]

		wg.Add(1)
		if err := m.pool.Submit(func() {
			defer wg.Done()

			mu.Lock()
			aborted := firstErr != nil
			mu.Unlock()
			if aborted {
				return
			}

			embedded, err := m.embedder.EmbedTexts(ctx, batch)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			for i, vector := range embedded {
				vectors[batchStart+i] = vector
			}
		}); err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return vectors, nil
}

// Load reads the user's persisted index.
// Returns ErrNoIndex when the user has never built one.
func (m *Manager) Load(ctx context.Context, username string) (*Index, error) {
	if err := core.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(m.layout.IndexPath(username))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNoIndex, username)
	}
	if err != nil {
		return nil, err
	}

	snapshot, err := UnmarshalSnapshot(data)
	if err != nil {
		return nil, err
	}
	return NewIndex(*snapshot, m.embedder)
}

// Exists reports whether the user has a persisted index.
func (m *Manager) Exists(username string) bool {
	info, err := os.Stat(m.layout.IndexPath(username))
	return err == nil && !info.IsDir()
}

// Release releases the embedding worker pool.
// The manager should not be used after calling Release.
func (m *Manager) Release() {
	if m.pool != nil {
		m.pool.Release()
	}
}
