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

import "errors"

var (
	// ErrNoIndex indicates the user has no persisted index yet.
	ErrNoIndex = errors.New("no index exists for user")

	// ErrNoContent indicates a source produced no chunks to index.
	ErrNoContent = errors.New("source produced no indexable content")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrLoaderRequired is returned when no loader is provided.
	ErrLoaderRequired = errors.New("loader is required")

	// ErrSplitterRequired is returned when no splitter is provided.
	ErrSplitterRequired = errors.New("splitter is required")

	// ErrLayoutRequired is returned when no layout is provided.
	ErrLayoutRequired = errors.New("layout is required")

	// ErrCorruptIndex indicates a persisted index that cannot be decoded.
	ErrCorruptIndex = errors.New("index file is corrupt")
)
