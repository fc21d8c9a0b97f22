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


// Package index builds, persists, and queries per-user semantic indexes.
//
// An index is rebuilt wholesale from a single knowledge source: the source
// is extracted to text, chunked, embedded, and written as one snapshot
// file per user. Replacement is atomic, so a failed rebuild leaves the
// previous index intact. Queries embed the question and rank chunks by
// dot product, which equals cosine similarity for normalized embeddings.
package index
