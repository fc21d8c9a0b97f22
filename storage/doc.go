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


// Package storage provides the storage abstraction layer for datachat.
//
// This package defines repository interfaces that decouple persistence from
// business logic. The flat-file implementation lives in storage/flatfile.
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages return interface types to
// enforce abstraction:
//
//	repo := flatfile.NewSessionStore(layout)  // returns storage.SessionRepository
//
// # Durable Record Contract
//
// Session records are JSON files of the form
//
//	{"title": "...", "messages": [{"type": "human"|"ai", "content": "..."}]}
//
// The field names and the two type tags are a backward-compatibility
// contract with existing saved sessions and must not change.
//
// # Concurrency
//
// All persisted records are plain files partitioned per username, so
// processes serving different users never contend. Writes to records that
// a concurrent process could read are atomic (write-to-temp-then-rename),
// so readers never observe a partially written file.
package storage
