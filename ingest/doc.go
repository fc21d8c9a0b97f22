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


// Package ingest turns knowledge sources into embedding-ready text chunks.
//
// A source reference is either a path to a local file or a URL. Local
// files dispatch on extension (.pdf, .docx, .txt, .csv); anything else is
// fetched and reduced to readable article text. Extracted text is then
// split into overlapping chunks by a recursive character splitter.
package ingest
