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


// Package agent runs a retrieval-augmented conversation loop.
//
// The agent exposes a single context_search tool to the chat model.
// Each turn, the model either answers directly or requests searches
// against the user's semantic index; tool results are fed back and the
// loop continues until the model answers or the round limit is hit.
package agent
