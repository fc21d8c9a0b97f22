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


package agent

import "errors"

var (
	// ErrChatModelRequired is returned when no chat model is provided.
	ErrChatModelRequired = errors.New("chat model is required")

	// ErrRetrieverRequired is returned when no retriever is provided.
	ErrRetrieverRequired = errors.New("retriever is required")

	// ErrToolLoopExceeded indicates the model kept requesting tool calls
	// past the round limit without producing an answer.
	ErrToolLoopExceeded = errors.New("tool call limit exceeded")

	// ErrEmptyResponse indicates the model returned no usable content.
	ErrEmptyResponse = errors.New("model returned an empty response")
)
