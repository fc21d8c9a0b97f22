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


package datachat

import "errors"

var (
	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserExists indicates a registration against a taken username.
	ErrUserExists = errors.New("username already exists")

	// ErrNoKnowledgeSource indicates chatting before any source has been
	// ingested for the user.
	ErrNoKnowledgeSource = errors.New("no knowledge source has been ingested")

	// ErrSaveFailed wraps a persistence failure after a reply was already
	// generated; the reply is still returned to the caller.
	ErrSaveFailed = errors.New("could not persist chat session")
)
