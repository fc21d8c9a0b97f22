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

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/calyptra/datachat/agent"
	"github.com/calyptra/datachat/core"
	"github.com/calyptra/datachat/index"
	"github.com/calyptra/datachat/storage"
	"github.com/calyptra/datachat/storage/flatfile"
)

// Session is the per-login context: the logged-in user, their current
// chat, and a lazily built agent over their semantic index. Sessions are
// safe for use from one goroutine at a time.
type Session struct {
	app      *App
	username string

	mu            sync.Mutex
	agent         *agent.Agent
	currentChatID string
	history       []core.Message
	lastChatAt    time.Time
}

func newSession(app *App, username string) *Session {
	return &Session{app: app, username: username}
}

// Username returns the logged-in user.
func (s *Session) Username() string {
	return s.username
}

// ProcessSource rebuilds the user's index from sourceRef, replacing any
// previous index. The cached agent is discarded so the next question
// uses the new index. Local source files are archived under the user's
// uploads directory for provenance.
func (s *Session) ProcessSource(ctx context.Context, sourceRef string) error {
	if _, err := s.app.indexes.Build(ctx, s.username, sourceRef); err != nil {
		return err
	}

	if info, err := os.Stat(sourceRef); err == nil && !info.IsDir() {
		if err := s.archiveUpload(sourceRef); err != nil {
			// The index is already built; losing the archived copy is
			// not worth failing the ingestion.
			s.app.logger.Warn("could not archive source copy",
				"user", s.username, "source", sourceRef, "err", err)
		}
	}

	s.mu.Lock()
	s.agent = nil
	s.mu.Unlock()
	return nil
}

func (s *Session) archiveUpload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dest := filepath.Join(s.app.layout.UploadsDir(s.username), filepath.Base(path))
	return flatfile.WriteFileAtomic(dest, data, 0o644)
}

// HasIndex reports whether the user has ingested a knowledge source.
func (s *Session) HasIndex() bool {
	return s.app.indexes.Exists(s.username)
}

// ensureAgent loads the persisted index and builds the agent on first
// use after login or after a rebuild.
func (s *Session) ensureAgent(ctx context.Context) (*agent.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.agent != nil {
		return s.agent, nil
	}

	idx, err := s.app.indexes.Load(ctx, s.username)
	if errors.Is(err, index.ErrNoIndex) {
		return nil, fmt.Errorf("%w: %s", ErrNoKnowledgeSource, s.username)
	}
	if err != nil {
		return nil, err
	}

	a, err := agent.New(
		s.app.provider.ChatModel(),
		idx,
		agent.WithSourceName(idx.Source()),
		agent.WithLogger(s.app.logger),
	)
	if err != nil {
		return nil, err
	}
	s.agent = a
	return a, nil
}

// NewChat starts a fresh chat and makes it current.
func (s *Session) NewChat() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentChatID = s.nextChatID()
	s.history = nil
	return s.currentChatID
}

// nextChatID derives a chat ID that is guaranteed not to collide with the
// current chat or any persisted record. IDs have second resolution, so
// chats created in quick succession would otherwise reuse an ID and the
// next save would overwrite the earlier record. Callers must hold s.mu.
func (s *Session) nextChatID() string {
	now := time.Now()
	if !now.After(s.lastChatAt) {
		now = s.lastChatAt.Add(time.Second)
	}
	for {
		id := core.NewChatID(now)
		if id != s.currentChatID {
			_, err := os.Stat(s.app.layout.ChatPath(s.username, id))
			if os.IsNotExist(err) {
				s.lastChatAt = now
				return id
			}
		}
		now = now.Add(time.Second)
	}
}

// OpenChat makes an existing chat current and loads its history.
// Opening a chat that does not exist yields an empty history.
func (s *Session) OpenChat(ctx context.Context, chatID string) error {
	messages, err := s.app.sessions.Load(ctx, s.username, chatID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.currentChatID = chatID
	s.history = messages
	s.mu.Unlock()
	return nil
}

// CurrentChat returns the current chat ID, empty if none is open.
func (s *Session) CurrentChat() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentChatID
}

// History returns a copy of the current chat's messages.
func (s *Session) History() []core.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Message, len(s.history))
	copy(out, s.history)
	return out
}

// ListChats returns the user's chats, most recently updated first.
func (s *Session) ListChats(ctx context.Context) ([]storage.SessionInfo, error) {
	return s.app.sessions.ListAll(ctx, s.username)
}

// DeleteChat removes a chat. Deleting a chat that does not exist is a
// no-op; deleting the current chat also resets the session to no chat.
func (s *Session) DeleteChat(ctx context.Context, chatID string) error {
	if err := s.app.sessions.Delete(ctx, s.username, chatID); err != nil {
		return err
	}

	s.mu.Lock()
	if s.currentChatID == chatID {
		s.currentChatID = ""
		s.history = nil
	}
	s.mu.Unlock()
	return nil
}

// Send asks the agent a question in the context of the current chat.
// A chat is started automatically if none is open. The exchange is
// persisted after a successful reply; if persistence fails the reply is
// still returned alongside an ErrSaveFailed-wrapped error.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if err := core.ValidateMessage(&core.Message{Speaker: core.SpeakerTypeHuman, Content: text}); err != nil {
		return "", err
	}

	a, err := s.ensureAgent(ctx)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.currentChatID == "" {
		s.currentChatID = s.nextChatID()
		s.history = nil
	}
	chatID := s.currentChatID
	history := make([]core.Message, len(s.history))
	copy(history, s.history)
	s.mu.Unlock()

	answer, err := a.Ask(ctx, history, text)
	if err != nil {
		return "", err
	}

	updated := append(history,
		core.Message{Speaker: core.SpeakerTypeHuman, Content: text},
		core.Message{Speaker: core.SpeakerTypeAI, Content: answer},
	)

	s.mu.Lock()
	s.history = updated
	s.mu.Unlock()

	if err := s.app.sessions.Save(ctx, s.username, chatID, updated); err != nil {
		s.app.logger.Error("failed to persist chat", "user", s.username, "chat", chatID, "err", err)
		return answer, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return answer, nil
}
