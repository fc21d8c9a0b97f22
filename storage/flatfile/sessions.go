package flatfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/calyptra/datachat/core"
	"github.com/calyptra/datachat/storage"
)

// Speaker tags used in the durable session record contract.
const (
	speakerTagHuman = "human"
	speakerTagAI    = "ai"
)

// messageRecord is the serialized form of one message.
// Field names and type tags are a backward-compatibility contract.
type messageRecord struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// sessionRecord is the serialized form of one session file.
type sessionRecord struct {
	Title    string          `json:"title"`
	Messages []messageRecord `json:"messages"`
}

// SessionStore implements storage.SessionRepository with one JSON file per
// session under the user's chats directory.
type SessionStore struct {
	layout *Layout
	logger *slog.Logger
}

var _ storage.SessionRepository = (*SessionStore)(nil)

// NewSessionStore creates a session store rooted at the layout.
//
// Returns storage.SessionRepository interface to enforce abstraction.
func NewSessionStore(layout *Layout) storage.SessionRepository {
	return &SessionStore{
		layout: layout,
		logger: slog.Default().With("component", "session-store"),
	}
}

// Save persists the full ordered message list for a session, replacing any
// prior record atomically.
func (s *SessionStore) Save(ctx context.Context, username, chatID string, messages []core.Message) error {
	if err := core.ValidateUsername(username); err != nil {
		return err
	}
	if err := validateChatID(chatID); err != nil {
		return err
	}

	record := sessionRecord{
		Title:    core.DeriveTitle(messages),
		Messages: make([]messageRecord, 0, len(messages)),
	}
	for _, message := range messages {
		tag, ok := speakerTag(message.Speaker)
		if !ok {
			// Only human and AI turns are part of the record contract.
			continue
		}
		record.Messages = append(record.Messages, messageRecord{
			Type:    tag,
			Content: message.Content,
		})
	}

	data, err := json.MarshalIndent(&record, "", "    ")
	if err != nil {
		return fmt.Errorf("serializing session %s: %w", chatID, err)
	}

	if err := s.layout.EnsureUser(username); err != nil {
		return err
	}
	return WriteFileAtomic(s.layout.ChatPath(username, chatID), append(data, '\n'), 0o644)
}

// Load returns the ordered message list for a session. Missing or
// unparsable records yield an empty list.
func (s *SessionStore) Load(ctx context.Context, username, chatID string) ([]core.Message, error) {
	if err := core.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validateChatID(chatID); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.layout.ChatPath(username, chatID))
	if err != nil {
		if os.IsNotExist(err) {
			return []core.Message{}, nil
		}
		return nil, fmt.Errorf("reading session %s: %w", chatID, err)
	}

	var record sessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		// Corruption is treated as "no history" so the session stays usable.
		s.logger.Warn("unparsable session record, treating as empty",
			"username", username, "chatID", chatID, "err", err)
		return []core.Message{}, nil
	}

	messages := make([]core.Message, 0, len(record.Messages))
	for _, m := range record.Messages {
		speaker, ok := tagSpeaker(m.Type)
		if !ok {
			continue
		}
		messages = append(messages, core.Message{Speaker: speaker, Content: m.Content})
	}
	return messages, nil
}

// ListAll returns the user's sessions ordered most recently modified first.
func (s *SessionStore) ListAll(ctx context.Context, username string) ([]storage.SessionInfo, error) {
	if err := core.ValidateUsername(username); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.layout.ChatsDir(username))
	if err != nil {
		if os.IsNotExist(err) {
			return []storage.SessionInfo{}, nil
		}
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	type sessionFile struct {
		id      string
		modTime time.Time
	}
	files := make([]sessionFile, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, sessionFile{
			id:      strings.TrimSuffix(name, ".json"),
			modTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].modTime.Equal(files[j].modTime) {
			return files[i].modTime.After(files[j].modTime)
		}
		// Chat ids are timestamp-derived, so this keeps ties stable and
		// newest-first.
		return files[i].id > files[j].id
	})

	infos := make([]storage.SessionInfo, 0, len(files))
	for _, f := range files {
		infos = append(infos, storage.SessionInfo{
			ID:    f.id,
			Title: s.readTitle(username, f.id),
		})
	}
	return infos, nil
}

// Delete removes a session record; deleting an absent session is a no-op.
func (s *SessionStore) Delete(ctx context.Context, username, chatID string) error {
	if err := core.ValidateUsername(username); err != nil {
		return err
	}
	if err := validateChatID(chatID); err != nil {
		return err
	}

	err := os.Remove(s.layout.ChatPath(username, chatID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting session %s: %w", chatID, err)
	}
	return nil
}

// readTitle extracts the title of a session record, falling back to the
// session id for unparsable or untitled records.
func (s *SessionStore) readTitle(username, chatID string) string {
	data, err := os.ReadFile(s.layout.ChatPath(username, chatID))
	if err != nil {
		return chatID
	}
	var record sessionRecord
	if err := json.Unmarshal(data, &record); err != nil || record.Title == "" {
		return chatID
	}
	return record.Title
}

// validateChatID rejects ids that cannot serve as a record file name.
func validateChatID(chatID string) error {
	if chatID == "" || strings.ContainsAny(chatID, "/\\") ||
		chatID == "." || chatID == ".." {
		return fmt.Errorf("%w: %q", storage.ErrInvalidChatID, chatID)
	}
	return nil
}

func speakerTag(speaker core.SpeakerType) (string, bool) {
	switch speaker {
	case core.SpeakerTypeHuman:
		return speakerTagHuman, true
	case core.SpeakerTypeAI:
		return speakerTagAI, true
	default:
		return "", false
	}
}

func tagSpeaker(tag string) (core.SpeakerType, bool) {
	switch tag {
	case speakerTagHuman:
		return core.SpeakerTypeHuman, true
	case speakerTagAI:
		return core.SpeakerTypeAI, true
	default:
		return 0, false
	}
}
