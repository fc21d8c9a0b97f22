package core

//go:generate go run ../cmd/musgen

import (
	"time"
)

// SpeakerType identifies the author of a chat message.
type SpeakerType int

const (
	// SpeakerTypeHuman represents a human user.
	SpeakerTypeHuman SpeakerType = iota + 1
	// SpeakerTypeAI represents the AI assistant.
	SpeakerTypeAI
)

// String returns the wire tag for the speaker ("human" or "ai").
func (s SpeakerType) String() string {
	switch s {
	case SpeakerTypeHuman:
		return "human"
	case SpeakerTypeAI:
		return "ai"
	default:
		return "unknown"
	}
}

// Message is a single turn in a conversation. Order within a session is
// the conversation order and is preserved exactly across save/load.
type Message struct {
	Speaker SpeakerType
	Content string
}

// Chunk is a bounded-length slice of extracted document text together with
// its embedding vector. Chunks are the unit of retrieval.
type Chunk struct {
	Text   string
	Vector []float32
}

// IndexSnapshot is the persisted form of a user's semantic index.
// A snapshot is rebuilt wholesale on every ingestion; it never merges with
// a prior snapshot.
type IndexSnapshot struct {
	Source    string
	Model     string
	CreatedAt time.Time
	Chunks    []Chunk
}

// ChatIDPrefix prefixes every session identifier.
const ChatIDPrefix = "chat_"

// NewChatID derives a session identifier from a timestamp.
// Identifiers sort chronologically and are unique per second, which is
// sufficient for a single active session per logged-in user.
func NewChatID(t time.Time) string {
	return ChatIDPrefix + t.Format("20060102_150405")
}

// DefaultTitle is used for sessions that have no human message yet.
const DefaultTitle = "New Chat"

// titleMaxRunes bounds derived titles; longer first messages are truncated
// and marked with an ellipsis.
const titleMaxRunes = 50

// DeriveTitle derives a session title from the first human message.
// Returns DefaultTitle when the session is empty or does not start with a
// human message.
func DeriveTitle(messages []Message) string {
	if len(messages) == 0 || messages[0].Speaker != SpeakerTypeHuman {
		return DefaultTitle
	}
	first := []rune(messages[0].Content)
	if len(first) > titleMaxRunes {
		return string(first[:titleMaxRunes]) + "..."
	}
	return string(first)
}
