package core

import (
	"errors"
	"testing"
)

func TestValidateMessage(t *testing.T) {
	tests := []struct {
		name    string
		message *Message
		wantErr error
	}{
		{
			name:    "valid human message",
			message: &Message{Speaker: SpeakerTypeHuman, Content: "hello"},
			wantErr: nil,
		},
		{
			name:    "valid ai message",
			message: &Message{Speaker: SpeakerTypeAI, Content: "hi there"},
			wantErr: nil,
		},
		{
			name:    "nil message",
			message: nil,
			wantErr: ErrInvalidMessage,
		},
		{
			name:    "empty content",
			message: &Message{Speaker: SpeakerTypeHuman},
			wantErr: ErrEmptyContent,
		},
		{
			name:    "zero speaker type",
			message: &Message{Content: "hello"},
			wantErr: ErrInvalidSpeakerType,
		},
		{
			name:    "out of range speaker type",
			message: &Message{Speaker: SpeakerType(42), Content: "hello"},
			wantErr: ErrInvalidSpeakerType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessage(tt.message)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateMessage() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateMessage() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"plain username", "alice", false},
		{"username with dot", "alice.smith", false},
		{"empty", "", true},
		{"forward slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"dot", ".", true},
		{"dot dot", "..", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}
