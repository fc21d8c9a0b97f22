package storage

import (
	"context"

	"github.com/calyptra/datachat/core"
)

// SessionInfo describes one saved chat session in a listing.
type SessionInfo struct {
	ID    string
	Title string
}

// CredentialRepository manages per-user credentials.
// Implementations must be safe for concurrent use within a process; the
// on-disk record is shared between processes.
type CredentialRepository interface {
	// Register creates a credential for a new user and provisions the
	// user's storage area. Returns false (and no error) if the username is
	// already taken; the existing credential is left unchanged.
	Register(ctx context.Context, username, password string) (bool, error)

	// Verify reports whether the username exists and the password matches
	// the stored credential.
	Verify(ctx context.Context, username, password string) (bool, error)
}

// SessionRepository manages persisted chat histories, one record per
// session, partitioned per user.
type SessionRepository interface {
	// Save persists the full ordered message list for a session, deriving
	// the record title from the first human message. The write is atomic
	// and fully replaces any prior record for the session.
	Save(ctx context.Context, username, chatID string, messages []core.Message) error

	// Load returns the ordered message list for a session. A missing or
	// unparsable record yields an empty list, never an error; corruption
	// is treated as "no history".
	Load(ctx context.Context, username, chatID string) ([]core.Message, error)

	// ListAll returns the user's sessions ordered most recently modified
	// first. Unparsable records still appear, with the session id as a
	// fallback title.
	ListAll(ctx context.Context, username string) ([]SessionInfo, error)

	// Delete removes a session record. Deleting a session that does not
	// exist is a no-op, not an error.
	Delete(ctx context.Context, username, chatID string) error
}
