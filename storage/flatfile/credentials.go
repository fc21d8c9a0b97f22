package flatfile

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/calyptra/datachat/core"
	"github.com/calyptra/datachat/storage"
	"github.com/go-crypt/x/blake2b"
)

// CredentialStore implements storage.CredentialRepository over a single
// users.json keyed mapping of username to password digest.
type CredentialStore struct {
	layout *Layout
	mu     sync.Mutex
	logger *slog.Logger
}

var _ storage.CredentialRepository = (*CredentialStore)(nil)

// NewCredentialStore creates a credential store rooted at the layout.
//
// Returns storage.CredentialRepository interface to enforce abstraction.
func NewCredentialStore(layout *Layout) storage.CredentialRepository {
	return &CredentialStore{
		layout: layout,
		logger: slog.Default().With("component", "credential-store"),
	}
}

// HashPassword returns the hex BLAKE2b-256 digest of the UTF-8 encoded
// password. The digest is deterministic across runs so verification works
// after process restart.
func HashPassword(password string) string {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(password))
	return hex.EncodeToString(h.Sum(nil))
}

// Register creates a credential for a new user and provisions the user's
// storage area. Returns false if the username is already taken, leaving the
// stored credential unchanged.
func (s *CredentialStore) Register(ctx context.Context, username, password string) (bool, error) {
	if err := core.ValidateUsername(username); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return false, err
	}

	if _, exists := db[username]; exists {
		s.logger.Debug("registration rejected, username taken", "username", username)
		return false, nil
	}

	db[username] = HashPassword(password)
	if err := s.save(db); err != nil {
		return false, err
	}

	// Provision the per-user area. Idempotent, so a crash between the
	// credential write and here is repaired on the next attempt to use it.
	if err := s.layout.EnsureUser(username); err != nil {
		return false, err
	}

	s.logger.Info("registered user", "username", username)
	return true, nil
}

// Verify reports whether the username exists and the password digest
// matches the stored credential.
func (s *CredentialStore) Verify(ctx context.Context, username, password string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return false, err
	}

	stored, ok := db[username]
	return ok && stored == HashPassword(password), nil
}

// load reads the credential mapping, creating an empty record when absent.
func (s *CredentialStore) load() (map[string]string, error) {
	path := s.layout.CredentialsPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := WriteFileAtomic(path, []byte("{}\n"), 0o644); err != nil {
				return nil, fmt.Errorf("creating credential store: %w", err)
			}
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading credential store: %w", err)
	}

	db := map[string]string{}
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parsing credential store: %w", err)
	}
	return db, nil
}

func (s *CredentialStore) save(db map[string]string) error {
	data, err := json.MarshalIndent(db, "", "    ")
	if err != nil {
		return err
	}
	return WriteFileAtomic(s.layout.CredentialsPath(), append(data, '\n'), 0o644)
}
