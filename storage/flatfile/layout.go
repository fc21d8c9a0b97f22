package flatfile

import (
	"os"
	"path/filepath"
)

const (
	usersFileName  = "users.json"
	chatsDirName   = "chats"
	uploadsDirName = "uploads"
	indexFileName  = "semantic.idx"
)

// Layout maps usernames to their locations under a single data root.
// Every persisted artifact of a user lives below UserDir, which is what
// makes concurrent processes for different users safe: they never touch
// the same paths.
type Layout struct {
	root string
}

// NewLayout creates a layout rooted at the given directory.
func NewLayout(root string) *Layout {
	return &Layout{root: root}
}

// Root returns the data root directory.
func (l *Layout) Root() string {
	return l.root
}

// CredentialsPath returns the location of the shared credential record.
func (l *Layout) CredentialsPath() string {
	return filepath.Join(l.root, usersFileName)
}

// UserDir returns the per-user storage area.
func (l *Layout) UserDir(username string) string {
	return filepath.Join(l.root, "user_data", username)
}

// ChatsDir returns the directory holding the user's session records.
func (l *Layout) ChatsDir(username string) string {
	return filepath.Join(l.UserDir(username), chatsDirName)
}

// ChatPath returns the record file for one session.
func (l *Layout) ChatPath(username, chatID string) string {
	return filepath.Join(l.ChatsDir(username), chatID+".json")
}

// IndexPath returns the user's semantic index file.
func (l *Layout) IndexPath(username string) string {
	return filepath.Join(l.UserDir(username), indexFileName)
}

// UploadsDir returns the directory for the user's uploaded source copies.
func (l *Layout) UploadsDir(username string) string {
	return filepath.Join(l.UserDir(username), uploadsDirName)
}

// EnsureUser creates the user's storage area. Safe to call repeatedly;
// partially provisioned areas are completed.
func (l *Layout) EnsureUser(username string) error {
	if err := os.MkdirAll(l.ChatsDir(username), 0o755); err != nil {
		return err
	}
	return os.MkdirAll(l.UploadsDir(username), 0o755)
}
