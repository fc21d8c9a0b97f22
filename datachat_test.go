package datachat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/datachat/ai/mock"
)

func newTestApp(t *testing.T) (*App, *mock.MockChatModel) {
	t.Helper()
	chatModel := mock.NewMockChatModel()
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), chatModel)
	app, err := NewApp(t.TempDir(), WithProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app, chatModel
}

func TestApp_RegisterAndLogin(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, app.Register(ctx, "alice", "s3cret"))

	session, err := app.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username())
}

func TestApp_DuplicateRegistration(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, app.Register(ctx, "alice", "first"))
	err := app.Register(ctx, "alice", "second")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestApp_LoginRejectsBadCredentials(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, app.Register(ctx, "alice", "s3cret"))

	_, err := app.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = app.Login(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestApp_Components(t *testing.T) {
	app, _ := newTestApp(t)

	assert.NotNil(t, app.Sessions())
	assert.NotNil(t, app.Credentials())
	assert.NotNil(t, app.indexes)
}
