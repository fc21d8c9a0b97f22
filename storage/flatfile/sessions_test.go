package flatfile

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/calyptra/datachat/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessages() []core.Message {
	return []core.Message{
		{Speaker: core.SpeakerTypeHuman, Content: "What does chapter two cover?"},
		{Speaker: core.SpeakerTypeAI, Content: "Chapter two covers the water cycle."},
		{Speaker: core.SpeakerTypeHuman, Content: "Summarize it in one line."},
		{Speaker: core.SpeakerTypeAI, Content: "Water evaporates, condenses, and falls again."},
	}
}

func TestSessionStore_RoundTrip(t *testing.T) {
	layout := NewLayout(t.TempDir())
	store := NewSessionStore(layout)
	ctx := context.Background()

	messages := testMessages()
	require.NoError(t, store.Save(ctx, "alice", "chat_20260101_120000", messages))

	loaded, err := store.Load(ctx, "alice", "chat_20260101_120000")
	require.NoError(t, err)
	assert.Equal(t, messages, loaded)
}

func TestSessionStore_RecordShape(t *testing.T) {
	layout := NewLayout(t.TempDir())
	store := NewSessionStore(layout)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "alice", "chat_20260101_120000", testMessages()))

	// The on-disk shape is a durable contract; check it field by field.
	data, err := os.ReadFile(layout.ChatPath("alice", "chat_20260101_120000"))
	require.NoError(t, err)

	var raw struct {
		Title    string `json:"title"`
		Messages []struct {
			Type    string `json:"type"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "What does chapter two cover?", raw.Title)
	require.Len(t, raw.Messages, 4)
	assert.Equal(t, "human", raw.Messages[0].Type)
	assert.Equal(t, "ai", raw.Messages[1].Type)
	assert.Equal(t, "human", raw.Messages[2].Type)
	assert.Equal(t, "ai", raw.Messages[3].Type)
}

func TestSessionStore_TitleTruncation(t *testing.T) {
	layout := NewLayout(t.TempDir())
	store := NewSessionStore(layout)
	ctx := context.Background()

	long := "What is the capital of France and why is it so famous?"
	require.Greater(t, len(long), 50)
	require.NoError(t, store.Save(ctx, "alice", "chat_a", []core.Message{
		{Speaker: core.SpeakerTypeHuman, Content: long},
	}))

	infos, err := store.ListAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, long[:50]+"...", infos[0].Title)
}

func TestSessionStore_LoadMissing(t *testing.T) {
	store := NewSessionStore(NewLayout(t.TempDir()))

	loaded, err := store.Load(context.Background(), "alice", "chat_nope")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSessionStore_LoadCorrupt(t *testing.T) {
	layout := NewLayout(t.TempDir())
	store := NewSessionStore(layout)
	ctx := context.Background()

	require.NoError(t, layout.EnsureUser("alice"))
	require.NoError(t, os.WriteFile(layout.ChatPath("alice", "chat_bad"), []byte("{not json"), 0o644))

	loaded, err := store.Load(ctx, "alice", "chat_bad")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSessionStore_ListCorruptUsesFallbackTitle(t *testing.T) {
	layout := NewLayout(t.TempDir())
	store := NewSessionStore(layout)
	ctx := context.Background()

	require.NoError(t, layout.EnsureUser("alice"))
	require.NoError(t, os.WriteFile(layout.ChatPath("alice", "chat_bad"), []byte("{not json"), 0o644))

	infos, err := store.ListAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "chat_bad", infos[0].ID)
	assert.Equal(t, "chat_bad", infos[0].Title)
}

func TestSessionStore_ListOrdering(t *testing.T) {
	layout := NewLayout(t.TempDir())
	store := NewSessionStore(layout)
	ctx := context.Background()

	save := func(id, text string) {
		t.Helper()
		require.NoError(t, store.Save(ctx, "alice", id, []core.Message{
			{Speaker: core.SpeakerTypeHuman, Content: text},
		}))
	}

	save("chat_a", "first")
	save("chat_b", "second")
	save("chat_c", "third")

	// Filesystem mtime granularity can be coarse; push chat_a clearly
	// ahead by touching it into the future.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(layout.ChatPath("alice", "chat_a"), future, future))

	infos, err := store.ListAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "chat_a", infos[0].ID)

	ids := []string{infos[0].ID, infos[1].ID, infos[2].ID}
	assert.ElementsMatch(t, []string{"chat_a", "chat_b", "chat_c"}, ids)
}

func TestSessionStore_Delete(t *testing.T) {
	layout := NewLayout(t.TempDir())
	store := NewSessionStore(layout)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "alice", "chat_x", testMessages()))

	require.NoError(t, store.Delete(ctx, "alice", "chat_x"))

	infos, err := store.ListAll(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, infos)

	// Deleting again is a no-op.
	require.NoError(t, store.Delete(ctx, "alice", "chat_x"))
}

func TestSessionStore_SaveOverwrites(t *testing.T) {
	layout := NewLayout(t.TempDir())
	store := NewSessionStore(layout)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "alice", "chat_x", testMessages()))
	shorter := testMessages()[:2]
	require.NoError(t, store.Save(ctx, "alice", "chat_x", shorter))

	loaded, err := store.Load(ctx, "alice", "chat_x")
	require.NoError(t, err)
	assert.Equal(t, shorter, loaded)
}

func TestSessionStore_RejectsInvalidChatID(t *testing.T) {
	store := NewSessionStore(NewLayout(t.TempDir()))
	ctx := context.Background()

	for _, id := range []string{"", "a/b", `a\b`, "..", "."} {
		err := store.Save(ctx, "alice", id, testMessages())
		assert.Error(t, err, "chat id %q", id)
	}
}

func TestSessionStore_ListIgnoresNonRecords(t *testing.T) {
	layout := NewLayout(t.TempDir())
	store := NewSessionStore(layout)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "alice", "chat_x", testMessages()))
	require.NoError(t, os.WriteFile(
		layout.ChatsDir("alice")+string(os.PathSeparator)+"notes.txt", []byte("x"), 0o644))

	infos, err := store.ListAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.True(t, strings.HasPrefix(infos[0].ID, "chat_"))
}
