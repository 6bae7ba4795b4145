package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieclub/internal/domain"
	"movieclub/internal/store/sqlite"
)

func TestMessageRepoOpenConversation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := sqlite.NewMessageRepo(db)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	send := func(from, to int64, content string) *domain.Message {
		m := &domain.Message{SenderID: from, ReceiverID: to, Content: content}
		require.NoError(t, repo.Create(ctx, m))
		return m
	}

	send(alice.ID, bob.ID, "hi bob")
	send(bob.ID, alice.ID, "hi alice")
	send(bob.ID, alice.ID, "seen heat?")
	send(carol.ID, alice.ID, "unrelated")

	count, err := repo.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Opening returns both directions oldest first and marks bob's messages
	// read; carol's stays unread.
	msgs, err := repo.OpenConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "hi bob", msgs[0].Content)
	assert.Equal(t, "hi alice", msgs[1].Content)
	assert.Equal(t, "seen heat?", msgs[2].Content)
	assert.True(t, msgs[1].IsRead)
	assert.True(t, msgs[2].IsRead)
	// Alice's own outgoing message is untouched until bob opens.
	assert.False(t, msgs[0].IsRead)

	count, err = repo.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Re-opening changes nothing.
	again, err := repo.OpenConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, again, 3)
	count, err = repo.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMessageRepoListConversations(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := sqlite.NewMessageRepo(db)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	for _, m := range []*domain.Message{
		{SenderID: bob.ID, ReceiverID: alice.ID, Content: "one"},
		{SenderID: bob.ID, ReceiverID: alice.ID, Content: "two"},
		{SenderID: alice.ID, ReceiverID: carol.ID, Content: "hey carol"},
	} {
		require.NoError(t, repo.Create(ctx, m))
	}

	convs, err := repo.ListConversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	// Newest conversation first.
	assert.Equal(t, carol.ID, convs[0].OtherUserID)
	assert.Equal(t, "hey carol", convs[0].LastContent)
	assert.Equal(t, 0, convs[0].UnreadCount)

	assert.Equal(t, bob.ID, convs[1].OtherUserID)
	assert.Equal(t, "two", convs[1].LastContent)
	assert.Equal(t, 2, convs[1].UnreadCount)
}
