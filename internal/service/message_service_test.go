package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieclub/internal/domain"
	"movieclub/internal/service"
	"movieclub/internal/store/sqlite"
)

func TestMessageServiceSend(t *testing.T) {
	db := newTestDB(t)
	users := sqlite.NewUserRepo(db)
	svc := service.NewMessageService(sqlite.NewMessageRepo(db), users, testLogger())
	ctx := context.Background()

	alice := createUser(t, db, "alice", domain.RoleUser)
	bob := createUser(t, db, "bob", domain.RoleUser)

	t.Run("Success", func(t *testing.T) {
		msg, err := svc.Send(ctx, alice.ID, bob.ID, "  hi bob  ")
		require.NoError(t, err)
		assert.Equal(t, "hi bob", msg.Content)
		assert.False(t, msg.IsRead)
	})

	t.Run("EmptyContent", func(t *testing.T) {
		_, err := svc.Send(ctx, alice.ID, bob.ID, "   ")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("TooLong", func(t *testing.T) {
		_, err := svc.Send(ctx, alice.ID, bob.ID, strings.Repeat("x", 1001))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("ToSelf", func(t *testing.T) {
		_, err := svc.Send(ctx, alice.ID, alice.ID, "hello me")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("UnknownReceiver", func(t *testing.T) {
		_, err := svc.Send(ctx, alice.ID, 9999, "anyone there")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("InactiveReceiver", func(t *testing.T) {
		require.NoError(t, users.SetActive(ctx, bob.ID, false))
		_, err := svc.Send(ctx, alice.ID, bob.ID, "hi")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, users.SetActive(ctx, bob.ID, true))
	})
}

func TestMessageServiceOpenMarksRead(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewMessageService(sqlite.NewMessageRepo(db), sqlite.NewUserRepo(db), testLogger())
	ctx := context.Background()

	alice := createUser(t, db, "alice", domain.RoleUser)
	bob := createUser(t, db, "bob", domain.RoleUser)

	_, err := svc.Send(ctx, bob.ID, alice.ID, "first")
	require.NoError(t, err)
	_, err = svc.Send(ctx, bob.ID, alice.ID, "second")
	require.NoError(t, err)

	count, err := svc.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	msgs, err := svc.Open(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
	assert.True(t, msgs[0].IsRead)

	count, err = svc.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = svc.Open(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMessageServiceConversations(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewMessageService(sqlite.NewMessageRepo(db), sqlite.NewUserRepo(db), testLogger())
	ctx := context.Background()

	alice := createUser(t, db, "alice", domain.RoleUser)
	bob := createUser(t, db, "bob", domain.RoleUser)

	_, err := svc.Send(ctx, bob.ID, alice.ID, "you up?")
	require.NoError(t, err)

	convs, err := svc.Conversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, bob.ID, convs[0].OtherUserID)
	assert.Equal(t, "bob", convs[0].OtherUsername)
	assert.Equal(t, "you up?", convs[0].LastContent)
	assert.Equal(t, 1, convs[0].UnreadCount)
}
