package service_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieclub/internal/domain"
	"movieclub/internal/security"
	"movieclub/internal/service"
	"movieclub/internal/store/sqlite"
)

func TestUserServiceAdminOperations(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewUserService(sqlite.NewUserRepo(db), security.NewPasswordHasher(4), validator.New(), testLogger())
	ctx := context.Background()

	admin := createUser(t, db, "root", domain.RoleAdmin)
	alice := createUser(t, db, "alice", domain.RoleUser)
	bob := createUser(t, db, "bob", domain.RoleUser)

	t.Run("SetRole", func(t *testing.T) {
		require.NoError(t, svc.SetRole(ctx, admin, alice.ID, domain.RoleModerator))

		got, err := svc.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleModerator, got.Role)

		assert.ErrorIs(t, svc.SetRole(ctx, bob, alice.ID, domain.RoleAdmin), domain.ErrForbidden)
		assert.ErrorIs(t, svc.SetRole(ctx, admin, alice.ID, domain.Role("owner")), domain.ErrInvalidInput)
	})

	t.Run("SetActive", func(t *testing.T) {
		require.NoError(t, svc.SetActive(ctx, admin, bob.ID, false))

		got, err := svc.GetByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)

		assert.ErrorIs(t, svc.SetActive(ctx, bob, alice.ID, false), domain.ErrForbidden)
	})

	t.Run("DeleteOwnAccount", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, bob, bob.ID))
		_, err := svc.GetByID(ctx, bob.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("DeleteOthersForbidden", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, alice, admin.ID), domain.ErrForbidden)
	})
}

func TestUserServiceUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewUserService(sqlite.NewUserRepo(db), security.NewPasswordHasher(4), validator.New(), testLogger())
	ctx := context.Background()

	alice := createUser(t, db, "alice", domain.RoleUser)

	updated, err := svc.UpdateProfile(ctx, alice.ID, service.UpdateProfileInput{
		Email: ptr("alice@example.com"),
		Bio:   ptr("movie enjoyer"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Email)
	assert.Equal(t, "alice@example.com", *updated.Email)

	_, err = svc.UpdateProfile(ctx, alice.ID, service.UpdateProfileInput{Email: ptr("not-an-email")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bob := createUser(t, db, "bob", domain.RoleUser)
	_, err = svc.UpdateProfile(ctx, bob.ID, service.UpdateProfileInput{Email: ptr("alice@example.com")})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
