package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"movieclub/internal/domain"
)

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, domain.RoleAdmin.AtLeast(domain.RoleUser))
	assert.True(t, domain.RoleAdmin.AtLeast(domain.RoleModerator))
	assert.True(t, domain.RoleModerator.AtLeast(domain.RoleModerator))
	assert.False(t, domain.RoleModerator.AtLeast(domain.RoleAdmin))
	assert.False(t, domain.RoleUser.AtLeast(domain.RoleModerator))

	// Unknown roles grant nothing, not even "user".
	unknown := domain.Role("superuser")
	assert.False(t, unknown.AtLeast(domain.RoleUser))
	assert.False(t, unknown.Valid())
	assert.True(t, domain.RoleUser.Valid())
}
