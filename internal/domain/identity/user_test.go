package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T) *User {
	t.Helper()
	user, err := NewUser("planner@example.com", "s3cret-pass", RolePlanner)
	require.NoError(t, err)
	user.ClearDomainEvents()
	return user
}

func TestNewUser(t *testing.T) {
	t.Run("creates active user with hashed password", func(t *testing.T) {
		user, err := NewUser("Admin@Example.com", "s3cret-pass", RoleAdmin)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "admin@example.com", user.Email)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
		assert.True(t, user.VerifyPassword("s3cret-pass"))
		assert.False(t, user.VerifyPassword("wrong"))
		assert.True(t, user.IsAdmin())

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "identity.user.created", events[0].EventType())
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "s3cret-pass", RoleViewer)
		require.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("user@example.com", "short", RoleViewer)
		require.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser("user@example.com", "s3cret-pass", UserRole("root"))
		require.Error(t, err)
	})
}

func TestUser_ChangePassword(t *testing.T) {
	t.Run("changes password with correct current password", func(t *testing.T) {
		user := createTestUser(t)

		require.NoError(t, user.ChangePassword("s3cret-pass", "n3w-secret-pass"))
		assert.True(t, user.VerifyPassword("n3w-secret-pass"))
		assert.False(t, user.VerifyPassword("s3cret-pass"))
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		user := createTestUser(t)
		require.Error(t, user.ChangePassword("wrong", "n3w-secret-pass"))
	})
}

func TestUser_LoginTracking(t *testing.T) {
	t.Run("locks after repeated failures and unlocks after the window", func(t *testing.T) {
		user := createTestUser(t)
		now := time.Now()

		for i := 0; i < 5; i++ {
			assert.True(t, user.CanLogin(now) || user.Status == UserStatusLocked)
			user.RecordFailedLogin(now)
		}

		assert.Equal(t, UserStatusLocked, user.Status)
		assert.False(t, user.CanLogin(now))
		require.NotNil(t, user.LockedUntil)

		// lock expires
		assert.True(t, user.CanLogin(user.LockedUntil.Add(time.Minute)))

		user.RecordLogin(user.LockedUntil.Add(time.Minute))
		assert.Equal(t, UserStatusActive, user.Status)
		assert.Zero(t, user.FailedAttempts)
		assert.Nil(t, user.LockedUntil)
	})

	t.Run("deactivated users cannot login", func(t *testing.T) {
		user := createTestUser(t)
		require.NoError(t, user.Deactivate())
		assert.False(t, user.CanLogin(time.Now()))
	})
}

func TestUser_RoleAndStatus(t *testing.T) {
	user := createTestUser(t)

	require.NoError(t, user.SetRole(RoleViewer))
	assert.Equal(t, RoleViewer, user.Role)
	require.Error(t, user.SetRole(UserRole("root")))

	require.NoError(t, user.Deactivate())
	require.Error(t, user.Deactivate())
	require.NoError(t, user.Activate())
	require.Error(t, user.Activate())
}
