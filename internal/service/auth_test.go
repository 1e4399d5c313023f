package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastebook/backend/internal/models"
)

func TestRegister(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()

	t.Run("creates user and opens session", func(t *testing.T) {
		user, token, err := auth.Register(ctx, "gordon", " Gordon@Example.com ", "Sup3r-Secret!")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "gordon", user.Username)
		assert.Equal(t, "gordon@example.com", user.Email, "email should be trimmed and lowercased")
		assert.NotEmpty(t, token)
		assert.NotEqual(t, "Sup3r-Secret!", user.PasswordHash)

		claims, err := auth.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "gordon", claims.Username)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, _, err := auth.Register(ctx, "someone_else", "gordon@example.com", "Sup3r-Secret!")
		assert.ErrorIs(t, err, ErrDuplicateIdentity)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		_, _, err := auth.Register(ctx, "gordon", "fresh@example.com", "Sup3r-Secret!")
		assert.ErrorIs(t, err, ErrDuplicateIdentity)
	})

	t.Run("does not persist rejected registrations", func(t *testing.T) {
		var count int64
		require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		_, _, err := auth.Register(ctx, "weakling", "weak@example.com", "password")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "password", verr.Field)
	})

	t.Run("rejects short usernames", func(t *testing.T) {
		_, _, err := auth.Register(ctx, "x", "short@example.com", "Sup3r-Secret!")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "username", verr.Field)
	})
}

func TestLogin(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, _, err := auth.Register(ctx, "julia", "julia@example.com", "Sup3r-Secret!")
	require.NoError(t, err)

	t.Run("by email", func(t *testing.T) {
		user, token, err := auth.Login(ctx, "julia@example.com", "Sup3r-Secret!")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("by username", func(t *testing.T) {
		user, _, err := auth.Login(ctx, "julia", "Sup3r-Secret!")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("email case does not matter", func(t *testing.T) {
		user, _, err := auth.Login(ctx, "Julia@Example.com", "Sup3r-Secret!")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "julia@example.com", "Wr0ng-Secret!")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "nobody@example.com", "Sup3r-Secret!")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestSessionLifecycle(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, token, err := auth.Register(ctx, "marco", "marco@example.com", "Sup3r-Secret!")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(ctx, token)
	require.NoError(t, err)
	require.NotEmpty(t, claims.SessionID)

	require.NoError(t, auth.Logout(ctx, token))

	_, err = auth.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated, "revoked session should not validate")

	assert.NoError(t, auth.Logout(ctx, token), "logging out twice should succeed")
}

func TestLogoutIgnoresBadTokens(t *testing.T) {
	auth, _ := newTestAuthService(t)
	assert.NoError(t, auth.Logout(context.Background(), "not-a-token"))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	for _, token := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		_, err := auth.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthenticated, "token %q", token)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	sessions := NewMemorySessionStore()
	auth := NewAuthService(db, sessions, "secret-one", nil)
	imposter := NewAuthService(db, sessions, "secret-two", nil)

	_, token, err := auth.Register(ctx, "paula", "paula@example.com", "Sup3r-Secret!")
	require.NoError(t, err)

	_, err = imposter.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"valid", "Sup3r-Secret!", true},
		{"too short", "S3cr3t!", false},
		{"too long", "Aa1!" + strings.Repeat("x", 69), false},
		{"no upper case", "sup3r-secret!", false},
		{"no lower case", "SUP3R-SECRET!", false},
		{"no digit", "Super-Secret!", false},
		{"no special character", "Sup3rSecret9", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "password", verr.Field)
		})
	}
}
