//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"probook/internal/infra"
	"probook/internal/pkg/jwt"
	"probook/internal/pkg/password"
	"probook/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserStore struct {
	byEmail map[string]*commands.UserCredentials
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (*commands.UserCredentials, error) {
	creds, ok := s.byEmail[email]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return creds, nil
}

func TestAuthCommands_Login(t *testing.T) {
	ctx := context.Background()
	jwtService := jwt.NewService("test-secret", time.Hour)

	hash, err := password.HashPassword("s3cretpass")
	require.NoError(t, err)

	userID := uuid.New()
	store := &stubUserStore{byEmail: map[string]*commands.UserCredentials{
		"ada@example.com": {
			ID:           userID,
			Email:        "ada@example.com",
			PasswordHash: hash,
			Role:         "client",
			Name:         "Ada",
		},
	}}
	auth := commands.NewAuthCommands(store, jwtService)

	t.Run("valid credentials issue a verifiable token", func(t *testing.T) {
		result, err := auth.Login(ctx, "ada@example.com", "s3cretpass")
		require.NoError(t, err)

		assert.Equal(t, userID, result.UserID)
		assert.Equal(t, "client", result.Role)
		assert.Equal(t, "Ada", result.Name)

		claims, err := jwtService.ValidateToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.Login(ctx, "ada@example.com", "wrongpass")
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("unknown email reads the same as a wrong password", func(t *testing.T) {
		_, err := auth.Login(ctx, "nobody@example.com", "s3cretpass")
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})
}
