package commands

import (
	"context"

	"probook/internal/domain/user"
	"probook/internal/infra"
	"probook/internal/pkg/errs"
	"probook/internal/pkg/jwt"
	"probook/internal/pkg/password"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errs.New("invalid email or password")
	ErrAuthFailed         = errs.New("authentication failed")
)

// UserCredentials is the read model behind login; the hash never leaves
// the usecase layer.
type UserCredentials struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	Name         string
}

type UserReadStore interface {
	FindByEmail(ctx context.Context, email string) (*UserCredentials, error)
}

type LoginResult struct {
	Token  string
	UserID uuid.UUID
	Role   string
	Name   string
}

type AuthCommands interface {
	Login(ctx context.Context, email, rawPassword string) (*LoginResult, error)
}

type authCommandsImpl struct {
	users UserReadStore
	jwt   *jwt.Service
}

func NewAuthCommands(users UserReadStore, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{users: users, jwt: jwtService}
}

func (a *authCommandsImpl) Login(ctx context.Context, email, rawPassword string) (*LoginResult, error) {
	creds, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		// An unknown email reads the same as a wrong password.
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errs.Mark(err, ErrAuthFailed)
	}

	if err := password.ComparePassword(creds.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := user.NewRole(creds.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthFailed)
	}

	token, err := a.jwt.GenerateToken(creds.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthFailed)
	}

	return &LoginResult{
		Token:  token,
		UserID: creds.ID,
		Role:   role.String(),
		Name:   creds.Name,
	}, nil
}
