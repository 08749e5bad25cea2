package readstore

import (
	"context"
	"strings"

	"probook/internal/infra"
	"probook/internal/infra/db"
	"probook/internal/pkg/pgconv"
	"probook/internal/usecase/commands"
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{db: dbtx}
}

const userByEmailQuery = `
	SELECT id, email, password_hash, role, name
	FROM users
	WHERE email = $1`

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*commands.UserCredentials, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	var creds commands.UserCredentials
	err := r.db.QueryRow(ctx, userByEmailQuery, normalized).Scan(
		&creds.ID, &creds.Email, &creds.PasswordHash, &creds.Role, &creds.Name,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by email", err)
	}
	return &creds, nil
}
