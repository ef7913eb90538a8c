package postgres

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"portfolio-backend-go/internal/models"
	"portfolio-backend-go/internal/password"
	"portfolio-backend-go/internal/storage"
)

type userStore struct {
	db *sqlx.DB
}

func (u userStore) Get(ctx context.Context, id int) (models.User, error) {
	var user models.User
	err := u.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		return user, mapError("get user", err)
	}
	return user, nil
}

func (u userStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := u.db.GetContext(ctx, &user, `SELECT * FROM users WHERE username = $1`, username)
	if err != nil {
		return user, mapError("get user", err)
	}
	return user, nil
}

func (u userStore) Create(ctx context.Context, in models.UserInput) (models.User, error) {
	hashed, err := password.Hash(in.Password)
	if err != nil {
		return models.User{}, err
	}
	var user models.User
	err = u.db.GetContext(ctx, &user, `
INSERT INTO users (username, password, is_admin)
VALUES ($1, $2, $3)
RETURNING *`, in.Username, hashed, in.IsAdmin)
	if err != nil {
		return user, mapError("create user", err)
	}
	return user, nil
}

func (u userStore) Validate(ctx context.Context, username, raw string) (models.User, error) {
	user, err := u.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, storage.ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if !password.Verify(raw, user.Password) {
		return models.User{}, storage.ErrInvalidCredentials
	}
	return user, nil
}

func (u userStore) HasAdmin(ctx context.Context) (bool, error) {
	var exists bool
	if err := u.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE is_admin)`); err != nil {
		return false, mapError("check admin", err)
	}
	return exists, nil
}
