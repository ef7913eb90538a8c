package memory

import (
	"context"

	"portfolio-backend-go/internal/models"
	"portfolio-backend-go/internal/storage"
)

type userTable struct {
	*table[models.User, *models.User, models.UserInput, noPatch[models.User]]
}

// Users are never patched.
type noPatch[E any] struct{}

func (noPatch[E]) ApplyTo(*E) {}

func newUserTable(store *Store) *userTable {
	return &userTable{table: newTable[models.User, *models.User, models.UserInput, noPatch[models.User]](store)}
}

func (u *userTable) Get(ctx context.Context, id int) (models.User, error) {
	return u.table.Get(ctx, id)
}

func (u *userTable) GetByUsername(ctx context.Context, username string) (models.User, error) {
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()
	if user, ok := u.findLocked(username); ok {
		return user, nil
	}
	return models.User{}, storage.ErrNotFound
}

func (u *userTable) findLocked(username string) (models.User, bool) {
	for _, id := range u.order {
		if user := u.rows[id]; user.Username == username {
			return user, true
		}
	}
	return models.User{}, false
}

func (u *userTable) Create(ctx context.Context, in models.UserInput) (models.User, error) {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return u.createLocked(in)
}

func (u *userTable) createLocked(in models.UserInput) (models.User, error) {
	if _, taken := u.findLocked(in.Username); taken {
		return models.User{}, storage.ErrConflict
	}
	row := in.Build()
	row.CreatedAt = u.store.now().UTC()
	u.insertLocked(&row)
	return row, nil
}

func (u *userTable) Validate(ctx context.Context, username, password string) (models.User, error) {
	user, err := u.GetByUsername(ctx, username)
	if err != nil || user.Password != password {
		return models.User{}, storage.ErrInvalidCredentials
	}
	return user, nil
}

func (u *userTable) HasAdmin(ctx context.Context) (bool, error) {
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()
	return u.hasAdminLocked(), nil
}

func (u *userTable) hasAdminLocked() bool {
	for _, user := range u.rows {
		if user.IsAdmin {
			return true
		}
	}
	return false
}
