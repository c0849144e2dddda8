// AngelaMos | 2026
// memory.go

package user

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/carterperez-dev/stockhub/internal/core"
	"github.com/carterperez-dev/stockhub/internal/store"
)

func NewCollection(opts ...store.Option) *store.Collection[User] {
	return store.NewCollection(store.Meta[User]{
		ID: func(u User) int64 { return u.ID },
		Stamp: func(u *User, id int64, at time.Time) {
			u.ID = id
			u.CreatedAt = at
			u.UpdatedAt = at
		},
	}, opts...)
}

type memoryRepository struct {
	users *store.Collection[User]
}

func NewMemoryRepository(users *store.Collection[User]) Repository {
	return &memoryRepository{users: users}
}

func (r *memoryRepository) Create(_ context.Context, user *User) error {
	field := ""
	created, err := r.users.CreateUnique(*user, func(existing User) bool {
		switch {
		case existing.Username == user.Username:
			field = "username"
		case existing.Email == user.Email:
			field = "email"
		default:
			return false
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("%s already exists: %w", field, core.ErrDuplicateKey)
	}

	*user = created
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (*User, error) {
	u, ok := r.users.Get(id)
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return &u, nil
}

func (r *memoryRepository) findOne(op string, match func(User) bool) (*User, error) {
	found := r.users.Filter(match)
	if len(found) == 0 {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return &found[0], nil
}

func (r *memoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	return r.findOne("get user by email", func(u User) bool {
		return u.Email == email
	})
}

func (r *memoryRepository) GetByUsername(
	_ context.Context,
	username string,
) (*User, error) {
	return r.findOne("get user by username", func(u User) bool {
		return u.Username == username
	})
}

func (r *memoryRepository) Update(_ context.Context, user *User) error {
	now := r.users.Now()
	updated, ok := r.users.Update(user.ID, func(stored *User) {
		stored.Role = user.Role
		stored.DisplayName = user.DisplayName
		stored.Bio = user.Bio
		stored.AvatarURL = user.AvatarURL
		stored.UpdatedAt = now
	})
	if !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}

	user.UpdatedAt = updated.UpdatedAt
	return nil
}

func (r *memoryRepository) UpdatePassword(
	_ context.Context,
	id int64,
	passwordHash string,
) error {
	now := r.users.Now()
	_, ok := r.users.Update(id, func(stored *User) {
		stored.PasswordHash = passwordHash
		stored.UpdatedAt = now
	})
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id int64) error {
	if !r.users.Delete(id) {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}
	return nil
}

func (r *memoryRepository) List(
	_ context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()
	search := strings.ToLower(params.Search)

	matched := r.users.Filter(func(u User) bool {
		if params.Role != "" && u.Role != params.Role {
			return false
		}
		if search != "" &&
			!strings.Contains(u.Email, search) &&
			!strings.Contains(u.Username, search) {
			return false
		}
		return true
	})

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := min(params.Offset(), total)
	end := min(start+params.PageSize, total)

	return matched[start:end], total, nil
}

func (r *memoryRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return len(r.users.Filter(func(u User) bool { return u.Email == email })) > 0, nil
}

func (r *memoryRepository) ExistsByUsername(
	_ context.Context,
	username string,
) (bool, error) {
	return len(r.users.Filter(func(u User) bool { return u.Username == username })) > 0, nil
}
