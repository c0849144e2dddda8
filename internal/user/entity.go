// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/stockhub/internal/authz"
)

type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	DisplayName  *string   `db:"display_name"`
	Bio          *string   `db:"bio"`
	AvatarURL    *string   `db:"avatar_url"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == authz.RoleAdmin
}

func (u *User) Principal() authz.Principal {
	return authz.Principal{UserID: u.ID, Role: u.Role}
}
