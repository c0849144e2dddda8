// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// RefreshToken is one link in a rotation family. Only the hash of the
// opaque token is stored.
type RefreshToken struct {
	ID           string     `db:"id"`
	UserID       int64      `db:"user_id"`
	TokenHash    string     `db:"token_hash"`
	FamilyID     string     `db:"family_id"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	IsUsed       bool       `db:"is_used"`
	UsedAt       *time.Time `db:"used_at"`
	RevokedAt    *time.Time `db:"revoked_at"`
	ReplacedByID *string    `db:"replaced_by_id"`
	UserAgent    string     `db:"user_agent"`
	IPAddress    string     `db:"ip_address"`
}

type TokenState int

const (
	TokenActive TokenState = iota
	TokenRotated
	TokenRevoked
	TokenExpired
)

// StateAt classifies the token at now. Reuse of a rotated token takes
// precedence so the caller can revoke the whole family.
func (t *RefreshToken) StateAt(now time.Time) TokenState {
	switch {
	case t.IsUsed:
		return TokenRotated
	case t.RevokedAt != nil:
		return TokenRevoked
	case !now.Before(t.ExpiresAt):
		return TokenExpired
	default:
		return TokenActive
	}
}

func (t *RefreshToken) ActiveAt(now time.Time) bool {
	return t.StateAt(now) == TokenActive
}

func (t *RefreshToken) rotate(replacedByID string, at time.Time) {
	t.IsUsed = true
	t.UsedAt = &at
	t.ReplacedByID = &replacedByID
}

func (t *RefreshToken) revoke(at time.Time) bool {
	if t.RevokedAt != nil {
		return false
	}
	t.RevokedAt = &at
	return true
}

func (t *RefreshToken) Session() SessionInfo {
	return SessionInfo{
		ID:        t.ID,
		UserAgent: t.UserAgent,
		IPAddress: t.IPAddress,
		CreatedAt: t.CreatedAt,
		ExpiresAt: t.ExpiresAt,
	}
}
