// AngelaMos | 2026
// entity_test.go

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefreshTokenStateAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fresh := func() RefreshToken {
		return RefreshToken{ID: "a", ExpiresAt: now.Add(time.Hour)}
	}

	tok := fresh()
	assert.Equal(t, TokenActive, tok.StateAt(now))
	assert.Equal(t, TokenExpired, tok.StateAt(now.Add(time.Hour)))

	tok = fresh()
	assert.True(t, tok.revoke(now))
	assert.False(t, tok.revoke(now.Add(time.Minute)))
	assert.Equal(t, now, *tok.RevokedAt)
	assert.Equal(t, TokenRevoked, tok.StateAt(now))

	tok = fresh()
	tok.rotate("b", now)
	tok.revoke(now)
	assert.Equal(t, TokenRotated, tok.StateAt(now))
	assert.Equal(t, "b", *tok.ReplacedByID)
	assert.False(t, tok.ActiveAt(now))
}

func TestRefreshTokenSession(t *testing.T) {
	tok := RefreshToken{ID: "s1", UserAgent: "curl", IPAddress: "10.0.0.1"}
	s := tok.Session()
	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, "curl", s.UserAgent)
	assert.Equal(t, "10.0.0.1", s.IPAddress)
}
