// AngelaMos | 2026
// memory.go

package auth

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/carterperez-dev/stockhub/internal/core"
)

// memoryRepository keeps refresh tokens keyed by their uuid, so it uses a
// plain map instead of the int64 sequenced store.Collection.
type memoryRepository struct {
	mu     sync.RWMutex
	tokens map[string]RefreshToken
	now    func() time.Time
}

func NewMemoryRepository() Repository {
	return &memoryRepository{
		tokens: make(map[string]RefreshToken),
		now:    time.Now,
	}
}

func (r *memoryRepository) Create(_ context.Context, token *RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[token.ID]; exists {
		return fmt.Errorf("create refresh token: %w", core.ErrDuplicateKey)
	}
	for _, t := range r.tokens {
		if t.TokenHash == token.TokenHash {
			return fmt.Errorf("create refresh token: %w", core.ErrDuplicateKey)
		}
	}

	token.CreatedAt = r.now()
	r.tokens[token.ID] = *token
	return nil
}

func (r *memoryRepository) FindByHash(
	_ context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tokens {
		if t.TokenHash == tokenHash {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
}

func (r *memoryRepository) FindByID(
	_ context.Context,
	id string,
) (*RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[id]
	if !ok {
		return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
	}
	return &t, nil
}

func (r *memoryRepository) MarkAsUsed(
	_ context.Context,
	id, replacedByID string,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[id]
	if !ok || t.IsUsed {
		return fmt.Errorf("mark refresh token as used: %w", core.ErrNotFound)
	}

	t.rotate(replacedByID, r.now())
	r.tokens[id] = t
	return nil
}

func (r *memoryRepository) RevokeByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[id]
	if !ok || !t.revoke(r.now()) {
		return fmt.Errorf("revoke refresh token: %w", core.ErrNotFound)
	}
	r.tokens[id] = t
	return nil
}

func (r *memoryRepository) revokeWhere(match func(RefreshToken) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, t := range r.tokens {
		if match(t) && t.revoke(now) {
			r.tokens[id] = t
		}
	}
}

func (r *memoryRepository) RevokeByFamilyID(
	_ context.Context,
	familyID string,
) error {
	r.revokeWhere(func(t RefreshToken) bool { return t.FamilyID == familyID })
	return nil
}

func (r *memoryRepository) RevokeAllForUser(_ context.Context, userID int64) error {
	r.revokeWhere(func(t RefreshToken) bool { return t.UserID == userID })
	return nil
}

func (r *memoryRepository) GetActiveSessionsForUser(
	_ context.Context,
	userID int64,
) ([]RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	var tokens []RefreshToken
	for _, t := range r.tokens {
		if t.UserID == userID && t.ActiveAt(now) {
			tokens = append(tokens, t)
		}
	}

	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].CreatedAt.After(tokens[j].CreatedAt)
	})
	return tokens, nil
}

func (r *memoryRepository) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-expiredRetention)
	var removed int64
	for id, t := range r.tokens {
		if t.ExpiresAt.Before(cutoff) {
			delete(r.tokens, id)
			removed++
		}
	}
	return removed, nil
}
