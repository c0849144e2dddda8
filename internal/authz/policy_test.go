// AngelaMos | 2026
// policy_test.go

package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carterperez-dev/stockhub/internal/core"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	anon := Anonymous()
	buyer := Principal{UserID: 1, Role: RoleUser}
	author := Principal{UserID: 2, Role: RoleContributor}
	admin := Principal{UserID: 3, Role: RoleAdmin}

	tests := []struct {
		name      string
		principal Principal
		action    Action
		allowed   bool
	}{
		{"anonymous may browse", anon, ActionBrowseAssets, true},
		{"anonymous may not use cart", anon, ActionManageCart, false},
		{"user may use cart", buyer, ActionManageCart, true},
		{"user may not upload", buyer, ActionUploadAsset, false},
		{"contributor may upload", author, ActionUploadAsset, true},
		{"contributor may not moderate", author, ActionModerate, false},
		{"admin may moderate", admin, ActionModerate, true},
		{"admin may see queue", admin, ActionModerationQueue, true},
		{"user may not see queue", buyer, ActionModerationQueue, false},
		{"contributor may checkout", author, ActionCheckout, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, p.Allowed(tt.principal, tt.action))
		})
	}
}

func TestAuthorize_ErrorKinds(t *testing.T) {
	p := DefaultPolicy()

	err := p.Authorize(Anonymous(), ActionCheckout)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	err = p.Authorize(Principal{UserID: 1, Role: RoleUser}, ActionModerate)
	assert.ErrorIs(t, err, core.ErrForbidden)

	assert.NoError(t, p.Authorize(Principal{UserID: 9, Role: RoleAdmin}, ActionModerate))
}

func TestAuthorize_RoleWithoutUserIsAnonymous(t *testing.T) {
	p := DefaultPolicy()
	err := p.Authorize(Principal{Role: RoleAdmin}, ActionModerate)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	assert.False(t, FromContext(ctx).IsAuthenticated())

	ctx = WithPrincipal(ctx, Principal{UserID: 5, Role: RoleContributor})
	got := FromContext(ctx)
	assert.Equal(t, int64(5), got.UserID)
	assert.True(t, got.Owns(5))
	assert.False(t, got.Owns(6))
	assert.False(t, got.IsAdmin())
}
