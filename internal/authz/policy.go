// AngelaMos | 2026
// policy.go

// Package authz holds the single role/action table every service consults
// before mutating state.
package authz

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/stockhub/internal/core"
)

const (
	RoleUser        = "user"
	RoleContributor = "contributor"
	RoleAdmin       = "admin"
)

type Action string

const (
	ActionBrowseAssets     Action = "asset:browse"
	ActionUploadAsset      Action = "asset:upload"
	ActionUpdateOwnAsset   Action = "asset:update_own"
	ActionDeleteOwnAsset   Action = "asset:delete_own"
	ActionViewAnyAsset     Action = "asset:view_any"
	ActionManageAnyAsset   Action = "asset:manage_any"
	ActionModerate         Action = "moderation:transition"
	ActionModerationQueue  Action = "moderation:queue"
	ActionManageCart       Action = "cart:manage"
	ActionCheckout         Action = "purchase:checkout"
	ActionViewAnyPurchase  Action = "purchase:view_any"
	ActionManageUsers      Action = "user:manage"
	ActionViewSystemStatus Action = "system:stats"
)

// Principal is the caller identity resolved by the authentication layer.
// The zero value is an anonymous caller.
type Principal struct {
	UserID int64
	Role   string
}

func Anonymous() Principal {
	return Principal{}
}

func (p Principal) IsAuthenticated() bool {
	return p.UserID != 0 && p.Role != ""
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) Owns(authorID int64) bool {
	return p.IsAuthenticated() && p.UserID == authorID
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleContributor, RoleAdmin:
		return true
	default:
		return false
	}
}

var everyone = []string{"", RoleUser, RoleContributor, RoleAdmin}
var members = []string{RoleUser, RoleContributor, RoleAdmin}

// Policy maps {role, action} to allow. Anything absent is denied.
type Policy struct {
	rules map[string]map[Action]struct{}
}

func NewPolicy(grants map[Action][]string) *Policy {
	p := &Policy{rules: make(map[string]map[Action]struct{})}
	for action, roles := range grants {
		for _, role := range roles {
			if p.rules[role] == nil {
				p.rules[role] = make(map[Action]struct{})
			}
			p.rules[role][action] = struct{}{}
		}
	}
	return p
}

// DefaultPolicy is the marketplace access table.
func DefaultPolicy() *Policy {
	return NewPolicy(map[Action][]string{
		ActionBrowseAssets:     everyone,
		ActionUploadAsset:      {RoleContributor, RoleAdmin},
		ActionUpdateOwnAsset:   {RoleContributor, RoleAdmin},
		ActionDeleteOwnAsset:   {RoleContributor, RoleAdmin},
		ActionViewAnyAsset:     {RoleAdmin},
		ActionManageAnyAsset:   {RoleAdmin},
		ActionModerate:         {RoleAdmin},
		ActionModerationQueue:  {RoleAdmin},
		ActionManageCart:       members,
		ActionCheckout:         members,
		ActionViewAnyPurchase:  {RoleAdmin},
		ActionManageUsers:      {RoleAdmin},
		ActionViewSystemStatus: {RoleAdmin},
	})
}

func (p *Policy) Allowed(principal Principal, action Action) bool {
	role := principal.Role
	if !principal.IsAuthenticated() {
		role = ""
	}
	_, ok := p.rules[role][action]
	return ok
}

// Authorize returns a wrapped core.ErrUnauthorized for anonymous callers
// denied an action, and core.ErrForbidden for authenticated ones.
func (p *Policy) Authorize(principal Principal, action Action) error {
	if p.Allowed(principal, action) {
		return nil
	}
	if !principal.IsAuthenticated() {
		return fmt.Errorf("%s: %w", action, core.ErrUnauthorized)
	}
	return fmt.Errorf("%s as %s: %w", action, principal.Role, core.ErrForbidden)
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey{}).(Principal); ok {
		return p
	}
	return Anonymous()
}
