// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/stockhub/internal/auth"
	"github.com/carterperez-dev/stockhub/internal/authz"
	"github.com/carterperez-dev/stockhub/internal/core"
)

type Service struct {
	repo   Repository
	policy *authz.Policy
}

func NewService(repo Repository, policy *authz.Policy) *Service {
	return &Service{repo: repo, policy: policy}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// GetByLogin resolves an identifier containing "@" as an email address and
// anything else as a username.
func (s *Service) GetByLogin(
	ctx context.Context,
	identifier string,
) (*auth.UserInfo, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	var (
		user *User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.repo.GetByEmail(ctx, identifier)
	} else {
		user, err = s.repo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// Create checks uniqueness before writing so the common conflict is
// reported without touching the store; the repository enforces it
// atomically for concurrent registrations.
func (s *Service) Create(
	ctx context.Context,
	username, email, passwordHash, role string,
) (*auth.UserInfo, error) {
	user := &User{
		Username:     strings.ToLower(strings.TrimSpace(username)),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Role:         role,
	}

	if !authz.ValidRole(user.Role) {
		return nil, fmt.Errorf("create user: invalid role %q: %w", role, core.ErrInvalidInput)
	}

	exists, err := s.repo.ExistsByUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("username already exists: %w", core.ErrDuplicateKey)
	}

	exists, err = s.repo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("email already exists: %w", core.ErrDuplicateKey)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID int64,
	passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetMe(ctx context.Context, principal authz.Principal) (*User, error) {
	if !principal.IsAuthenticated() {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, principal.UserID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	principal authz.Principal,
	req UpdateUserRequest,
) (*User, error) {
	if !principal.IsAuthenticated() {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	return s.updateProfile(ctx, principal.UserID, req)
}

func (s *Service) updateProfile(
	ctx context.Context,
	id int64,
	req UpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) GetUser(
	ctx context.Context,
	principal authz.Principal,
	id int64,
) (*User, error) {
	if err := s.policy.Authorize(principal, authz.ActionManageUsers); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	principal authz.Principal,
	params ListUsersParams,
) ([]User, int, error) {
	if err := s.policy.Authorize(principal, authz.ActionManageUsers); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return s.repo.List(ctx, params)
}

func (s *Service) UpdateUser(
	ctx context.Context,
	principal authz.Principal,
	id int64,
	req UpdateUserRequest,
) (*User, error) {
	if err := s.policy.Authorize(principal, authz.ActionManageUsers); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return s.updateProfile(ctx, id, req)
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	principal authz.Principal,
	id int64,
	role string,
) (*User, error) {
	if err := s.policy.Authorize(principal, authz.ActionManageUsers); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	if !authz.ValidRole(role) {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	if principal.UserID == id && role != authz.RoleAdmin {
		return nil, fmt.Errorf("cannot demote yourself: %w", core.ErrForbidden)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) DeleteUser(
	ctx context.Context,
	principal authz.Principal,
	id int64,
) error {
	if err := s.CanDeleteUser(ctx, principal, id); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

// CanDeleteUser allows self deletion and admin deletion of non-admin users.
func (s *Service) CanDeleteUser(
	ctx context.Context,
	principal authz.Principal,
	targetID int64,
) error {
	if principal.Owns(targetID) {
		return nil
	}

	if err := s.policy.Authorize(principal, authz.ActionManageUsers); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsAdmin() {
		return fmt.Errorf("cannot delete admin users: %w", core.ErrForbidden)
	}

	return nil
}

func (s *Service) CountByRole(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, 3)
	for _, role := range []string{authz.RoleUser, authz.RoleContributor, authz.RoleAdmin} {
		_, total, err := s.repo.List(ctx, ListUsersParams{Role: role, PageSize: 1})
		if err != nil {
			return nil, err
		}
		counts[role] = total
	}
	return counts, nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}
}

var _ auth.UserProvider = (*Service)(nil)
