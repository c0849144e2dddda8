// AngelaMos | 2026
// service.go

package cart

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carterperez-dev/stockhub/internal/asset"
	"github.com/carterperez-dev/stockhub/internal/authz"
	"github.com/carterperez-dev/stockhub/internal/core"
)

type Service struct {
	items  Repository
	assets asset.Repository
	policy *authz.Policy
	logger *slog.Logger
}

func NewService(
	items Repository,
	assets asset.Repository,
	policy *authz.Policy,
	logger *slog.Logger,
) *Service {
	return &Service{
		items:  items,
		assets: assets,
		policy: policy,
		logger: logger,
	}
}

// AddToCart snapshots the asset's current price. The asset only has to
// exist; approval and prior purchases are not checked, and the same asset
// may be added more than once.
func (s *Service) AddToCart(
	ctx context.Context,
	principal authz.Principal,
	assetID int64,
	licenseType string,
) (*Item, error) {
	if err := s.policy.Authorize(principal, authz.ActionManageCart); err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	if !asset.ValidLicense(licenseType) {
		return nil, core.ValidationError(fmt.Sprintf("unknown license type %q", licenseType))
	}

	a, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	item := &Item{
		UserID:      principal.UserID,
		AssetID:     a.ID,
		LicenseType: licenseType,
		Price:       a.Price,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "cart item added",
		"user_id", principal.UserID,
		"asset_id", a.ID,
		"item_id", item.ID,
	)
	return item, nil
}

// RemoveFromCart reports false when the item is already gone or belongs to
// someone else.
func (s *Service) RemoveFromCart(
	ctx context.Context,
	principal authz.Principal,
	itemID int64,
) (bool, error) {
	if err := s.policy.Authorize(principal, authz.ActionManageCart); err != nil {
		return false, fmt.Errorf("remove from cart: %w", err)
	}

	return s.items.Delete(ctx, principal.UserID, itemID)
}

func (s *Service) ClearCart(ctx context.Context, principal authz.Principal) (int, error) {
	if err := s.policy.Authorize(principal, authz.ActionManageCart); err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}

	return s.items.DeleteByUser(ctx, principal.UserID)
}

func (s *Service) ListCart(ctx context.Context, principal authz.Principal) (*Cart, error) {
	if err := s.policy.Authorize(principal, authz.ActionManageCart); err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}

	items, err := s.items.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	return &Cart{UserID: principal.UserID, Items: items}, nil
}
