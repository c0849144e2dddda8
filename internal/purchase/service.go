// AngelaMos | 2026
// service.go

package purchase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/stockhub/internal/authz"
	"github.com/carterperez-dev/stockhub/internal/cart"
	"github.com/carterperez-dev/stockhub/internal/core"
	"github.com/carterperez-dev/stockhub/internal/events"
	"github.com/carterperez-dev/stockhub/internal/storage"
)

type CompletedEvent struct {
	UserID      int64   `json:"user_id"`
	PurchaseIDs []int64 `json:"purchase_ids"`
	AssetIDs    []int64 `json:"asset_ids"`
	Total       int64   `json:"total"`
}

type Service struct {
	tx        Transactor
	purchases Repository
	signer    storage.Signer
	policy    *authz.Policy
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(
	tx Transactor,
	purchases Repository,
	signer storage.Signer,
	policy *authz.Policy,
	publisher events.Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		tx:        tx,
		purchases: purchases,
		signer:    signer,
		policy:    policy,
		publisher: publisher,
		logger:    logger,
	}
}

// Checkout buys the listed cart items, or the whole cart when itemIDs is
// empty. Purchases are created and the items removed in one transaction;
// on any failure the cart is left as it was. An empty cart yields no
// purchases and no error.
func (s *Service) Checkout(
	ctx context.Context,
	principal authz.Principal,
	itemIDs []int64,
) ([]Purchase, error) {
	ctx, span := core.StartSpan(ctx, "purchase.checkout",
		attribute.Int64("user_id", principal.UserID),
		attribute.Int("requested_items", len(itemIDs)),
	)
	defer span.End()

	if err := s.policy.Authorize(principal, authz.ActionCheckout); err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	var purchases []Purchase

	// The transactor may re-run this on serialization failures.
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos TxRepositories) error {
		purchases = []Purchase{}

		items, err := repos.Cart.ListByUser(ctx, principal.UserID)
		if err != nil {
			return err
		}

		selected, ok := cart.Cart{UserID: principal.UserID, Items: items}.Select(itemIDs)
		if !ok {
			return fmt.Errorf("checkout: cart item: %w", core.ErrNotFound)
		}
		if len(selected) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(selected))
		for _, item := range selected {
			p, err := s.purchaseItem(ctx, repos, item)
			if err != nil {
				return err
			}
			purchases = append(purchases, *p)
			ids = append(ids, item.ID)
			core.AddSpanEvent(ctx, "purchase.item",
				attribute.Int64("asset_id", item.AssetID),
				attribute.Int64("price", p.Price),
			)
		}

		removed, err := repos.Cart.DeleteByIDs(ctx, principal.UserID, ids)
		if err != nil {
			return err
		}
		if removed != len(ids) {
			return fmt.Errorf(
				"checkout: cart changed during checkout: %w",
				core.ErrNotFound,
			)
		}

		return nil
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	if len(purchases) == 0 {
		return purchases, nil
	}

	event := CompletedEvent{UserID: principal.UserID}
	for _, p := range purchases {
		event.PurchaseIDs = append(event.PurchaseIDs, p.ID)
		event.AssetIDs = append(event.AssetIDs, p.AssetID)
		event.Total += p.Price
	}

	s.logger.InfoContext(ctx, "checkout completed",
		"user_id", principal.UserID,
		"purchases", len(purchases),
		"total", event.Total,
	)
	events.Emit(ctx, s.publisher, s.logger, events.KeyPurchaseCompleted, event)

	return purchases, nil
}

func (s *Service) purchaseItem(
	ctx context.Context,
	repos TxRepositories,
	item cart.Item,
) (*Purchase, error) {
	a, err := repos.Assets.GetByID(ctx, item.AssetID)
	if err != nil {
		return nil, fmt.Errorf("checkout item %d: %w", item.ID, err)
	}

	url, expiry, err := s.signer.SignDownload(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("checkout item %d: %w", item.ID, err)
	}

	p := &Purchase{
		UserID:      item.UserID,
		AssetID:     item.AssetID,
		Price:       item.Price,
		LicenseType: item.LicenseType,
		DownloadURL: url,
		ExpiryDate:  expiry,
	}
	if err := repos.Purchases.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) ListPurchases(
	ctx context.Context,
	principal authz.Principal,
) ([]Purchase, error) {
	if !principal.IsAuthenticated() {
		return nil, fmt.Errorf("list purchases: %w", core.ErrUnauthorized)
	}

	return s.purchases.ListByUser(ctx, principal.UserID)
}

// GetPurchase returns one of the caller's purchases. Admins may read any
// purchase; everyone else sees foreign ids as missing.
func (s *Service) GetPurchase(
	ctx context.Context,
	principal authz.Principal,
	id int64,
) (*Purchase, error) {
	if !principal.IsAuthenticated() {
		return nil, fmt.Errorf("get purchase: %w", core.ErrUnauthorized)
	}

	p, err := s.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.UserID != principal.UserID && !s.policy.Allowed(principal, authz.ActionViewAnyPurchase) {
		return nil, fmt.Errorf("get purchase %d: %w", id, core.ErrNotFound)
	}

	return p, nil
}

func (s *Service) Totals(ctx context.Context) (Totals, error) {
	return s.purchases.Totals(ctx)
}
