// AngelaMos | 2026
// service.go

package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/stockhub/internal/asset"
	"github.com/carterperez-dev/stockhub/internal/authz"
	"github.com/carterperez-dev/stockhub/internal/core"
	"github.com/carterperez-dev/stockhub/internal/events"
)

type ModeratedEvent struct {
	AssetID     int64   `json:"asset_id"`
	AuthorID    int64   `json:"author_id"`
	Status      string  `json:"status"`
	Previous    string  `json:"previous_status"`
	ModeratorID int64   `json:"moderator_id"`
	Reason      *string `json:"reason,omitempty"`
}

type Service struct {
	assets    asset.Repository
	policy    *authz.Policy
	machine   Machine
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(
	assets asset.Repository,
	policy *authz.Policy,
	machine Machine,
	publisher events.Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		assets:    assets,
		policy:    policy,
		machine:   machine,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Approve(
	ctx context.Context,
	principal authz.Principal,
	assetID int64,
) (*asset.Asset, error) {
	return s.transition(ctx, principal, assetID, asset.StatusApproved, "")
}

// Reject marks the asset rejected. A blank reason stores none.
func (s *Service) Reject(
	ctx context.Context,
	principal authz.Principal,
	assetID int64,
	reason string,
) (*asset.Asset, error) {
	return s.transition(ctx, principal, assetID, asset.StatusRejected, reason)
}

func (s *Service) transition(
	ctx context.Context,
	principal authz.Principal,
	assetID int64,
	target string,
	reason string,
) (*asset.Asset, error) {
	ctx, span := core.StartSpan(ctx, "moderation.transition",
		attribute.Int64("asset_id", assetID),
		attribute.String("target", target),
	)
	defer span.End()

	if err := s.policy.Authorize(principal, authz.ActionModerate); err != nil {
		return nil, fmt.Errorf("moderate asset %d: %w", assetID, err)
	}

	var (
		previous string
		rejected *string
	)
	if r := strings.TrimSpace(reason); r != "" && target == asset.StatusRejected {
		rejected = &r
	}

	at := s.now()
	moderator := principal.UserID

	updated, err := s.assets.Transition(ctx, assetID, func(a *asset.Asset) error {
		if err := s.machine.Check(a.Status, target); err != nil {
			return err
		}
		previous = a.Status
		a.Status = target
		a.ModeratedBy = &moderator
		a.ModeratedAt = &at
		a.RejectionReason = rejected
		return nil
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("moderate asset %d: %w", assetID, err)
	}

	s.logger.InfoContext(ctx, "asset moderated",
		"asset_id", updated.ID,
		"from", previous,
		"to", updated.Status,
		"moderator_id", moderator,
	)
	events.Emit(ctx, s.publisher, s.logger, events.KeyAssetModerated, ModeratedEvent{
		AssetID:     updated.ID,
		AuthorID:    updated.AuthorID,
		Status:      updated.Status,
		Previous:    previous,
		ModeratorID: moderator,
		Reason:      rejected,
	})

	return updated, nil
}

// Queue lists assets in the given status, oldest first. An empty status
// means pending.
func (s *Service) Queue(
	ctx context.Context,
	principal authz.Principal,
	status string,
	page asset.Page,
) ([]asset.Asset, int, error) {
	if err := s.policy.Authorize(principal, authz.ActionModerationQueue); err != nil {
		return nil, 0, fmt.Errorf("moderation queue: %w", err)
	}

	if status == "" {
		status = asset.StatusPending
	}
	if !asset.ValidStatus(status) {
		return nil, 0, core.ValidationError(fmt.Sprintf("unknown status %q", status))
	}

	return s.assets.ListByStatus(ctx, status, page.Normalize())
}
