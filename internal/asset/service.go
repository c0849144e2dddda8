// AngelaMos | 2026
// service.go

package asset

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/stockhub/internal/authz"
	"github.com/carterperez-dev/stockhub/internal/core"
	"github.com/carterperez-dev/stockhub/internal/events"
)

type CreatedEvent struct {
	AssetID  int64  `json:"asset_id"`
	AuthorID int64  `json:"author_id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Price    int64  `json:"price"`
}

type Service struct {
	repo      Repository
	policy    *authz.Policy
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	policy *authz.Policy,
	publisher events.Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		policy:    policy,
		publisher: publisher,
		logger:    logger,
	}
}

// Create stores a new asset owned by the caller. Uploads always start in
// the pending state regardless of what the request carries.
func (s *Service) Create(
	ctx context.Context,
	principal authz.Principal,
	req CreateAssetRequest,
) (*Asset, error) {
	ctx, span := core.StartSpan(ctx, "asset.create",
		attribute.Int64("author_id", principal.UserID))
	defer span.End()

	if err := s.policy.Authorize(principal, authz.ActionUploadAsset); err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}

	if !ValidType(req.Type) {
		return nil, core.ValidationError(fmt.Sprintf("unknown asset type %q", req.Type))
	}
	if !ValidLicense(req.LicenseType) {
		return nil, core.ValidationError(fmt.Sprintf("unknown license type %q", req.LicenseType))
	}
	if req.Price < 0 {
		return nil, core.ValidationError("price must be non-negative")
	}

	a := &Asset{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Type:         req.Type,
		URL:          req.URL,
		ThumbnailURL: req.ThumbnailURL,
		Price:        req.Price,
		AuthorID:     principal.UserID,
		Status:       StatusPending,
		Tags:         NormalizeLabels(req.Tags),
		Categories:   NormalizeLabels(req.Categories),
		LicenseType:  req.LicenseType,
		Width:        req.Width,
		Height:       req.Height,
		Duration:     req.Duration,
		FileSize:     req.FileSize,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "asset uploaded",
		"asset_id", a.ID,
		"author_id", a.AuthorID,
		"type", a.Type,
	)
	events.Emit(ctx, s.publisher, s.logger, events.KeyAssetCreated, CreatedEvent{
		AssetID:  a.ID,
		AuthorID: a.AuthorID,
		Title:    a.Title,
		Type:     a.Type,
		Price:    a.Price,
	})

	return a, nil
}

// Get hides pending and rejected assets from everyone except the author
// and admins by reporting them as not found.
func (s *Service) Get(
	ctx context.Context,
	principal authz.Principal,
	id int64,
) (*Asset, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !a.VisibleTo(principal) {
		return nil, fmt.Errorf("get asset %d: %w", id, core.ErrNotFound)
	}

	return a, nil
}

func (s *Service) authorizeEdit(
	ctx context.Context,
	principal authz.Principal,
	id int64,
	own, other authz.Action,
) (*Asset, error) {
	a, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	action := other
	if principal.Owns(a.AuthorID) {
		action = own
	}
	if err := s.policy.Authorize(principal, action); err != nil {
		return nil, err
	}

	return a, nil
}

// Update merges the provided fields. Status and ownership are not
// editable here.
func (s *Service) Update(
	ctx context.Context,
	principal authz.Principal,
	id int64,
	req UpdateAssetRequest,
) (*Asset, error) {
	a, err := s.authorizeEdit(ctx, principal, id,
		authz.ActionUpdateOwnAsset, authz.ActionManageAnyAsset)
	if err != nil {
		return nil, fmt.Errorf("update asset: %w", err)
	}

	if req.Title != nil {
		a.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		a.Description = req.Description
	}
	if req.Type != nil {
		if !ValidType(*req.Type) {
			return nil, core.ValidationError(fmt.Sprintf("unknown asset type %q", *req.Type))
		}
		a.Type = *req.Type
	}
	if req.URL != nil {
		a.URL = *req.URL
	}
	if req.ThumbnailURL != nil {
		a.ThumbnailURL = *req.ThumbnailURL
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, core.ValidationError("price must be non-negative")
		}
		a.Price = *req.Price
	}
	if req.Tags != nil {
		a.Tags = NormalizeLabels(*req.Tags)
	}
	if req.Categories != nil {
		a.Categories = NormalizeLabels(*req.Categories)
	}
	if req.LicenseType != nil {
		if !ValidLicense(*req.LicenseType) {
			return nil, core.ValidationError(
				fmt.Sprintf("unknown license type %q", *req.LicenseType))
		}
		a.LicenseType = *req.LicenseType
	}
	if req.Width != nil {
		a.Width = req.Width
	}
	if req.Height != nil {
		a.Height = req.Height
	}
	if req.Duration != nil {
		a.Duration = req.Duration
	}
	if req.FileSize != nil {
		a.FileSize = req.FileSize
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Delete(
	ctx context.Context,
	principal authz.Principal,
	id int64,
) error {
	if _, err := s.authorizeEdit(ctx, principal, id,
		authz.ActionDeleteOwnAsset, authz.ActionManageAnyAsset); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "asset deleted",
		"asset_id", id,
		"by", principal.UserID,
	)
	return nil
}

func (s *Service) ListMine(
	ctx context.Context,
	principal authz.Principal,
) ([]Asset, error) {
	if !principal.IsAuthenticated() {
		return nil, fmt.Errorf("list my assets: %w", core.ErrUnauthorized)
	}

	return s.repo.ListByAuthor(ctx, principal.UserID)
}

// Search runs the query over the current approved catalogue and returns
// the requested page plus the total match count.
func (s *Service) Search(ctx context.Context, q Query, page Page) (*SearchResult, error) {
	ctx, span := core.StartSpan(ctx, "asset.search",
		attribute.String("sort", q.Sort),
		attribute.String("type", q.Type),
	)
	defer span.End()

	approved, err := s.repo.ListApproved(ctx)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	matched, err := Search(approved, q)
	if err != nil {
		return nil, err
	}

	page = page.Normalize()
	span.SetAttributes(attribute.Int("results", len(matched)))

	return &SearchResult{
		Items: Paginate(matched, page),
		Total: len(matched),
		Page:  page,
	}, nil
}

func (s *Service) Categories(ctx context.Context) ([]CategoryCount, error) {
	approved, err := s.repo.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	return CategoryFacets(approved), nil
}

func (s *Service) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}
