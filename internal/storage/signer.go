// AngelaMos | 2026
// signer.go

// Package storage issues the download links handed out with purchases.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/stockhub/internal/asset"
	"github.com/carterperez-dev/stockhub/internal/config"
)

// Signer turns an asset into a download URL. A nil expiry means the link
// does not expire.
type Signer interface {
	SignDownload(ctx context.Context, a *asset.Asset) (string, *time.Time, error)
}

// StaticSigner hands out the stored asset URL unchanged.
type StaticSigner struct{}

func (StaticSigner) SignDownload(_ context.Context, a *asset.Asset) (string, *time.Time, error) {
	if a.URL == "" {
		return "", nil, fmt.Errorf("sign download for asset %d: empty url", a.ID)
	}
	return a.URL, nil, nil
}

func New(ctx context.Context, cfg config.StorageConfig) (Signer, error) {
	switch cfg.Signer {
	case "", config.SignerStatic:
		return StaticSigner{}, nil
	case config.SignerS3:
		return NewS3Signer(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage signer %q", cfg.Signer)
	}
}
