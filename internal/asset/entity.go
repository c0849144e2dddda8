// AngelaMos | 2026
// entity.go

package asset

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/carterperez-dev/stockhub/internal/authz"
)

const (
	TypePhoto        = "photo"
	TypeVideo        = "video"
	TypeVector       = "vector"
	TypeIllustration = "illustration"
	TypeMusic        = "music"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	LicenseStandard = "standard"
	LicenseExtended = "extended"
	LicensePremium  = "premium"
)

var (
	Types    = []string{TypePhoto, TypeVideo, TypeVector, TypeIllustration, TypeMusic}
	Statuses = []string{StatusPending, StatusApproved, StatusRejected}
	Licenses = []string{LicenseStandard, LicenseExtended, LicensePremium}
)

func ValidType(t string) bool { return slices.Contains(Types, t) }
func ValidStatus(s string) bool { return slices.Contains(Statuses, s) }
func ValidLicense(l string) bool { return slices.Contains(Licenses, l) }

type Asset struct {
	ID              int64      `db:"id"`
	Title           string     `db:"title"`
	Description     *string    `db:"description"`
	Type            string     `db:"type"`
	URL             string     `db:"url"`
	ThumbnailURL    string     `db:"thumbnail_url"`
	Price           int64      `db:"price"`
	AuthorID        int64      `db:"author_id"`
	Status          string     `db:"status"`
	Tags            StringList `db:"tags"`
	Categories      StringList `db:"categories"`
	LicenseType     string     `db:"license_type"`
	Width           *int       `db:"width"`
	Height          *int       `db:"height"`
	Duration        *int       `db:"duration"`
	FileSize        *int64     `db:"file_size"`
	ModeratedBy     *int64     `db:"moderated_by"`
	ModeratedAt     *time.Time `db:"moderated_at"`
	RejectionReason *string    `db:"rejection_reason"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

func (a *Asset) IsApproved() bool {
	return a.Status == StatusApproved
}

// VisibleTo reports whether p may see the asset. Approved assets are public;
// pending and rejected ones are limited to the author and admins.
func (a *Asset) VisibleTo(p authz.Principal) bool {
	return a.IsApproved() || p.Owns(a.AuthorID) || p.IsAdmin()
}

func (a Asset) Clone() Asset {
	a.Tags = slices.Clone(a.Tags)
	a.Categories = slices.Clone(a.Categories)
	return a
}

// StringList is a set of labels persisted as a JSONB array.
type StringList []string

// NormalizeLabels trims, lower-cases and de-duplicates labels, dropping
// blanks and keeping first-seen order.
func NormalizeLabels(labels []string) StringList {
	out := make(StringList, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func (l StringList) Contains(label string) bool {
	return slices.Contains(l, label)
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("marshal string list: %w", err)
	}
	return b, nil
}

func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan string list: unsupported type %T", src)
	}

	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("scan string list: %w", err)
	}
	*l = items
	return nil
}
