// Package visibility decides which catalog videos an identity may see.
package visibility

import (
	"slices"
	"strings"
	"time"

	"videoportalapi/models"
)

// Policy holds the switches of the visibility rule.
type Policy struct {
	// AdminBypassExpiry lets elevated roles see expired videos. Off by default:
	// expiry applies to every role.
	AdminBypassExpiry bool
}

// Query carries the optional post-filters of a listing. They narrow the
// visible set and never widen it.
type Query struct {
	Search  string
	GroupID string
}

// ListVisible applies the default policy.
func ListVisible(catalog []models.Video, id models.Identity, q Query, now time.Time) []models.Video {
	return Policy{}.ListVisible(catalog, id, q, now)
}

// ListVisible returns the videos id may see at now, newest first.
// Videos with equal created_at keep their catalog order.
// catalog is not modified.
func (p Policy) ListVisible(catalog []models.Video, id models.Identity, q Query, now time.Time) []models.Video {
	var allowed func(models.Video) bool

	switch id.Role {
	case models.RoleMainAdmin, models.RoleAdmin, models.RoleModerator:
		allowed = func(v models.Video) bool {
			if !v.IsActive {
				return false
			}
			if v.ExpiredAt(now) && !p.AdminBypassExpiry {
				return false
			}
			return q.GroupID == "" || v.GroupID == q.GroupID
		}
	case models.RoleClient:
		if id.GroupID == nil {
			return []models.Video{}
		}
		scope := *id.GroupID
		allowed = func(v models.Video) bool {
			return v.GroupID == scope && v.IsActive && !v.ExpiredAt(now)
		}
	default:
		return []models.Video{}
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]models.Video, 0, len(catalog))
	for _, v := range catalog {
		if !allowed(v) {
			continue
		}
		if search != "" && !matches(v, search) {
			continue
		}
		out = append(out, v)
	}

	slices.SortStableFunc(out, func(a, b models.Video) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func matches(v models.Video, needle string) bool {
	if strings.Contains(strings.ToLower(v.Name), needle) {
		return true
	}
	return v.Description != nil && strings.Contains(strings.ToLower(*v.Description), needle)
}
