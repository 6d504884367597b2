package access

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"backoffice/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Capability is one resolved permission row. The zero value denies everything
// and hides nothing extra, which is the fail-closed default for any missing
// row or load error.
type Capability struct {
	CanView      bool     `json:"can_view"`
	CanCreate    bool     `json:"can_create"`
	CanEdit      bool     `json:"can_edit"`
	CanDelete    bool     `json:"can_delete"`
	HiddenFields []string `json:"hidden_fields"`
}

func (c Capability) allows(action Action) bool {
	switch action {
	case ActionView:
		return c.CanView
	case ActionCreate:
		return c.CanCreate
	case ActionEdit:
		return c.CanEdit
	case ActionDelete:
		return c.CanDelete
	}
	return false
}

type cacheEntry struct {
	perms     map[string]Capability
	expiresAt time.Time
}

// Gate is a read-through cache over the permissions table. It holds no state
// of its own beyond the TTL cache and is safe to recompute per request.
type Gate struct {
	db    *gorm.DB
	log   *zap.Logger
	ttl   time.Duration
	cache sync.Map // roleID -> cacheEntry
}

func NewGate(db *gorm.DB, log *zap.Logger) *Gate {
	return &Gate{db: db, log: log, ttl: 5 * time.Minute}
}

// permissions loads (or serves from cache) every permission row of a role.
func (g *Gate) permissions(ctx context.Context, roleID uint) (map[string]Capability, error) {
	if entry, ok := g.cache.Load(roleID); ok {
		cached := entry.(cacheEntry)
		if time.Now().Before(cached.expiresAt) {
			return cached.perms, nil
		}
	}

	var rows []model.Permission
	if err := g.db.WithContext(ctx).Where("role_id = ?", roleID).Find(&rows).Error; err != nil {
		return nil, err
	}

	perms := make(map[string]Capability, len(rows))
	for _, row := range rows {
		perms[row.Resource] = Capability{
			CanView:      row.CanView,
			CanCreate:    row.CanCreate,
			CanEdit:      row.CanEdit,
			CanDelete:    row.CanDelete,
			HiddenFields: decodeHiddenFields(row.Resource, row.HiddenFields),
		}
	}

	g.cache.Store(roleID, cacheEntry{perms: perms, expiresAt: time.Now().Add(g.ttl)})
	return perms, nil
}

// capability resolves one (role, resource) pair. Load errors and missing rows
// both deny: authorization must fail closed, never open.
func (g *Gate) capability(ctx context.Context, roleID uint, resource string) Capability {
	perms, err := g.permissions(ctx, roleID)
	if err != nil {
		g.log.Warn("permission load failed, denying",
			zap.Uint("role_id", roleID), zap.String("resource", resource), zap.Error(err))
		return Capability{}
	}
	return perms[resource]
}

func (g *Gate) Can(ctx context.Context, roleID uint, resource string, action Action) bool {
	return g.capability(ctx, roleID, resource).allows(action)
}

func (g *Gate) CanView(ctx context.Context, roleID uint, resource string) bool {
	return g.Can(ctx, roleID, resource, ActionView)
}

func (g *Gate) CanCreate(ctx context.Context, roleID uint, resource string) bool {
	return g.Can(ctx, roleID, resource, ActionCreate)
}

func (g *Gate) CanEdit(ctx context.Context, roleID uint, resource string) bool {
	return g.Can(ctx, roleID, resource, ActionEdit)
}

func (g *Gate) CanDelete(ctx context.Context, roleID uint, resource string) bool {
	return g.Can(ctx, roleID, resource, ActionDelete)
}

// HiddenFields returns the field names that must be redacted from the
// resource's rows for this role.
func (g *Gate) HiddenFields(ctx context.Context, roleID uint, resource string) []string {
	return g.capability(ctx, roleID, resource).HiddenFields
}

// Payload assembles the per-resource capability map the frontend fetches once
// per page load to gate its buttons and columns. Server-side redaction stays
// authoritative; this is UX only.
func (g *Gate) Payload(ctx context.Context, roleID uint) map[string]Capability {
	perms, err := g.permissions(ctx, roleID)
	if err != nil {
		g.log.Warn("permission payload load failed", zap.Uint("role_id", roleID), zap.Error(err))
		perms = map[string]Capability{}
	}
	payload := make(map[string]Capability, len(Resources))
	for _, resource := range Resources {
		c := perms[resource]
		if c.HiddenFields == nil {
			c.HiddenFields = []string{}
		}
		payload[resource] = c
	}
	return payload
}

// Invalidate drops the cached permissions of one role, or of all roles when
// roleID is zero. Called after every permission write.
func (g *Gate) Invalidate(roleID uint) {
	if roleID == 0 {
		g.cache.Range(func(key, _ interface{}) bool {
			g.cache.Delete(key)
			return true
		})
		return
	}
	g.cache.Delete(roleID)
}

// Redact removes the hidden keys from every row in place.
func Redact(rows []map[string]interface{}, hidden []string) {
	if len(hidden) == 0 {
		return
	}
	for _, row := range rows {
		for _, field := range hidden {
			delete(row, field)
		}
	}
}

// RedactForRole applies the role's configured hidden fields to a response.
func (g *Gate) RedactForRole(ctx context.Context, roleID uint, resource string, rows []map[string]interface{}) {
	Redact(rows, g.HiddenFields(ctx, roleID, resource))
}

// decodeHiddenFields parses the stored JSON array, keeping only fields the
// resource actually declares hideable.
func decodeHiddenFields(resource, raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var fields []string
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil
	}
	allowed := HideableFields[resource]
	out := fields[:0]
	for _, f := range fields {
		for _, a := range allowed {
			if f == a {
				out = append(out, f)
				break
			}
		}
	}
	return out
}
