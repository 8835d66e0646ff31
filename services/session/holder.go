package session

import (
	"context"
	"encoding/json"
	"fmt"

	"videoportalapi/models"
	"videoportalapi/pkg/apperr"
	"videoportalapi/pkg/logger"
)

// Keys written to the Store.
const (
	KeyRole     = "access_role"
	KeyIdentity = "access_identity"
)

// Store is the durable key-value boundary a Holder persists to.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type storedIdentity struct {
	Code    string  `json:"code"`
	GroupID *string `json:"group_id"`
}

// Holder keeps at most one resolved identity. The stored identity never expires
// and is not re-validated against the credential tables.
// A Holder carries no state of its own: every call reads or writes the store,
// so any number of holders over the same store agree.
type Holder struct {
	store Store
}

// NewHolder creates a holder persisting to store.
func NewHolder(store Store) *Holder {
	return &Holder{store: store}
}

// Establish replaces any current identity with id.
// The identity key is written before the role key, so a half-written session reads as none.
func (h *Holder) Establish(ctx context.Context, id models.Identity) error {
	if !id.Role.Valid() {
		return apperr.Validation(fmt.Sprintf("unknown role %q", id.Role))
	}
	payload, err := json.Marshal(storedIdentity{Code: id.Code, GroupID: id.GroupID})
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	if err := h.store.Set(ctx, KeyIdentity, string(payload)); err != nil {
		return apperr.Unavailable("Could not save session", err)
	}
	if err := h.store.Set(ctx, KeyRole, string(id.Role)); err != nil {
		return apperr.Unavailable("Could not save session", err)
	}
	return nil
}

// Current returns the stored identity, or ok=false when there is none.
func (h *Holder) Current(ctx context.Context) (models.Identity, bool, error) {
	roleStr, ok, err := h.store.Get(ctx, KeyRole)
	if err != nil {
		return models.Identity{}, false, apperr.Unavailable("Could not read session", err)
	}
	if !ok {
		return models.Identity{}, false, nil
	}
	role, err := models.ParseRole(roleStr)
	if err != nil {
		logger.Warnf("Stored session has unknown role %q, ignoring it", roleStr)
		return models.Identity{}, false, nil
	}

	raw, ok, err := h.store.Get(ctx, KeyIdentity)
	if err != nil {
		return models.Identity{}, false, apperr.Unavailable("Could not read session", err)
	}
	if !ok {
		return models.Identity{}, false, nil
	}
	var stored storedIdentity
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		logger.Warnf("Stored session identity is unreadable: %v", err)
		return models.Identity{}, false, nil
	}

	return models.Identity{Role: role, Code: stored.Code, GroupID: stored.GroupID}, true, nil
}

// Clear removes the stored identity. Clearing an empty holder is a no-op.
func (h *Holder) Clear(ctx context.Context) error {
	if err := h.store.Delete(ctx, KeyRole); err != nil {
		return apperr.Unavailable("Could not clear session", err)
	}
	if err := h.store.Delete(ctx, KeyIdentity); err != nil {
		return apperr.Unavailable("Could not clear session", err)
	}
	return nil
}
