package session

import (
	"context"
	"errors"

	"videoportalapi/models"
	"videoportalapi/pkg/logger"
	"videoportalapi/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Registry hands out one Holder per login session, keyed by an opaque token.
// Holders persist through the session_entries table, so a token stays valid
// across restarts until it is closed.
type Registry struct {
	newStore func(token string) Store
}

// NewRegistry creates a registry backed by the session_entries table.
func NewRegistry() *Registry {
	repo := repository.NewSessionEntryRepository()
	return NewRegistryWithStores(func(token string) Store {
		return NewDBStore(repo, token)
	})
}

// NewRegistryWithStores creates a registry with a custom store per token.
func NewRegistryWithStores(newStore func(token string) Store) *Registry {
	return &Registry{newStore: newStore}
}

// Open starts a session for id and returns its token.
func (r *Registry) Open(ctx context.Context, id models.Identity) (string, error) {
	token := uuid.NewString()
	if err := r.Holder(token).Establish(ctx, id); err != nil {
		return "", err
	}
	logger.Infof("Opened %s session %s", id.Role, token)
	return token, nil
}

// Holder returns the holder of token. Malformed tokens get a holder that never has an identity.
func (r *Registry) Holder(token string) *Holder {
	if _, err := uuid.Parse(token); err != nil {
		return NewHolder(emptyStore{})
	}
	return NewHolder(r.newStore(token))
}

// Close signs the session out. Closing an unknown token is not an error.
func (r *Registry) Close(ctx context.Context, token string) error {
	if err := r.Holder(token).Clear(ctx); err != nil {
		return err
	}
	logger.Infof("Closed session %s", token)
	return nil
}

// dbStore is a Store over one token's rows in session_entries.
type dbStore struct {
	repo  repository.SessionEntryRepository
	token string
}

// NewDBStore creates a Store for token on the given repository.
func NewDBStore(repo repository.SessionEntryRepository, token string) Store {
	return &dbStore{repo: repo, token: token}
}

func (s *dbStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.repo.Get(ctx, nil, s.token, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *dbStore) Set(ctx context.Context, key, value string) error {
	return s.repo.Put(ctx, nil, s.token, key, value)
}

func (s *dbStore) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, nil, s.token, key)
}

type emptyStore struct{}

func (emptyStore) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (emptyStore) Set(context.Context, string, string) error         { return nil }
func (emptyStore) Delete(context.Context, string) error              { return nil }
