// Package prefs persists browse preferences between runs.
//
// Preferences are advisory: read and write failures are logged and the
// caller continues with defaults.
package prefs

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/countryexplorer/internal/client/catalog"
	"github.com/dmitrijs2005/countryexplorer/internal/client/repositories/kv"
	"github.com/dmitrijs2005/countryexplorer/internal/logging"
)

const (
	NamespaceFilters    = "filters"
	NamespaceLastUserID = "lastUserId"
)

var (
	filtersKey    = kv.Key{Namespace: NamespaceFilters}
	lastUserIDKey = kv.Key{Namespace: NamespaceLastUserID}
)

type Store struct {
	store  kv.Store
	logger logging.Logger
}

func NewStore(store kv.Store, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{store: store, logger: logger.With("component", "prefs")}
}

// Load returns the saved filter, or the zero filter when none is saved or it
// cannot be read.
func (s *Store) Load(ctx context.Context) catalog.Filter {
	raw, err := s.store.Get(ctx, filtersKey)
	if err != nil {
		s.logger.Warn(ctx, "failed to read filters", "error", err)
		return catalog.Filter{}
	}
	if raw == nil {
		return catalog.Filter{}
	}

	var f catalog.Filter
	if err := json.Unmarshal(raw, &f); err != nil {
		s.logger.Warn(ctx, "stored filters are malformed, using defaults", "error", err)
		return catalog.Filter{}
	}
	return f
}

func (s *Store) Save(ctx context.Context, f catalog.Filter) {
	raw, err := json.Marshal(f)
	if err != nil {
		s.logger.Warn(ctx, "failed to encode filters", "error", err)
		return
	}
	if err := s.store.Set(ctx, filtersKey, raw); err != nil {
		s.logger.Warn(ctx, "failed to save filters", "error", err)
	}
}

func (s *Store) Reset(ctx context.Context) {
	if err := s.store.Delete(ctx, filtersKey); err != nil {
		s.logger.Warn(ctx, "failed to reset filters", "error", err)
	}
}

// SyncUser clears the saved filter when nobody is signed in or when the
// signed-in user id differs from the last one recorded, then records
// currentID. With no recorded id the filter is kept. An empty currentID
// means signed out. It reports whether filters were reset.
//
// User ids change on every login, so a new login by the same username also
// resets the filter.
func (s *Store) SyncUser(ctx context.Context, currentID string) bool {
	if currentID == "" {
		s.Reset(ctx)
		if err := s.store.Delete(ctx, lastUserIDKey); err != nil {
			s.logger.Warn(ctx, "failed to clear last user id", "error", err)
		}
		return true
	}

	last, err := s.store.Get(ctx, lastUserIDKey)
	if err != nil {
		s.logger.Warn(ctx, "failed to read last user id", "error", err)
	}
	if err == nil {
		switch {
		case last == nil:
			s.saveLastUserID(ctx, currentID)
			return false
		case string(last) == currentID:
			return false
		}
	}

	s.Reset(ctx)
	s.saveLastUserID(ctx, currentID)
	return true
}

func (s *Store) saveLastUserID(ctx context.Context, id string) {
	if err := s.store.Set(ctx, lastUserIDKey, []byte(id)); err != nil {
		s.logger.Warn(ctx, "failed to save last user id", "error", err)
	}
}
