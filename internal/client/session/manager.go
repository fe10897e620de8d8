package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/countryexplorer/internal/client/models"
	"github.com/dmitrijs2005/countryexplorer/internal/client/repositories/kv"
	"github.com/dmitrijs2005/countryexplorer/internal/common"
	"github.com/dmitrijs2005/countryexplorer/internal/cryptox"
	"github.com/dmitrijs2005/countryexplorer/internal/logging"
	"github.com/google/uuid"
)

var ErrInvalidCountryCode = errors.New("country code must not be empty")

var newUserID = func() string { return uuid.NewString() }

// LoginResult reports the outcome of a login attempt. A rejected login is a
// normal result, not an error.
type LoginResult struct {
	Success bool
	User    *models.User
	Message string
}

// Manager owns the signed-in user and their favorites, mirrored to a kv.Store.
type Manager struct {
	mu     sync.Mutex
	store  kv.Store
	codec  cryptox.PasswordCodec
	logger logging.Logger

	state     State
	user      *models.User
	favorites []models.FavoriteEntry
	// keepStored is set when the stored favorites list could not be decoded,
	// so that Logout does not overwrite it with the empty fallback.
	keepStored bool
}

// NewManager returns a Manager in the Uninitialized state. A nil codec means
// cryptox.PlainCodec and a nil logger discards output.
func NewManager(store kv.Store, codec cryptox.PasswordCodec, logger logging.Logger) *Manager {
	if codec == nil {
		codec = cryptox.PlainCodec{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Manager{
		store:  store,
		codec:  codec,
		logger: logger.With("component", "session"),
		state:  StateUninitialized,
	}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrStorageUnavailable, op, err)
}

// Load restores the session persisted by a previous run. Only a store failure
// is returned as an error; in that case the manager ends up signed out.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setState(ctx, StateLoading)

	raw, err := m.store.Get(ctx, userKey())
	if err != nil {
		m.signOut(ctx)
		return storageErr("load current user", err)
	}
	if raw == nil {
		m.signOut(ctx)
		return nil
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil || u.Username == "" {
		m.logger.Warn(ctx, "stored current user is malformed, starting signed out", "error", err)
		m.signOut(ctx)
		return nil
	}

	favs, corrupt, _, err := m.readFavorites(ctx, m.store, u.Username)
	if err != nil {
		m.signOut(ctx)
		return storageErr("load favorites", err)
	}

	m.signIn(ctx, u, favs, corrupt)
	return nil
}

// Register stores the credential for username, creates an empty favorites
// list when the user has none, and signs the new user in. Registering an
// existing username overwrites its credential and keeps its favorites.
func (m *Manager) Register(ctx context.Context, username, email string, password []byte) (models.User, error) {
	if common.IsBlank(username) || common.IsBlank(string(password)) {
		return models.User{}, common.ErrEmptyCredentials
	}

	encoded, err := m.codec.Encode(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to encode password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user := models.User{ID: newUserID(), Username: username, Email: email}
	favs, corrupt, err := m.persistSignIn(ctx, user, func(ctx context.Context, s kv.Store) error {
		return s.Set(ctx, passwordKey(username), encoded)
	})
	if err != nil {
		return models.User{}, storageErr("register", err)
	}

	m.signIn(ctx, user, favs, corrupt)
	m.logger.Info(ctx, "user registered", "username", username)
	return user, nil
}

// Login checks the credential and signs the user in with a fresh ID. An
// unknown username or a wrong password leaves the session untouched.
func (m *Manager) Login(ctx context.Context, username string, password []byte) (LoginResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, err := m.store.Get(ctx, passwordKey(username))
	if err != nil {
		return LoginResult{}, storageErr("read credential", err)
	}
	if stored == nil || !m.codec.Verify(stored, password) {
		m.logger.Debug(ctx, "login rejected", "username", username)
		return LoginResult{Message: common.InvalidCredentialsMessage}, nil
	}

	user := models.User{ID: newUserID(), Username: username}
	favs, corrupt, err := m.persistSignIn(ctx, user, nil)
	if err != nil {
		return LoginResult{}, storageErr("login", err)
	}

	m.signIn(ctx, user, favs, corrupt)
	out := user
	return LoginResult{Success: true, User: &out}, nil
}

// persistSignIn runs pre, makes sure a favorites list exists for user and
// writes the current user record, in one batch where the store allows it.
func (m *Manager) persistSignIn(ctx context.Context, user models.User, pre func(context.Context, kv.Store) error) ([]models.FavoriteEntry, bool, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, false, err
	}

	var (
		favs    []models.FavoriteEntry
		corrupt bool
	)
	err = kv.Atomic(ctx, m.store, func(ctx context.Context, s kv.Store) error {
		if pre != nil {
			if err := pre(ctx, s); err != nil {
				return err
			}
		}
		list, bad, found, err := m.readFavorites(ctx, s, user.Username)
		if err != nil {
			return err
		}
		if !found {
			if err := writeFavorites(ctx, s, user.Username, list); err != nil {
				return err
			}
		}
		if err := s.Set(ctx, userKey(), raw); err != nil {
			return err
		}
		favs, corrupt = list, bad
		return nil
	})
	return favs, corrupt, err
}

// Logout flushes the favorites of the current user and removes the current
// user record. Memory is cleared even when a write fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return nil
	}

	var errs []error
	if !m.keepStored {
		if err := writeFavorites(ctx, m.store, m.user.Username, m.favorites); err != nil {
			errs = append(errs, storageErr("flush favorites", err))
		}
	}
	if err := m.store.Delete(ctx, userKey()); err != nil {
		errs = append(errs, storageErr("delete current user", err))
	}

	m.logger.Info(ctx, "user signed out", "username", m.user.Username)
	m.signOut(ctx)
	return errors.Join(errs...)
}

// AddToFavorites appends entry unless its code is already present. It does
// nothing when signed out.
func (m *Manager) AddToFavorites(ctx context.Context, entry models.FavoriteEntry) error {
	if common.IsBlank(entry.CountryCode) {
		return ErrInvalidCountryCode
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil || m.indexOf(entry.CountryCode) >= 0 {
		return nil
	}

	next := append(slices.Clone(m.favorites), cloneEntry(entry))
	return m.replaceFavorites(ctx, next)
}

// RemoveFromFavorites drops every entry with code and persists the list, even
// when nothing matched. It does nothing when signed out.
func (m *Manager) RemoveFromFavorites(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return nil
	}

	next := slices.DeleteFunc(slices.Clone(m.favorites), func(f models.FavoriteEntry) bool {
		return f.CountryCode == code
	})
	return m.replaceFavorites(ctx, next)
}

// ToggleFavorite removes entry when it is a favorite and adds it otherwise.
// It reports whether the country is a favorite afterwards.
func (m *Manager) ToggleFavorite(ctx context.Context, entry models.FavoriteEntry) (bool, error) {
	if common.IsBlank(entry.CountryCode) {
		return false, ErrInvalidCountryCode
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return false, nil
	}

	if m.indexOf(entry.CountryCode) >= 0 {
		next := slices.DeleteFunc(slices.Clone(m.favorites), func(f models.FavoriteEntry) bool {
			return f.CountryCode == entry.CountryCode
		})
		if err := m.replaceFavorites(ctx, next); err != nil {
			return true, err
		}
		return false, nil
	}

	next := append(slices.Clone(m.favorites), cloneEntry(entry))
	if err := m.replaceFavorites(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manager) replaceFavorites(ctx context.Context, next []models.FavoriteEntry) error {
	if err := writeFavorites(ctx, m.store, m.user.Username, next); err != nil {
		return storageErr("save favorites", err)
	}
	m.favorites = next
	m.keepStored = false
	return nil
}

// IsFavorite reports whether code is among the current user's favorites.
func (m *Manager) IsFavorite(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil && m.indexOf(code) >= 0
}

// Favorites returns a copy of the current user's favorites in insertion
// order. It is empty when signed out.
func (m *Manager) Favorites() []models.FavoriteEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.FavoriteEntry, len(m.favorites))
	for i, f := range m.favorites {
		out[i] = cloneEntry(f)
	}
	return out
}

// CurrentUser returns the signed-in user and true, or false when signed out.
func (m *Manager) CurrentUser() (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return models.User{}, false
	}
	return *m.user, true
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Ready reports whether Load has completed.
func (m *Manager) Ready() bool {
	s := m.State()
	return s == StateSignedIn || s == StateSignedOut
}

// ClearUserData deletes the credential and favorites of username. When
// username is signed in, the session is ended as well.
func (m *Manager) ClearUserData(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.user != nil && m.user.Username == username
	err := kv.Atomic(ctx, m.store, func(ctx context.Context, s kv.Store) error {
		if err := s.Delete(ctx, passwordKey(username)); err != nil {
			return err
		}
		if err := s.Delete(ctx, favoritesKey(username)); err != nil {
			return err
		}
		if current {
			return s.Delete(ctx, userKey())
		}
		return nil
	})
	if err != nil {
		return storageErr("clear user data", err)
	}

	if current {
		m.signOut(ctx)
	}
	m.logger.Info(ctx, "user data cleared", "username", username)
	return nil
}

func (m *Manager) indexOf(code string) int {
	return slices.IndexFunc(m.favorites, func(f models.FavoriteEntry) bool {
		return f.CountryCode == code
	})
}

func (m *Manager) signIn(ctx context.Context, u models.User, favs []models.FavoriteEntry, corrupt bool) {
	m.user = &u
	m.favorites = favs
	m.keepStored = corrupt
	m.setState(ctx, StateSignedIn)
}

func (m *Manager) signOut(ctx context.Context) {
	m.user = nil
	m.favorites = nil
	m.keepStored = false
	m.setState(ctx, StateSignedOut)
}

func (m *Manager) setState(ctx context.Context, s State) {
	if m.state == s {
		return
	}
	m.logger.Debug(ctx, "session state changed", "from", m.state.String(), "to", s.String())
	m.state = s
}

// readFavorites returns the stored list for username. found is false when no
// list is stored. A list that cannot be decoded is reported as corrupt and
// read as empty.
func (m *Manager) readFavorites(ctx context.Context, s kv.Store, username string) (list []models.FavoriteEntry, corrupt, found bool, err error) {
	raw, err := s.Get(ctx, favoritesKey(username))
	if err != nil {
		return nil, false, false, err
	}
	if raw == nil {
		return []models.FavoriteEntry{}, false, false, nil
	}

	var stored []models.FavoriteEntry
	if err := json.Unmarshal(raw, &stored); err != nil {
		m.logger.Warn(ctx, "stored favorites are malformed, treating as empty",
			"username", username, "error", err)
		return []models.FavoriteEntry{}, true, true, nil
	}

	seen := make(map[string]struct{}, len(stored))
	list = make([]models.FavoriteEntry, 0, len(stored))
	for _, f := range stored {
		if _, dup := seen[f.CountryCode]; dup {
			continue
		}
		seen[f.CountryCode] = struct{}{}
		list = append(list, f)
	}
	return list, false, true, nil
}

func writeFavorites(ctx context.Context, s kv.Store, username string, list []models.FavoriteEntry) error {
	if list == nil {
		list = []models.FavoriteEntry{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.Set(ctx, favoritesKey(username), raw)
}

func cloneEntry(f models.FavoriteEntry) models.FavoriteEntry {
	f.Capital = slices.Clone(f.Capital)
	return f
}
