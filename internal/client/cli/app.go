package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/countryexplorer/internal/client/catalog"
	"github.com/dmitrijs2005/countryexplorer/internal/client/config"
	"github.com/dmitrijs2005/countryexplorer/internal/client/countries"
	"github.com/dmitrijs2005/countryexplorer/internal/client/models"
	"github.com/dmitrijs2005/countryexplorer/internal/client/prefs"
	"github.com/dmitrijs2005/countryexplorer/internal/client/repositories/kv"
	"github.com/dmitrijs2005/countryexplorer/internal/client/session"
	"github.com/dmitrijs2005/countryexplorer/internal/cryptox"
	"github.com/dmitrijs2005/countryexplorer/internal/logging"
)

// Session is the part of session.Manager the CLI depends on.
type Session interface {
	Load(ctx context.Context) error
	Register(ctx context.Context, username, email string, password []byte) (models.User, error)
	Login(ctx context.Context, username string, password []byte) (session.LoginResult, error)
	Logout(ctx context.Context) error
	ToggleFavorite(ctx context.Context, entry models.FavoriteEntry) (bool, error)
	IsFavorite(code string) bool
	Favorites() []models.FavoriteEntry
	CurrentUser() (models.User, bool)
	ClearUserData(ctx context.Context, username string) error
}

type App struct {
	config  *config.Config
	store   kv.Store
	session Session
	source  countries.Source
	prefs   *prefs.Store
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer

	countries []models.Country
	filter    catalog.Filter
	sortField catalog.Field
	sortDir   catalog.Direction
}

// NewApp opens the configured store and builds the services on top of it.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, c.LogLevel, c.LogFormat)

	store, err := kv.Open(ctx, c.StoreDriver, c.StorePath)
	if err != nil {
		logger.Error(ctx, "error opening store", "driver", c.StoreDriver, "path", c.StorePath, "error", err)
		return nil, err
	}

	codec, err := cryptox.NewCodec(c.PasswordCodec)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	a := &App{
		config:  c,
		store:   store,
		session: session.NewManager(store, codec, logger),
		source:  countries.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, logger),
		prefs:   prefs.NewStore(store, logger),
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
	return a, nil
}

// Run restores the previous session and serves the REPL until exit.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.store.Close(); err != nil {
			a.logger.Error(ctx, "error closing store", "error", err)
		}
	}()

	if err := a.session.Load(ctx); err != nil {
		a.logger.Error(ctx, "failed to restore session", "error", err)
	}
	a.syncPrefs(ctx)

	printlnFn("Welcome to Country Explorer (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) isLoggedIn() bool {
	_, ok := a.session.CurrentUser()
	return ok
}

func (a *App) status() string {
	if u, ok := a.session.CurrentUser(); ok {
		return fmt.Sprintf("(%s) ", u.Username)
	}
	return ""
}

// syncPrefs restores the saved filter for the current user, or starts from
// an empty filter when the user changed.
func (a *App) syncPrefs(ctx context.Context) {
	var id string
	if u, ok := a.session.CurrentUser(); ok {
		id = u.ID
	}
	if a.prefs.SyncUser(ctx, id) {
		a.filter = catalog.Filter{}
		return
	}
	a.filter = a.prefs.Load(ctx)
}
