package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aceinapril/aceinapril/internal/client/auth"
	"github.com/aceinapril/aceinapril/internal/client/config"
	"github.com/aceinapril/aceinapril/internal/client/guard"
	"github.com/aceinapril/aceinapril/internal/client/recordstore"
	"github.com/aceinapril/aceinapril/internal/client/repositories/kv"
	"github.com/aceinapril/aceinapril/internal/client/session"
	"github.com/aceinapril/aceinapril/internal/client/storage"
	"github.com/aceinapril/aceinapril/internal/logging"
)

// nowFn is a test seam for "today".
var nowFn = time.Now

type App struct {
	config   *config.Config
	auth     *auth.Service
	records  recordstore.Client
	blobs    *storage.BlobStore
	validate *validator.Validate
	log      logging.Logger
	db       *sql.DB
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewText(os.Stderr)

	db, err := session.OpenDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	records := recordstore.NewHTTPClient(c.RecordStoreAddr, c.RecordStoreAPIKey, c.RequestTimeout, log)
	sessions := session.NewStore(kv.NewSQLiteRepository(db), log)
	authService := auth.NewService(records, sessions, log)

	var blobs *storage.BlobStore
	if c.BlobBucket != "" {
		blobs, err = storage.NewBlobStore(ctx, storage.Options{
			Endpoint:      c.BlobEndpoint,
			Region:        c.BlobRegion,
			AccessKey:     c.BlobAccessKey,
			SecretKey:     c.BlobSecretKey,
			Bucket:        c.BlobBucket,
			PublicBaseURL: c.BlobPublicBaseURL,
		})
		if err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	if exp, ok := recordstore.KeyExpiry(c.RecordStoreAPIKey); ok && nowFn().After(exp) {
		log.Warn(ctx, "record store api key is expired", "expired_at", exp)
	}

	return &App{
		config:   c,
		auth:     authService,
		records:  records,
		blobs:    blobs,
		validate: validator.New(),
		log:      log,
		db:       db,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run restores the persisted session and starts the REPL. It blocks until
// the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.auth.Restore(ctx)
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin), a.out)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.CurrentUser() != nil
}

func (a *App) getStatus() string {
	u := a.auth.CurrentUser()
	if u == nil {
		return ""
	}
	return fmt.Sprintf("(%s %s)", u.Username, u.Role)
}

// dispatch evaluates the route guard for a command's destination and either
// runs the command, renders the loading placeholder, or announces the
// redirect. The guarded view never runs on a redirect, not even partially.
func (a *App) dispatch(ctx context.Context, route guard.Route, fn func(context.Context) error) error {
	state := guard.StateFor(a.auth.Initializing(), a.auth.CurrentUser())

	switch d := guard.Decide(state, route); d.Action {
	case guard.ActionShowLoading:
		fmt.Fprintln(a.out, "Loading...")
		return nil
	case guard.ActionRedirect:
		switch d.Target {
		case guard.RouteLogin:
			fmt.Fprintln(a.out, "You are not logged in. Use 'login' first.")
		case guard.RouteHome:
			fmt.Fprintln(a.out, "That page is for admins. Back to today's question:")
			return a.renderHome(ctx)
		}
		return nil
	default:
		return fn(ctx)
	}
}
