package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"

	"github.com/orcadive/divelog/internal/client/config"
	"github.com/orcadive/divelog/internal/client/identity"
	"github.com/orcadive/divelog/internal/client/models"
	"github.com/orcadive/divelog/internal/client/repositories/cache"
	"github.com/orcadive/divelog/internal/client/repositories/entries"
	"github.com/orcadive/divelog/internal/client/services"
	"github.com/orcadive/divelog/internal/client/store"
	"github.com/orcadive/divelog/internal/client/syncer"
	"github.com/orcadive/divelog/internal/logging"

	_ "modernc.org/sqlite"
)

// App glues the interactive surface to the sync controller and the
// supporting services. It holds no entry state of its own; every read goes
// through the controller's store.
type App struct {
	config   *config.Config
	log      logging.Logger
	identity *identity.Manager
	ctrl     *syncer.Controller
	export   *services.ExportService
	photos   *services.PhotoService
	reader   *bufio.Reader

	stopIdentity func()
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, err := cache.InitDatabase(ctx, c.CacheDSN)
	if err != nil {
		log.Error(ctx, "error initializing cache database", "error", err)
		return nil, err
	}

	fsClient, err := firestore.NewClient(ctx, c.FirestoreProjectID)
	if err != nil {
		return nil, err
	}

	repo := entries.NewFirestoreRepository(fsClient, log)
	st := store.New()
	ctrl := syncer.New(st, repo, cache.NewSQLiteRepository(db), log)
	ctrl.SetRequestTimeout(c.RequestTimeout)

	idm := identity.NewManager(identity.NewJWTVerifier([]byte(c.SessionSecret)))

	app := &App{
		config:   c,
		log:      log,
		identity: idm,
		ctrl:     ctrl,
		export:   services.NewExportService(ctrl, log),
		photos:   services.NewPhotoService(c, log),
		reader:   bufio.NewReader(os.Stdin),
	}

	// Every sign-in, sign-out and role change re-scopes the subscription.
	app.stopIdentity = idm.OnChange(func(sess *models.Session) {
		if err := ctrl.SetSession(ctx, sess); err != nil {
			log.Error(ctx, "re-scoping subscription failed", "error", err)
		}
	})

	return app, nil
}

func (a *App) isLoggedIn() bool {
	return a.identity.Current() != nil
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.stopIdentity()
	a.Root(ctx)
}
