// Package cli is the interactive shell over the love-dice service: login,
// rolls, quota inspection and face management.
package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/franciskouaho/love-dice-sub000/internal/cache"
	"github.com/franciskouaho/love-dice-sub000/internal/config"
	"github.com/franciskouaho/love-dice-sub000/internal/logging"
	"github.com/franciskouaho/love-dice-sub000/internal/models"
	"github.com/franciskouaho/love-dice-sub000/internal/quota"
	"github.com/franciskouaho/love-dice-sub000/internal/remote"
	"github.com/franciskouaho/love-dice-sub000/internal/service"
	"github.com/franciskouaho/love-dice-sub000/internal/syncer"
	"github.com/franciskouaho/love-dice-sub000/internal/timex"
)

type App struct {
	config  *config.Config
	service service.Service
	engine  *quota.Engine
	reader  *bufio.Reader

	mu              sync.Mutex
	stopReconciling context.CancelFunc
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	db, err := cache.InitDatabase(ctx, c.CacheDSN)
	if err != nil {
		return nil, err
	}

	clock := timex.NewRealClock()
	store := cache.NewSQLiteStore(db, clock, log)
	httpStore := remote.NewHTTPDocumentStore(c.RemoteBaseURL, c.RemoteAPIKey, c.RequestTimeout, log)
	adapter := remote.NewAdapter(httpStore)

	defaults := models.RemoteConfig{DailyFreeLimit: c.DailyFreeLimit, MaxCustomFaces: 20}
	coord := syncer.New(store, adapter, clock, log, defaults)
	engine := quota.New(coord, adapter, nil, clock, log)
	svc := service.NewLoveDiceService(coord, engine, adapter, store, httpStore, clock, log)

	return &App{
		config:  c,
		service: svc,
		engine:  engine,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.service.Session() != nil
}

// startReconciler launches the quota engine's periodic re-sync for the
// signed-in owner. Stops any previous owner's loop first.
func (a *App) startReconciler(ctx context.Context, ownerID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopReconciling != nil {
		a.stopReconciling()
	}
	rctx, cancel := context.WithCancel(ctx)
	a.stopReconciling = cancel

	go a.engine.StartReconcile(rctx, ownerID, a.config.ReconcileInterval)
}

func (a *App) stopReconciler() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopReconciling != nil {
		a.stopReconciling()
		a.stopReconciling = nil
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.stopReconciler()
	printlnFn("Love Dice CLI (type 'help' for commands)")
	runREPL(ctx, a, bufio.NewScanner(os.Stdin))
}
