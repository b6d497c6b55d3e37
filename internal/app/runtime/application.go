package runtime

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"

	app "github.com/conecteai/sales_layer/internal/app"
	"github.com/conecteai/sales_layer/internal/app/httpapi"
	"github.com/conecteai/sales_layer/internal/app/storage/postgres"
	"github.com/conecteai/sales_layer/internal/config"
	"github.com/conecteai/sales_layer/internal/middleware"
	"github.com/conecteai/sales_layer/internal/platform/database"
	"github.com/conecteai/sales_layer/internal/platform/migrations"
	"github.com/conecteai/sales_layer/pkg/logger"
)

const auditRetention = 500

// Application wires core dependencies and manages the HTTP server lifecycle.
type Application struct {
	cfg        *config.Config
	log        *logger.Logger
	app        *app.Application
	httpServer *http.Server
	handler    http.Handler
	audit      *httpapi.AuditLog
	db         *sqlx.DB
	redis      *redis.Client

	mu       sync.Mutex
	listener net.Listener
}

// NewApplication constructs the process from cfg. An empty database DSN
// selects the in-memory store.
func NewApplication(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.New(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		FilePrefix: cfg.Logging.FilePrefix,
	})

	a := &Application{cfg: cfg, log: log}
	ok := false
	defer func() {
		if !ok {
			a.closeResources()
		}
	}()

	stores, err := a.buildStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("configure stores: %w", err)
	}

	a.app, err = app.New(stores, app.TokenSettings{
		Secret: cfg.Auth.Secret,
		Issuer: cfg.Auth.Issuer,
		TTL:    cfg.Auth.TTL,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("build application: %w", err)
	}

	limiter, err := a.buildLimiter()
	if err != nil {
		return nil, fmt.Errorf("configure rate limiter: %w", err)
	}

	a.audit, err = httpapi.NewAuditLog(auditRetention, cfg.Audit.Path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	if a.db != nil {
		db := a.db
		if err := a.app.Schedule("database-ping", "@every 1m", func(ctx context.Context) error {
			return db.PingContext(ctx)
		}); err != nil {
			return nil, err
		}
	}

	a.handler = httpapi.NewHandler(a.app, httpapi.Options{
		Log:          log.Named("httpapi"),
		CORSOrigins:  cfg.CORS.AllowedOrigins,
		Limiter:      limiter,
		Audit:        a.audit,
		AuthDisabled: cfg.Auth.Disabled,
		Ready:        a.ready,
	})
	a.httpServer = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      a.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.Auth.Disabled {
		log.Warn("authentication disabled; entity routes are public")
	}

	ok = true
	return a, nil
}

func (a *Application) buildStores(ctx context.Context) (app.Stores, error) {
	if a.cfg.Database.DSN == "" {
		a.log.Warn("DATABASE_URL not set; using in-memory store")
		return app.Stores{}, nil
	}

	db, err := database.Open(ctx, a.cfg.Database)
	if err != nil {
		return app.Stores{}, err
	}
	a.db = db

	if a.cfg.Database.AutoMigrate {
		if err := migrations.Apply(ctx, db.DB); err != nil {
			return app.Stores{}, fmt.Errorf("apply migrations: %w", err)
		}
		a.log.Info("database migrations applied")
	}

	store := postgres.New(db)
	return app.Stores{
		Customers:  store,
		Products:   store,
		Orders:     store,
		Identities: store,
	}, nil
}

func (a *Application) buildLimiter() (*middleware.RateLimiter, error) {
	rl := a.cfg.RateLimit
	if rl.RequestsPerSecond <= 0 {
		return nil, nil
	}

	var shared middleware.SharedLimiter
	if a.cfg.Redis.URL != "" {
		client, err := middleware.NewRedisClient(a.cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		a.redis = client
		shared = middleware.NewRedisLimiter(client, rl.Burst, time.Second)
	}

	limiter := middleware.NewRateLimiter(rl.RequestsPerSecond, rl.Burst, shared, a.log.Named("ratelimit"))
	if rl.CleanupSchedule != "" {
		idle := rl.IdleTimeout
		log := a.log
		err := a.app.Schedule("ratelimit-cleanup", rl.CleanupSchedule, func(context.Context) error {
			if removed := limiter.Cleanup(idle); removed > 0 {
				log.WithField("removed", removed).Debug("rate limiter clients pruned")
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return limiter, nil
}

func (a *Application) ready(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	return a.db.PingContext(ctx)
}

// Handler exposes the fully wrapped HTTP handler.
func (a *Application) Handler() http.Handler {
	return a.handler
}

// Addr reports the bound listener address once Run has started listening.
func (a *Application) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Run starts background services and the HTTP server and blocks until the
// context is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return fmt.Errorf("start services: %w", err)
	}

	ln, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.httpServer.Addr, err)
	}
	a.mu.Lock()
	a.listener = ln
	a.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", ln.Addr().String()).Info("HTTP server listening")
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server, the background services and
// releases connections.
func (a *Application) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs []error
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if err := a.app.Stop(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	a.closeResources()
	return errors.Join(errs...)
}

func (a *Application) closeResources() {
	if err := a.audit.Close(); err != nil {
		a.log.WithError(err).Warn("error closing audit log")
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("error closing redis client")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.WithError(err).Warn("error closing database connection")
		}
	}
}
