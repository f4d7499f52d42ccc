package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"usermanager/internal/directory"
	"usermanager/internal/sandbox"
	"usermanager/internal/shared/config"
	"usermanager/internal/shared/server"
	"usermanager/internal/shared/storage/db"
	"usermanager/internal/shared/telemetry"
	"usermanager/internal/users"
	"usermanager/internal/web"
)

// App holds the user manager's shared dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	Directory *directory.Client
	Users     *users.Manager
}

// Build wires the directory client, the manager and the web routes. It performs no I/O.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.DirectoryURL) == "" {
		cfg.DirectoryURL = config.DefaultDirectoryURL
	}
	client, err := directory.New(cfg.DirectoryURL, directory.WithTimeout(cfg.DirectoryTimeout))
	if err != nil {
		return nil, err
	}
	mgr := users.NewManager(client)

	router := server.NewEngine(cfg)
	router.SetHTMLTemplate(web.Templates())
	web.NewHandler(mgr).RegisterRoutes(router)

	return &App{
		Config:    cfg,
		Router:    router,
		Directory: client,
		Users:     mgr,
	}, nil
}

// Start performs the startup fetch. A failure is left on the error channel and logged;
// the page still serves.
func (a *App) Start(ctx context.Context) {
	if err := a.Users.Fetch(ctx); err != nil {
		telemetry.Error("bootstrap.fetch.failed", map[string]any{
			"directory_url": a.Directory.BaseURL(),
			"err":           err,
		})
	}
}

// Sandbox holds the offline Remote Directory's dependencies.
type Sandbox struct {
	Config  config.Config
	Router  *gin.Engine
	Service *sandbox.Service
	DB      *sql.DB
}

// BuildSandbox opens the configured store, migrates and seeds it, and wires the routes.
func BuildSandbox(ctx context.Context, cfg config.Config) (*Sandbox, error) {
	repo, sqlDB, err := buildSandboxRepo(ctx, cfg)
	if err != nil {
		return nil, err
	}
	svc := sandbox.NewService(repo)
	seeded, err := svc.Seed(ctx)
	if err != nil {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("seed directory: %w", err)
	}
	telemetry.Info("sandbox.ready", map[string]any{"store": cfg.SandboxStore, "seeded": seeded})

	return &Sandbox{
		Config:  cfg,
		Router:  sandbox.NewRouter(cfg, svc),
		Service: svc,
		DB:      sqlDB,
	}, nil
}

// Close releases the sandbox database, if any.
func (s *Sandbox) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func buildSandboxRepo(ctx context.Context, cfg config.Config) (sandbox.Repo, *sql.DB, error) {
	switch cfg.SandboxStore {
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, nil, fmt.Errorf("SANDBOX_STORE=postgres requires DATABASE_URL")
		}
		sqlDB, err := openAndMigrate(ctx, db.DriverPostgres, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			return nil, nil, err
		}
		return &sandbox.PGRepo{DB: sqlDB}, sqlDB, nil
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		sqlDB, err := openAndMigrate(ctx, db.DriverSQLite, db.SQLiteDSN(cfg.SQLitePath), db.SQLiteOptions())
		if err != nil {
			return nil, nil, err
		}
		return &sandbox.SQLiteRepo{DB: sqlDB}, sqlDB, nil
	default:
		return sandbox.NewMemoryRepo(), nil, nil
	}
}

func openAndMigrate(ctx context.Context, driver, dsn string, opts db.Options) (*sql.DB, error) {
	sqlDB, err := db.Connect(ctx, driver, dsn, opts)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB, driver); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}
