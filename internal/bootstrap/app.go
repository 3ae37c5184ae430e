package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-viewer/internal/api"
	"resume-viewer/internal/resumes"
	"resume-viewer/internal/services/health"
	"resume-viewer/internal/shared/config"
	"resume-viewer/internal/shared/server"
	"resume-viewer/internal/shared/storage/db"
	"resume-viewer/internal/shared/telemetry"
)

// App holds shared dependencies and the assembled HTTP router.
type App struct {
	Config  config.Config
	Router  *gin.Engine
	DB      *sql.DB
	Dialect db.Dialect
	Resumes resumes.Repo
	Health  *health.Service
}

// Build connects the store, applies migrations when enabled, and wires the
// procedures onto the HTTP edge.
func Build(cfg config.Config) (*App, error) {
	return BuildContext(context.Background(), cfg)
}

// BuildContext is Build with a caller-supplied context for connection setup.
func BuildContext(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, dialect, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if sqlDB != nil && cfg.AutoMigrate {
		if err := db.RunMigrations(ctx, sqlDB, dialect); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Dialect: dialect,
		Resumes: buildRepo(sqlDB, dialect),
		Health:  health.NewService(sqlDB),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config: cfg,
		TRPC:   api.NewAppRouter().Handler(api.NewContextFactory(app.Resumes)),
		Health: app.Health,
	})

	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, db.Dialect, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.database_url_empty", map[string]any{"store": "memory"})
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("DATABASE_URL is required")
	}

	dialect, _, _, err := db.Parse(cfg.DatabaseURL)
	if err != nil {
		return nil, "", err
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.database_connect_failed", map[string]any{
				"store": "memory",
				"error": err.Error(),
			})
			return nil, "", nil
		}
		return nil, "", err
	}
	return sqlDB, dialect, nil
}

func buildRepo(sqlDB *sql.DB, dialect db.Dialect) resumes.Repo {
	switch {
	case sqlDB == nil:
		return resumes.NewMemoryRepo()
	case dialect == db.DialectSQLite:
		return &resumes.SQLiteRepo{DB: sqlDB}
	default:
		return &resumes.PGRepo{DB: sqlDB}
	}
}
