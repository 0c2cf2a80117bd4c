package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-roaster/internal/credentials"
	"resume-roaster/internal/llm"
	"resume-roaster/internal/llm/anthropic"
	"resume-roaster/internal/services/health"
	"resume-roaster/internal/sessions"
	"resume-roaster/internal/shared/config"
	"resume-roaster/internal/shared/server"
	"resume-roaster/internal/shared/storage/db"
)

// App holds shared dependencies.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Credentials    credentials.Store
	LLM            llm.Client
	Sessions       *sessions.Service
	SessionHandler *sessions.Handler
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:      cfg,
		DB:          sqlDB,
		Credentials: buildCredentials(sqlDB),
		LLM:         anthropic.NewClient(cfg.LLMModel).WithEndpoint(cfg.LLMEndpoint),
	}
	app.Sessions = sessions.NewService(app.LLM, app.Credentials)
	app.SessionHandler = sessions.NewHandler(app.Sessions)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		Health:         health.NewService(app.DB, app.Sessions.Len),
		SessionHandler: app.SessionHandler,
	})
	return app, nil
}

// Close releases the sessions and the database pool.
func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.Sessions != nil {
		a.Sessions.Shutdown(ctx)
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; keeping credentials in memory")
		}
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; keeping credentials in memory: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; keeping credentials in memory: %v", err)
			return nil, nil
		}
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildCredentials(sqlDB *sql.DB) credentials.Store {
	if sqlDB != nil {
		return &credentials.PGStore{DB: sqlDB}
	}
	return credentials.NewMemoryStore()
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
