// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	analyticsfeature "github.com/taskdeck/taskdeck/internal/app/features/analytics"
	authfeature "github.com/taskdeck/taskdeck/internal/app/features/auth"
	errorsfeature "github.com/taskdeck/taskdeck/internal/app/features/errors"
	healthfeature "github.com/taskdeck/taskdeck/internal/app/features/health"
	tasksfeature "github.com/taskdeck/taskdeck/internal/app/features/tasks"
	usersfeature "github.com/taskdeck/taskdeck/internal/app/features/users"
	userstore "github.com/taskdeck/taskdeck/internal/app/store/users"
	sysauth "github.com/taskdeck/taskdeck/internal/app/system/auth"
	"github.com/taskdeck/taskdeck/internal/app/system/docstore"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// TaskDeck mounts the JSON API: health checks, token auth, task and user
// management, and the analytics summary.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := sysauth.NewTokenManager(appCfg.JWTSecret, appCfg.TokenTTL, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	docs := docstore.New(appCfg.UploadDir)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Global auth middleware: resolves the bearer token into a TokenUser in
	// context. Users are fetched fresh on every request so role changes and
	// deleted accounts take effect immediately.
	r.Use(tokens.LoadBearerUser(userstore.NewFetcher(deps.MongoDatabase)))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Registration and login
	authHandler := authfeature.NewHandler(userstore.New(deps.MongoDatabase), tokens, errLog, logger)
	r.Mount("/auth", authfeature.Routes(authHandler))

	// Task management, comments, and documents
	tasksHandler := tasksfeature.NewHandler(deps.MongoDatabase, docs, errLog, logger)
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler))

	// User management
	usersHandler := usersfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler))

	// Analytics summary
	analyticsHandler := analyticsfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/analytics", analyticsfeature.Routes(analyticsHandler))

	return r, nil
}
