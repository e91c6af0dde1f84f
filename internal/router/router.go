package router

import (
	"net/http"

	"questhub/internal/handlers/api/v1/quests"
	"questhub/internal/handlers/api/v1/users"
	"questhub/internal/middleware"
	"questhub/internal/response"
	"questhub/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SetupRouter configures all HTTP routes and returns the main handler
func SetupRouter(sc *services.ServiceCollection, responseBuilder *response.Builder, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(logger))
	r.Use(middleware.RequestLogging(middleware.DefaultLoggingConfig()))
	r.Use(middleware.Recovery(logger))

	r.Get("/health", healthHandler(sc, responseBuilder))

	questController := quests.NewQuestController(sc.Lifecycle, sc.Query, logger, responseBuilder)
	userController := users.NewUserController(sc.Query, logger, responseBuilder)

	r.Route("/api/v1", func(r chi.Router) {
		questController.RegisterRoutes(r)
		userController.RegisterRoutes(r)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responseBuilder.WriteError(w, r, services.NewNotFoundError("resource not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		err := services.NewValidationError("method not allowed", nil)
		err.StatusCode = http.StatusMethodNotAllowed
		responseBuilder.WriteError(w, r, err)
	})

	return r
}

// healthHandler reports liveness of the database, cache, and event bus
func healthHandler(sc *services.ServiceCollection, responseBuilder *response.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sc.Health(r.Context()); err != nil {
			unhealthy := services.NewInternalError("service unhealthy: " + err.Error())
			unhealthy.StatusCode = http.StatusServiceUnavailable
			responseBuilder.WriteError(w, r, unhealthy)
			return
		}
		responseBuilder.WriteSuccess(w, r, map[string]string{"status": "healthy"}, http.StatusOK)
	}
}
