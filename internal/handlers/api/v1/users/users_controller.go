// ===============================
// FILE: internal/handlers/api/v1/users/users_controller.go
// ===============================

package users

import (
	"net/http"
	"strconv"

	"questhub/internal/repositories"
	"questhub/internal/response"
	"questhub/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserController handles reputation and dashboard API endpoints
type UserController struct {
	query           services.QueryService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewUserController creates a new user controller
func NewUserController(
	query services.QueryService,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *UserController {
	return &UserController{
		query:           query,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// RegisterRoutes mounts the user routes on the given router
func (c *UserController) RegisterRoutes(r chi.Router) {
	r.Get("/users/top", c.TopUsers)
	r.Route("/givers/{id}", func(r chi.Router) {
		r.Get("/dashboard", c.GiverDashboard)
		r.Get("/applications/count", c.CountPendingApplications)
	})
}

// TopUsers handles GET /api/v1/users/top?metric=&limit=
func (c *UserController) TopUsers(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = repositories.MetricQuestsCompleted
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.responseBuilder.WriteError(w, r, services.NewValidationError("limit must be a positive integer", err))
			return
		}
		limit = parsed
	}

	users, err := c.query.TopUsers(r.Context(), metric, limit)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, users, http.StatusOK)
}

// GiverDashboard handles GET /api/v1/givers/{id}/dashboard
func (c *UserController) GiverDashboard(w http.ResponseWriter, r *http.Request) {
	giverID, ok := c.pathID(w, r)
	if !ok {
		return
	}

	dashboard, err := c.query.GiverDashboard(r.Context(), giverID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, dashboard, http.StatusOK)
}

// CountPendingApplications handles GET /api/v1/givers/{id}/applications/count
func (c *UserController) CountPendingApplications(w http.ResponseWriter, r *http.Request) {
	giverID, ok := c.pathID(w, r)
	if !ok {
		return
	}

	count, err := c.query.CountPendingApplicationsForGiver(r.Context(), giverID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, map[string]int64{"pending_applications": count}, http.StatusOK)
}

func (c *UserController) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid id path parameter", err))
		return 0, false
	}
	return id, true
}
