// ===============================
// FILE: internal/handlers/api/v1/quests/quests_controller.go
// ===============================

package quests

import (
	"encoding/json"
	"net/http"
	"strconv"

	"questhub/internal/models"
	"questhub/internal/response"
	"questhub/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// QuestController handles quest lifecycle and quest query API endpoints
type QuestController struct {
	lifecycle       services.LifecycleService
	query           services.QueryService
	logger          *zap.Logger
	responseBuilder *response.Builder
	validate        *validator.Validate
}

// NewQuestController creates a new quest controller
func NewQuestController(
	lifecycle services.LifecycleService,
	query services.QueryService,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *QuestController {
	return &QuestController{
		lifecycle:       lifecycle,
		query:           query,
		logger:          logger,
		responseBuilder: responseBuilder,
		validate:        validator.New(),
	}
}

// RegisterRoutes mounts the quest routes on the given router
func (c *QuestController) RegisterRoutes(r chi.Router) {
	r.Route("/quests", func(r chi.Router) {
		r.Get("/", c.ListQuests)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", c.DeleteQuest)
			r.Post("/hire", c.HireApplicant)
			r.Post("/complete", c.MarkComplete)
			r.Post("/rate", c.RateQuester)
			r.Post("/archive", c.ArchiveQuest)
			r.Get("/applications/count", c.CountPendingApplications)
			r.Get("/applications/hired", c.FindHiredApplication)
		})
	})
	r.Route("/applications/{id}", func(r chi.Router) {
		r.Post("/reject", c.RejectApplicant)
		r.Get("/rating-eligible", c.RatingEligible)
	})
}

// ===============================
// LIFECYCLE OPERATIONS
// ===============================

// hireApplicantPayload is the request body for POST /quests/{id}/hire
type hireApplicantPayload struct {
	ApplicationID int64 `json:"application_id" validate:"required"`
	ApplicantID   int64 `json:"applicant_id" validate:"required"`
}

// HireApplicant handles POST /api/v1/quests/{id}/hire
func (c *QuestController) HireApplicant(w http.ResponseWriter, r *http.Request) {
	questID, ok := c.pathID(w, r, "id")
	if !ok {
		return
	}

	var payload hireApplicantPayload
	if !c.decode(w, r, &payload) {
		return
	}

	result, err := c.lifecycle.HireApplicant(r.Context(), &services.HireApplicantRequest{
		QuestID:       questID,
		ApplicationID: payload.ApplicationID,
		ApplicantID:   payload.ApplicantID,
	})
	c.writeResult(w, r, result, err, "HIRE_REJECTED")
}

// RejectApplicant handles POST /api/v1/applications/{id}/reject
func (c *QuestController) RejectApplicant(w http.ResponseWriter, r *http.Request) {
	applicationID, ok := c.pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := c.lifecycle.RejectApplicant(r.Context(), &services.RejectApplicantRequest{
		ApplicationID: applicationID,
	})
	c.writeResult(w, r, result, err, "REJECT_REJECTED")
}

// markCompletePayload is the request body for POST /quests/{id}/complete.
// Both IDs are optional; the quest's own hired applicant is the fallback.
type markCompletePayload struct {
	HiredApplicantID   *int64 `json:"hired_applicant_id"`
	HiredApplicationID *int64 `json:"hired_application_id"`
}

// MarkComplete handles POST /api/v1/quests/{id}/complete
func (c *QuestController) MarkComplete(w http.ResponseWriter, r *http.Request) {
	questID, ok := c.pathID(w, r, "id")
	if !ok {
		return
	}

	var payload markCompletePayload
	if r.ContentLength != 0 && !c.decode(w, r, &payload) {
		return
	}

	result, err := c.lifecycle.MarkComplete(r.Context(), &services.MarkCompleteRequest{
		QuestID:            questID,
		HiredApplicantID:   payload.HiredApplicantID,
		HiredApplicationID: payload.HiredApplicationID,
	})
	c.writeResult(w, r, result, err, "COMPLETE_REJECTED")
}

// rateQuesterPayload is the request body for POST /quests/{id}/rate
type rateQuesterPayload struct {
	QuesterID     int64 `json:"quester_id" validate:"required"`
	ApplicationID int64 `json:"application_id" validate:"required"`
	Rating        int   `json:"rating" validate:"required,min=1,max=5"`
}

// RateQuester handles POST /api/v1/quests/{id}/rate
func (c *QuestController) RateQuester(w http.ResponseWriter, r *http.Request) {
	if _, ok := c.pathID(w, r, "id"); !ok {
		return
	}

	var payload rateQuesterPayload
	if !c.decode(w, r, &payload) {
		return
	}

	result, err := c.lifecycle.RateQuester(r.Context(), &services.RateQuesterRequest{
		QuesterID:     payload.QuesterID,
		ApplicationID: payload.ApplicationID,
		Rating:        payload.Rating,
	})
	c.writeResult(w, r, result, err, "RATE_REJECTED")
}

// DeleteQuest handles DELETE /api/v1/quests/{id}
func (c *QuestController) DeleteQuest(w http.ResponseWriter, r *http.Request) {
	questID, ok := c.pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := c.lifecycle.DeleteQuest(r.Context(), &services.DeleteQuestRequest{
		QuestID: questID,
	})
	c.writeResult(w, r, result, err, "DELETE_REJECTED")
}

// ArchiveQuest handles POST /api/v1/quests/{id}/archive
func (c *QuestController) ArchiveQuest(w http.ResponseWriter, r *http.Request) {
	questID, ok := c.pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := c.lifecycle.ArchiveQuest(r.Context(), &services.ArchiveQuestRequest{
		QuestID: questID,
	})
	c.writeResult(w, r, result, err, "ARCHIVE_REJECTED")
}

// ===============================
// QUERY OPERATIONS
// ===============================

// ListQuests handles GET /api/v1/quests?giver_id=&tab=&limit=
func (c *QuestController) ListQuests(w http.ResponseWriter, r *http.Request) {
	giverID, err := strconv.ParseInt(r.URL.Query().Get("giver_id"), 10, 64)
	if err != nil || giverID <= 0 {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("giver_id query parameter is required", err))
		return
	}

	req := &services.ListQuestsRequest{
		GiverID: giverID,
		Tab:     r.URL.Query().Get("tab"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			req.Limit = limit
		}
	}
	if err := c.validate.Struct(req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid quest listing parameters", err))
		return
	}

	quests, err := c.query.ListQuestsByGiver(r.Context(), req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, quests, http.StatusOK)
}

// CountPendingApplications handles GET /api/v1/quests/{id}/applications/count
func (c *QuestController) CountPendingApplications(w http.ResponseWriter, r *http.Request) {
	questID, ok := c.pathID(w, r, "id")
	if !ok {
		return
	}

	count, err := c.query.CountPendingApplications(r.Context(), questID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, map[string]int64{"pending_applications": count}, http.StatusOK)
}

// FindHiredApplication handles GET /api/v1/quests/{id}/applications/hired?applicant_id=
func (c *QuestController) FindHiredApplication(w http.ResponseWriter, r *http.Request) {
	questID, ok := c.pathID(w, r, "id")
	if !ok {
		return
	}
	applicantID, err := strconv.ParseInt(r.URL.Query().Get("applicant_id"), 10, 64)
	if err != nil || applicantID <= 0 {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("applicant_id query parameter is required", err))
		return
	}

	app, err := c.query.FindHiredApplication(r.Context(), questID, applicantID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if app == nil {
		c.responseBuilder.WriteError(w, r, services.NewNotFoundError("no hired application for this quest and applicant"))
		return
	}
	c.responseBuilder.WriteSuccess(w, r, app, http.StatusOK)
}

// RatingEligible handles GET /api/v1/applications/{id}/rating-eligible
func (c *QuestController) RatingEligible(w http.ResponseWriter, r *http.Request) {
	applicationID, ok := c.pathID(w, r, "id")
	if !ok {
		return
	}

	eligible, err := c.query.RatingEligible(r.Context(), applicationID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, map[string]bool{"rating_eligible": eligible}, http.StatusOK)
}

// ===============================
// HELPERS
// ===============================

// pathID parses the numeric {name} URL parameter, writing a validation error
// on failure
func (c *QuestController) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid "+name+" path parameter", err))
		return 0, false
	}
	return id, true
}

// decode parses and validates a JSON request body
func (c *QuestController) decode(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		c.logger.Warn("Failed to decode request body",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body format", err))
		return false
	}
	if err := c.validate.Struct(payload); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request payload", err))
		return false
	}
	return true
}

// writeResult maps a lifecycle outcome onto the response envelope. A failed
// Result is a precondition rejection, reported as a business error; a non-nil
// error is a store failure and keeps its own status code.
func (c *QuestController) writeResult(w http.ResponseWriter, r *http.Request, result *models.Result, err error, rejectionCode string) {
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if !result.Success {
		c.responseBuilder.WriteError(w, r, services.NewBusinessError(result.Message, rejectionCode))
		return
	}
	c.responseBuilder.WriteSuccess(w, r, result, http.StatusOK)
}
