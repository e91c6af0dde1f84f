// file: internal/services/types.go
package services

import (
	"questhub/internal/models"
)

// ===============================
// LIFECYCLE REQUESTS
// ===============================

// HireApplicantRequest identifies the winning application for an open quest
type HireApplicantRequest struct {
	QuestID       int64 `json:"quest_id" validate:"required"`
	ApplicationID int64 `json:"application_id" validate:"required"`
	ApplicantID   int64 `json:"applicant_id" validate:"required"`
}

// RejectApplicantRequest identifies a single pending application to reject
type RejectApplicantRequest struct {
	ApplicationID int64 `json:"application_id" validate:"required"`
}

// MarkCompleteRequest closes out an in-progress quest. The applicant and
// application ids are optional: callers may lack them, and the operation
// degrades rather than failing when they cannot be resolved.
type MarkCompleteRequest struct {
	QuestID            int64  `json:"quest_id" validate:"required"`
	HiredApplicantID   *int64 `json:"hired_applicant_id,omitempty"`
	HiredApplicationID *int64 `json:"hired_application_id,omitempty"`
}

// RateQuesterRequest records the giver's 1-5 rating of completed work
type RateQuesterRequest struct {
	QuesterID     int64 `json:"quester_id" validate:"required"`
	ApplicationID int64 `json:"application_id" validate:"required"`
	Rating        int   `json:"rating" validate:"required,min=1,max=5"`
}

// DeleteQuestRequest removes an open quest and its applications
type DeleteQuestRequest struct {
	QuestID int64 `json:"quest_id" validate:"required"`
}

// ArchiveQuestRequest moves an open quest to the archived terminal state
type ArchiveQuestRequest struct {
	QuestID int64 `json:"quest_id" validate:"required"`
}

// ===============================
// QUERY REQUESTS
// ===============================

// Listing tabs shown on a giver's quest board
const (
	TabActive    = "active"    // open or in-progress
	TabCompleted = "completed" // completed
	TabArchived  = "archived"  // archived
)

// ListQuestsRequest filters a giver's quests by board tab
type ListQuestsRequest struct {
	GiverID int64  `json:"giver_id" validate:"required"`
	Tab     string `json:"tab,omitempty" validate:"omitempty,oneof=active completed archived"`
	Limit   int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

// Statuses resolves the tab filter to quest statuses; nil means no filter
func (r *ListQuestsRequest) Statuses() []models.QuestStatus {
	switch r.Tab {
	case TabActive:
		return []models.QuestStatus{models.QuestStatusOpen, models.QuestStatusInProgress}
	case TabCompleted:
		return []models.QuestStatus{models.QuestStatusCompleted}
	case TabArchived:
		return []models.QuestStatus{models.QuestStatusArchived}
	}
	return nil
}
