// file: internal/models/models.go
package models

import (
	"time"
)

// ===============================
// STATUS ENUMS
// ===============================

// QuestStatus represents the lifecycle state of a quest
type QuestStatus string

const (
	QuestStatusOpen       QuestStatus = "open"
	QuestStatusInProgress QuestStatus = "in-progress"
	QuestStatusCompleted  QuestStatus = "completed"
	QuestStatusArchived   QuestStatus = "archived"
)

// Valid reports whether the status is a known quest status
func (s QuestStatus) Valid() bool {
	switch s {
	case QuestStatusOpen, QuestStatusInProgress, QuestStatusCompleted, QuestStatusArchived:
		return true
	}
	return false
}

// CanTransitionTo reports whether the forward-only lifecycle allows moving to next.
// open -> in-progress -> completed; open -> archived is a terminal side exit.
func (s QuestStatus) CanTransitionTo(next QuestStatus) bool {
	switch s {
	case QuestStatusOpen:
		return next == QuestStatusInProgress || next == QuestStatusArchived
	case QuestStatusInProgress:
		return next == QuestStatusCompleted
	}
	return false
}

// ApplicationStatus represents the state of a quester's application
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusHired     ApplicationStatus = "hired"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusCompleted ApplicationStatus = "completed"
)

// Valid reports whether the status is a known application status
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusHired, ApplicationStatusRejected, ApplicationStatusCompleted:
		return true
	}
	return false
}

// ===============================
// CORE ENTITIES
// ===============================

// Quest represents a posted job available for a quester to fulfill
type Quest struct {
	ID               int64       `json:"id" db:"id"`
	QuestGiverID     int64       `json:"quest_giver_id" db:"quest_giver_id"`
	Title            string      `json:"title" db:"title"`
	Category         string      `json:"category" db:"category"`
	Status           QuestStatus `json:"status" db:"status"`
	HiredApplicantID *int64      `json:"hired_applicant_id,omitempty" db:"hired_applicant_id"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty" db:"completed_at"`
}

// Application represents a quester's bid on a quest
type Application struct {
	ID           int64             `json:"id" db:"id"`
	QuestID      int64             `json:"quest_id" db:"quest_id"`
	ApplicantID  int64             `json:"applicant_id" db:"applicant_id"`
	QuestGiverID int64             `json:"quest_giver_id" db:"quest_giver_id"`
	Status       ApplicationStatus `json:"status" db:"status"`
	GiverRating  *int              `json:"giver_rating,omitempty" db:"giver_rating"`
	GiverRated   bool              `json:"giver_rated" db:"giver_rated"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
}

// RatingEligible reports whether the giver may still rate this application
func (a *Application) RatingEligible() bool {
	return a.Status == ApplicationStatusCompleted && !a.GiverRated
}

// User is the shared reputation profile. The same record serves both roles:
// QuestsCompleted counts work done as a quester, QuestsGivenCompleted counts
// quests seen through to completion as a giver.
type User struct {
	ID                   int64     `json:"id" db:"id"`
	Username             string    `json:"username" db:"username"`
	QuestsCompleted      int       `json:"quests_completed" db:"quests_completed"`
	QuestsGivenCompleted int       `json:"quests_given_completed" db:"quests_given_completed"`
	TotalRatingScore     int       `json:"total_rating_score" db:"total_rating_score"`
	NumberOfRatings      int       `json:"number_of_ratings" db:"number_of_ratings"`
	UnlockedAchievements []string  `json:"unlocked_achievements" db:"unlocked_achievements"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
}

// AverageRating returns the running average rating, or 0 when unrated
func (u *User) AverageRating() float64 {
	if u.NumberOfRatings == 0 {
		return 0
	}
	return float64(u.TotalRatingScore) / float64(u.NumberOfRatings)
}

// HasAchievement reports whether the user already unlocked the given achievement
func (u *User) HasAchievement(id string) bool {
	for _, a := range u.UnlockedAchievements {
		if a == id {
			return true
		}
	}
	return false
}

// ===============================
// OPERATION RESULTS
// ===============================

// Result is the outcome reported to the presentation layer for a lifecycle operation
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OK builds a successful result
func OK(message string) *Result {
	return &Result{Success: true, Message: message}
}

// Fail builds a failed result
func Fail(message string) *Result {
	return &Result{Success: false, Message: message}
}

// ===============================
// QUERY TYPES
// ===============================

// GiverDashboard aggregates the display-only counters shown on a giver's quest board
type GiverDashboard struct {
	PendingApplications int64 `json:"pending_applications"`
	HiredQuests         int64 `json:"hired_quests"`
	PostedQuests        int64 `json:"posted_quests"`
}
