package events

import (
	"time"
)

// Event type names published by the quest lifecycle
const (
	TypeApplicantHired      = "quest.applicant_hired"
	TypeApplicantRejected   = "quest.applicant_rejected"
	TypeQuestCompleted      = "quest.completed"
	TypeQuestDeleted        = "quest.deleted"
	TypeQuesterRated        = "quest.quester_rated"
	TypeAchievementUnlocked = "user.achievement_unlocked"
)

// ApplicantHiredEvent is emitted after a hire commits
type ApplicantHiredEvent struct {
	BaseEvent
	QuestID         int64 `json:"quest_id"`
	ApplicationID   int64 `json:"application_id"`
	ApplicantID     int64 `json:"applicant_id"`
	RejectedPending int64 `json:"rejected_pending"`
}

// ApplicantRejectedEvent is emitted after a single rejection commits
type ApplicantRejectedEvent struct {
	BaseEvent
	QuestID       int64 `json:"quest_id"`
	ApplicationID int64 `json:"application_id"`
	ApplicantID   int64 `json:"applicant_id"`
}

// QuestCompletedEvent is emitted after a completion commits
type QuestCompletedEvent struct {
	BaseEvent
	QuestID     int64     `json:"quest_id"`
	GiverID     int64     `json:"giver_id"`
	QuesterID   *int64    `json:"quester_id,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// QuestDeletedEvent is emitted after a quest deletion or archive commits
type QuestDeletedEvent struct {
	BaseEvent
	QuestID  int64 `json:"quest_id"`
	GiverID  int64 `json:"giver_id"`
	Archived bool  `json:"archived"`
}

// QuesterRatedEvent is emitted after a rating commits
type QuesterRatedEvent struct {
	BaseEvent
	ApplicationID int64 `json:"application_id"`
	QuesterID     int64 `json:"quester_id"`
	Rating        int   `json:"rating"`
}

// AchievementUnlockedEvent is emitted once per freshly unlocked achievement
type AchievementUnlockedEvent struct {
	BaseEvent
	AchievementID string `json:"achievement_id"`
}

// NewApplicantHiredEvent creates a new applicant hired event
func NewApplicantHiredEvent(questID, applicationID, applicantID, rejectedPending int64, giverID int64) *ApplicantHiredEvent {
	return &ApplicantHiredEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: TypeApplicantHired,
			Timestamp: time.Now(),
			UserID:    &giverID,
		},
		QuestID:         questID,
		ApplicationID:   applicationID,
		ApplicantID:     applicantID,
		RejectedPending: rejectedPending,
	}
}

// NewApplicantRejectedEvent creates a new applicant rejected event
func NewApplicantRejectedEvent(questID, applicationID, applicantID, giverID int64) *ApplicantRejectedEvent {
	return &ApplicantRejectedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: TypeApplicantRejected,
			Timestamp: time.Now(),
			UserID:    &giverID,
		},
		QuestID:       questID,
		ApplicationID: applicationID,
		ApplicantID:   applicantID,
	}
}

// NewQuestCompletedEvent creates a new quest completed event
func NewQuestCompletedEvent(questID, giverID int64, questerID *int64, completedAt time.Time) *QuestCompletedEvent {
	return &QuestCompletedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: TypeQuestCompleted,
			Timestamp: time.Now(),
			UserID:    &giverID,
		},
		QuestID:     questID,
		GiverID:     giverID,
		QuesterID:   questerID,
		CompletedAt: completedAt,
	}
}

// NewQuestDeletedEvent creates a new quest deleted event
func NewQuestDeletedEvent(questID, giverID int64, archived bool) *QuestDeletedEvent {
	return &QuestDeletedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: TypeQuestDeleted,
			Timestamp: time.Now(),
			UserID:    &giverID,
		},
		QuestID:  questID,
		GiverID:  giverID,
		Archived: archived,
	}
}

// NewQuesterRatedEvent creates a new quester rated event
func NewQuesterRatedEvent(applicationID, questerID, giverID int64, rating int) *QuesterRatedEvent {
	return &QuesterRatedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: TypeQuesterRated,
			Timestamp: time.Now(),
			UserID:    &giverID,
		},
		ApplicationID: applicationID,
		QuesterID:     questerID,
		Rating:        rating,
	}
}

// NewAchievementUnlockedEvent creates a new achievement unlocked event
func NewAchievementUnlockedEvent(userID int64, achievementID string) *AchievementUnlockedEvent {
	return &AchievementUnlockedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: TypeAchievementUnlocked,
			Timestamp: time.Now(),
			UserID:    &userID,
		},
		AchievementID: achievementID,
	}
}
