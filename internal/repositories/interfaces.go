// file: internal/repositories/interfaces.go
package repositories

import (
	"context"
	"time"

	"questhub/internal/models"
)

// ===============================
// CORE REPOSITORY INTERFACES
// ===============================

// QuestRepository defines the contract for quest data operations
type QuestRepository interface {
	// Point operations
	Create(ctx context.Context, quest *models.Quest) error
	GetByID(ctx context.Context, id int64) (*models.Quest, error)
	Delete(ctx context.Context, id int64) error

	// Lifecycle updates
	MarkInProgress(ctx context.Context, questID, hiredApplicantID int64) error
	MarkCompleted(ctx context.Context, questID int64, completedAt time.Time) error
	Archive(ctx context.Context, questID int64) error

	// Listing and counting
	ListByGiver(ctx context.Context, giverID int64, statuses []models.QuestStatus, limit int) ([]*models.Quest, error)
	CountByGiverAndStatus(ctx context.Context, giverID int64, statuses []models.QuestStatus) (int64, error)
}

// ApplicationRepository defines the contract for application data operations
type ApplicationRepository interface {
	// Point operations
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	SetStatus(ctx context.Context, id int64, status models.ApplicationStatus) error
	SetRating(ctx context.Context, id int64, rating int) error

	// Hire support
	RejectPendingForQuest(ctx context.Context, questID, exceptID int64) (int64, error)
	FindHired(ctx context.Context, questID, applicantID int64) (*models.Application, error)

	// Counting
	CountPendingByQuest(ctx context.Context, questID int64) (int64, error)
	CountPendingByGiver(ctx context.Context, giverID int64) (int64, error)
}

// UserRepository defines the contract for reputation profile operations
type UserRepository interface {
	// Point operations
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// Reputation updates. Achievement merges are a set union: ids already
	// present are never duplicated, existing ids are never removed.
	CreditQuestCompleted(ctx context.Context, userID int64, newAchievements []string) error
	CreditQuestGiven(ctx context.Context, userID int64, newAchievements []string) error
	ApplyRating(ctx context.Context, userID int64, rating int, newAchievements []string) error

	// Leaderboards
	TopByMetric(ctx context.Context, metric string, limit int) ([]*models.User, error)
}

// ===============================
// STORE
// ===============================

// Store bundles the repositories and the store's transaction primitive.
// WithTransaction runs fn against a store whose repositories are all bound
// to one atomic transaction: either every write in fn commits or none does,
// and concurrent modification of any record read inside fn aborts the
// transaction with a conflict error. Implementations must let fn issue all
// of its reads before its writes; the lifecycle coordinator relies on that
// ordering.
type Store interface {
	Quests() QuestRepository
	Applications() ApplicationRepository
	Users() UserRepository

	WithTransaction(ctx context.Context, fn func(Store) error) error
}

// Leaderboard metrics accepted by UserRepository.TopByMetric
const (
	MetricQuestsCompleted      = "quests_completed"
	MetricQuestsGivenCompleted = "quests_given_completed"
	MetricNumberOfRatings      = "number_of_ratings"
)
