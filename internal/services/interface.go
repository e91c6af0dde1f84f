// file: internal/services/interface.go
package services

import (
	"context"

	"questhub/internal/models"
)

// LifecycleService coordinates the atomic quest lifecycle operations. Every
// operation runs its reads and writes inside one store transaction; callers
// get a Result whose Success/Message reports precondition failures, while a
// non-nil error means the store itself failed (conflicts included, after
// retries are exhausted).
type LifecycleService interface {
	HireApplicant(ctx context.Context, req *HireApplicantRequest) (*models.Result, error)
	RejectApplicant(ctx context.Context, req *RejectApplicantRequest) (*models.Result, error)
	MarkComplete(ctx context.Context, req *MarkCompleteRequest) (*models.Result, error)
	RateQuester(ctx context.Context, req *RateQuesterRequest) (*models.Result, error)
	DeleteQuest(ctx context.Context, req *DeleteQuestRequest) (*models.Result, error)
	ArchiveQuest(ctx context.Context, req *ArchiveQuestRequest) (*models.Result, error)
}

// QueryService serves the read-only listings and counters consumed by
// presentation. Results may lag the lifecycle operations; they feed
// display-only views and leaderboards.
type QueryService interface {
	ListQuestsByGiver(ctx context.Context, req *ListQuestsRequest) ([]*models.Quest, error)
	CountPendingApplications(ctx context.Context, questID int64) (int64, error)
	CountPendingApplicationsForGiver(ctx context.Context, giverID int64) (int64, error)
	GiverDashboard(ctx context.Context, giverID int64) (*models.GiverDashboard, error)
	TopUsers(ctx context.Context, metric string, limit int) ([]*models.User, error)
	FindHiredApplication(ctx context.Context, questID, applicantID int64) (*models.Application, error)
	RatingEligible(ctx context.Context, applicationID int64) (bool, error)
}
