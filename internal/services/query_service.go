// file: internal/services/query_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"questhub/internal/cache"
	"questhub/internal/models"
	"questhub/internal/repositories"

	"go.uber.org/zap"
)

// queryService serves display-only listings and counters, with short-TTL
// caching in front of the hot counters and leaderboards. Staleness within a
// TTL is acceptable for everything served here.
type queryService struct {
	store  repositories.Store
	cache  cache.Cache
	logger *zap.Logger
	ttl    time.Duration
}

// NewQueryService creates the read-only query service
func NewQueryService(store repositories.Store, c cache.Cache, logger *zap.Logger, ttl time.Duration) QueryService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &queryService{
		store:  store,
		cache:  c,
		logger: logger,
		ttl:    ttl,
	}
}

// ListQuestsByGiver lists a giver's quests newest first, filtered by board tab
func (s *queryService) ListQuestsByGiver(ctx context.Context, req *ListQuestsRequest) ([]*models.Quest, error) {
	return s.store.Quests().ListByGiver(ctx, req.GiverID, req.Statuses(), req.Limit)
}

// CountPendingApplications counts pending applications for one quest
func (s *queryService) CountPendingApplications(ctx context.Context, questID int64) (int64, error) {
	key := fmt.Sprintf("pending:quest:%d", questID)

	var count int64
	if s.cachedJSON(ctx, key, &count) {
		return count, nil
	}

	count, err := s.store.Applications().CountPendingByQuest(ctx, questID)
	if err != nil {
		return 0, err
	}

	s.storeJSON(ctx, key, count)
	return count, nil
}

// CountPendingApplicationsForGiver counts pending applications across all of
// a giver's quests.
func (s *queryService) CountPendingApplicationsForGiver(ctx context.Context, giverID int64) (int64, error) {
	key := fmt.Sprintf("pending:giver:%d", giverID)

	var count int64
	if s.cachedJSON(ctx, key, &count) {
		return count, nil
	}

	count, err := s.store.Applications().CountPendingByGiver(ctx, giverID)
	if err != nil {
		return 0, err
	}

	s.storeJSON(ctx, key, count)
	return count, nil
}

// GiverDashboard aggregates the sidebar counters for a giver's quest board
func (s *queryService) GiverDashboard(ctx context.Context, giverID int64) (*models.GiverDashboard, error) {
	key := fmt.Sprintf("dashboard:%d", giverID)

	var dashboard models.GiverDashboard
	if s.cachedJSON(ctx, key, &dashboard) {
		return &dashboard, nil
	}

	pending, err := s.store.Applications().CountPendingByGiver(ctx, giverID)
	if err != nil {
		return nil, err
	}

	hired, err := s.store.Quests().CountByGiverAndStatus(ctx, giverID,
		[]models.QuestStatus{models.QuestStatusInProgress, models.QuestStatusCompleted})
	if err != nil {
		return nil, err
	}

	posted, err := s.store.Quests().CountByGiverAndStatus(ctx, giverID, nil)
	if err != nil {
		return nil, err
	}

	dashboard = models.GiverDashboard{
		PendingApplications: pending,
		HiredQuests:         hired,
		PostedQuests:        posted,
	}

	s.storeJSON(ctx, key, &dashboard)
	return &dashboard, nil
}

// TopUsers lists the leaderboard for a metric
func (s *queryService) TopUsers(ctx context.Context, metric string, limit int) ([]*models.User, error) {
	key := fmt.Sprintf("leaderboard:%s:%d", metric, limit)

	var users []*models.User
	if s.cachedJSON(ctx, key, &users) {
		return users, nil
	}

	users, err := s.store.Users().TopByMetric(ctx, metric, limit)
	if err != nil {
		return nil, err
	}

	s.storeJSON(ctx, key, users)
	return users, nil
}

// FindHiredApplication resolves the winning application for a quest and
// applicant, so callers can backfill the optional completion identifiers.
// Returns (nil, nil) when none exists.
func (s *queryService) FindHiredApplication(ctx context.Context, questID, applicantID int64) (*models.Application, error) {
	return s.store.Applications().FindHired(ctx, questID, applicantID)
}

// RatingEligible reports whether the giver may still rate the application
func (s *queryService) RatingEligible(ctx context.Context, applicationID int64) (bool, error) {
	app, err := s.store.Applications().GetByID(ctx, applicationID)
	if err != nil {
		return false, err
	}
	if app == nil {
		return false, nil
	}
	return app.RatingEligible(), nil
}

// cachedJSON loads a cached value into dest, reporting whether it was present
func (s *queryService) cachedJSON(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	data, found := s.cache.Get(ctx, key)
	if !found {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn("failed to decode cached value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// storeJSON caches a value best-effort; failures only log
func (s *queryService) storeJSON(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to encode value for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("failed to cache value", zap.String("key", key), zap.Error(err))
	}
}
