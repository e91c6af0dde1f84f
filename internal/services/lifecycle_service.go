// file: internal/services/lifecycle_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"questhub/internal/achievements"
	"questhub/internal/events"
	"questhub/internal/models"
	"questhub/internal/repositories"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// lifecycleService is the transaction coordinator for the quest lifecycle.
// Every operation runs as one store transaction with all reads issued before
// any write; serialization conflicts are retried with exponential backoff,
// which is safe because each operation's status precondition makes a second
// successful application impossible.
type lifecycleService struct {
	store      repositories.Store
	bus        events.EventBus
	logger     *zap.Logger
	now        func() time.Time
	maxRetries uint64
}

// NewLifecycleService creates the lifecycle coordinator
func NewLifecycleService(store repositories.Store, bus events.EventBus, logger *zap.Logger) LifecycleService {
	return &lifecycleService{
		store:      store,
		bus:        bus,
		logger:     logger,
		now:        time.Now,
		maxRetries: 3,
	}
}

// ===============================
// HIRE
// ===============================

// HireApplicant marks the chosen application hired, moves the quest to
// in-progress pinned to the applicant, and rejects every other pending
// application for the quest.
func (s *lifecycleService) HireApplicant(ctx context.Context, req *HireApplicantRequest) (*models.Result, error) {
	var rejected int64
	var giverID int64

	result, err := s.runWithRetry(ctx, "hire_applicant", func() (*models.Result, error) {
		var res *models.Result
		err := s.store.WithTransaction(ctx, func(tx repositories.Store) error {
			quest, err := tx.Quests().GetByID(ctx, req.QuestID)
			if err != nil {
				return err
			}
			app, err := tx.Applications().GetByID(ctx, req.ApplicationID)
			if err != nil {
				return err
			}

			if quest == nil {
				res = models.Fail("quest not found")
				return nil
			}
			if quest.Status != models.QuestStatusOpen {
				res = models.Fail("quest not open")
				return nil
			}
			if app == nil {
				res = models.Fail("application not found")
				return nil
			}
			if app.QuestID != req.QuestID || app.ApplicantID != req.ApplicantID {
				res = models.Fail("application does not match quest and applicant")
				return nil
			}

			if err := tx.Applications().SetStatus(ctx, app.ID, models.ApplicationStatusHired); err != nil {
				return err
			}
			if err := tx.Quests().MarkInProgress(ctx, quest.ID, req.ApplicantID); err != nil {
				return err
			}
			rejected, err = tx.Applications().RejectPendingForQuest(ctx, quest.ID, app.ID)
			if err != nil {
				return err
			}

			giverID = quest.QuestGiverID
			res = models.OK("applicant hired")
			return nil
		})
		return res, err
	})
	if err != nil || !result.Success {
		return result, err
	}

	s.publish(ctx, events.NewApplicantHiredEvent(req.QuestID, req.ApplicationID, req.ApplicantID, rejected, giverID))
	return result, nil
}

// ===============================
// REJECT
// ===============================

// RejectApplicant rejects a single pending application
func (s *lifecycleService) RejectApplicant(ctx context.Context, req *RejectApplicantRequest) (*models.Result, error) {
	var app *models.Application

	result, err := s.runWithRetry(ctx, "reject_applicant", func() (*models.Result, error) {
		var res *models.Result
		err := s.store.WithTransaction(ctx, func(tx repositories.Store) error {
			var err error
			app, err = tx.Applications().GetByID(ctx, req.ApplicationID)
			if err != nil {
				return err
			}
			if app == nil {
				res = models.Fail("application not found")
				return nil
			}
			if app.Status != models.ApplicationStatusPending {
				res = models.Fail("application not pending")
				return nil
			}

			if err := tx.Applications().SetStatus(ctx, app.ID, models.ApplicationStatusRejected); err != nil {
				return err
			}

			res = models.OK("application rejected")
			return nil
		})
		return res, err
	})
	if err != nil || !result.Success {
		return result, err
	}

	s.publish(ctx, events.NewApplicantRejectedEvent(app.QuestID, app.ID, app.ApplicantID, app.QuestGiverID))
	return result, nil
}

// ===============================
// COMPLETE
// ===============================

// MarkComplete closes out an in-progress quest: the quest becomes completed
// with a server-assigned timestamp, the giver is credited a completed given
// quest, and the hired application and quester profile are updated when
// resolvable. Missing optional records degrade with a warning instead of
// aborting; only the quest and giver are mandatory.
func (s *lifecycleService) MarkComplete(ctx context.Context, req *MarkCompleteRequest) (*models.Result, error) {
	var giverID int64
	var questerID *int64
	var completedAt time.Time
	var unlocked []string

	result, err := s.runWithRetry(ctx, "mark_complete", func() (*models.Result, error) {
		unlocked = nil
		var res *models.Result
		err := s.store.WithTransaction(ctx, func(tx repositories.Store) error {
			// Read set, in full before any write
			quest, err := tx.Quests().GetByID(ctx, req.QuestID)
			if err != nil {
				return err
			}
			if quest == nil {
				res = models.Fail("quest not found")
				return nil
			}
			if quest.Status != models.QuestStatusInProgress {
				res = models.Fail("quest not in progress")
				return nil
			}

			giver, err := tx.Users().GetByID(ctx, quest.QuestGiverID)
			if err != nil {
				return err
			}
			if giver == nil {
				res = models.Fail("giver profile not found")
				return nil
			}

			applicantID := req.HiredApplicantID
			if applicantID == nil {
				applicantID = quest.HiredApplicantID
			}

			var quester *models.User
			if applicantID != nil {
				quester, err = tx.Users().GetByID(ctx, *applicantID)
				if err != nil {
					return err
				}
				if quester == nil {
					s.logger.Warn("quester profile not found, completing without quester credit",
						zap.Int64("quest_id", quest.ID),
						zap.Int64("applicant_id", *applicantID))
				}
			}

			var app *models.Application
			if req.HiredApplicationID != nil {
				app, err = tx.Applications().GetByID(ctx, *req.HiredApplicationID)
				if err != nil {
					return err
				}
				if app == nil {
					s.logger.Warn("hired application not found, completing without application update",
						zap.Int64("quest_id", quest.ID),
						zap.Int64("application_id", *req.HiredApplicationID))
				}
			}

			// Compute the write plan
			giverAch := achievements.Evaluate(achievements.MetricQuestsGivenCompleted,
				giver.QuestsGivenCompleted, giver.QuestsGivenCompleted+1, giver.UnlockedAchievements)

			var questerAch []string
			if quester != nil {
				questerAch = achievements.Evaluate(achievements.MetricQuestsCompleted,
					quester.QuestsCompleted, quester.QuestsCompleted+1, quester.UnlockedAchievements)
			}

			completedAt = s.now()

			// Write set
			if err := tx.Quests().MarkCompleted(ctx, quest.ID, completedAt); err != nil {
				return err
			}
			if err := tx.Users().CreditQuestGiven(ctx, giver.ID, giverAch); err != nil {
				return err
			}
			if app != nil {
				if err := tx.Applications().SetStatus(ctx, app.ID, models.ApplicationStatusCompleted); err != nil {
					return err
				}
			}
			if quester != nil {
				if err := tx.Users().CreditQuestCompleted(ctx, quester.ID, questerAch); err != nil {
					return err
				}
			}

			giverID = quest.QuestGiverID
			questerID = applicantID
			unlocked = append(unlocked, giverAch...)
			if quester != nil {
				unlocked = append(unlocked, questerAch...)
			}
			res = models.OK("quest completed")
			return nil
		})
		return res, err
	})
	if err != nil || !result.Success {
		return result, err
	}

	s.publish(ctx, events.NewQuestCompletedEvent(req.QuestID, giverID, questerID, completedAt))
	s.publishUnlocks(ctx, giverID, questerID, unlocked)
	return result, nil
}

// ===============================
// RATE
// ===============================

// RateQuester records the giver's rating of completed work and folds it into
// the quester's reputation aggregate. An already-rated application is refused
// before any transaction opens, so at most one rating ever contributes per
// application.
func (s *lifecycleService) RateQuester(ctx context.Context, req *RateQuesterRequest) (*models.Result, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return models.Fail("rating must be between 1 and 5"), nil
	}

	app, err := s.store.Applications().GetByID(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return models.Fail("application not found"), nil
	}
	if app.GiverRated {
		return models.Fail("already rated"), nil
	}

	var unlocked []string

	result, err := s.runWithRetry(ctx, "rate_quester", func() (*models.Result, error) {
		unlocked = nil
		var res *models.Result
		err := s.store.WithTransaction(ctx, func(tx repositories.Store) error {
			app, err := tx.Applications().GetByID(ctx, req.ApplicationID)
			if err != nil {
				return err
			}
			if app == nil {
				res = models.Fail("application not found")
				return nil
			}
			if app.ApplicantID != req.QuesterID {
				res = models.Fail("application does not belong to quester")
				return nil
			}
			if app.GiverRated {
				res = models.Fail("already rated")
				return nil
			}
			if app.Status != models.ApplicationStatusCompleted {
				res = models.Fail("application not eligible for rating")
				return nil
			}

			quester, err := tx.Users().GetByID(ctx, req.QuesterID)
			if err != nil {
				return err
			}
			if quester == nil {
				res = models.Fail("quester profile not found")
				return nil
			}

			_, newCount, newAverage := ApplyRating(quester.TotalRatingScore, quester.NumberOfRatings, req.Rating)
			unlocked = achievements.EvaluateRating(newCount, newAverage, quester.UnlockedAchievements)

			if err := tx.Users().ApplyRating(ctx, quester.ID, req.Rating, unlocked); err != nil {
				return err
			}
			if err := tx.Applications().SetRating(ctx, app.ID, req.Rating); err != nil {
				return err
			}

			res = models.OK("rating submitted")
			return nil
		})
		return res, err
	})
	if err != nil || !result.Success {
		return result, err
	}

	s.publish(ctx, events.NewQuesterRatedEvent(req.ApplicationID, req.QuesterID, app.QuestGiverID, req.Rating))
	s.publishUnlocks(ctx, req.QuesterID, nil, unlocked)
	return result, nil
}

// ===============================
// DELETE / ARCHIVE
// ===============================

// DeleteQuest removes an open quest; its applications go with it
func (s *lifecycleService) DeleteQuest(ctx context.Context, req *DeleteQuestRequest) (*models.Result, error) {
	var giverID int64

	result, err := s.runWithRetry(ctx, "delete_quest", func() (*models.Result, error) {
		var res *models.Result
		err := s.store.WithTransaction(ctx, func(tx repositories.Store) error {
			quest, err := tx.Quests().GetByID(ctx, req.QuestID)
			if err != nil {
				return err
			}
			if quest == nil {
				res = models.Fail("quest not found")
				return nil
			}
			if quest.Status != models.QuestStatusOpen {
				res = models.Fail("quest can only be deleted while open")
				return nil
			}

			if err := tx.Quests().Delete(ctx, quest.ID); err != nil {
				return err
			}

			giverID = quest.QuestGiverID
			res = models.OK("quest deleted")
			return nil
		})
		return res, err
	})
	if err != nil || !result.Success {
		return result, err
	}

	s.publish(ctx, events.NewQuestDeletedEvent(req.QuestID, giverID, false))
	return result, nil
}

// ArchiveQuest moves an open quest to the archived terminal state, keeping
// its applications for the record.
func (s *lifecycleService) ArchiveQuest(ctx context.Context, req *ArchiveQuestRequest) (*models.Result, error) {
	var giverID int64

	result, err := s.runWithRetry(ctx, "archive_quest", func() (*models.Result, error) {
		var res *models.Result
		err := s.store.WithTransaction(ctx, func(tx repositories.Store) error {
			quest, err := tx.Quests().GetByID(ctx, req.QuestID)
			if err != nil {
				return err
			}
			if quest == nil {
				res = models.Fail("quest not found")
				return nil
			}
			if !quest.Status.CanTransitionTo(models.QuestStatusArchived) {
				res = models.Fail("quest can only be archived while open")
				return nil
			}

			if err := tx.Quests().Archive(ctx, quest.ID); err != nil {
				return err
			}

			giverID = quest.QuestGiverID
			res = models.OK("quest archived")
			return nil
		})
		return res, err
	})
	if err != nil || !result.Success {
		return result, err
	}

	s.publish(ctx, events.NewQuestDeletedEvent(req.QuestID, giverID, true))
	return result, nil
}

// ===============================
// HELPERS
// ===============================

// runWithRetry re-invokes op on store-level conflicts with exponential
// backoff. Any other error, and any Result, stops the retry loop.
func (s *lifecycleService) runWithRetry(ctx context.Context, operation string, op func() (*models.Result, error)) (*models.Result, error) {
	var result *models.Result
	attempt := 0

	err := backoff.Retry(func() error {
		attempt++
		res, err := op()
		if err != nil {
			if repositories.IsConflict(err) {
				s.logger.Warn("transaction conflict, retrying",
					zap.String("operation", operation),
					zap.Int("attempt", attempt))
				return err
			}
			return backoff.Permanent(err)
		}
		result = res
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.maxRetries), ctx))
	if err != nil {
		if perm, ok := err.(*backoff.PermanentError); ok {
			err = perm.Err
		}
		return nil, fmt.Errorf("%s failed: %w", operation, err)
	}

	return result, nil
}

// publish sends an event after a successful commit; delivery is best-effort
func (s *lifecycleService) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishAsync(ctx, event); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("event_type", event.GetEventType()),
			zap.Error(err))
	}
}

// publishUnlocks emits one event per freshly unlocked achievement. Giver
// achievements belong to giverID; quester ids are routed to questerID when
// present.
func (s *lifecycleService) publishUnlocks(ctx context.Context, giverID int64, questerID *int64, unlocked []string) {
	for _, id := range unlocked {
		userID := giverID
		switch id {
		case achievements.FirstQuestCompleted, achievements.SeasonedQuester1,
			achievements.SeasonedQuester2, achievements.TopRated:
			if questerID != nil {
				userID = *questerID
			}
		}
		s.publish(ctx, events.NewAchievementUnlockedEvent(userID, id))
	}
}
