// file: internal/repositories/application_repository.go
package repositories

import (
	"context"
	"fmt"

	"questhub/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// applicationRepository implements ApplicationRepository over Postgres
type applicationRepository struct {
	*BaseRepository
}

// NewApplicationRepository creates a new application repository bound to an executor
func NewApplicationRepository(exec Executor, logger *zap.Logger) ApplicationRepository {
	return &applicationRepository{BaseRepository: NewBaseRepository(exec, logger)}
}

const applicationColumns = `id, quest_id, applicant_id, quest_giver_id, status, giver_rating, giver_rated, created_at`

// Create inserts a new pending application
func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	query := `
		INSERT INTO applications (quest_id, applicant_id, quest_giver_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	if app.Status == "" {
		app.Status = models.ApplicationStatusPending
	}

	err := r.Exec().QueryRowContext(
		ctx, query,
		app.QuestID, app.ApplicantID, app.QuestGiverID, app.Status,
	).Scan(&app.ID, &app.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// GetByID retrieves an application by ID, returning (nil, nil) when absent
func (r *applicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM applications WHERE id = $1`, applicationColumns)

	app, err := r.scanApplication(r.Exec().QueryRowContext(ctx, query, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application by ID: %w", err)
	}

	return app, nil
}

// SetStatus updates an application's status
func (r *applicationRepository) SetStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	query := `UPDATE applications SET status = $2 WHERE id = $1`

	if _, err := r.Exec().ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("failed to set application status: %w", err)
	}
	return nil
}

// SetRating records the giver's rating and locks the application against re-rating
func (r *applicationRepository) SetRating(ctx context.Context, id int64, rating int) error {
	query := `UPDATE applications SET giver_rating = $2, giver_rated = TRUE WHERE id = $1`

	if _, err := r.Exec().ExecContext(ctx, query, id, rating); err != nil {
		return fmt.Errorf("failed to set application rating: %w", err)
	}
	return nil
}

// RejectPendingForQuest rejects every still-pending application for a quest
// except the given one, returning how many were rejected.
func (r *applicationRepository) RejectPendingForQuest(ctx context.Context, questID, exceptID int64) (int64, error) {
	query := `
		UPDATE applications
		SET status = $3
		WHERE quest_id = $1 AND id <> $2 AND status = $4`

	result, err := r.Exec().ExecContext(ctx, query, questID, exceptID,
		models.ApplicationStatusRejected, models.ApplicationStatusPending)
	if err != nil {
		return 0, fmt.Errorf("failed to reject pending applications: %w", err)
	}

	rejected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count rejected applications: %w", err)
	}
	return rejected, nil
}

// FindHired resolves the hired or completed application a quest's winning
// applicant holds, returning (nil, nil) when none exists. Lets callers
// backfill the optional identifiers the completion operation tolerates
// losing.
func (r *applicationRepository) FindHired(ctx context.Context, questID, applicantID int64) (*models.Application, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM applications
		WHERE quest_id = $1 AND applicant_id = $2 AND status = ANY($3)
		ORDER BY created_at DESC
		LIMIT 1`, applicationColumns)

	app, err := r.scanApplication(r.Exec().QueryRowContext(ctx, query, questID, applicantID,
		pq.Array([]string{string(models.ApplicationStatusHired), string(models.ApplicationStatusCompleted)})))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find hired application: %w", err)
	}

	return app, nil
}

// CountPendingByQuest counts pending applications for one quest
func (r *applicationRepository) CountPendingByQuest(ctx context.Context, questID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM applications WHERE quest_id = $1 AND status = $2`

	var count int64
	if err := r.Exec().QueryRowContext(ctx, query, questID, models.ApplicationStatusPending).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending applications: %w", err)
	}
	return count, nil
}

// CountPendingByGiver counts pending applications across all of a giver's quests
func (r *applicationRepository) CountPendingByGiver(ctx context.Context, giverID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM applications WHERE quest_giver_id = $1 AND status = $2`

	var count int64
	if err := r.Exec().QueryRowContext(ctx, query, giverID, models.ApplicationStatusPending).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending applications for giver: %w", err)
	}
	return count, nil
}

func (r *applicationRepository) scanApplication(row rowScanner) (*models.Application, error) {
	var app models.Application
	err := row.Scan(
		&app.ID, &app.QuestID, &app.ApplicantID, &app.QuestGiverID,
		&app.Status, &app.GiverRating, &app.GiverRated, &app.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}
