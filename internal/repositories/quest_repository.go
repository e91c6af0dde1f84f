// file: internal/repositories/quest_repository.go
package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"questhub/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// questRepository implements QuestRepository over Postgres
type questRepository struct {
	*BaseRepository
}

// NewQuestRepository creates a new quest repository bound to an executor
func NewQuestRepository(exec Executor, logger *zap.Logger) QuestRepository {
	return &questRepository{BaseRepository: NewBaseRepository(exec, logger)}
}

const questColumns = `id, quest_giver_id, title, category, status, hired_applicant_id, created_at, completed_at`

// Create inserts a new open quest
func (r *questRepository) Create(ctx context.Context, quest *models.Quest) error {
	query := `
		INSERT INTO quests (quest_giver_id, title, category, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	if quest.Status == "" {
		quest.Status = models.QuestStatusOpen
	}

	err := r.Exec().QueryRowContext(
		ctx, query,
		quest.QuestGiverID, quest.Title, quest.Category, quest.Status,
	).Scan(&quest.ID, &quest.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create quest: %w", err)
	}

	return nil
}

// GetByID retrieves a quest by ID, returning (nil, nil) when absent
func (r *questRepository) GetByID(ctx context.Context, id int64) (*models.Quest, error) {
	query := fmt.Sprintf(`SELECT %s FROM quests WHERE id = $1`, questColumns)

	quest, err := r.scanQuest(r.Exec().QueryRowContext(ctx, query, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quest by ID: %w", err)
	}

	return quest, nil
}

// Delete removes a quest record
func (r *questRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.Exec().ExecContext(ctx, `DELETE FROM quests WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete quest: %w", err)
	}
	return nil
}

// MarkInProgress records the hire: status moves to in-progress and the
// winning applicant is pinned on the quest.
func (r *questRepository) MarkInProgress(ctx context.Context, questID, hiredApplicantID int64) error {
	query := `
		UPDATE quests
		SET status = $2, hired_applicant_id = $3
		WHERE id = $1`

	if _, err := r.Exec().ExecContext(ctx, query, questID, models.QuestStatusInProgress, hiredApplicantID); err != nil {
		return fmt.Errorf("failed to mark quest in progress: %w", err)
	}
	return nil
}

// MarkCompleted records completion with the server-assigned timestamp
func (r *questRepository) MarkCompleted(ctx context.Context, questID int64, completedAt time.Time) error {
	query := `
		UPDATE quests
		SET status = $2, completed_at = $3
		WHERE id = $1`

	if _, err := r.Exec().ExecContext(ctx, query, questID, models.QuestStatusCompleted, completedAt); err != nil {
		return fmt.Errorf("failed to mark quest completed: %w", err)
	}
	return nil
}

// Archive moves an open quest to the archived terminal state
func (r *questRepository) Archive(ctx context.Context, questID int64) error {
	query := `UPDATE quests SET status = $2 WHERE id = $1`

	if _, err := r.Exec().ExecContext(ctx, query, questID, models.QuestStatusArchived); err != nil {
		return fmt.Errorf("failed to archive quest: %w", err)
	}
	return nil
}

// ListByGiver lists a giver's quests newest first, optionally filtered by status
func (r *questRepository) ListByGiver(ctx context.Context, giverID int64, statuses []models.QuestStatus, limit int) ([]*models.Quest, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `SELECT %s FROM quests WHERE quest_giver_id = $1`, questColumns)
	args := []interface{}{giverID}
	if len(statuses) > 0 {
		args = append(args, pq.Array(statusStrings(statuses)))
		fmt.Fprintf(&sb, ` AND status = ANY($%d)`, len(args))
	}
	args = append(args, limit)
	fmt.Fprintf(&sb, ` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := r.Exec().QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quests by giver: %w", err)
	}
	defer rows.Close()

	var quests []*models.Quest
	for rows.Next() {
		quest, err := r.scanQuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quest row: %w", err)
		}
		quests = append(quests, quest)
	}

	return quests, rows.Err()
}

// CountByGiverAndStatus counts a giver's quests in the given statuses
func (r *questRepository) CountByGiverAndStatus(ctx context.Context, giverID int64, statuses []models.QuestStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM quests WHERE quest_giver_id = $1`
	args := []interface{}{giverID}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		args = append(args, pq.Array(statusStrings(statuses)))
	}

	var count int64
	if err := r.Exec().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count quests by giver: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *questRepository) scanQuest(row rowScanner) (*models.Quest, error) {
	var quest models.Quest
	err := row.Scan(
		&quest.ID, &quest.QuestGiverID, &quest.Title, &quest.Category,
		&quest.Status, &quest.HiredApplicantID, &quest.CreatedAt, &quest.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &quest, nil
}

func statusStrings(statuses []models.QuestStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
