// file: internal/repositories/user_repository.go
package repositories

import (
	"context"
	"fmt"

	"questhub/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// userRepository implements UserRepository over Postgres
type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new user repository bound to an executor
func NewUserRepository(exec Executor, logger *zap.Logger) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(exec, logger)}
}

const userColumns = `id, username, quests_completed, quests_given_completed, total_rating_score, number_of_ratings, unlocked_achievements, created_at`

// mergeAchievements is the SQL set union used by every credit method: ids
// already unlocked are never duplicated and never removed, regardless of the
// order concurrent credits land in.
const mergeAchievements = `(
	SELECT COALESCE(array_agg(DISTINCT a ORDER BY a), '{}')
	FROM unnest(unlocked_achievements || $2::text[]) AS a
)`

// Create inserts a new reputation profile with zeroed counters
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username)
		VALUES ($1)
		RETURNING id, created_at`

	err := r.Exec().QueryRowContext(ctx, query, user.Username).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID, returning (nil, nil) when absent
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := r.scanUser(r.Exec().QueryRowContext(ctx, query, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// CreditQuestCompleted increments the quester-side completion counter and
// merges any freshly earned achievements.
func (r *userRepository) CreditQuestCompleted(ctx context.Context, userID int64, newAchievements []string) error {
	query := fmt.Sprintf(`
		UPDATE users
		SET quests_completed = quests_completed + 1,
		    unlocked_achievements = %s
		WHERE id = $1`, mergeAchievements)

	if _, err := r.Exec().ExecContext(ctx, query, userID, pq.Array(achievementArg(newAchievements))); err != nil {
		return fmt.Errorf("failed to credit completed quest: %w", err)
	}
	return nil
}

// CreditQuestGiven increments the giver-side completion counter and merges
// any freshly earned achievements.
func (r *userRepository) CreditQuestGiven(ctx context.Context, userID int64, newAchievements []string) error {
	query := fmt.Sprintf(`
		UPDATE users
		SET quests_given_completed = quests_given_completed + 1,
		    unlocked_achievements = %s
		WHERE id = $1`, mergeAchievements)

	if _, err := r.Exec().ExecContext(ctx, query, userID, pq.Array(achievementArg(newAchievements))); err != nil {
		return fmt.Errorf("failed to credit given quest: %w", err)
	}
	return nil
}

// ApplyRating folds one rating into the running aggregate and merges any
// freshly earned achievements.
func (r *userRepository) ApplyRating(ctx context.Context, userID int64, rating int, newAchievements []string) error {
	query := fmt.Sprintf(`
		UPDATE users
		SET total_rating_score = total_rating_score + $3,
		    number_of_ratings = number_of_ratings + 1,
		    unlocked_achievements = %s
		WHERE id = $1`, mergeAchievements)

	if _, err := r.Exec().ExecContext(ctx, query, userID, pq.Array(achievementArg(newAchievements)), rating); err != nil {
		return fmt.Errorf("failed to apply rating: %w", err)
	}
	return nil
}

// TopByMetric lists the highest-scoring users by a whitelisted counter column
func (r *userRepository) TopByMetric(ctx context.Context, metric string, limit int) ([]*models.User, error) {
	column, ok := leaderboardColumns[metric]
	if !ok {
		return nil, fmt.Errorf("unknown leaderboard metric: %q", metric)
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	query := fmt.Sprintf(`
		SELECT %s FROM users
		ORDER BY %s DESC, id ASC
		LIMIT $1`, userColumns, column)

	rows, err := r.Exec().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// leaderboardColumns whitelists the columns TopByMetric may sort by; the
// metric name is interpolated into SQL and must never come from user input
// unchecked.
var leaderboardColumns = map[string]string{
	MetricQuestsCompleted:      "quests_completed",
	MetricQuestsGivenCompleted: "quests_given_completed",
	MetricNumberOfRatings:      "number_of_ratings",
}

func (r *userRepository) scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.QuestsCompleted, &user.QuestsGivenCompleted,
		&user.TotalRatingScore, &user.NumberOfRatings,
		pq.Array(&user.UnlockedAchievements), &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// achievementArg keeps the merge expression well-typed when nothing new unlocked
func achievementArg(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
