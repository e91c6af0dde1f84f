// file: internal/repositories/collection.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"questhub/internal/database"

	"go.uber.org/zap"
)

// Collection is the Postgres-backed Store. A pool-bound Collection serves
// everyday reads; WithTransaction hands callbacks a transaction-bound
// Collection whose repositories all share one SERIALIZABLE transaction.
type Collection struct {
	quests       QuestRepository
	applications ApplicationRepository
	users        UserRepository

	db     *database.Manager
	logger *zap.Logger
}

// NewCollection creates a Store backed by the pooled database manager
func NewCollection(db *database.Manager, logger *zap.Logger) *Collection {
	return &Collection{
		quests:       NewQuestRepository(db, logger),
		applications: NewApplicationRepository(db, logger),
		users:        NewUserRepository(db, logger),
		db:           db,
		logger:       logger,
	}
}

// Quests returns the quest repository
func (c *Collection) Quests() QuestRepository {
	return c.quests
}

// Applications returns the application repository
func (c *Collection) Applications() ApplicationRepository {
	return c.applications
}

// Users returns the user repository
func (c *Collection) Users() UserRepository {
	return c.users
}

// WithTransaction runs fn inside one SERIALIZABLE transaction. Every
// repository on the store passed to fn is bound to that transaction, so a
// callback's reads and writes either all commit together or all roll back.
// Serialization failures surface through IsConflict so callers can retry.
func (c *Collection) WithTransaction(ctx context.Context, fn func(Store) error) error {
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := &Collection{
		quests:       NewQuestRepository(tx, c.logger),
		applications: NewApplicationRepository(tx, c.logger),
		users:        NewUserRepository(tx, c.logger),
		db:           c.db,
		logger:       c.logger,
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			c.logger.Error("transaction rollback failed",
				zap.Error(rbErr),
				zap.NamedError("cause", err))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
