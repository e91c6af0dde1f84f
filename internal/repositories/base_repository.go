// file: internal/repositories/base_repository.go
package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Executor is the subset of database operations repositories need. Both the
// pooled connection manager and *sql.Tx satisfy it, so the same repository
// code serves pool-bound and transaction-bound access.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// BaseRepository provides shared helpers for the SQL repositories
type BaseRepository struct {
	exec   Executor
	logger *zap.Logger
}

// NewBaseRepository creates a new base repository bound to an executor
func NewBaseRepository(exec Executor, logger *zap.Logger) *BaseRepository {
	return &BaseRepository{exec: exec, logger: logger}
}

// Exec returns the bound executor
func (r *BaseRepository) Exec() Executor {
	return r.exec
}

// Logger returns the logger instance
func (r *BaseRepository) Logger() *zap.Logger {
	return r.logger
}

// IsNotFound checks if error is a "not found" error
func (r *BaseRepository) IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// ErrConflict marks a transaction aborted by concurrent modification.
// The SQL store maps serialization failures onto it; in-memory stores used
// in tests return it directly.
var ErrConflict = errors.New("transaction conflict")

// Postgres error codes signalling that the transaction should be retried
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// IsConflict reports whether err is a store-level conflict abort, i.e. the
// operation is safe to retry from the top.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConflict) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqSerializationFailure || pqErr.Code == pqDeadlockDetected
	}
	return false
}
