package repository

import (
	"context"

	"quiz-master/internal/idgen"
	"quiz-master/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// SequenceReconciler advances a table's native auto-increment counter past a
// manually assigned id, so a future system-generated id cannot collide with
// one assigned below it.
type SequenceReconciler interface {
	// Advance is best-effort: failures are logged and swallowed, never
	// surfaced to the caller of the surrounding create operation.
	Advance(ctx context.Context, entity idgen.EntityType, assignedID int64)
}

type sqlxSequenceReconciler struct {
	db *sqlx.DB
}

// NewSequenceReconciler creates a reconciler for the Postgres sequences
// backing the BIGSERIAL id columns.
func NewSequenceReconciler(db *sqlx.DB) SequenceReconciler {
	return &sqlxSequenceReconciler{db: db}
}

func (r *sqlxSequenceReconciler) Advance(ctx context.Context, entity idgen.EntityType, assignedID int64) {
	table, err := tableFor(entity)
	if err != nil {
		logger.Get().Warn("sequence reconciliation skipped: unknown entity",
			zap.String("entity", string(entity)), zap.Error(err))
		return
	}

	// setval leaves nextval at the set value + 1. GREATEST keeps the counter
	// from moving backwards when a wrapped range assigned a lower id.
	query := `SELECT setval(pg_get_serial_sequence($1, 'id'), GREATEST($2::bigint, COALESCE((SELECT MAX(id) FROM ` + table + `), $2::bigint)))`

	if _, err := r.db.ExecContext(ctx, query, table, assignedID); err != nil {
		logger.Get().Warn("failed to advance id sequence",
			zap.String("table", table),
			zap.Int64("assigned_id", assignedID),
			zap.Error(err))
	}
}
