package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-master/internal/idgen"

	"github.com/jmoiron/sqlx"
)

// tableFor maps an entity type to its backing table. Shared by the probe
// store and the sequence reconciler.
func tableFor(entity idgen.EntityType) (string, error) {
	switch entity {
	case idgen.EntityUser:
		return "users", nil
	case idgen.EntitySubject:
		return "subjects", nil
	case idgen.EntityChapter:
		return "chapters", nil
	case idgen.EntityQuiz:
		return "quizzes", nil
	case idgen.EntityQuestion:
		return "questions", nil
	case idgen.EntityScore:
		return "scores", nil
	default:
		return "", fmt.Errorf("no table mapped for entity type %q", entity)
	}
}

// sqlxProbeStore implements idgen.Store against the relational schema. It is
// transaction-aware: when the context carries a transaction, probes see the
// rows inserted by that transaction.
type sqlxProbeStore struct {
	db *sqlx.DB
}

// NewProbeStore creates an idgen.Store backed by the database.
func NewProbeStore(db *sqlx.DB) idgen.Store {
	return &sqlxProbeStore{db: db}
}

func (s *sqlxProbeStore) MaxID(ctx context.Context, entity idgen.EntityType) (int64, bool, error) {
	table, err := tableFor(entity)
	if err != nil {
		return 0, false, err
	}

	var maxID sql.NullInt64
	query := fmt.Sprintf("SELECT MAX(id) FROM %s", table)
	err = GetExecutor(ctx, s.db).GetContext(ctx, &maxID, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read max id for %s: %w", table, err)
	}
	if !maxID.Valid {
		return 0, false, nil
	}
	return maxID.Int64, true, nil
}

func (s *sqlxProbeStore) Exists(ctx context.Context, entity idgen.EntityType, id int64) (bool, error) {
	table, err := tableFor(entity)
	if err != nil {
		return false, err
	}

	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)", table)
	err = GetExecutor(ctx, s.db).GetContext(ctx, &exists, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to probe id %d in %s: %w", id, table, err)
	}
	return exists, nil
}
