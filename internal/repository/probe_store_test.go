package repository

import (
	"context"
	"database/sql"
	"testing"

	"quiz-master/internal/idgen"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeStore_MaxID(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewProbeStore(db)

	mock.ExpectQuery(`SELECT MAX\(id\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(int64(1742)))

	id, ok, err := store.MaxID(context.Background(), idgen.EntityUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1742), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProbeStore_MaxID_EmptyTable(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewProbeStore(db)

	// MAX over an empty table yields one NULL row.
	mock.ExpectQuery(`SELECT MAX\(id\) FROM subjects`).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(sql.NullInt64{}))

	_, ok, err := store.MaxID(context.Background(), idgen.EntitySubject)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProbeStore_Exists(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewProbeStore(db)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM quizzes WHERE id = \$1\)`).
		WithArgs(int64(30015)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := store.Exists(context.Background(), idgen.EntityQuiz, 30015)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProbeStore_UnknownEntity(t *testing.T) {
	db, _ := newMockDB(t)
	store := NewProbeStore(db)

	_, _, err := store.MaxID(context.Background(), idgen.EntityType("widget"))
	assert.Error(t, err)

	_, err = store.Exists(context.Background(), idgen.EntityType("widget"), 1)
	assert.Error(t, err)
}
