package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"quiz-master/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func userColumns() []string {
	return []string{"id", "username", "password_hash", "full_name", "email", "qualification", "date_of_birth", "is_admin", "created_at"}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSQLXUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(userColumns()).
		AddRow(int64(1042), "alice", "hash", "Alice Example", "alice@example.com", sql.NullString{String: "BSc", Valid: true}, sql.NullTime{}, false, now)

	mock.ExpectQuery(`SELECT \* FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(rows)

	user, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(1042), user.ID)
	assert.Equal(t, "BSc", user.Qualification)
	assert.Nil(t, user.DateOfBirth)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUsername_NotFoundIsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSQLXUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM users WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	user, err := repo.GetByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSQLXUserRepository(db)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &domain.User{
		ID:           1042,
		Username:     "alice",
		PasswordHash: "hash",
		FullName:     "Alice Example",
		Email:        "alice@example.com",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_MissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSQLXUserRepository(db)

	mock.ExpectExec(`UPDATE users SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.User{ID: 9999})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_HasAdmin(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSQLXUserRepository(db)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE is_admin = TRUE\)`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	has, err := repo.HasAdmin(context.Background())
	require.NoError(t, err)
	assert.True(t, has)
	assert.NoError(t, mock.ExpectationsWereMet())
}
