package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-master/internal/domain"
	"quiz-master/internal/repository/models"
	"quiz-master/internal/util"

	"github.com/jmoiron/sqlx"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
	HasAdmin(ctx context.Context) (bool, error)
}

type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) UserRepository {
	return &sqlxUserRepository{db: db}
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:            m.ID,
		Username:      m.Username,
		PasswordHash:  m.PasswordHash,
		FullName:      m.FullName,
		Email:         m.Email,
		Qualification: util.NullStringToString(m.Qualification),
		DateOfBirth:   util.NullTimeToTimePtr(m.DateOfBirth),
		IsAdmin:       m.IsAdmin,
		CreatedAt:     m.CreatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:            u.ID,
		Username:      u.Username,
		PasswordHash:  u.PasswordHash,
		FullName:      u.FullName,
		Email:         u.Email,
		Qualification: util.StringToNullString(u.Qualification),
		DateOfBirth:   util.TimePtrToNullTime(u.DateOfBirth),
		IsAdmin:       u.IsAdmin,
		CreatedAt:     u.CreatedAt,
	}
}

func (r *sqlxUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, username, password_hash, full_name, email, qualification, date_of_birth, is_admin, created_at)
	          VALUES (:id, :username, :password_hash, :full_name, :email, :qualification, :date_of_birth, :is_admin, :created_at)`

	_, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, r.db), query, fromDomainUser(user))
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqlxUserRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var user models.User
	err := GetExecutor(ctx, r.db).GetContext(ctx, &user, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found is not an error at this layer
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toDomainUser(&user), nil
}

func (r *sqlxUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, `SELECT * FROM users WHERE id = $1`, id)
}

func (r *sqlxUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT * FROM users WHERE username = $1`, username)
}

func (r *sqlxUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT * FROM users WHERE email = $1`, email)
}

func (r *sqlxUserRepository) List(ctx context.Context) ([]domain.User, error) {
	var rows []models.User
	query := `SELECT * FROM users ORDER BY id`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, *toDomainUser(&rows[i]))
	}
	return users, nil
}

func (r *sqlxUserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET
	            full_name = :full_name,
	            email = :email,
	            qualification = :qualification,
	            date_of_birth = :date_of_birth,
	            password_hash = :password_hash
	          WHERE id = :id`

	result, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, r.db), query, fromDomainUser(user))
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sqlxUserRepository) Delete(ctx context.Context, id int64) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sqlxUserRepository) HasAdmin(ctx context.Context) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE is_admin = TRUE)`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &exists, query); err != nil {
		return false, fmt.Errorf("failed to check for admin user: %w", err)
	}
	return exists, nil
}
