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

// SubjectRepository defines the interface for subject data operations.
type SubjectRepository interface {
	Create(ctx context.Context, subject *domain.Subject) error
	GetByID(ctx context.Context, id int64) (*domain.Subject, error)
	List(ctx context.Context) ([]domain.Subject, error)
	Update(ctx context.Context, subject *domain.Subject) error
	Delete(ctx context.Context, id int64) error
}

type sqlxSubjectRepository struct {
	db *sqlx.DB
}

// NewSQLXSubjectRepository creates a new instance of sqlxSubjectRepository.
func NewSQLXSubjectRepository(db *sqlx.DB) SubjectRepository {
	return &sqlxSubjectRepository{db: db}
}

func toDomainSubject(m *models.Subject) *domain.Subject {
	if m == nil {
		return nil
	}
	return &domain.Subject{
		ID:          m.ID,
		Name:        m.Name,
		Description: util.NullStringToString(m.Description),
	}
}

func (r *sqlxSubjectRepository) Create(ctx context.Context, subject *domain.Subject) error {
	query := `INSERT INTO subjects (id, name, description) VALUES ($1, $2, $3)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		subject.ID, subject.Name, util.StringToNullString(subject.Description))
	if err != nil {
		return fmt.Errorf("failed to create subject: %w", err)
	}
	return nil
}

func (r *sqlxSubjectRepository) GetByID(ctx context.Context, id int64) (*domain.Subject, error) {
	var subject models.Subject
	query := `SELECT * FROM subjects WHERE id = $1`
	err := GetExecutor(ctx, r.db).GetContext(ctx, &subject, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subject by id: %w", err)
	}
	return toDomainSubject(&subject), nil
}

func (r *sqlxSubjectRepository) List(ctx context.Context) ([]domain.Subject, error) {
	var rows []models.Subject
	query := `SELECT * FROM subjects ORDER BY id`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}

	subjects := make([]domain.Subject, 0, len(rows))
	for i := range rows {
		subjects = append(subjects, *toDomainSubject(&rows[i]))
	}
	return subjects, nil
}

func (r *sqlxSubjectRepository) Update(ctx context.Context, subject *domain.Subject) error {
	query := `UPDATE subjects SET name = $1, description = $2 WHERE id = $3`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		subject.Name, util.StringToNullString(subject.Description), subject.ID)
	if err != nil {
		return fmt.Errorf("failed to update subject: %w", err)
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

func (r *sqlxSubjectRepository) Delete(ctx context.Context, id int64) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
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
