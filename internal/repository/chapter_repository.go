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

// ChapterRepository defines the interface for chapter data operations.
type ChapterRepository interface {
	Create(ctx context.Context, chapter *domain.Chapter) error
	GetByID(ctx context.Context, id int64) (*domain.Chapter, error)
	ListBySubject(ctx context.Context, subjectID int64) ([]domain.Chapter, error)
	Update(ctx context.Context, chapter *domain.Chapter) error
	Delete(ctx context.Context, id int64) error
}

type sqlxChapterRepository struct {
	db *sqlx.DB
}

// NewSQLXChapterRepository creates a new instance of sqlxChapterRepository.
func NewSQLXChapterRepository(db *sqlx.DB) ChapterRepository {
	return &sqlxChapterRepository{db: db}
}

func toDomainChapter(m *models.Chapter) *domain.Chapter {
	if m == nil {
		return nil
	}
	return &domain.Chapter{
		ID:          m.ID,
		Name:        m.Name,
		Description: util.NullStringToString(m.Description),
		SubjectID:   m.SubjectID,
	}
}

func (r *sqlxChapterRepository) Create(ctx context.Context, chapter *domain.Chapter) error {
	query := `INSERT INTO chapters (id, name, description, subject_id) VALUES ($1, $2, $3, $4)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		chapter.ID, chapter.Name, util.StringToNullString(chapter.Description), chapter.SubjectID)
	if err != nil {
		return fmt.Errorf("failed to create chapter: %w", err)
	}
	return nil
}

func (r *sqlxChapterRepository) GetByID(ctx context.Context, id int64) (*domain.Chapter, error) {
	var chapter models.Chapter
	query := `SELECT * FROM chapters WHERE id = $1`
	err := GetExecutor(ctx, r.db).GetContext(ctx, &chapter, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chapter by id: %w", err)
	}
	return toDomainChapter(&chapter), nil
}

func (r *sqlxChapterRepository) ListBySubject(ctx context.Context, subjectID int64) ([]domain.Chapter, error) {
	var rows []models.Chapter
	query := `SELECT * FROM chapters WHERE subject_id = $1 ORDER BY id`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, subjectID); err != nil {
		return nil, fmt.Errorf("failed to list chapters for subject %d: %w", subjectID, err)
	}

	chapters := make([]domain.Chapter, 0, len(rows))
	for i := range rows {
		chapters = append(chapters, *toDomainChapter(&rows[i]))
	}
	return chapters, nil
}

func (r *sqlxChapterRepository) Update(ctx context.Context, chapter *domain.Chapter) error {
	query := `UPDATE chapters SET name = $1, description = $2 WHERE id = $3`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		chapter.Name, util.StringToNullString(chapter.Description), chapter.ID)
	if err != nil {
		return fmt.Errorf("failed to update chapter: %w", err)
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

func (r *sqlxChapterRepository) Delete(ctx context.Context, id int64) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM chapters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chapter: %w", err)
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
