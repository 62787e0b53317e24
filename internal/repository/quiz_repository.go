package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-master/internal/domain"
	"quiz-master/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// QuizRepository defines the interface for quiz data operations.
type QuizRepository interface {
	Create(ctx context.Context, quiz *domain.Quiz) error
	GetByID(ctx context.Context, id int64) (*domain.Quiz, error)
	ListByChapter(ctx context.Context, chapterID int64) ([]domain.Quiz, error)
	CountQuestions(ctx context.Context, quizID int64) (int, error)
	Update(ctx context.Context, quiz *domain.Quiz) error
	Delete(ctx context.Context, id int64) error
}

type sqlxQuizRepository struct {
	db *sqlx.DB
}

// NewSQLXQuizRepository creates a new instance of sqlxQuizRepository.
func NewSQLXQuizRepository(db *sqlx.DB) QuizRepository {
	return &sqlxQuizRepository{db: db}
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	return &domain.Quiz{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		ChapterID:   m.ChapterID,
		Duration:    m.Duration,
		DateOfQuiz:  m.DateOfQuiz,
		Remarks:     m.Remarks,
	}
}

func (r *sqlxQuizRepository) Create(ctx context.Context, quiz *domain.Quiz) error {
	query := `INSERT INTO quizzes (id, title, description, chapter_id, duration, date_of_quiz, remarks)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		quiz.ID, quiz.Title, quiz.Description, quiz.ChapterID, quiz.Duration, quiz.DateOfQuiz, quiz.Remarks)
	if err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

func (r *sqlxQuizRepository) GetByID(ctx context.Context, id int64) (*domain.Quiz, error) {
	var quiz models.Quiz
	query := `SELECT * FROM quizzes WHERE id = $1`
	err := GetExecutor(ctx, r.db).GetContext(ctx, &quiz, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by id: %w", err)
	}
	return toDomainQuiz(&quiz), nil
}

func (r *sqlxQuizRepository) ListByChapter(ctx context.Context, chapterID int64) ([]domain.Quiz, error) {
	var rows []models.Quiz
	query := `SELECT * FROM quizzes WHERE chapter_id = $1 ORDER BY id`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, chapterID); err != nil {
		return nil, fmt.Errorf("failed to list quizzes for chapter %d: %w", chapterID, err)
	}

	quizzes := make([]domain.Quiz, 0, len(rows))
	for i := range rows {
		quizzes = append(quizzes, *toDomainQuiz(&rows[i]))
	}
	return quizzes, nil
}

func (r *sqlxQuizRepository) CountQuestions(ctx context.Context, quizID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM questions WHERE quiz_id = $1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &count, query, quizID); err != nil {
		return 0, fmt.Errorf("failed to count questions for quiz %d: %w", quizID, err)
	}
	return count, nil
}

func (r *sqlxQuizRepository) Update(ctx context.Context, quiz *domain.Quiz) error {
	query := `UPDATE quizzes SET title = $1, description = $2, duration = $3, date_of_quiz = $4, remarks = $5 WHERE id = $6`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		quiz.Title, quiz.Description, quiz.Duration, quiz.DateOfQuiz, quiz.Remarks, quiz.ID)
	if err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
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

func (r *sqlxQuizRepository) Delete(ctx context.Context, id int64) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
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
