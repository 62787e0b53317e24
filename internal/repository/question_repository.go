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

// QuestionRepository defines the interface for question data operations.
type QuestionRepository interface {
	Create(ctx context.Context, question *domain.Question) error
	GetByID(ctx context.Context, id int64) (*domain.Question, error)
	ListByQuiz(ctx context.Context, quizID int64) ([]domain.Question, error)
	Update(ctx context.Context, question *domain.Question) error
	Delete(ctx context.Context, id int64) error
}

type sqlxQuestionRepository struct {
	db *sqlx.DB
}

// NewSQLXQuestionRepository creates a new instance of sqlxQuestionRepository.
func NewSQLXQuestionRepository(db *sqlx.DB) QuestionRepository {
	return &sqlxQuestionRepository{db: db}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:            m.ID,
		QuizID:        m.QuizID,
		QuestionText:  m.QuestionText,
		Option1:       m.Option1,
		Option2:       m.Option2,
		Option3:       m.Option3,
		Option4:       m.Option4,
		CorrectOption: m.CorrectOption,
	}
}

func (r *sqlxQuestionRepository) Create(ctx context.Context, question *domain.Question) error {
	query := `INSERT INTO questions (id, quiz_id, question_text, option1, option2, option3, option4, correct_option)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		question.ID, question.QuizID, question.QuestionText,
		question.Option1, question.Option2, question.Option3, question.Option4,
		question.CorrectOption)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (r *sqlxQuestionRepository) GetByID(ctx context.Context, id int64) (*domain.Question, error) {
	var question models.Question
	query := `SELECT * FROM questions WHERE id = $1`
	err := GetExecutor(ctx, r.db).GetContext(ctx, &question, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by id: %w", err)
	}
	return toDomainQuestion(&question), nil
}

func (r *sqlxQuestionRepository) ListByQuiz(ctx context.Context, quizID int64) ([]domain.Question, error) {
	var rows []models.Question
	query := `SELECT * FROM questions WHERE quiz_id = $1 ORDER BY id`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to list questions for quiz %d: %w", quizID, err)
	}

	questions := make([]domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, *toDomainQuestion(&rows[i]))
	}
	return questions, nil
}

func (r *sqlxQuestionRepository) Update(ctx context.Context, question *domain.Question) error {
	query := `UPDATE questions SET question_text = $1, option1 = $2, option2 = $3, option3 = $4, option4 = $5, correct_option = $6 WHERE id = $7`
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		question.QuestionText, question.Option1, question.Option2, question.Option3, question.Option4,
		question.CorrectOption, question.ID)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
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

func (r *sqlxQuestionRepository) Delete(ctx context.Context, id int64) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
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
