package repository

import (
	"context"
	"fmt"
	"time"

	"quiz-master/internal/domain"
	"quiz-master/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// ScoreDetail is a score row joined with its quiz, chapter and subject names
// for history views.
type ScoreDetail struct {
	ID             int64     `db:"id"`
	QuizID         int64     `db:"quiz_id"`
	QuizTitle      string    `db:"quiz_title"`
	ChapterName    string    `db:"chapter_name"`
	SubjectName    string    `db:"subject_name"`
	Score          float64   `db:"score"`
	TotalQuestions int       `db:"total_questions"`
	CorrectAnswers int       `db:"correct_answers"`
	TimeTaken      int       `db:"time_taken"`
	CreatedAt      time.Time `db:"created_at"`
}

// SubjectProgress holds per-subject completion counts for one user.
type SubjectProgress struct {
	SubjectID   int64  `db:"subject_id"`
	SubjectName string `db:"subject_name"`
	QuizCount   int    `db:"quiz_count"`
	Attempted   int    `db:"attempted"`
}

// ScoreRepository defines the interface for score data operations. Scores are
// append-only; the only writes besides Create are the cascading deletes that
// run when a user or a piece of content is removed.
type ScoreRepository interface {
	Create(ctx context.Context, score *domain.Score) error
	ListByUser(ctx context.Context, userID int64) ([]ScoreDetail, error)
	SubjectProgressByUser(ctx context.Context, userID int64) ([]SubjectProgress, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	DeleteByQuiz(ctx context.Context, quizID int64) (int64, error)
	DeleteByChapter(ctx context.Context, chapterID int64) (int64, error)
	DeleteBySubject(ctx context.Context, subjectID int64) (int64, error)
}

type sqlxScoreRepository struct {
	db *sqlx.DB
}

// NewSQLXScoreRepository creates a new instance of sqlxScoreRepository.
func NewSQLXScoreRepository(db *sqlx.DB) ScoreRepository {
	return &sqlxScoreRepository{db: db}
}

func fromDomainScore(s *domain.Score) *models.Score {
	return &models.Score{
		ID:             s.ID,
		UserID:         s.UserID,
		QuizID:         s.QuizID,
		Score:          s.Score,
		TotalQuestions: s.TotalQuestions,
		CorrectAnswers: s.CorrectAnswers,
		TimeTaken:      s.TimeTaken,
		CreatedAt:      s.Timestamp,
	}
}

func (r *sqlxScoreRepository) Create(ctx context.Context, score *domain.Score) error {
	query := `INSERT INTO scores (id, user_id, quiz_id, score, total_questions, correct_answers, time_taken, created_at)
	          VALUES (:id, :user_id, :quiz_id, :score, :total_questions, :correct_answers, :time_taken, :created_at)`

	_, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, r.db), query, fromDomainScore(score))
	if err != nil {
		return fmt.Errorf("failed to create score: %w", err)
	}
	return nil
}

func (r *sqlxScoreRepository) ListByUser(ctx context.Context, userID int64) ([]ScoreDetail, error) {
	var rows []ScoreDetail
	query := `SELECT s.id, s.quiz_id, q.title AS quiz_title, c.name AS chapter_name, sub.name AS subject_name,
	                 s.score, s.total_questions, s.correct_answers, s.time_taken, s.created_at
	          FROM scores s
	          JOIN quizzes q ON q.id = s.quiz_id
	          JOIN chapters c ON c.id = q.chapter_id
	          JOIN subjects sub ON sub.id = c.subject_id
	          WHERE s.user_id = $1
	          ORDER BY s.created_at DESC`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list scores for user %d: %w", userID, err)
	}
	return rows, nil
}

func (r *sqlxScoreRepository) SubjectProgressByUser(ctx context.Context, userID int64) ([]SubjectProgress, error) {
	var rows []SubjectProgress
	query := `SELECT sub.id AS subject_id, sub.name AS subject_name,
	                 COUNT(DISTINCT q.id) AS quiz_count,
	                 COUNT(DISTINCT s.quiz_id) AS attempted
	          FROM subjects sub
	          LEFT JOIN chapters c ON c.subject_id = sub.id
	          LEFT JOIN quizzes q ON q.chapter_id = c.id
	          LEFT JOIN scores s ON s.quiz_id = q.id AND s.user_id = $1
	          GROUP BY sub.id, sub.name
	          ORDER BY sub.id`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to compute subject progress for user %d: %w", userID, err)
	}
	return rows, nil
}

// DeleteByUser removes all score rows for a user. Called inside the user
// deletion transaction so the cascade and the user delete are atomic.
func (r *sqlxScoreRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	return r.deleteWhere(ctx, `DELETE FROM scores WHERE user_id = $1`, userID)
}

// DeleteByQuiz removes the score rows referencing a quiz. The scores FK has
// no ON DELETE CASCADE, so content deletion must clear them first.
func (r *sqlxScoreRepository) DeleteByQuiz(ctx context.Context, quizID int64) (int64, error) {
	return r.deleteWhere(ctx,
		`DELETE FROM scores WHERE quiz_id = $1`, quizID)
}

// DeleteByChapter removes the score rows of every quiz under a chapter.
func (r *sqlxScoreRepository) DeleteByChapter(ctx context.Context, chapterID int64) (int64, error) {
	return r.deleteWhere(ctx,
		`DELETE FROM scores WHERE quiz_id IN (SELECT id FROM quizzes WHERE chapter_id = $1)`, chapterID)
}

// DeleteBySubject removes the score rows of every quiz under a subject.
func (r *sqlxScoreRepository) DeleteBySubject(ctx context.Context, subjectID int64) (int64, error) {
	return r.deleteWhere(ctx,
		`DELETE FROM scores WHERE quiz_id IN (
		   SELECT q.id FROM quizzes q
		   JOIN chapters c ON c.id = q.chapter_id
		   WHERE c.subject_id = $1)`, subjectID)
}

func (r *sqlxScoreRepository) deleteWhere(ctx context.Context, query string, arg int64) (int64, error) {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, arg)
	if err != nil {
		return 0, fmt.Errorf("failed to delete scores: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}
