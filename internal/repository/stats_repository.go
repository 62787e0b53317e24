package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SubjectScoreStat is the average score and attempt count for one subject.
type SubjectScoreStat struct {
	SubjectID   int64   `db:"subject_id"`
	SubjectName string  `db:"subject_name"`
	AvgScore    float64 `db:"avg_score"`
	Attempts    int     `db:"attempts"`
}

// RecentScoreStat is one recent attempt with its user and quiz names.
type RecentScoreStat struct {
	ScoreID   int64     `db:"score_id"`
	Username  string    `db:"username"`
	QuizTitle string    `db:"quiz_title"`
	Score     float64   `db:"score"`
	CreatedAt time.Time `db:"created_at"`
}

// RecentQuizStat is one recently created quiz.
type RecentQuizStat struct {
	QuizID     int64     `db:"quiz_id"`
	Title      string    `db:"title"`
	DateOfQuiz time.Time `db:"date_of_quiz"`
}

// RecentUserStat is one recent registration.
type RecentUserStat struct {
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	CreatedAt time.Time `db:"created_at"`
}

// QuizDistributionStat is the number of quizzes under one subject.
type QuizDistributionStat struct {
	SubjectName string `db:"subject_name"`
	Count       int    `db:"count"`
}

// EntityCounts holds the dashboard headline counters. Users excludes admins.
type EntityCounts struct {
	Users     int `db:"users"`
	Subjects  int `db:"subjects"`
	Chapters  int `db:"chapters"`
	Quizzes   int `db:"quizzes"`
	Questions int `db:"questions"`
	Attempts  int `db:"attempts"`
}

// StatsRepository aggregates read-only reporting queries for the admin
// dashboard. It introduces no new invariants; everything is derived from
// persisted rows.
type StatsRepository interface {
	Counts(ctx context.Context) (*EntityCounts, error)
	SubjectScores(ctx context.Context) ([]SubjectScoreStat, error)
	RecentScores(ctx context.Context, limit int) ([]RecentScoreStat, error)
	RecentQuizzes(ctx context.Context, limit int) ([]RecentQuizStat, error)
	RecentRegistrations(ctx context.Context, limit int) ([]RecentUserStat, error)
	QuizDistribution(ctx context.Context) ([]QuizDistributionStat, error)
	CountUsersCreatedBefore(ctx context.Context, t time.Time) (int, error)
	CountUsersCreatedSince(ctx context.Context, t time.Time) (int, error)
}

type sqlxStatsRepository struct {
	db *sqlx.DB
}

// NewSQLXStatsRepository creates a new instance of sqlxStatsRepository.
func NewSQLXStatsRepository(db *sqlx.DB) StatsRepository {
	return &sqlxStatsRepository{db: db}
}

func (r *sqlxStatsRepository) Counts(ctx context.Context) (*EntityCounts, error) {
	var counts EntityCounts
	query := `SELECT
	            (SELECT COUNT(*) FROM users WHERE is_admin = FALSE) AS users,
	            (SELECT COUNT(*) FROM subjects) AS subjects,
	            (SELECT COUNT(*) FROM chapters) AS chapters,
	            (SELECT COUNT(*) FROM quizzes) AS quizzes,
	            (SELECT COUNT(*) FROM questions) AS questions,
	            (SELECT COUNT(*) FROM scores) AS attempts`
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("failed to read entity counts: %w", err)
	}
	return &counts, nil
}

func (r *sqlxStatsRepository) SubjectScores(ctx context.Context) ([]SubjectScoreStat, error) {
	var rows []SubjectScoreStat
	query := `SELECT sub.id AS subject_id, sub.name AS subject_name,
	                 COALESCE(AVG(s.score), 0) AS avg_score,
	                 COUNT(s.id) AS attempts
	          FROM subjects sub
	          LEFT JOIN chapters c ON c.subject_id = sub.id
	          LEFT JOIN quizzes q ON q.chapter_id = c.id
	          LEFT JOIN scores s ON s.quiz_id = q.id
	          GROUP BY sub.id, sub.name
	          ORDER BY sub.id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to read subject score stats: %w", err)
	}
	return rows, nil
}

func (r *sqlxStatsRepository) RecentScores(ctx context.Context, limit int) ([]RecentScoreStat, error) {
	var rows []RecentScoreStat
	query := `SELECT s.id AS score_id, u.username, q.title AS quiz_title, s.score, s.created_at
	          FROM scores s
	          JOIN users u ON u.id = s.user_id
	          JOIN quizzes q ON q.id = s.quiz_id
	          ORDER BY s.created_at DESC
	          LIMIT $1`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to read recent scores: %w", err)
	}
	return rows, nil
}

func (r *sqlxStatsRepository) RecentQuizzes(ctx context.Context, limit int) ([]RecentQuizStat, error) {
	var rows []RecentQuizStat
	query := `SELECT id AS quiz_id, title, date_of_quiz FROM quizzes ORDER BY id DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to read recent quizzes: %w", err)
	}
	return rows, nil
}

func (r *sqlxStatsRepository) RecentRegistrations(ctx context.Context, limit int) ([]RecentUserStat, error) {
	var rows []RecentUserStat
	query := `SELECT id AS user_id, username, created_at
	          FROM users WHERE is_admin = FALSE
	          ORDER BY created_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to read recent registrations: %w", err)
	}
	return rows, nil
}

func (r *sqlxStatsRepository) QuizDistribution(ctx context.Context) ([]QuizDistributionStat, error) {
	var rows []QuizDistributionStat
	query := `SELECT sub.name AS subject_name, COUNT(q.id) AS count
	          FROM subjects sub
	          JOIN chapters c ON c.subject_id = sub.id
	          JOIN quizzes q ON q.chapter_id = c.id
	          GROUP BY sub.name
	          HAVING COUNT(q.id) > 0
	          ORDER BY sub.name`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to read quiz distribution: %w", err)
	}
	return rows, nil
}

func (r *sqlxStatsRepository) CountUsersCreatedBefore(ctx context.Context, t time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE is_admin = FALSE AND created_at <= $1`
	if err := r.db.GetContext(ctx, &count, query, t); err != nil {
		return 0, fmt.Errorf("failed to count users created before %s: %w", t, err)
	}
	return count, nil
}

func (r *sqlxStatsRepository) CountUsersCreatedSince(ctx context.Context, t time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE is_admin = FALSE AND created_at >= $1`
	if err := r.db.GetContext(ctx, &count, query, t); err != nil {
		return 0, fmt.Errorf("failed to count users created since %s: %w", t, err)
	}
	return count, nil
}
