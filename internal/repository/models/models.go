package models

import (
	"database/sql"
	"time"
)

// User mirrors the users table.
type User struct {
	ID            int64          `db:"id"`
	Username      string         `db:"username"`
	PasswordHash  string         `db:"password_hash"`
	FullName      string         `db:"full_name"`
	Email         string         `db:"email"`
	Qualification sql.NullString `db:"qualification"`
	DateOfBirth   sql.NullTime   `db:"date_of_birth"`
	IsAdmin       bool           `db:"is_admin"`
	CreatedAt     time.Time      `db:"created_at"`
}

// Subject mirrors the subjects table.
type Subject struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
}

// Chapter mirrors the chapters table.
type Chapter struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	SubjectID   int64          `db:"subject_id"`
}

// Quiz mirrors the quizzes table.
type Quiz struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	ChapterID   int64     `db:"chapter_id"`
	Duration    int       `db:"duration"`
	DateOfQuiz  time.Time `db:"date_of_quiz"`
	Remarks     string    `db:"remarks"`
}

// Question mirrors the questions table.
type Question struct {
	ID            int64  `db:"id"`
	QuizID        int64  `db:"quiz_id"`
	QuestionText  string `db:"question_text"`
	Option1       string `db:"option1"`
	Option2       string `db:"option2"`
	Option3       string `db:"option3"`
	Option4       string `db:"option4"`
	CorrectOption int    `db:"correct_option"`
}

// Score mirrors the scores table. Rows are append-only.
type Score struct {
	ID             int64     `db:"id"`
	UserID         int64     `db:"user_id"`
	QuizID         int64     `db:"quiz_id"`
	Score          float64   `db:"score"`
	TotalQuestions int       `db:"total_questions"`
	CorrectAnswers int       `db:"correct_answers"`
	TimeTaken      int       `db:"time_taken"`
	CreatedAt      time.Time `db:"created_at"`
}
