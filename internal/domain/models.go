package domain

import "time"

// User is an account in the system. Passwords are stored hashed; the hash is
// opaque to everything outside the auth service.
type User struct {
	ID            int64
	Username      string
	PasswordHash  string
	FullName      string
	Email         string
	Qualification string
	DateOfBirth   *time.Time
	IsAdmin       bool
	CreatedAt     time.Time
}

// Subject is a top-level content grouping. It owns zero or more chapters.
type Subject struct {
	ID          int64
	Name        string
	Description string
}

// Chapter belongs to a subject and owns zero or more quizzes.
type Chapter struct {
	ID          int64
	Name        string
	Description string
	SubjectID   int64
}

// Quiz belongs to a chapter and owns questions and scores.
type Quiz struct {
	ID          int64
	Title       string
	Description string
	ChapterID   int64
	Duration    int // minutes
	DateOfQuiz  time.Time
	Remarks     string
}

// Question is a multiple-choice question with exactly four options.
// CorrectOption is 1-based and must be in 1..4.
type Question struct {
	ID            int64
	QuizID        int64
	QuestionText  string
	Option1       string
	Option2       string
	Option3       string
	Option4       string
	CorrectOption int
}

// Score is an append-only record of one quiz attempt. Rows are never updated
// once written.
type Score struct {
	ID             int64
	UserID         int64
	QuizID         int64
	Score          float64 // percentage
	TotalQuestions int
	CorrectAnswers int
	TimeTaken      int // seconds
	Timestamp      time.Time
}
