package dto

import "time"

// SubmitAttemptRequest is the request body for a quiz attempt. Answers maps
// question id (as a string key, the JSON convention of the frontend) to the
// selected option. Values may arrive as numbers or strings; anything that
// cannot be coerced to an integer counts as incorrect.
type SubmitAttemptRequest struct {
	Answers   map[string]interface{} `json:"answers"`
	TimeTaken int                    `json:"time_taken,omitempty"` // seconds
}

// QuestionResult is the per-question breakdown returned with an attempt.
type QuestionResult struct {
	QuestionID    int64       `json:"question_id"`
	QuestionText  string      `json:"question_text"`
	UserAnswer    interface{} `json:"user_answer"`
	CorrectAnswer int         `json:"correct_answer"`
	IsCorrect     bool        `json:"is_correct"`
}

// AttemptResponse is returned after a quiz attempt is scored and persisted.
type AttemptResponse struct {
	ID              int64            `json:"id"`
	QuizID          int64            `json:"quiz_id"`
	Score           float64          `json:"score"`
	TotalQuestions  int              `json:"total_questions"`
	CorrectAnswers  int              `json:"correct_answers"`
	TimeTaken       int              `json:"time_taken"`
	Timestamp       time.Time        `json:"timestamp"`
	QuestionResults []QuestionResult `json:"question_results"`
}

// ScoreDetailResponse is one historical attempt with content names resolved.
type ScoreDetailResponse struct {
	ID             int64     `json:"id"`
	QuizID         int64     `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title"`
	ChapterName    string    `json:"chapter_name"`
	SubjectName    string    `json:"subject_name"`
	Score          float64   `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	TimeTaken      int       `json:"time_taken"`
	Timestamp      time.Time `json:"timestamp"`
}

// RecentScoreResponse is a compact entry for the dashboard's recent list.
type RecentScoreResponse struct {
	ID       int64     `json:"id"`
	QuizName string    `json:"quizName"`
	Date     time.Time `json:"date"`
	Score    float64   `json:"score"`
}

// SubjectProgressResponse is the per-subject completion percentage.
type SubjectProgressResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Progress int    `json:"progress"` // percent of quizzes attempted
}

// UserDashboardResponse is the learner's score overview.
type UserDashboardResponse struct {
	Scores          []ScoreDetailResponse     `json:"scores"`
	SubjectsCount   int                       `json:"subjects_count"`
	AttemptsCount   int                       `json:"attempts_count"`
	AverageScore    float64                   `json:"average_score"`
	RecentScores    []RecentScoreResponse     `json:"recent_scores"`
	SubjectProgress []SubjectProgressResponse `json:"subject_progress"`
}
