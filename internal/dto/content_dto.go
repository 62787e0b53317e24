package dto

import "time"

// CreateSubjectRequest is the request body for creating a subject.
type CreateSubjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateSubjectRequest carries partial subject updates.
type UpdateSubjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// SubjectResponse represents a subject in API responses.
type SubjectResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SubjectListResponse wraps the subject listing.
type SubjectListResponse struct {
	Subjects []SubjectResponse `json:"subjects"`
}

// CreateChapterRequest is the request body for creating a chapter under a subject.
type CreateChapterRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateChapterRequest carries partial chapter updates.
type UpdateChapterRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ChapterResponse represents a chapter in API responses.
type ChapterResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SubjectID   int64  `json:"subject_id"`
}

// ChapterListResponse wraps a subject's chapter listing.
type ChapterListResponse struct {
	Chapters []ChapterResponse `json:"chapters"`
}

// CreateQuizRequest is the request body for creating a quiz under a chapter.
type CreateQuizRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Duration    int    `json:"duration,omitempty"` // minutes, defaults to 30
}

// UpdateQuizRequest carries partial quiz updates.
type UpdateQuizRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
	Remarks     *string `json:"remarks,omitempty"`
}

// QuizResponse represents a quiz in API responses.
type QuizResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ChapterID     int64     `json:"chapter_id"`
	Duration      int       `json:"duration"`
	DateOfQuiz    time.Time `json:"date_of_quiz"`
	Remarks       string    `json:"remarks,omitempty"`
	QuestionCount int       `json:"question_count"`
}

// QuizListResponse wraps a chapter's quiz listing.
type QuizListResponse struct {
	Quizzes []QuizResponse `json:"quizzes"`
}

// CreateQuestionRequest is the request body for creating a question under a quiz.
type CreateQuestionRequest struct {
	QuestionText  string `json:"question_text"`
	Option1       string `json:"option1"`
	Option2       string `json:"option2"`
	Option3       string `json:"option3"`
	Option4       string `json:"option4"`
	CorrectOption int    `json:"correct_option"`
}

// UpdateQuestionRequest carries partial question updates.
type UpdateQuestionRequest struct {
	QuestionText  *string `json:"question_text,omitempty"`
	Option1       *string `json:"option1,omitempty"`
	Option2       *string `json:"option2,omitempty"`
	Option3       *string `json:"option3,omitempty"`
	Option4       *string `json:"option4,omitempty"`
	CorrectOption *int    `json:"correct_option,omitempty"`
}

// QuestionResponse represents a question in API responses. CorrectOption is
// only populated for admin callers.
type QuestionResponse struct {
	ID            int64  `json:"id"`
	QuizID        int64  `json:"quiz_id"`
	QuestionText  string `json:"question_text"`
	Option1       string `json:"option1"`
	Option2       string `json:"option2"`
	Option3       string `json:"option3"`
	Option4       string `json:"option4"`
	CorrectOption *int   `json:"correct_option,omitempty"`
}

// QuestionListResponse wraps a quiz's question listing.
type QuestionListResponse struct {
	Questions []QuestionResponse `json:"questions"`
}
