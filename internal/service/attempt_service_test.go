package service

import (
	"context"
	"testing"
	"time"

	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAttemptService(quizRepo *MockQuizRepository, questionRepo *MockQuestionRepository, scoreRepo *MockScoreRepository) AttemptService {
	return NewAttemptService(quizRepo, questionRepo, scoreRepo, &fakeTxManager{}, newTestAllocator(), noopSequences{})
}

func twoQuestionQuiz() (*domain.Quiz, []domain.Question) {
	quiz := &domain.Quiz{ID: 30015, Title: "Sorting", ChapterID: 20010, Duration: 30}
	questions := []domain.Question{
		{ID: 40001, QuizID: quiz.ID, QuestionText: "Best case of quicksort?", Option1: "O(n)", Option2: "O(n log n)", Option3: "O(n^2)", Option4: "O(1)", CorrectOption: 2},
		{ID: 40002, QuizID: quiz.ID, QuestionText: "Stable sort?", Option1: "Heapsort", Option2: "Quicksort", Option3: "Selection", Option4: "Mergesort", CorrectOption: 4},
	}
	return quiz, questions
}

func TestSubmitAttempt_ScoresStringAnswers(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	scoreRepo := new(MockScoreRepository)
	svc := newTestAttemptService(quizRepo, questionRepo, scoreRepo)

	quiz, questions := twoQuestionQuiz()
	quizRepo.On("GetByID", mock.Anything, quiz.ID).Return(quiz, nil)
	questionRepo.On("ListByQuiz", mock.Anything, quiz.ID).Return(questions, nil)

	var saved *domain.Score
	scoreRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Score")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Score) }).
		Return(nil)

	resp, err := svc.SubmitAttempt(context.Background(), 1042, quiz.ID, dto.SubmitAttemptRequest{
		Answers:   map[string]interface{}{"40001": "2", "40002": "3"},
		TimeTaken: 95,
	})
	require.NoError(t, err)

	assert.Equal(t, 50.0, resp.Score)
	assert.Equal(t, 1, resp.CorrectAnswers)
	assert.Equal(t, 2, resp.TotalQuestions)
	assert.Len(t, resp.QuestionResults, 2)
	assert.True(t, resp.QuestionResults[0].IsCorrect)
	assert.False(t, resp.QuestionResults[1].IsCorrect)

	require.NotNil(t, saved)
	assert.Equal(t, int64(1042), saved.UserID)
	assert.Equal(t, 50.0, saved.Score)
	assert.Equal(t, 95, saved.TimeTaken)
	scoreRepo.AssertExpectations(t)
}

func TestSubmitAttempt_NumericAndMissingAnswers(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	scoreRepo := new(MockScoreRepository)
	svc := newTestAttemptService(quizRepo, questionRepo, scoreRepo)

	quiz, questions := twoQuestionQuiz()
	quizRepo.On("GetByID", mock.Anything, quiz.ID).Return(quiz, nil)
	questionRepo.On("ListByQuiz", mock.Anything, quiz.ID).Return(questions, nil)
	scoreRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	// JSON numbers arrive as float64. The second question gets no answer.
	resp, err := svc.SubmitAttempt(context.Background(), 1042, quiz.ID, dto.SubmitAttemptRequest{
		Answers: map[string]interface{}{"40001": float64(2)},
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, resp.Score)
	assert.Equal(t, 1, resp.CorrectAnswers)
}

func TestSubmitAttempt_GarbageAnswerCountsAsIncorrect(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	scoreRepo := new(MockScoreRepository)
	svc := newTestAttemptService(quizRepo, questionRepo, scoreRepo)

	quiz, questions := twoQuestionQuiz()
	quizRepo.On("GetByID", mock.Anything, quiz.ID).Return(quiz, nil)
	questionRepo.On("ListByQuiz", mock.Anything, quiz.ID).Return(questions, nil)
	scoreRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.SubmitAttempt(context.Background(), 1042, quiz.ID, dto.SubmitAttemptRequest{
		Answers: map[string]interface{}{"40001": "not-a-number", "40002": 2.5},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.Score)
	assert.Equal(t, 0, resp.CorrectAnswers)
}

func TestSubmitAttempt_EmptyQuizRejected(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	scoreRepo := new(MockScoreRepository)
	svc := newTestAttemptService(quizRepo, questionRepo, scoreRepo)

	quiz := &domain.Quiz{ID: 30020, Title: "Empty"}
	quizRepo.On("GetByID", mock.Anything, quiz.ID).Return(quiz, nil)
	questionRepo.On("ListByQuiz", mock.Anything, quiz.ID).Return([]domain.Question{}, nil)

	_, err := svc.SubmitAttempt(context.Background(), 1042, quiz.ID, dto.SubmitAttemptRequest{})
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrInvalidOperation, domainErr.Code)
	scoreRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitAttempt_QuizNotFound(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	scoreRepo := new(MockScoreRepository)
	svc := newTestAttemptService(quizRepo, questionRepo, scoreRepo)

	quizRepo.On("GetByID", mock.Anything, int64(39999)).Return(nil, nil)

	_, err := svc.SubmitAttempt(context.Background(), 1042, 39999, dto.SubmitAttemptRequest{})
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrNotFound, domainErr.Code)
}

func TestGetUserDashboard_Aggregates(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	scoreRepo := new(MockScoreRepository)
	svc := newTestAttemptService(quizRepo, questionRepo, scoreRepo)

	now := time.Now()
	details := []repository.ScoreDetail{
		{ID: 50003, QuizID: 30015, QuizTitle: "Sorting", ChapterName: "Algorithms", SubjectName: "CS", Score: 100, TotalQuestions: 2, CorrectAnswers: 2, CreatedAt: now},
		{ID: 50002, QuizID: 30015, QuizTitle: "Sorting", ChapterName: "Algorithms", SubjectName: "CS", Score: 50, TotalQuestions: 2, CorrectAnswers: 1, CreatedAt: now.Add(-time.Hour)},
		{ID: 50001, QuizID: 30016, QuizTitle: "Graphs", ChapterName: "Algorithms", SubjectName: "CS", Score: 75, TotalQuestions: 4, CorrectAnswers: 3, CreatedAt: now.Add(-2 * time.Hour)},
	}
	progress := []repository.SubjectProgress{
		{SubjectID: 10001, SubjectName: "CS", QuizCount: 4, Attempted: 2},
		{SubjectID: 10002, SubjectName: "Math", QuizCount: 3, Attempted: 0},
	}
	scoreRepo.On("ListByUser", mock.Anything, int64(1042)).Return(details, nil)
	scoreRepo.On("SubjectProgressByUser", mock.Anything, int64(1042)).Return(progress, nil)

	resp, err := svc.GetUserDashboard(context.Background(), 1042)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.AttemptsCount)
	assert.Equal(t, 2, resp.SubjectsCount)
	assert.Equal(t, 75.0, resp.AverageScore)
	assert.Len(t, resp.RecentScores, 3)
	assert.Equal(t, int64(50003), resp.RecentScores[0].ID)

	require.Len(t, resp.SubjectProgress, 2)
	assert.Equal(t, 50, resp.SubjectProgress[0].Progress)
	assert.Equal(t, 0, resp.SubjectProgress[1].Progress)
}

func TestGetUserDashboard_EmptyHistory(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	scoreRepo := new(MockScoreRepository)
	svc := newTestAttemptService(quizRepo, questionRepo, scoreRepo)

	scoreRepo.On("ListByUser", mock.Anything, int64(1042)).Return([]repository.ScoreDetail{}, nil)
	scoreRepo.On("SubjectProgressByUser", mock.Anything, int64(1042)).Return([]repository.SubjectProgress{}, nil)

	resp, err := svc.GetUserDashboard(context.Background(), 1042)
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.AverageScore)
	assert.Empty(t, resp.Scores)
	assert.Empty(t, resp.RecentScores)
}

func TestListUserScores(t *testing.T) {
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	scoreRepo := new(MockScoreRepository)
	svc := newTestAttemptService(quizRepo, questionRepo, scoreRepo)

	details := []repository.ScoreDetail{
		{ID: 50001, QuizID: 30015, QuizTitle: "Sorting", ChapterName: "Algorithms", SubjectName: "CS", Score: 80, TotalQuestions: 5, CorrectAnswers: 4, CreatedAt: time.Now()},
	}
	scoreRepo.On("ListByUser", mock.Anything, int64(1042)).Return(details, nil)

	scores, err := svc.ListUserScores(context.Background(), 1042)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "Sorting", scores[0].QuizTitle)
	assert.Equal(t, 80.0, scores[0].Score)
}

func TestCoerceOption(t *testing.T) {
	cases := []struct {
		name  string
		in    interface{}
		want  int
		valid bool
	}{
		{"json number", float64(3), 3, true},
		{"string digits", "4", 4, true},
		{"int", 1, 1, true},
		{"fractional", 2.5, 0, false},
		{"garbage string", "two", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := coerceOption(tc.in)
			assert.Equal(t, tc.valid, ok)
			if tc.valid {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
