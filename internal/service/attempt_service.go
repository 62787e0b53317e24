package service

import (
	"context"
	"math"
	"strconv"
	"time"

	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/idgen"
	"quiz-master/internal/logger"
	"quiz-master/internal/repository"

	"go.uber.org/zap"
)

const recentScoreLimit = 5

// AttemptService defines the interface for quiz attempts and the learner's
// score overview.
type AttemptService interface {
	// SubmitAttempt grades the submitted answers against the quiz's
	// questions and persists the result as an append-only score row.
	SubmitAttempt(ctx context.Context, userID, quizID int64, req dto.SubmitAttemptRequest) (*dto.AttemptResponse, error)
	// GetUserDashboard aggregates the user's full score history, averages
	// and per-subject progress.
	GetUserDashboard(ctx context.Context, userID int64) (*dto.UserDashboardResponse, error)
	// ListUserScores returns a user's score history with content names
	// resolved. Used by the admin user view.
	ListUserScores(ctx context.Context, userID int64) ([]dto.ScoreDetailResponse, error)
}

type attemptServiceImpl struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	scoreRepo    repository.ScoreRepository
	creator      *entityCreator
}

// NewAttemptService creates a new instance of AttemptService.
func NewAttemptService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	scoreRepo repository.ScoreRepository,
	txManager domain.TransactionManager,
	allocator *idgen.Allocator,
	sequences repository.SequenceReconciler,
) AttemptService {
	return &attemptServiceImpl{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		scoreRepo:    scoreRepo,
		creator:      newEntityCreator(txManager, allocator, sequences),
	}
}

// coerceOption converts a submitted answer to a 1-based option number.
// JSON numbers decode as float64; clients may also send the option as a
// string. Anything that cannot be coerced to an integer counts as no answer.
func coerceOption(value interface{}) (int, bool) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func (s *attemptServiceImpl) SubmitAttempt(ctx context.Context, userID, quizID int64, req dto.SubmitAttemptRequest) (*dto.AttemptResponse, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz not found")
	}

	questions, err := s.questionRepo.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list questions", err)
	}
	if len(questions) == 0 {
		return nil, domain.NewInvalidOperationError("quiz has no questions")
	}

	correct := 0
	results := make([]dto.QuestionResult, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		answer, present := req.Answers[strconv.FormatInt(q.ID, 10)]

		isCorrect := false
		if present {
			if selected, ok := coerceOption(answer); ok && selected == q.CorrectOption {
				isCorrect = true
			}
		}
		if isCorrect {
			correct++
		}

		results = append(results, dto.QuestionResult{
			QuestionID:    q.ID,
			QuestionText:  q.QuestionText,
			UserAnswer:    answer,
			CorrectAnswer: q.CorrectOption,
			IsCorrect:     isCorrect,
		})
	}

	total := len(questions)
	percentage := float64(correct) / float64(total) * 100

	score := &domain.Score{
		UserID:         userID,
		QuizID:         quizID,
		Score:          percentage,
		TotalQuestions: total,
		CorrectAnswers: correct,
		TimeTaken:      req.TimeTaken,
		Timestamp:      time.Now(),
	}
	id, err := s.creator.create(ctx, idgen.EntityScore, func(txCtx context.Context, id int64) error {
		score.ID = id
		return s.scoreRepo.Create(txCtx, score)
	})
	if err != nil {
		return nil, err
	}
	score.ID = id

	logger.Get().Info("Quiz attempt recorded",
		zap.Int64("userID", userID),
		zap.Int64("quizID", quizID),
		zap.Float64("score", percentage),
		zap.Int("correct", correct),
		zap.Int("total", total))

	return &dto.AttemptResponse{
		ID:              score.ID,
		QuizID:          quizID,
		Score:           percentage,
		TotalQuestions:  total,
		CorrectAnswers:  correct,
		TimeTaken:       req.TimeTaken,
		Timestamp:       score.Timestamp,
		QuestionResults: results,
	}, nil
}

func toScoreDetailResponses(details []repository.ScoreDetail) []dto.ScoreDetailResponse {
	scores := make([]dto.ScoreDetailResponse, 0, len(details))
	for i := range details {
		d := &details[i]
		scores = append(scores, dto.ScoreDetailResponse{
			ID:             d.ID,
			QuizID:         d.QuizID,
			QuizTitle:      d.QuizTitle,
			ChapterName:    d.ChapterName,
			SubjectName:    d.SubjectName,
			Score:          d.Score,
			TotalQuestions: d.TotalQuestions,
			CorrectAnswers: d.CorrectAnswers,
			TimeTaken:      d.TimeTaken,
			Timestamp:      d.CreatedAt,
		})
	}
	return scores
}

func (s *attemptServiceImpl) ListUserScores(ctx context.Context, userID int64) ([]dto.ScoreDetailResponse, error) {
	details, err := s.scoreRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list scores", err)
	}
	return toScoreDetailResponses(details), nil
}

func (s *attemptServiceImpl) GetUserDashboard(ctx context.Context, userID int64) (*dto.UserDashboardResponse, error) {
	details, err := s.scoreRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list scores", err)
	}

	scores := toScoreDetailResponses(details)
	var sum float64
	for i := range details {
		sum += details[i].Score
	}

	average := 0.0
	if len(details) > 0 {
		average = math.Round(sum/float64(len(details))*10) / 10
	}

	// Rows arrive newest first, so the recent list is a prefix.
	recent := make([]dto.RecentScoreResponse, 0, recentScoreLimit)
	for i := range details {
		if i >= recentScoreLimit {
			break
		}
		d := &details[i]
		recent = append(recent, dto.RecentScoreResponse{
			ID:       d.ID,
			QuizName: d.QuizTitle,
			Date:     d.CreatedAt,
			Score:    d.Score,
		})
	}

	progressRows, err := s.scoreRepo.SubjectProgressByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to compute subject progress", err)
	}

	progress := make([]dto.SubjectProgressResponse, 0, len(progressRows))
	for i := range progressRows {
		p := &progressRows[i]
		percent := 0
		if p.QuizCount > 0 {
			percent = int(math.Round(float64(p.Attempted) / float64(p.QuizCount) * 100))
		}
		progress = append(progress, dto.SubjectProgressResponse{
			ID:       p.SubjectID,
			Name:     p.SubjectName,
			Progress: percent,
		})
	}

	return &dto.UserDashboardResponse{
		Scores:          scores,
		SubjectsCount:   len(progressRows),
		AttemptsCount:   len(details),
		AverageScore:    average,
		RecentScores:    recent,
		SubjectProgress: progress,
	}, nil
}
