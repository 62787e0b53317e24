package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"quiz-master/internal/cache"
	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/idgen"
	"quiz-master/internal/logger"
	"quiz-master/internal/repository"

	"go.uber.org/zap"
)

const (
	defaultQuizDuration = 30 // minutes
	subjectListCacheTTL = 5 * time.Minute
	minCorrectOption    = 1
	maxCorrectOption    = 4
)

// ContentService defines the interface for the subject -> chapter -> quiz ->
// question hierarchy. All write operations are admin-only; the handlers
// enforce that, the service enforces referential rules.
type ContentService interface {
	CreateSubject(ctx context.Context, req dto.CreateSubjectRequest) (*dto.SubjectResponse, error)
	GetSubject(ctx context.Context, id int64) (*dto.SubjectResponse, error)
	ListSubjects(ctx context.Context) (*dto.SubjectListResponse, error)
	UpdateSubject(ctx context.Context, id int64, req dto.UpdateSubjectRequest) (*dto.SubjectResponse, error)
	DeleteSubject(ctx context.Context, id int64) error

	CreateChapter(ctx context.Context, subjectID int64, req dto.CreateChapterRequest) (*dto.ChapterResponse, error)
	GetChapter(ctx context.Context, id int64) (*dto.ChapterResponse, error)
	ListChapters(ctx context.Context, subjectID int64) (*dto.ChapterListResponse, error)
	UpdateChapter(ctx context.Context, id int64, req dto.UpdateChapterRequest) (*dto.ChapterResponse, error)
	DeleteChapter(ctx context.Context, id int64) error

	CreateQuiz(ctx context.Context, chapterID int64, req dto.CreateQuizRequest) (*dto.QuizResponse, error)
	GetQuiz(ctx context.Context, id int64) (*dto.QuizResponse, error)
	ListQuizzes(ctx context.Context, chapterID int64) (*dto.QuizListResponse, error)
	UpdateQuiz(ctx context.Context, id int64, req dto.UpdateQuizRequest) (*dto.QuizResponse, error)
	DeleteQuiz(ctx context.Context, id int64) error

	CreateQuestion(ctx context.Context, quizID int64, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	// ListQuestions returns the questions of a quiz. The correct option is
	// stripped unless the caller is an admin.
	ListQuestions(ctx context.Context, quizID int64, isAdmin bool) (*dto.QuestionListResponse, error)
	UpdateQuestion(ctx context.Context, id int64, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, id int64) error
}

type contentServiceImpl struct {
	subjectRepo  repository.SubjectRepository
	chapterRepo  repository.ChapterRepository
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	scoreRepo    repository.ScoreRepository
	cache        domain.Cache
	txManager    domain.TransactionManager
	creator      *entityCreator
}

// NewContentService creates a new instance of ContentService.
func NewContentService(
	subjectRepo repository.SubjectRepository,
	chapterRepo repository.ChapterRepository,
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	scoreRepo repository.ScoreRepository,
	cacheClient domain.Cache,
	txManager domain.TransactionManager,
	allocator *idgen.Allocator,
	sequences repository.SequenceReconciler,
) ContentService {
	return &contentServiceImpl{
		subjectRepo:  subjectRepo,
		chapterRepo:  chapterRepo,
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		scoreRepo:    scoreRepo,
		cache:        cacheClient,
		txManager:    txManager,
		creator:      newEntityCreator(txManager, allocator, sequences),
	}
}

func toSubjectResponse(s *domain.Subject) dto.SubjectResponse {
	return dto.SubjectResponse{ID: s.ID, Name: s.Name, Description: s.Description}
}

func toChapterResponse(c *domain.Chapter) dto.ChapterResponse {
	return dto.ChapterResponse{ID: c.ID, Name: c.Name, Description: c.Description, SubjectID: c.SubjectID}
}

func toQuizResponse(q *domain.Quiz, questionCount int) dto.QuizResponse {
	return dto.QuizResponse{
		ID:            q.ID,
		Title:         q.Title,
		Description:   q.Description,
		ChapterID:     q.ChapterID,
		Duration:      q.Duration,
		DateOfQuiz:    q.DateOfQuiz,
		Remarks:       q.Remarks,
		QuestionCount: questionCount,
	}
}

func toQuestionResponse(q *domain.Question, isAdmin bool) dto.QuestionResponse {
	resp := dto.QuestionResponse{
		ID:           q.ID,
		QuizID:       q.QuizID,
		QuestionText: q.QuestionText,
		Option1:      q.Option1,
		Option2:      q.Option2,
		Option3:      q.Option3,
		Option4:      q.Option4,
	}
	if isAdmin {
		correct := q.CorrectOption
		resp.CorrectOption = &correct
	}
	return resp
}

// invalidateSubjectList drops the cached subject list after any write that
// could change it. Cache failures are logged, never surfaced.
func (s *contentServiceImpl) invalidateSubjectList(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.SubjectListKey()); err != nil {
		logger.Get().Warn("Failed to invalidate subject list cache", zap.Error(err))
	}
}

// --- Subjects ---

func (s *contentServiceImpl) CreateSubject(ctx context.Context, req dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
	if req.Name == "" {
		return nil, domain.NewInvalidInputError("subject name is required")
	}

	subject := &domain.Subject{Name: req.Name, Description: req.Description}
	id, err := s.creator.create(ctx, idgen.EntitySubject, func(txCtx context.Context, id int64) error {
		subject.ID = id
		return s.subjectRepo.Create(txCtx, subject)
	})
	if err != nil {
		return nil, err
	}
	subject.ID = id

	s.invalidateSubjectList(ctx)
	resp := toSubjectResponse(subject)
	return &resp, nil
}

func (s *contentServiceImpl) GetSubject(ctx context.Context, id int64) (*dto.SubjectResponse, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to get subject", err)
	}
	if subject == nil {
		return nil, domain.NewNotFoundError("subject not found")
	}
	resp := toSubjectResponse(subject)
	return &resp, nil
}

func (s *contentServiceImpl) ListSubjects(ctx context.Context) (*dto.SubjectListResponse, error) {
	cacheKey := cache.SubjectListKey()
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var resp dto.SubjectListResponse
		decodeErr := json.Unmarshal([]byte(cached), &resp)
		if decodeErr == nil {
			return &resp, nil
		}
		logger.Get().Warn("Failed to decode cached subject list, falling back to store", zap.Error(decodeErr))
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("Subject list cache read failed", zap.Error(err))
	}

	subjects, err := s.subjectRepo.List(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list subjects", err)
	}

	resp := &dto.SubjectListResponse{Subjects: make([]dto.SubjectResponse, 0, len(subjects))}
	for i := range subjects {
		resp.Subjects = append(resp.Subjects, toSubjectResponse(&subjects[i]))
	}

	if encoded, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(encoded), subjectListCacheTTL); err != nil {
			logger.Get().Warn("Failed to cache subject list", zap.Error(err))
		}
	}
	return resp, nil
}

func (s *contentServiceImpl) UpdateSubject(ctx context.Context, id int64, req dto.UpdateSubjectRequest) (*dto.SubjectResponse, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to get subject", err)
	}
	if subject == nil {
		return nil, domain.NewNotFoundError("subject not found")
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, domain.NewInvalidInputError("subject name must not be empty")
		}
		subject.Name = *req.Name
	}
	if req.Description != nil {
		subject.Description = *req.Description
	}

	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		return nil, domain.NewInternalError("failed to update subject", err)
	}

	s.invalidateSubjectList(ctx)
	resp := toSubjectResponse(subject)
	return &resp, nil
}

func (s *contentServiceImpl) DeleteSubject(ctx context.Context, id int64) error {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return domain.NewInternalError("failed to get subject", err)
	}
	if subject == nil {
		return domain.NewNotFoundError("subject not found")
	}

	// Scores reference quizzes without a cascade, so they are cleared in the
	// same transaction before the subject row (and its chapters, quizzes and
	// questions) go.
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.scoreRepo.DeleteBySubject(txCtx, id); err != nil {
			return err
		}
		return s.subjectRepo.Delete(txCtx, id)
	})
	if err != nil {
		return domain.NewInternalError("failed to delete subject", err)
	}

	s.invalidateSubjectList(ctx)
	return nil
}

// --- Chapters ---

func (s *contentServiceImpl) CreateChapter(ctx context.Context, subjectID int64, req dto.CreateChapterRequest) (*dto.ChapterResponse, error) {
	if req.Name == "" {
		return nil, domain.NewInvalidInputError("chapter name is required")
	}

	subject, err := s.subjectRepo.GetByID(ctx, subjectID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get subject", err)
	}
	if subject == nil {
		return nil, domain.NewNotFoundError("subject not found")
	}

	chapter := &domain.Chapter{Name: req.Name, Description: req.Description, SubjectID: subjectID}
	id, err := s.creator.create(ctx, idgen.EntityChapter, func(txCtx context.Context, id int64) error {
		chapter.ID = id
		return s.chapterRepo.Create(txCtx, chapter)
	})
	if err != nil {
		return nil, err
	}
	chapter.ID = id

	resp := toChapterResponse(chapter)
	return &resp, nil
}

func (s *contentServiceImpl) GetChapter(ctx context.Context, id int64) (*dto.ChapterResponse, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to get chapter", err)
	}
	if chapter == nil {
		return nil, domain.NewNotFoundError("chapter not found")
	}
	resp := toChapterResponse(chapter)
	return &resp, nil
}

func (s *contentServiceImpl) ListChapters(ctx context.Context, subjectID int64) (*dto.ChapterListResponse, error) {
	subject, err := s.subjectRepo.GetByID(ctx, subjectID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get subject", err)
	}
	if subject == nil {
		return nil, domain.NewNotFoundError("subject not found")
	}

	chapters, err := s.chapterRepo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list chapters", err)
	}

	resp := &dto.ChapterListResponse{Chapters: make([]dto.ChapterResponse, 0, len(chapters))}
	for i := range chapters {
		resp.Chapters = append(resp.Chapters, toChapterResponse(&chapters[i]))
	}
	return resp, nil
}

func (s *contentServiceImpl) UpdateChapter(ctx context.Context, id int64, req dto.UpdateChapterRequest) (*dto.ChapterResponse, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to get chapter", err)
	}
	if chapter == nil {
		return nil, domain.NewNotFoundError("chapter not found")
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, domain.NewInvalidInputError("chapter name must not be empty")
		}
		chapter.Name = *req.Name
	}
	if req.Description != nil {
		chapter.Description = *req.Description
	}

	if err := s.chapterRepo.Update(ctx, chapter); err != nil {
		return nil, domain.NewInternalError("failed to update chapter", err)
	}

	resp := toChapterResponse(chapter)
	return &resp, nil
}

func (s *contentServiceImpl) DeleteChapter(ctx context.Context, id int64) error {
	chapter, err := s.chapterRepo.GetByID(ctx, id)
	if err != nil {
		return domain.NewInternalError("failed to get chapter", err)
	}
	if chapter == nil {
		return domain.NewNotFoundError("chapter not found")
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.scoreRepo.DeleteByChapter(txCtx, id); err != nil {
			return err
		}
		return s.chapterRepo.Delete(txCtx, id)
	})
	if err != nil {
		return domain.NewInternalError("failed to delete chapter", err)
	}
	return nil
}

// --- Quizzes ---

func (s *contentServiceImpl) CreateQuiz(ctx context.Context, chapterID int64, req dto.CreateQuizRequest) (*dto.QuizResponse, error) {
	if req.Title == "" {
		return nil, domain.NewInvalidInputError("quiz title is required")
	}
	if req.Duration < 0 {
		return nil, domain.NewInvalidInputError("quiz duration must not be negative")
	}

	chapter, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get chapter", err)
	}
	if chapter == nil {
		return nil, domain.NewNotFoundError("chapter not found")
	}

	duration := req.Duration
	if duration == 0 {
		duration = defaultQuizDuration
	}

	quiz := &domain.Quiz{
		Title:       req.Title,
		Description: req.Description,
		ChapterID:   chapterID,
		Duration:    duration,
		DateOfQuiz:  time.Now(),
	}
	id, err := s.creator.create(ctx, idgen.EntityQuiz, func(txCtx context.Context, id int64) error {
		quiz.ID = id
		return s.quizRepo.Create(txCtx, quiz)
	})
	if err != nil {
		return nil, err
	}
	quiz.ID = id

	resp := toQuizResponse(quiz, 0)
	return &resp, nil
}

func (s *contentServiceImpl) GetQuiz(ctx context.Context, id int64) (*dto.QuizResponse, error) {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz not found")
	}

	count, err := s.quizRepo.CountQuestions(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to count questions", err)
	}

	resp := toQuizResponse(quiz, count)
	return &resp, nil
}

func (s *contentServiceImpl) ListQuizzes(ctx context.Context, chapterID int64) (*dto.QuizListResponse, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get chapter", err)
	}
	if chapter == nil {
		return nil, domain.NewNotFoundError("chapter not found")
	}

	quizzes, err := s.quizRepo.ListByChapter(ctx, chapterID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list quizzes", err)
	}

	resp := &dto.QuizListResponse{Quizzes: make([]dto.QuizResponse, 0, len(quizzes))}
	for i := range quizzes {
		count, err := s.quizRepo.CountQuestions(ctx, quizzes[i].ID)
		if err != nil {
			return nil, domain.NewInternalError("failed to count questions", err)
		}
		resp.Quizzes = append(resp.Quizzes, toQuizResponse(&quizzes[i], count))
	}
	return resp, nil
}

func (s *contentServiceImpl) UpdateQuiz(ctx context.Context, id int64, req dto.UpdateQuizRequest) (*dto.QuizResponse, error) {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz not found")
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, domain.NewInvalidInputError("quiz title must not be empty")
		}
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.Duration != nil {
		if *req.Duration <= 0 {
			return nil, domain.NewInvalidInputError("quiz duration must be positive")
		}
		quiz.Duration = *req.Duration
	}
	if req.Remarks != nil {
		quiz.Remarks = *req.Remarks
	}

	if err := s.quizRepo.Update(ctx, quiz); err != nil {
		return nil, domain.NewInternalError("failed to update quiz", err)
	}

	count, err := s.quizRepo.CountQuestions(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to count questions", err)
	}

	resp := toQuizResponse(quiz, count)
	return &resp, nil
}

func (s *contentServiceImpl) DeleteQuiz(ctx context.Context, id int64) error {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return domain.NewInternalError("failed to get quiz", err)
	}
	if quiz == nil {
		return domain.NewNotFoundError("quiz not found")
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.scoreRepo.DeleteByQuiz(txCtx, id); err != nil {
			return err
		}
		return s.quizRepo.Delete(txCtx, id)
	})
	if err != nil {
		return domain.NewInternalError("failed to delete quiz", err)
	}
	return nil
}

// --- Questions ---

func validateCorrectOption(option int) error {
	if option < minCorrectOption || option > maxCorrectOption {
		return domain.NewInvalidInputError("correct_option must be between 1 and 4")
	}
	return nil
}

func (s *contentServiceImpl) CreateQuestion(ctx context.Context, quizID int64, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	if req.QuestionText == "" {
		return nil, domain.NewInvalidInputError("question_text is required")
	}
	if req.Option1 == "" || req.Option2 == "" || req.Option3 == "" || req.Option4 == "" {
		return nil, domain.NewInvalidInputError("all four options are required")
	}
	if err := validateCorrectOption(req.CorrectOption); err != nil {
		return nil, err
	}

	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz not found")
	}

	question := &domain.Question{
		QuizID:        quizID,
		QuestionText:  req.QuestionText,
		Option1:       req.Option1,
		Option2:       req.Option2,
		Option3:       req.Option3,
		Option4:       req.Option4,
		CorrectOption: req.CorrectOption,
	}
	id, err := s.creator.create(ctx, idgen.EntityQuestion, func(txCtx context.Context, id int64) error {
		question.ID = id
		return s.questionRepo.Create(txCtx, question)
	})
	if err != nil {
		return nil, err
	}
	question.ID = id

	resp := toQuestionResponse(question, true)
	return &resp, nil
}

func (s *contentServiceImpl) ListQuestions(ctx context.Context, quizID int64, isAdmin bool) (*dto.QuestionListResponse, error) {
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

	resp := &dto.QuestionListResponse{Questions: make([]dto.QuestionResponse, 0, len(questions))}
	for i := range questions {
		resp.Questions = append(resp.Questions, toQuestionResponse(&questions[i], isAdmin))
	}
	return resp, nil
}

func (s *contentServiceImpl) UpdateQuestion(ctx context.Context, id int64, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to get question", err)
	}
	if question == nil {
		return nil, domain.NewNotFoundError("question not found")
	}

	if req.QuestionText != nil {
		if *req.QuestionText == "" {
			return nil, domain.NewInvalidInputError("question_text must not be empty")
		}
		question.QuestionText = *req.QuestionText
	}
	if req.Option1 != nil {
		question.Option1 = *req.Option1
	}
	if req.Option2 != nil {
		question.Option2 = *req.Option2
	}
	if req.Option3 != nil {
		question.Option3 = *req.Option3
	}
	if req.Option4 != nil {
		question.Option4 = *req.Option4
	}
	if req.CorrectOption != nil {
		if err := validateCorrectOption(*req.CorrectOption); err != nil {
			return nil, err
		}
		question.CorrectOption = *req.CorrectOption
	}

	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, domain.NewInternalError("failed to update question", err)
	}

	resp := toQuestionResponse(question, true)
	return &resp, nil
}

func (s *contentServiceImpl) DeleteQuestion(ctx context.Context, id int64) error {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return domain.NewInternalError("failed to get question", err)
	}
	if question == nil {
		return domain.NewNotFoundError("question not found")
	}

	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return domain.NewInternalError("failed to delete question", err)
	}
	return nil
}
