package service

import (
	"context"
	"testing"

	"quiz-master/internal/cache"
	"quiz-master/internal/domain"
	"quiz-master/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type contentFixture struct {
	subjectRepo  *MockSubjectRepository
	chapterRepo  *MockChapterRepository
	quizRepo     *MockQuizRepository
	questionRepo *MockQuestionRepository
	scoreRepo    *MockScoreRepository
	cache        *fakeCache
	svc          ContentService
}

func newContentFixture() *contentFixture {
	f := &contentFixture{
		subjectRepo:  new(MockSubjectRepository),
		chapterRepo:  new(MockChapterRepository),
		quizRepo:     new(MockQuizRepository),
		questionRepo: new(MockQuestionRepository),
		scoreRepo:    new(MockScoreRepository),
		cache:        newFakeCache(),
	}
	f.svc = NewContentService(
		f.subjectRepo, f.chapterRepo, f.quizRepo, f.questionRepo, f.scoreRepo,
		f.cache, &fakeTxManager{}, newTestAllocator(), noopSequences{},
	)
	return f
}

func TestCreateSubject_AssignsIDInSubjectRange(t *testing.T) {
	f := newContentFixture()

	f.subjectRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Subject")).Return(nil)

	resp, err := f.svc.CreateSubject(context.Background(), dto.CreateSubjectRequest{Name: "Physics"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, resp.ID, int64(10000))
	assert.LessOrEqual(t, resp.ID, int64(19999))
	assert.Equal(t, "Physics", resp.Name)
}

func TestCreateSubject_EmptyNameRejected(t *testing.T) {
	f := newContentFixture()

	_, err := f.svc.CreateSubject(context.Background(), dto.CreateSubjectRequest{})
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrInvalidInput, domainErr.Code)
}

func TestListSubjects_UsesCacheOnSecondCall(t *testing.T) {
	f := newContentFixture()

	subjects := []domain.Subject{{ID: 10001, Name: "Physics"}}
	f.subjectRepo.On("List", mock.Anything).Return(subjects, nil).Once()

	first, err := f.svc.ListSubjects(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Subjects, 1)

	// Second call must be served from the cache; the repo expectation above
	// only allows one invocation.
	second, err := f.svc.ListSubjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	f.subjectRepo.AssertExpectations(t)
}

func TestSubjectWrites_InvalidateCache(t *testing.T) {
	f := newContentFixture()

	subjects := []domain.Subject{{ID: 10001, Name: "Physics"}}
	f.subjectRepo.On("List", mock.Anything).Return(subjects, nil)
	f.subjectRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.ListSubjects(context.Background())
	require.NoError(t, err)
	_, ok := f.cache.entries[cache.SubjectListKey()]
	require.True(t, ok)

	_, err = f.svc.CreateSubject(context.Background(), dto.CreateSubjectRequest{Name: "Chemistry"})
	require.NoError(t, err)
	_, ok = f.cache.entries[cache.SubjectListKey()]
	assert.False(t, ok)
}

func TestCreateChapter_SubjectNotFound(t *testing.T) {
	f := newContentFixture()

	f.subjectRepo.On("GetByID", mock.Anything, int64(10001)).Return(nil, nil)

	_, err := f.svc.CreateChapter(context.Background(), 10001, dto.CreateChapterRequest{Name: "Mechanics"})
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrNotFound, domainErr.Code)
	f.chapterRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateQuiz_DefaultsDuration(t *testing.T) {
	f := newContentFixture()

	chapter := &domain.Chapter{ID: 20001, Name: "Mechanics", SubjectID: 10001}
	f.chapterRepo.On("GetByID", mock.Anything, chapter.ID).Return(chapter, nil)

	var created *domain.Quiz
	f.quizRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Quiz")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Quiz) }).
		Return(nil)

	resp, err := f.svc.CreateQuiz(context.Background(), chapter.ID, dto.CreateQuizRequest{Title: "Newton's Laws"})
	require.NoError(t, err)
	assert.Equal(t, 30, resp.Duration)
	assert.GreaterOrEqual(t, resp.ID, int64(30000))
	assert.LessOrEqual(t, resp.ID, int64(39999))
	require.NotNil(t, created)
	assert.False(t, created.DateOfQuiz.IsZero())
}

func TestCreateQuestion_CorrectOptionValidated(t *testing.T) {
	f := newContentFixture()

	for _, bad := range []int{0, 5, -1} {
		_, err := f.svc.CreateQuestion(context.Background(), 30001, dto.CreateQuestionRequest{
			QuestionText: "?", Option1: "a", Option2: "b", Option3: "c", Option4: "d",
			CorrectOption: bad,
		})
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrInvalidInput, domainErr.Code)
	}
	f.questionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateQuestion_QuizNotFound(t *testing.T) {
	f := newContentFixture()

	f.quizRepo.On("GetByID", mock.Anything, int64(30001)).Return(nil, nil)

	_, err := f.svc.CreateQuestion(context.Background(), 30001, dto.CreateQuestionRequest{
		QuestionText: "?", Option1: "a", Option2: "b", Option3: "c", Option4: "d",
		CorrectOption: 2,
	})
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrNotFound, domainErr.Code)
}

func TestListQuestions_RedactsCorrectOptionForLearners(t *testing.T) {
	f := newContentFixture()

	quiz := &domain.Quiz{ID: 30001, Title: "Newton's Laws", ChapterID: 20001}
	questions := []domain.Question{
		{ID: 40001, QuizID: quiz.ID, QuestionText: "?", Option1: "a", Option2: "b", Option3: "c", Option4: "d", CorrectOption: 3},
	}
	f.quizRepo.On("GetByID", mock.Anything, quiz.ID).Return(quiz, nil)
	f.questionRepo.On("ListByQuiz", mock.Anything, quiz.ID).Return(questions, nil)

	learnerView, err := f.svc.ListQuestions(context.Background(), quiz.ID, false)
	require.NoError(t, err)
	require.Len(t, learnerView.Questions, 1)
	assert.Nil(t, learnerView.Questions[0].CorrectOption)

	adminView, err := f.svc.ListQuestions(context.Background(), quiz.ID, true)
	require.NoError(t, err)
	require.NotNil(t, adminView.Questions[0].CorrectOption)
	assert.Equal(t, 3, *adminView.Questions[0].CorrectOption)
}

func TestUpdateQuiz_PartialFields(t *testing.T) {
	f := newContentFixture()

	quiz := &domain.Quiz{ID: 30001, Title: "Newton's Laws", ChapterID: 20001, Duration: 30}
	f.quizRepo.On("GetByID", mock.Anything, quiz.ID).Return(quiz, nil)
	f.quizRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Quiz")).Return(nil)
	f.quizRepo.On("CountQuestions", mock.Anything, quiz.ID).Return(4, nil)

	duration := 45
	resp, err := f.svc.UpdateQuiz(context.Background(), quiz.ID, dto.UpdateQuizRequest{Duration: &duration})
	require.NoError(t, err)
	assert.Equal(t, 45, resp.Duration)
	assert.Equal(t, "Newton's Laws", resp.Title)
	assert.Equal(t, 4, resp.QuestionCount)
}

func TestGetChapter(t *testing.T) {
	f := newContentFixture()

	chapter := &domain.Chapter{ID: 20001, Name: "Mechanics", Description: "Forces and motion", SubjectID: 10001}
	f.chapterRepo.On("GetByID", mock.Anything, chapter.ID).Return(chapter, nil)

	resp, err := f.svc.GetChapter(context.Background(), chapter.ID)
	require.NoError(t, err)
	assert.Equal(t, chapter.ID, resp.ID)
	assert.Equal(t, "Mechanics", resp.Name)
	assert.Equal(t, int64(10001), resp.SubjectID)
}

func TestGetChapter_NotFound(t *testing.T) {
	f := newContentFixture()

	f.chapterRepo.On("GetByID", mock.Anything, int64(20999)).Return(nil, nil)

	_, err := f.svc.GetChapter(context.Background(), 20999)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrNotFound, domainErr.Code)
}

func TestDeleteSubject_NotFound(t *testing.T) {
	f := newContentFixture()

	f.subjectRepo.On("GetByID", mock.Anything, int64(10001)).Return(nil, nil)

	err := f.svc.DeleteSubject(context.Background(), 10001)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrNotFound, domainErr.Code)
	f.subjectRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteQuiz_RemovesDependentScores(t *testing.T) {
	f := newContentFixture()

	quiz := &domain.Quiz{ID: 30001, Title: "Newton's Laws", ChapterID: 20001}
	f.quizRepo.On("GetByID", mock.Anything, quiz.ID).Return(quiz, nil)
	f.scoreRepo.On("DeleteByQuiz", mock.Anything, quiz.ID).Return(int64(2), nil)
	f.quizRepo.On("Delete", mock.Anything, quiz.ID).Return(nil)

	// An attempted quiz must still be deletable; its score rows go with it.
	err := f.svc.DeleteQuiz(context.Background(), quiz.ID)
	require.NoError(t, err)
	f.scoreRepo.AssertCalled(t, "DeleteByQuiz", mock.Anything, quiz.ID)
	f.quizRepo.AssertCalled(t, "Delete", mock.Anything, quiz.ID)
}

func TestDeleteQuiz_ScoreCleanupFailureAbortsDelete(t *testing.T) {
	f := newContentFixture()

	quiz := &domain.Quiz{ID: 30001, Title: "Newton's Laws", ChapterID: 20001}
	f.quizRepo.On("GetByID", mock.Anything, quiz.ID).Return(quiz, nil)
	f.scoreRepo.On("DeleteByQuiz", mock.Anything, quiz.ID).Return(int64(0), assert.AnError)

	err := f.svc.DeleteQuiz(context.Background(), quiz.ID)
	require.Error(t, err)
	f.quizRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteChapter_RemovesDependentScores(t *testing.T) {
	f := newContentFixture()

	chapter := &domain.Chapter{ID: 20001, Name: "Mechanics", SubjectID: 10001}
	f.chapterRepo.On("GetByID", mock.Anything, chapter.ID).Return(chapter, nil)
	f.scoreRepo.On("DeleteByChapter", mock.Anything, chapter.ID).Return(int64(1), nil)
	f.chapterRepo.On("Delete", mock.Anything, chapter.ID).Return(nil)

	err := f.svc.DeleteChapter(context.Background(), chapter.ID)
	require.NoError(t, err)
	f.scoreRepo.AssertCalled(t, "DeleteByChapter", mock.Anything, chapter.ID)
}

func TestDeleteSubject_RemovesDependentScores(t *testing.T) {
	f := newContentFixture()

	subject := &domain.Subject{ID: 10001, Name: "Physics"}
	f.subjectRepo.On("GetByID", mock.Anything, subject.ID).Return(subject, nil)
	f.scoreRepo.On("DeleteBySubject", mock.Anything, subject.ID).Return(int64(4), nil)
	f.subjectRepo.On("Delete", mock.Anything, subject.ID).Return(nil)

	err := f.svc.DeleteSubject(context.Background(), subject.ID)
	require.NoError(t, err)
	f.scoreRepo.AssertCalled(t, "DeleteBySubject", mock.Anything, subject.ID)
}
