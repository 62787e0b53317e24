package main

import (
	"context"
	"fmt"
	"os"

	"quiz-master/internal/adapter"
	"quiz-master/internal/cache"
	"quiz-master/internal/config"
	"quiz-master/internal/database"
	"quiz-master/internal/dto"
	"quiz-master/internal/idgen"
	"quiz-master/internal/logger"
	"quiz-master/internal/repository"
	"quiz-master/internal/service"

	"go.uber.org/zap"
)

// Seeds a small demo catalog through the regular services, so every row gets
// a properly allocated id.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	if err := database.RunMigrations("file://database/migrations", cfg.GetDSN()); err != nil {
		appLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	userRepo := repository.NewSQLXUserRepository(db)
	subjectRepo := repository.NewSQLXSubjectRepository(db)
	chapterRepo := repository.NewSQLXChapterRepository(db)
	quizRepo := repository.NewSQLXQuizRepository(db)
	questionRepo := repository.NewSQLXQuestionRepository(db)
	scoreRepo := repository.NewSQLXScoreRepository(db)

	txManager := repository.NewTransactionManagerAdapter(db)
	allocator := idgen.NewAllocator(repository.NewProbeStore(db))
	sequences := repository.NewSequenceReconciler(db)
	cacheClient := adapter.NewRedisCacheAdapter(redisClient)

	userService := service.NewUserService(userRepo, scoreRepo, txManager, allocator, sequences, cfg)
	contentService := service.NewContentService(subjectRepo, chapterRepo, quizRepo, questionRepo, scoreRepo, cacheClient, txManager, allocator, sequences)

	ctx := context.Background()

	if err := userService.EnsureAdminAccount(ctx); err != nil {
		appLogger.Fatal("failed to ensure admin account", zap.Error(err))
	}

	if _, err := userService.Register(ctx, dto.RegisterRequest{
		Username:      "demo",
		Password:      "demo123",
		FullName:      "Demo Learner",
		Email:         "demo@quizmaster.local",
		Qualification: "Student",
	}); err != nil {
		appLogger.Warn("demo user not created", zap.Error(err))
	}

	type seedQuestion struct {
		text    string
		options [4]string
		correct int
	}
	type seedQuiz struct {
		title     string
		questions []seedQuestion
	}
	type seedChapter struct {
		name    string
		quizzes []seedQuiz
	}
	type seedSubject struct {
		name        string
		description string
		chapters    []seedChapter
	}

	catalog := []seedSubject{
		{
			name:        "Computer Science",
			description: "Algorithms, data structures and programming fundamentals",
			chapters: []seedChapter{
				{
					name: "Sorting",
					quizzes: []seedQuiz{
						{
							title: "Sorting Basics",
							questions: []seedQuestion{
								{
									text:    "Which sort has O(n log n) worst case?",
									options: [4]string{"Quicksort", "Mergesort", "Bubble sort", "Insertion sort"},
									correct: 2,
								},
								{
									text:    "Which sort is stable?",
									options: [4]string{"Heapsort", "Selection sort", "Mergesort", "Quicksort"},
									correct: 3,
								},
							},
						},
					},
				},
			},
		},
		{
			name:        "Mathematics",
			description: "Arithmetic and algebra",
			chapters: []seedChapter{
				{
					name: "Algebra",
					quizzes: []seedQuiz{
						{
							title: "Linear Equations",
							questions: []seedQuestion{
								{
									text:    "Solve 2x + 4 = 10",
									options: [4]string{"2", "3", "4", "5"},
									correct: 2,
								},
							},
						},
					},
				},
			},
		},
	}

	for _, subj := range catalog {
		subject, err := contentService.CreateSubject(ctx, dto.CreateSubjectRequest{
			Name:        subj.name,
			Description: subj.description,
		})
		if err != nil {
			appLogger.Warn("subject not created", zap.String("name", subj.name), zap.Error(err))
			continue
		}
		for _, ch := range subj.chapters {
			chapter, err := contentService.CreateChapter(ctx, subject.ID, dto.CreateChapterRequest{Name: ch.name})
			if err != nil {
				appLogger.Warn("chapter not created", zap.String("name", ch.name), zap.Error(err))
				continue
			}
			for _, qz := range ch.quizzes {
				quiz, err := contentService.CreateQuiz(ctx, chapter.ID, dto.CreateQuizRequest{Title: qz.title})
				if err != nil {
					appLogger.Warn("quiz not created", zap.String("title", qz.title), zap.Error(err))
					continue
				}
				for _, q := range qz.questions {
					if _, err := contentService.CreateQuestion(ctx, quiz.ID, dto.CreateQuestionRequest{
						QuestionText:  q.text,
						Option1:       q.options[0],
						Option2:       q.options[1],
						Option3:       q.options[2],
						Option4:       q.options[3],
						CorrectOption: q.correct,
					}); err != nil {
						appLogger.Warn("question not created", zap.Error(err))
					}
				}
			}
		}
		appLogger.Info("seeded subject", zap.String("name", subj.name), zap.Int64("id", subject.ID))
	}

	appLogger.Info("seeding complete")
}
