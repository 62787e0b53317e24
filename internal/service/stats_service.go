package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"quiz-master/internal/cache"
	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/logger"
	"quiz-master/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	statsCacheTTL      = 2 * time.Minute
	recentScoreEvents  = 5
	recentQuizEvents   = 3
	recentUserEvents   = 3
	activityTimeLayout = time.RFC3339
)

// StatsService builds the admin dashboard payload.
type StatsService interface {
	GetStatistics(ctx context.Context) (*dto.AdminStatisticsResponse, error)
}

type statsServiceImpl struct {
	statsRepo repository.StatsRepository
	cache     domain.Cache
	now       func() time.Time
}

// NewStatsService creates a new instance of StatsService.
func NewStatsService(statsRepo repository.StatsRepository, cacheClient domain.Cache) StatsService {
	return &statsServiceImpl{
		statsRepo: statsRepo,
		cache:     cacheClient,
		now:       time.Now,
	}
}

func (s *statsServiceImpl) GetStatistics(ctx context.Context) (*dto.AdminStatisticsResponse, error) {
	cacheKey := cache.AdminStatisticsKey()
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var resp dto.AdminStatisticsResponse
		if decodeErr := json.Unmarshal([]byte(cached), &resp); decodeErr == nil {
			return &resp, nil
		}
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("Statistics cache read failed", zap.Error(err))
	}

	var (
		counts       *repository.EntityCounts
		subjectStats []repository.SubjectScoreStat
		recentScores []repository.RecentScoreStat
		recentQuiz   []repository.RecentQuizStat
		recentUsers  []repository.RecentUserStat
		distribution []repository.QuizDistributionStat
		growth       dto.UserGrowth
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.statsRepo.Counts(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		subjectStats, err = s.statsRepo.SubjectScores(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		recentScores, err = s.statsRepo.RecentScores(gCtx, recentScoreEvents)
		return err
	})
	g.Go(func() error {
		var err error
		recentQuiz, err = s.statsRepo.RecentQuizzes(gCtx, recentQuizEvents)
		return err
	})
	g.Go(func() error {
		var err error
		recentUsers, err = s.statsRepo.RecentRegistrations(gCtx, recentUserEvents)
		return err
	})
	g.Go(func() error {
		var err error
		distribution, err = s.statsRepo.QuizDistribution(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		growth, err = s.computeUserGrowth(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError("failed to gather statistics", err)
	}

	resp := &dto.AdminStatisticsResponse{
		Counts: dto.StatCounts{
			Users:     counts.Users,
			Subjects:  counts.Subjects,
			Chapters:  counts.Chapters,
			Quizzes:   counts.Quizzes,
			Questions: counts.Questions,
			Attempts:  counts.Attempts,
		},
		SubjectScores:    make([]dto.SubjectScoreStatResponse, 0, len(subjectStats)),
		RecentActivity:   buildActivityFeed(recentScores, recentQuiz, recentUsers),
		UserGrowth:       growth,
		QuizDistribution: make([]dto.QuizDistributionEntry, 0, len(distribution)),
	}
	for i := range subjectStats {
		st := &subjectStats[i]
		resp.SubjectScores = append(resp.SubjectScores, dto.SubjectScoreStatResponse{
			ID:       st.SubjectID,
			Name:     st.SubjectName,
			AvgScore: math.Round(st.AvgScore*10) / 10,
			Attempts: st.Attempts,
		})
	}
	for i := range distribution {
		resp.QuizDistribution = append(resp.QuizDistribution, dto.QuizDistributionEntry{
			Subject: distribution[i].SubjectName,
			Count:   distribution[i].Count,
		})
	}

	if encoded, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(encoded), statsCacheTTL); err != nil {
			logger.Get().Warn("Failed to cache statistics", zap.Error(err))
		}
	}
	return resp, nil
}

// buildActivityFeed merges attempt, quiz-creation and registration events into
// a single feed sorted newest first. The per-source limits already bound the
// feed length, so all merged entries are kept.
func buildActivityFeed(
	scores []repository.RecentScoreStat,
	quizzes []repository.RecentQuizStat,
	users []repository.RecentUserStat,
) []dto.ActivityEntry {
	entries := make([]activityWithTime, 0, len(scores)+len(quizzes)+len(users))
	for i := range scores {
		sc := &scores[i]
		entries = append(entries, activityWithTime{
			at: sc.CreatedAt,
			entry: dto.ActivityEntry{
				ID:        sc.ScoreID,
				User:      sc.Username,
				Action:    "completed quiz",
				Details:   fmt.Sprintf("%s (%.0f%%)", sc.QuizTitle, sc.Score),
				Type:      "attempt",
				Timestamp: sc.CreatedAt.Format(activityTimeLayout),
			},
		})
	}
	for i := range quizzes {
		q := &quizzes[i]
		entries = append(entries, activityWithTime{
			at: q.DateOfQuiz,
			entry: dto.ActivityEntry{
				ID:        q.QuizID,
				User:      "admin",
				Action:    "created quiz",
				Details:   q.Title,
				Type:      "quiz",
				Timestamp: q.DateOfQuiz.Format(activityTimeLayout),
			},
		})
	}
	for i := range users {
		u := &users[i]
		entries = append(entries, activityWithTime{
			at: u.CreatedAt,
			entry: dto.ActivityEntry{
				ID:        u.UserID,
				User:      u.Username,
				Action:    "registered",
				Details:   "new account",
				Type:      "user",
				Timestamp: u.CreatedAt.Format(activityTimeLayout),
			},
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].at.After(entries[j].at)
	})

	feed := make([]dto.ActivityEntry, 0, len(entries))
	for i := range entries {
		feed = append(feed, entries[i].entry)
	}
	return feed
}

type activityWithTime struct {
	at    time.Time
	entry dto.ActivityEntry
}

// computeUserGrowth derives the month-over-month registration trend and a
// naive linear projection for the rest of the current month.
func (s *statsServiceImpl) computeUserGrowth(ctx context.Context) (dto.UserGrowth, error) {
	now := s.now()
	currentMonthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := currentMonthStart.AddDate(0, -1, 0)

	totalAtLastMonthEnd, err := s.statsRepo.CountUsersCreatedBefore(ctx, lastMonthStart)
	if err != nil {
		return dto.UserGrowth{}, err
	}
	sinceLastMonth, err := s.statsRepo.CountUsersCreatedSince(ctx, lastMonthStart)
	if err != nil {
		return dto.UserGrowth{}, err
	}
	currentMonthNew, err := s.statsRepo.CountUsersCreatedSince(ctx, currentMonthStart)
	if err != nil {
		return dto.UserGrowth{}, err
	}

	return buildUserGrowth(now, totalAtLastMonthEnd, sinceLastMonth, currentMonthNew), nil
}

// buildUserGrowth is the pure growth arithmetic, split out so it is testable
// with fixed dates. A zero baseline maps to 100% when anyone registered and
// 0% when no one did.
func buildUserGrowth(now time.Time, totalAtLastMonthEnd, sinceLastMonth, currentMonthNew int) dto.UserGrowth {
	lastMonthNew := sinceLastMonth - currentMonthNew
	currentTotal := totalAtLastMonthEnd + sinceLastMonth

	var percentage float64
	newSinceBaseline := currentTotal - totalAtLastMonthEnd
	if totalAtLastMonthEnd > 0 {
		percentage = float64(newSinceBaseline) / float64(totalAtLastMonthEnd) * 100
	} else if newSinceBaseline > 0 {
		percentage = 100
	}

	daysElapsed := now.Day()
	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	daysRemaining := daysInMonth - daysElapsed

	projectedNew := 0
	if daysElapsed > 0 {
		projectedNew = int(math.Round(float64(currentMonthNew) / float64(daysElapsed) * float64(daysRemaining)))
	}

	return dto.UserGrowth{
		Percentage:        math.Round(percentage*10) / 10,
		LastMonthNew:      lastMonthNew,
		CurrentMonthNew:   currentMonthNew,
		LastMonthTotal:    totalAtLastMonthEnd,
		CurrentMonthTotal: currentTotal,
		ProjectedNew:      projectedNew,
		ProjectedTotal:    currentTotal + projectedNew,
	}
}
