package dto

// StatCounts holds the headline counters of the admin dashboard. Users
// excludes admin accounts.
type StatCounts struct {
	Users     int `json:"users"`
	Subjects  int `json:"subjects"`
	Chapters  int `json:"chapters"`
	Quizzes   int `json:"quizzes"`
	Questions int `json:"questions"`
	Attempts  int `json:"attempts"`
}

// SubjectScoreStatResponse is the average score per subject.
type SubjectScoreStatResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	AvgScore float64 `json:"avgScore"`
	Attempts int     `json:"attempts"`
}

// ActivityEntry is one event in the recency-sorted activity feed. Score,
// quiz-creation and registration events are merged into a single list.
type ActivityEntry struct {
	ID        int64  `json:"id"`
	User      string `json:"user"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// UserGrowth is the naive linear month-over-month projection block. It is a
// reporting heuristic, not a correctness-bearing figure.
type UserGrowth struct {
	Percentage        float64 `json:"percentage"`
	LastMonthNew      int     `json:"last_month_new"`
	CurrentMonthNew   int     `json:"current_month_new"`
	LastMonthTotal    int     `json:"last_month_total"`
	CurrentMonthTotal int     `json:"current_month_total"`
	ProjectedNew      int     `json:"projected_new"`
	ProjectedTotal    int     `json:"projected_total"`
}

// QuizDistributionEntry is the quiz count under one subject.
type QuizDistributionEntry struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

// AdminStatisticsResponse is the full admin dashboard payload.
type AdminStatisticsResponse struct {
	Counts           StatCounts                 `json:"counts"`
	SubjectScores    []SubjectScoreStatResponse `json:"subject_scores"`
	RecentActivity   []ActivityEntry            `json:"recent_activity"`
	UserGrowth       UserGrowth                 `json:"user_growth"`
	QuizDistribution []QuizDistributionEntry    `json:"quiz_distribution"`
}
