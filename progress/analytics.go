package progress

import (
	"sort"
	"time"
)

// Period selects how far back an analytics projection looks.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Limits applied to the projected views.
const (
	maxRecentActivity = 10
	maxTopTopics      = 5
	maxWeeklyView     = 8
)

// PeriodStats is recomputed fresh from the sessions that fall inside the
// requested period, independent of the lifetime aggregates.
type PeriodStats struct {
	FlashcardsLearned int     `json:"flashcardsLearned"`
	QuizzesTaken      int     `json:"quizzesTaken"`
	TotalSessions     int     `json:"totalSessions"`
	TotalTime         float64 `json:"totalTime"`
	AverageScore      float64 `json:"averageScore"`
}

// Analytics is the read view derived from a progress record.
type Analytics struct {
	TotalStats     Stats           `json:"totalStats"`
	RecentActivity []StudySession  `json:"recentActivity"`
	TopTopics      []TopicProgress `json:"topTopics"`
	WeeklyProgress []WeeklyBucket  `json:"weeklyProgress"`
	PeriodStats    PeriodStats     `json:"periodStats"`
}

// DashboardSummary is the lightweight projection backing the dashboard tiles.
type DashboardSummary struct {
	StudySessions int `json:"studySessions"`
	CardsCreated  int `json:"cardsCreated"`
	QuizScore     int `json:"quizScore"`
	StudyStreak   int `json:"studyStreak"`
}

// periodStart maps a period to its cutoff relative to now; unknown values
// fall back to a week.
func periodStart(period Period, now time.Time) time.Time {
	days := 7
	switch period {
	case PeriodMonth:
		days = 30
	case PeriodYear:
		days = 365
	}
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

// projectAnalytics derives the period-scoped read view from a record without
// mutating it.
func projectAnalytics(record Record, period Period, now time.Time) Analytics {
	start := periodStart(period, now)

	filtered := make([]StudySession, 0, len(record.RecentSessions))
	for _, session := range record.RecentSessions {
		if !session.Date.Before(start) {
			filtered = append(filtered, session)
		}
	}

	// The session log is newest first, so the head of the filtered slice is
	// already the most recent qualifying activity.
	recent := filtered
	if len(recent) > maxRecentActivity {
		recent = recent[:maxRecentActivity]
	}

	topics := make([]TopicProgress, len(record.TopicsStudied))
	copy(topics, record.TopicsStudied)
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].FlashcardsCount+topics[i].QuizzesCount > topics[j].FlashcardsCount+topics[j].QuizzesCount
	})
	if len(topics) > maxTopTopics {
		topics = topics[:maxTopTopics]
	}

	weekly := record.WeeklyProgress
	if len(weekly) > maxWeeklyView {
		weekly = weekly[:maxWeeklyView]
	}

	return Analytics{
		TotalStats:     record.Stats,
		RecentActivity: recent,
		TopTopics:      topics,
		WeeklyProgress: weekly,
		PeriodStats:    computePeriodStats(filtered),
	}
}

// emptyAnalytics is the projection for a user with no history; absence is a
// valid state, not an error.
func emptyAnalytics() Analytics {
	return Analytics{
		RecentActivity: []StudySession{},
		TopTopics:      []TopicProgress{},
		WeeklyProgress: []WeeklyBucket{},
	}
}

func computePeriodStats(sessions []StudySession) PeriodStats {
	stats := PeriodStats{TotalSessions: len(sessions)}

	var quizScores []float64
	for _, session := range sessions {
		stats.TotalTime += session.TimeSpent

		switch session.ActivityType {
		case ActivityFlashcard:
			if session.ActivityData.IsLearned {
				stats.FlashcardsLearned++
			}
		case ActivityQuiz:
			stats.QuizzesTaken++
			if session.ActivityData.Percentage != nil {
				quizScores = append(quizScores, *session.ActivityData.Percentage)
			}
		}
	}

	if len(quizScores) > 0 {
		var total float64
		for _, score := range quizScores {
			total += score
		}
		stats.AverageScore = total / float64(len(quizScores))
	}

	return stats
}
