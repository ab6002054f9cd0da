package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ActivityType identifies the kind of study activity a session represents.
type ActivityType string

const (
	ActivityFlashcard ActivityType = "flashcard"
	ActivityQuiz      ActivityType = "quiz"
	ActivityChat      ActivityType = "chat"
)

// Bounds on the rolling records kept inside a progress document.
const (
	maxRecentSessions = 50
	maxWeeklyBuckets  = 12
)

// ActivityData carries the payload of a session event. Which fields are
// meaningful depends on the activity type; Topic may accompany any type and
// opts the event into per-topic aggregation.
type ActivityData struct {
	// Flashcard activity.
	FlashcardID string `json:"flashcardId,omitempty" firestore:"flashcardId,omitempty"`
	IsLearned   bool   `json:"isLearned,omitempty" firestore:"isLearned"`

	// Quiz activity. Score is the raw number of correct answers, Percentage
	// the normalized result in [0,100]. The dashboard summary averages Score
	// while every other aggregate averages Percentage; both fields are kept
	// so the two read paths stay distinguishable.
	QuizID         string   `json:"quizId,omitempty" firestore:"quizId,omitempty"`
	Score          *float64 `json:"score,omitempty" firestore:"score,omitempty" validate:"omitempty,min=0"`
	TotalQuestions *int     `json:"totalQuestions,omitempty" firestore:"totalQuestions,omitempty" validate:"omitempty,min=0"`
	Percentage     *float64 `json:"percentage,omitempty" firestore:"percentage,omitempty" validate:"omitempty,min=0,max=100"`

	// Chat activity and topic tagging.
	Topic   string `json:"topic,omitempty" firestore:"topic,omitempty"`
	Content string `json:"content,omitempty" firestore:"content,omitempty"`
}

// StudySession is one completed unit of study activity, immutable once logged.
type StudySession struct {
	ID           string       `json:"id" firestore:"id"`
	ActivityType ActivityType `json:"activityType" firestore:"activityType"`
	ActivityData ActivityData `json:"activityData" firestore:"activityData"`
	TimeSpent    float64      `json:"timeSpent" firestore:"timeSpent"` // in minutes
	Date         time.Time    `json:"date" firestore:"date"`
}

// Stats holds the lifetime aggregate counters for one user.
type Stats struct {
	// TotalFlashcardsCreated is derived from the flashcard deck collection on
	// every read and is never persisted with the record.
	TotalFlashcardsCreated int `json:"totalFlashcardsCreated" firestore:"-"`

	TotalFlashcardsLearned int        `json:"totalFlashcardsLearned" firestore:"totalFlashcardsLearned"`
	TotalQuizzesTaken      int        `json:"totalQuizzesTaken" firestore:"totalQuizzesTaken"`
	AverageQuizScore       float64    `json:"averageQuizScore" firestore:"averageQuizScore"`
	TotalStudyTime         float64    `json:"totalStudyTime" firestore:"totalStudyTime"` // in minutes
	CurrentStreak          int        `json:"currentStreak" firestore:"currentStreak"`
	LongestStreak          int        `json:"longestStreak" firestore:"longestStreak"`
	LastStudyDate          *time.Time `json:"lastStudyDate,omitempty" firestore:"lastStudyDate,omitempty"`
}

// TopicProgress aggregates activity for a single topic, keyed by exact name.
type TopicProgress struct {
	Topic           string    `json:"topic" firestore:"topic"`
	FlashcardsCount int       `json:"flashcardsCount" firestore:"flashcardsCount"`
	QuizzesCount    int       `json:"quizzesCount" firestore:"quizzesCount"`
	AverageScore    float64   `json:"averageScore" firestore:"averageScore"`
	LastStudied     time.Time `json:"lastStudied" firestore:"lastStudied"`
}

// WeeklyBucket rolls up one calendar week of activity. Week holds the key
// produced by WeekKey, e.g. "2025-W32".
type WeeklyBucket struct {
	Week              string  `json:"week" firestore:"week"`
	StudyDays         int     `json:"studyDays" firestore:"studyDays"`
	TotalSessions     int     `json:"totalSessions" firestore:"totalSessions"`
	TotalTime         float64 `json:"totalTime" firestore:"totalTime"`
	FlashcardsLearned int     `json:"flashcardsLearned" firestore:"flashcardsLearned"`
	QuizzesTaken      int     `json:"quizzesTaken" firestore:"quizzesTaken"`
	AverageScore      float64 `json:"averageScore" firestore:"averageScore"`
}

// Record is the progress aggregate for one user: lifetime stats, per-topic
// counters, the newest-first session log (capped at 50), and the rolling
// weekly buckets (capped at 12). There is exactly one Record per user,
// created lazily on first access.
type Record struct {
	UserID         string          `json:"userId" firestore:"userId"`
	Stats          Stats           `json:"stats" firestore:"stats"`
	TopicsStudied  []TopicProgress `json:"topicsStudied" firestore:"topicsStudied"`
	RecentSessions []StudySession  `json:"recentSessions" firestore:"recentSessions"`
	WeeklyProgress []WeeklyBucket  `json:"weeklyProgress" firestore:"weeklyProgress"`
	CreatedAt      time.Time       `json:"createdAt" firestore:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt" firestore:"updatedAt"`
}

// SessionInput captures the data required to log a study session.
type SessionInput struct {
	ActivityType ActivityType `json:"activityType" validate:"required,oneof=flashcard quiz chat"`
	ActivityData ActivityData `json:"activityData"`
	TimeSpent    float64      `json:"timeSpent" validate:"gte=0"` // in minutes
}

var validate = validator.New()

// Validate ensures the input meets the domain constraints before any state is
// touched.
func (i SessionInput) Validate() error {
	if err := validate.Struct(i); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	return nil
}

// Repository encapsulates persistence for progress records and the companion
// flashcard deck collection.
type Repository interface {
	// GetProgress returns the record for the user or ErrNotFound.
	GetProgress(ctx context.Context, userID string) (Record, error)
	// SaveProgress upserts the record keyed by its user id.
	SaveProgress(ctx context.Context, record Record) error
	// CountFlashcards returns the total number of cards across the user's
	// flashcard decks.
	CountFlashcards(ctx context.Context, userID string) (int, error)
}

// Clock delivers the current time; extracted for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator produces unique identifiers for new session events.
type IDGenerator interface {
	NewID() string
}
