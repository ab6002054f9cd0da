package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Service orchestrates progress recording and the read projections. Writes
// to a given user's record are serialized through per-user locks; reads run
// uncoordinated and may observe either side of a concurrent update.
type Service struct {
	repo   Repository
	clock  Clock
	ids    IDGenerator
	logger *slog.Logger
	locks  userLocks
}

// NewService constructs a Service with the provided collaborators.
func NewService(repo Repository, clock Clock, ids IDGenerator, logger *slog.Logger) (*Service, error) {
	if repo == nil {
		return nil, errors.New("repo is required")
	}
	if clock == nil {
		return nil, errors.New("clock is required")
	}
	if ids == nil {
		return nil, errors.New("id generator is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, clock: clock, ids: ids, logger: logger}, nil
}

// GetOrInitProgress returns the user's progress record, creating and
// persisting an empty one when none exists. The returned record carries the
// live flashcard count; no aggregate counters are mutated.
func (s *Service) GetOrInitProgress(ctx context.Context, userID string) (Record, error) {
	if userID == "" {
		return Record{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	lock := s.locks.forUser(userID)
	lock.Lock()
	defer lock.Unlock()

	now := s.clock.Now().UTC()
	record, err := s.repo.GetProgress(ctx, userID)
	switch {
	case errors.Is(err, ErrNotFound):
		record = newRecord(userID, now)
		if err := s.repo.SaveProgress(ctx, record); err != nil {
			return Record{}, fmt.Errorf("save progress: %w", err)
		}
		s.logger.Info("created progress record", "userId", userID)
	case err != nil:
		return Record{}, fmt.Errorf("load progress: %w", err)
	default:
		normalizeRecord(&record)
	}

	return s.withFlashcardCount(ctx, record)
}

// RecordSession logs one completed study activity for the user and fans it
// out into the lifetime stats, the streak, the per-topic counters, and the
// current weekly bucket. The mutation is applied to an in-memory copy and
// only becomes visible once the save succeeds; on failure it is discarded.
func (s *Service) RecordSession(ctx context.Context, userID string, input SessionInput) (Record, error) {
	if userID == "" {
		return Record{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if err := input.Validate(); err != nil {
		return Record{}, err
	}

	lock := s.locks.forUser(userID)
	lock.Lock()
	defer lock.Unlock()

	now := s.clock.Now().UTC()
	record, err := s.repo.GetProgress(ctx, userID)
	switch {
	case errors.Is(err, ErrNotFound):
		record = newRecord(userID, now)
	case err != nil:
		return Record{}, fmt.Errorf("load progress: %w", err)
	default:
		normalizeRecord(&record)
	}

	session := StudySession{
		ID:           s.ids.NewID(),
		ActivityType: input.ActivityType,
		ActivityData: input.ActivityData,
		TimeSpent:    input.TimeSpent,
		Date:         now,
	}

	// The first-session-of-the-day check must run against the log before the
	// new session is prepended; the weekly bucket's studyDays counter depends
	// on it.
	firstToday := !hasSessionOn(record.RecentSessions, now)

	record.RecentSessions = append([]StudySession{session}, record.RecentSessions...)
	if len(record.RecentSessions) > maxRecentSessions {
		record.RecentSessions = record.RecentSessions[:maxRecentSessions]
	}

	applyStats(&record.Stats, input)
	updateStreak(&record.Stats, now)
	applyTopicProgress(&record, input, now)
	applyWeeklyBucket(&record, input, firstToday, now)

	record.UpdatedAt = now
	if err := s.repo.SaveProgress(ctx, record); err != nil {
		return Record{}, fmt.Errorf("save progress: %w", err)
	}

	s.logger.Info("study session recorded",
		"userId", userID,
		"activityType", string(input.ActivityType),
		"timeSpent", input.TimeSpent,
	)

	return s.withFlashcardCount(ctx, record)
}

// GetAnalytics builds the period-scoped read view for the user. A missing
// record yields an all-zero projection rather than an error.
func (s *Service) GetAnalytics(ctx context.Context, userID string, period Period) (Analytics, error) {
	if userID == "" {
		return Analytics{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	record, err := s.repo.GetProgress(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return emptyAnalytics(), nil
	}
	if err != nil {
		return Analytics{}, fmt.Errorf("load progress: %w", err)
	}
	normalizeRecord(&record)

	return projectAnalytics(record, period, s.clock.Now().UTC()), nil
}

// GetDashboardSummary returns the dashboard tile values. The quiz score
// averages the raw score field of recent quiz sessions, not the normalized
// percentage that feeds the lifetime average; the two read paths differ on
// purpose and must not be unified silently.
func (s *Service) GetDashboardSummary(ctx context.Context, userID string) (DashboardSummary, error) {
	if userID == "" {
		return DashboardSummary{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	record, err := s.repo.GetProgress(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return DashboardSummary{}, fmt.Errorf("load progress: %w", err)
	}

	summary := DashboardSummary{
		StudySessions: len(record.RecentSessions),
		StudyStreak:   record.Stats.CurrentStreak,
	}

	var total float64
	count := 0
	for _, session := range record.RecentSessions {
		if session.ActivityType == ActivityQuiz && session.ActivityData.Score != nil {
			total += *session.ActivityData.Score
			count++
		}
	}
	if count > 0 {
		summary.QuizScore = int(math.Round(total / float64(count)))
	}

	cards, err := s.repo.CountFlashcards(ctx, userID)
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("count flashcards: %w", err)
	}
	summary.CardsCreated = cards

	return summary, nil
}

func (s *Service) withFlashcardCount(ctx context.Context, record Record) (Record, error) {
	count, err := s.repo.CountFlashcards(ctx, record.UserID)
	if err != nil {
		return Record{}, fmt.Errorf("count flashcards: %w", err)
	}
	record.Stats.TotalFlashcardsCreated = count
	return record, nil
}

func newRecord(userID string, now time.Time) Record {
	return Record{
		UserID:         userID,
		TopicsStudied:  []TopicProgress{},
		RecentSessions: []StudySession{},
		WeeklyProgress: []WeeklyBucket{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// normalizeRecord backfills fields that can be missing from records persisted
// by earlier schema versions. It runs once per load, before any mutation.
func normalizeRecord(record *Record) {
	if record.TopicsStudied == nil {
		record.TopicsStudied = []TopicProgress{}
	}
	if record.RecentSessions == nil {
		record.RecentSessions = []StudySession{}
	}
	if record.WeeklyProgress == nil {
		record.WeeklyProgress = []WeeklyBucket{}
	}
	if record.Stats.LongestStreak < record.Stats.CurrentStreak {
		record.Stats.LongestStreak = record.Stats.CurrentStreak
	}
}

// hasSessionOn reports whether any logged session falls on the same UTC
// calendar day as t.
func hasSessionOn(sessions []StudySession, t time.Time) bool {
	for _, session := range sessions {
		if sameDay(session.Date, t) {
			return true
		}
	}
	return false
}
