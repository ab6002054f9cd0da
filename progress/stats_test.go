package progress

import (
	"math"
	"testing"
	"time"
)

func floatPtr(v float64) *float64 { return &v }

func quizInput(percentage *float64, timeSpent float64) SessionInput {
	return SessionInput{
		ActivityType: ActivityQuiz,
		ActivityData: ActivityData{Percentage: percentage},
		TimeSpent:    timeSpent,
	}
}

func TestApplyStatsQuizRunningMean(t *testing.T) {
	percentages := []float64{80, 100, 33.4, 66.6, 12.5}

	stats := Stats{}
	var sum float64
	for _, p := range percentages {
		applyStats(&stats, quizInput(floatPtr(p), 0))
		sum += p
	}

	if stats.TotalQuizzesTaken != len(percentages) {
		t.Fatalf("expected %d quizzes taken, got %d", len(percentages), stats.TotalQuizzesTaken)
	}
	want := sum / float64(len(percentages))
	if math.Abs(stats.AverageQuizScore-want) > 1e-9 {
		t.Fatalf("average quiz score = %v, want %v", stats.AverageQuizScore, want)
	}
}

func TestApplyStatsMissingPercentageCountsAsZero(t *testing.T) {
	stats := Stats{}
	applyStats(&stats, quizInput(floatPtr(100), 0))
	applyStats(&stats, quizInput(nil, 0))

	if math.Abs(stats.AverageQuizScore-50) > 1e-9 {
		t.Fatalf("average quiz score = %v, want 50", stats.AverageQuizScore)
	}
}

func TestApplyStatsChatOnlyAddsTime(t *testing.T) {
	stats := Stats{}
	applyStats(&stats, SessionInput{ActivityType: ActivityChat, TimeSpent: 12.5})

	if stats.TotalStudyTime != 12.5 {
		t.Fatalf("expected study time 12.5, got %v", stats.TotalStudyTime)
	}
	if stats.TotalQuizzesTaken != 0 || stats.TotalFlashcardsLearned != 0 {
		t.Fatalf("chat session changed counters: %+v", stats)
	}
}

func TestApplyStatsFlashcardLearned(t *testing.T) {
	stats := Stats{}
	applyStats(&stats, SessionInput{
		ActivityType: ActivityFlashcard,
		ActivityData: ActivityData{IsLearned: true},
		TimeSpent:    3,
	})
	applyStats(&stats, SessionInput{
		ActivityType: ActivityFlashcard,
		ActivityData: ActivityData{IsLearned: false},
	})

	if stats.TotalFlashcardsLearned != 1 {
		t.Fatalf("expected 1 learned flashcard, got %d", stats.TotalFlashcardsLearned)
	}
	if stats.TotalStudyTime != 3 {
		t.Fatalf("expected study time 3, got %v", stats.TotalStudyTime)
	}
}

func TestApplyTopicProgress(t *testing.T) {
	now := time.Date(2025, time.April, 2, 10, 0, 0, 0, time.UTC)
	record := Record{}

	input := SessionInput{
		ActivityType: ActivityFlashcard,
		ActivityData: ActivityData{IsLearned: true, Topic: "biology"},
	}
	applyTopicProgress(&record, input, now)

	if len(record.TopicsStudied) != 1 {
		t.Fatalf("expected one topic, got %d", len(record.TopicsStudied))
	}
	topic := record.TopicsStudied[0]
	if topic.Topic != "biology" || topic.FlashcardsCount != 1 || topic.QuizzesCount != 0 || topic.AverageScore != 0 {
		t.Fatalf("unexpected topic entry: %+v", topic)
	}
	if !topic.LastStudied.Equal(now) {
		t.Fatalf("last studied not set: %v", topic.LastStudied)
	}

	later := now.Add(time.Hour)
	applyTopicProgress(&record, SessionInput{
		ActivityType: ActivityQuiz,
		ActivityData: ActivityData{Topic: "biology", Percentage: floatPtr(90)},
	}, later)

	if len(record.TopicsStudied) != 1 {
		t.Fatalf("quiz on the same topic created a duplicate: %d entries", len(record.TopicsStudied))
	}
	topic = record.TopicsStudied[0]
	if topic.QuizzesCount != 1 || topic.AverageScore != 90 {
		t.Fatalf("quiz not folded into topic: %+v", topic)
	}
	if !topic.LastStudied.Equal(later) {
		t.Fatalf("last studied not advanced: %v", topic.LastStudied)
	}
}

func TestApplyTopicProgressSkipsEmptyTopic(t *testing.T) {
	record := Record{}
	applyTopicProgress(&record, SessionInput{ActivityType: ActivityChat}, time.Now())

	if len(record.TopicsStudied) != 0 {
		t.Fatalf("topic entry created for empty topic: %+v", record.TopicsStudied)
	}
}

func TestApplyWeeklyBucket(t *testing.T) {
	now := time.Date(2025, time.May, 7, 9, 0, 0, 0, time.UTC)
	record := Record{}

	applyWeeklyBucket(&record, quizInput(floatPtr(80), 10), true, now)

	if len(record.WeeklyProgress) != 1 {
		t.Fatalf("expected one bucket, got %d", len(record.WeeklyProgress))
	}
	bucket := record.WeeklyProgress[0]
	if bucket.Week != WeekKey(now) {
		t.Fatalf("bucket keyed %q, want %q", bucket.Week, WeekKey(now))
	}
	if bucket.StudyDays != 1 || bucket.TotalSessions != 1 || bucket.TotalTime != 10 {
		t.Fatalf("unexpected bucket counters: %+v", bucket)
	}
	if bucket.QuizzesTaken != 1 || bucket.AverageScore != 80 {
		t.Fatalf("quiz not folded into bucket: %+v", bucket)
	}

	// A second session on the same day must not add a study day.
	applyWeeklyBucket(&record, quizInput(floatPtr(100), 5), false, now.Add(2*time.Hour))

	bucket = record.WeeklyProgress[0]
	if bucket.StudyDays != 1 {
		t.Fatalf("study days advanced for a repeat session: %d", bucket.StudyDays)
	}
	if bucket.TotalSessions != 2 || bucket.TotalTime != 15 {
		t.Fatalf("unexpected counters after second session: %+v", bucket)
	}
	if math.Abs(bucket.AverageScore-90) > 1e-9 {
		t.Fatalf("weekly average = %v, want 90", bucket.AverageScore)
	}
}

func TestApplyWeeklyBucketNewWeekInsertsAtFront(t *testing.T) {
	record := Record{}
	first := time.Date(2025, time.May, 7, 9, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 7)

	applyWeeklyBucket(&record, SessionInput{ActivityType: ActivityChat}, true, first)
	applyWeeklyBucket(&record, SessionInput{ActivityType: ActivityChat}, true, second)

	if len(record.WeeklyProgress) != 2 {
		t.Fatalf("expected two buckets, got %d", len(record.WeeklyProgress))
	}
	if record.WeeklyProgress[0].Week != WeekKey(second) {
		t.Fatalf("newest bucket not at the front: %+v", record.WeeklyProgress)
	}
}

func TestApplyWeeklyBucketCapsAtTwelve(t *testing.T) {
	record := Record{}
	start := time.Date(2025, time.January, 2, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 15; i++ {
		applyWeeklyBucket(&record, SessionInput{ActivityType: ActivityChat}, true, start.AddDate(0, 0, 7*i))
	}

	if len(record.WeeklyProgress) != maxWeeklyBuckets {
		t.Fatalf("expected %d buckets after 15 weeks, got %d", maxWeeklyBuckets, len(record.WeeklyProgress))
	}
	if record.WeeklyProgress[0].Week != WeekKey(start.AddDate(0, 0, 7*14)) {
		t.Fatalf("most recent week missing from the front: %+v", record.WeeklyProgress[0])
	}
}
