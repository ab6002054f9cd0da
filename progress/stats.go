package progress

import "time"

// runningMean folds one new sample into a mean that previously covered
// count-1 samples, avoiding storage of the full history.
func runningMean(prev float64, count int, sample float64) float64 {
	return (prev*float64(count-1) + sample) / float64(count)
}

// quizPercentage extracts the normalized quiz result, falling back to 0 when
// the event carried none.
func quizPercentage(data ActivityData) float64 {
	if data.Percentage != nil {
		return *data.Percentage
	}
	return 0
}

// applyStats folds one session into the lifetime counters. Every activity
// contributes its study time; flashcard events count learned cards, quiz
// events advance the taken counter and the running average score. Chat
// events contribute time only.
func applyStats(stats *Stats, input SessionInput) {
	stats.TotalStudyTime += input.TimeSpent

	switch input.ActivityType {
	case ActivityFlashcard:
		if input.ActivityData.IsLearned {
			stats.TotalFlashcardsLearned++
		}
	case ActivityQuiz:
		stats.TotalQuizzesTaken++
		stats.AverageQuizScore = runningMean(stats.AverageQuizScore, stats.TotalQuizzesTaken, quizPercentage(input.ActivityData))
	}
}

// applyTopicProgress folds the session into the counters for its topic.
// Events without a topic are skipped; topic aggregation is opt-in per event.
func applyTopicProgress(record *Record, input SessionInput, now time.Time) {
	name := input.ActivityData.Topic
	if name == "" {
		return
	}

	idx := -1
	for i := range record.TopicsStudied {
		if record.TopicsStudied[i].Topic == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		record.TopicsStudied = append(record.TopicsStudied, TopicProgress{Topic: name, LastStudied: now})
		idx = len(record.TopicsStudied) - 1
	}

	topic := &record.TopicsStudied[idx]
	topic.LastStudied = now

	switch input.ActivityType {
	case ActivityFlashcard:
		if input.ActivityData.IsLearned {
			topic.FlashcardsCount++
		}
	case ActivityQuiz:
		topic.QuizzesCount++
		topic.AverageScore = runningMean(topic.AverageScore, topic.QuizzesCount, quizPercentage(input.ActivityData))
	}
}

// applyWeeklyBucket folds the session into the bucket for the current week,
// creating it at the front of the list when absent. firstToday reports
// whether the session log held no session on the same UTC day; it must be
// evaluated against the log as it stood before this event was prepended,
// otherwise the event would always see itself and studyDays would never
// advance. The list is truncated to the 12 most recent buckets afterwards.
func applyWeeklyBucket(record *Record, input SessionInput, firstToday bool, now time.Time) {
	week := WeekKey(now)

	idx := -1
	for i := range record.WeeklyProgress {
		if record.WeeklyProgress[i].Week == week {
			idx = i
			break
		}
	}
	if idx == -1 {
		record.WeeklyProgress = append([]WeeklyBucket{{Week: week}}, record.WeeklyProgress...)
		idx = 0
	}

	bucket := &record.WeeklyProgress[idx]
	if firstToday {
		bucket.StudyDays++
	}
	bucket.TotalSessions++
	bucket.TotalTime += input.TimeSpent

	switch input.ActivityType {
	case ActivityFlashcard:
		if input.ActivityData.IsLearned {
			bucket.FlashcardsLearned++
		}
	case ActivityQuiz:
		bucket.QuizzesTaken++
		bucket.AverageScore = runningMean(bucket.AverageScore, bucket.QuizzesTaken, quizPercentage(input.ActivityData))
	}

	if len(record.WeeklyProgress) > maxWeeklyBuckets {
		record.WeeklyProgress = record.WeeklyProgress[:maxWeeklyBuckets]
	}
}
