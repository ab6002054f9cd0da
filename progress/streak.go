package progress

import "time"

// updateStreak advances the consecutive-study-day counters for a session
// occurring at now. Same-day sessions leave the streak untouched, the next
// calendar day extends it, and any longer gap resets the current streak to 1
// while the longest streak keeps its high-water mark. Sessions dated before
// the last recorded study day (clock skew, backdated events) are ignored.
func updateStreak(stats *Stats, now time.Time) {
	today := midnightUTC(now)

	if stats.LastStudyDate == nil {
		stats.CurrentStreak = 1
		if stats.LongestStreak < 1 {
			stats.LongestStreak = 1
		}
		stats.LastStudyDate = &today
		return
	}

	lastStudy := midnightUTC(*stats.LastStudyDate)
	daysDiff := int(today.Sub(lastStudy).Hours() / 24)

	switch {
	case daysDiff == 0:
		// Same day, already counted.
		return
	case daysDiff == 1:
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestStreak {
			stats.LongestStreak = stats.CurrentStreak
		}
	case daysDiff > 1:
		stats.CurrentStreak = 1
	default:
		// Backdated relative to the last study day; leave everything as is.
		return
	}

	stats.LastStudyDate = &today
}
