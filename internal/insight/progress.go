package insight

import (
	"math"
	"time"

	"github.com/vcscsvcscs/skincare-journal/pkg/model"
)

// Summarize computes the progress statistics of a log history
func Summarize(logs []model.SkinLog, now time.Time) model.ProgressSummary {
	if len(logs) == 0 {
		return model.ProgressSummary{}
	}

	logs = newestFirst(logs)

	return model.ProgressSummary{
		AverageCondition: averageCondition(logs),
		ImprovementRate:  improvementRate(logs),
		TotalLogs:        len(logs),
		Streak:           Streak(logs, now),
	}
}

// Streak counts consecutive calendar days ending today, one log per day.
// Walking newest first, each log must fall exactly on the expected day
// (today, then yesterday, ...); the first mismatch ends the streak. A history
// without a log today therefore has a streak of 0, and a second log on the
// same day also ends it. Calendar days are taken in now's location.
func Streak(logs []model.SkinLog, now time.Time) int {
	today := dayNumber(now, now.Location())
	streak := 0
	for _, log := range newestFirst(logs) {
		if today-dayNumber(log.Date, now.Location()) != int64(streak) {
			break
		}
		streak++
	}
	return streak
}

// ScoreHistory returns the skin scores of the newest n logs, oldest first
func ScoreHistory(logs []model.SkinLog, n int) []model.ScorePoint {
	logs = newestFirst(logs)
	if n < len(logs) {
		logs = logs[:n]
	}
	points := make([]model.ScorePoint, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		points = append(points, model.ScorePoint{Date: logs[i].Date, Score: logs[i].SkinScore})
	}
	return points
}

// ConditionLabel names an average ordinal condition
func ConditionLabel(average float64) string {
	switch {
	case average >= 3.5:
		return "Excellent"
	case average >= 2.5:
		return "Good"
	case average >= 1.5:
		return "Fair"
	default:
		return "Poor"
	}
}

func averageCondition(logs []model.SkinLog) float64 {
	if len(logs) == 0 {
		return 0
	}
	sum := 0
	for _, log := range logs {
		sum += log.Condition.Value()
	}
	return float64(sum) / float64(len(logs))
}

// improvementRate compares the newest TrendWindow logs with the TrendWindow
// logs before them, as a rounded percentage of the older average.
func improvementRate(logs []model.SkinLog) int {
	split := min(TrendWindow, len(logs))
	recent := logs[:split]
	older := logs[split:min(2*TrendWindow, len(logs))]
	if len(older) == 0 {
		return 0
	}

	olderAvg := averageCondition(older)
	// Conditions map to 1..4, so olderAvg is only zero for unvalidated input.
	if olderAvg == 0 {
		return 0
	}
	rate := (averageCondition(recent) - olderAvg) / olderAvg * 100
	return int(math.Floor(rate + 0.5))
}

// dayNumber returns a day index for the calendar date of t in loc, so that
// differences are whole days regardless of DST transitions.
func dayNumber(t time.Time, loc *time.Location) int64 {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
