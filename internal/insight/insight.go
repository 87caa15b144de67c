// Package insight derives observations and progress statistics from a skin
// journal. Everything here is a pure function of its inputs: the current time
// is passed in, nothing is cached and inputs are never modified.
package insight

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/vcscsvcscs/skincare-journal/pkg/model"
)

// Insight kinds
const (
	KindWelcome             = "welcome"
	KindTrendPositive       = "trend_positive"
	KindTrendConcern        = "trend_concern"
	KindAddProducts         = "add_products"
	KindMilestoneWeek       = "milestone_week"
	KindMilestoneMonth      = "milestone_month"
	KindConcernPattern      = "concern_pattern"
	KindConsistencyReminder = "consistency_reminder"
)

const (
	// TrendWindow is the number of newest logs examined for trends
	TrendWindow = 7

	positiveTrendThreshold = 5
	negativeTrendThreshold = 3
	concernPatternMinimum  = 3
	staleAfterDays         = 2
	weekMilestone          = 7
	monthMilestone         = 30
)

// Generate returns the insights applicable to the given history, ordered by
// priority. Logs are expected newest first; a sorted copy is used regardless.
func Generate(logs []model.SkinLog, products []model.Product, now time.Time) []model.Insight {
	if len(logs) == 0 {
		return []model.Insight{{
			ID:          KindWelcome,
			Type:        model.InsightRecommendation,
			Title:       "Start Your Journey",
			Description: "Begin by logging your daily skin condition to track your progress over time.",
			Date:        now,
			Priority:    model.PriorityHigh,
		}}
	}

	logs = newestFirst(logs)
	var insights []model.Insight
	add := func(id string, typ model.InsightType, priority model.Priority, title, description string) {
		insights = append(insights, model.Insight{
			ID:          id,
			Type:        typ,
			Title:       title,
			Description: description,
			Date:        now,
			Priority:    priority,
		})
	}

	recent := logs[:min(TrendWindow, len(logs))]
	excellent := countCondition(recent, model.ConditionExcellent)
	poor := countCondition(recent, model.ConditionPoor)

	if excellent >= positiveTrendThreshold {
		add(KindTrendPositive, model.InsightTrend, model.PriorityHigh,
			"Great Progress!",
			fmt.Sprintf("Your skin has been excellent for %d days this week. Keep up the great routine!", excellent))
	}

	if poor >= negativeTrendThreshold {
		add(KindTrendConcern, model.InsightAlert, model.PriorityHigh,
			"Attention Needed",
			fmt.Sprintf("Your skin condition has been poor for %d days. Consider reviewing your routine or consulting a dermatologist.", poor))
	}

	if !hasActiveProduct(products) {
		add(KindAddProducts, model.InsightRecommendation, model.PriorityMedium,
			"Track Your Products",
			"Add the skincare products you are using to understand what works best for your skin.")
	}

	switch len(logs) {
	case weekMilestone:
		add(KindMilestoneWeek, model.InsightMilestone, model.PriorityMedium,
			"1 Week Streak!",
			"You have been consistently tracking your skin for a week. Great habit!")
	case monthMilestone:
		add(KindMilestoneMonth, model.InsightMilestone, model.PriorityHigh,
			"30 Days Achievement!",
			"You have completed a full month of skin tracking. Your dedication is impressive!")
	}

	if top, ok := TopConcern(logs); ok && top.Count >= concernPatternMinimum {
		add(KindConcernPattern, model.InsightRecommendation, model.PriorityMedium,
			"Pattern Detected",
			fmt.Sprintf("%s appears frequently in your logs. Consider products targeting this concern.", top.Concern))
	}

	if days, ok := daysSince(logs[0].Date, now); ok && days > staleAfterDays {
		add(KindConsistencyReminder, model.InsightRecommendation, model.PriorityLow,
			"Stay Consistent",
			fmt.Sprintf("It has been %d days since your last log. Regular tracking helps identify patterns.", days))
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority.Rank() < insights[j].Priority.Rank()
	})
	return insights
}

// ConcernFrequency counts concern labels across the whole history. Labels are
// returned in the order they are first seen.
func ConcernFrequency(logs []model.SkinLog) []model.ConcernCount {
	index := make(map[string]int)
	var counts []model.ConcernCount
	for _, log := range logs {
		for _, concern := range log.Concerns {
			if i, ok := index[concern]; ok {
				counts[i].Count++
				continue
			}
			index[concern] = len(counts)
			counts = append(counts, model.ConcernCount{Concern: concern, Count: 1})
		}
	}
	return counts
}

// TopConcern returns the most frequent concern label. On a tie the label seen
// first wins.
func TopConcern(logs []model.SkinLog) (model.ConcernCount, bool) {
	var top model.ConcernCount
	found := false
	for _, c := range ConcernFrequency(logs) {
		if !found || c.Count > top.Count {
			top = c
			found = true
		}
	}
	return top, found
}

func countCondition(logs []model.SkinLog, condition model.Condition) int {
	n := 0
	for _, log := range logs {
		if log.Condition == condition {
			n++
		}
	}
	return n
}

func hasActiveProduct(products []model.Product) bool {
	for _, p := range products {
		if p.IsActive {
			return true
		}
	}
	return false
}

// daysSince returns the number of whole 24h periods between t and now.
// A zero timestamp has no meaningful age and reports false.
func daysSince(t, now time.Time) (int, bool) {
	if t.IsZero() {
		return 0, false
	}
	return int(math.Floor(now.Sub(t).Hours() / 24)), true
}

// newestFirst returns a copy of logs stably sorted by date, newest first
func newestFirst(logs []model.SkinLog) []model.SkinLog {
	sorted := make([]model.SkinLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}
