package model

// Condition is the ordinal skin condition recorded with a log
type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

// Value maps the condition onto the 4..1 ordinal scale. Unknown values map
// to 0 so they never count as a real observation.
func (c Condition) Value() int {
	switch c {
	case ConditionExcellent:
		return 4
	case ConditionGood:
		return 3
	case ConditionFair:
		return 2
	case ConditionPoor:
		return 1
	}
	return 0
}

// Valid reports whether c is one of the known conditions
func (c Condition) Valid() bool {
	return c.Value() > 0
}

// ConditionFromScore derives a condition from a 0-100 skin score
func ConditionFromScore(score int) Condition {
	switch {
	case score >= 85:
		return ConditionExcellent
	case score >= 70:
		return ConditionGood
	case score >= 50:
		return ConditionFair
	default:
		return ConditionPoor
	}
}

// ProductCategory classifies a skincare product
type ProductCategory string

const (
	CategoryCleanser    ProductCategory = "cleanser"
	CategoryToner       ProductCategory = "toner"
	CategorySerum       ProductCategory = "serum"
	CategoryMoisturizer ProductCategory = "moisturizer"
	CategorySunscreen   ProductCategory = "sunscreen"
	CategoryTreatment   ProductCategory = "treatment"
	CategoryOther       ProductCategory = "other"
)

// Valid reports whether c is one of the known categories
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryCleanser, CategoryToner, CategorySerum, CategoryMoisturizer,
		CategorySunscreen, CategoryTreatment, CategoryOther:
		return true
	}
	return false
}

// InsightType categorizes an insight
type InsightType string

const (
	InsightTrend          InsightType = "trend"
	InsightRecommendation InsightType = "recommendation"
	InsightMilestone      InsightType = "milestone"
	InsightAlert          InsightType = "alert"
)

// Priority orders insights for display
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort position of the priority, lower first
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}
