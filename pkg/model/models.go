package model

import "time"

// User represents a user in the system
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// SkinLog is a single entry of the skin journal. Logs are append-only from the
// point of view of insight generation; history is kept newest first.
type SkinLog struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Date      time.Time     `json:"date"`
	Condition Condition     `json:"condition"`
	Concerns  []string      `json:"concerns"`
	Notes     string        `json:"notes"`
	PhotoURI  string        `json:"photo_uri"`
	SkinScore int           `json:"skin_score"`
	Analysis  *SkinAnalysis `json:"analysis,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// SkinLogUpdate carries a partial update; nil fields are left untouched
type SkinLogUpdate struct {
	Date      *time.Time
	Condition *Condition
	Concerns  []string
	Notes     *string
	PhotoURI  *string
	SkinScore *int
}

// Product represents a skincare product the user tracks
type Product struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Category  ProductCategory `json:"category"`
	StartDate time.Time       `json:"start_date"`
	IsActive  bool            `json:"is_active"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductUpdate carries a partial product update
type ProductUpdate struct {
	Name      *string
	Brand     *string
	Category  *ProductCategory
	StartDate *time.Time
	IsActive  *bool
	Notes     *string
}

// Insight is a generated observation about a user's history. It is never
// persisted; ID names the kind of insight, not the instance.
type Insight struct {
	ID          string      `json:"id"`
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Date        time.Time   `json:"date"`
	Priority    Priority    `json:"priority"`
}

// ProgressSummary aggregates the whole log history
type ProgressSummary struct {
	AverageCondition float64 `json:"average_condition"`
	ImprovementRate  int     `json:"improvement_rate"`
	TotalLogs        int     `json:"total_logs"`
	Streak           int     `json:"streak"`
}

// ScorePoint is one entry of the skin score chart
type ScorePoint struct {
	Date  time.Time `json:"date"`
	Score int       `json:"score"`
}

// ConcernCount is how often a concern label occurs across logs. A label
// listed twice in one log counts twice.
type ConcernCount struct {
	Concern string `json:"concern"`
	Count   int    `json:"count"`
}

// SkinAnalysis is the result of a photo analysis
type SkinAnalysis struct {
	SkinScore        int               `json:"skin_score"`
	SkinType         string            `json:"skin_type"`
	DetectedFeatures DetectedFeatures  `json:"detected_features"`
	Concerns         []AnalysisConcern `json:"concerns"`
	Recommendations  []string          `json:"recommendations"`
}

// DetectedFeatures holds per-feature intensities on a 0-100 scale
type DetectedFeatures struct {
	Hydration float64 `json:"hydration"`
	Acne      float64 `json:"acne"`
	Texture   float64 `json:"texture"`
	Redness   float64 `json:"redness"`
	DarkSpots float64 `json:"dark_spots"`
	Wrinkles  float64 `json:"wrinkles"`
	Pores     float64 `json:"pores"`
	Oiliness  float64 `json:"oiliness"`
	SunDamage float64 `json:"sun_damage"`
}

// AnalysisConcern is a concern detected on a photo
type AnalysisConcern struct {
	Type       string  `json:"type"`
	Severity   string  `json:"severity"`
	Confidence float64 `json:"confidence,omitempty"`
	Location   string  `json:"location,omitempty"`
}

// ConcernLabels returns the concern types in detection order
func (a *SkinAnalysis) ConcernLabels() []string {
	labels := make([]string, 0, len(a.Concerns))
	for _, c := range a.Concerns {
		labels = append(labels, c.Type)
	}
	return labels
}

// Report represents a generated progress report
type Report struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	DateRangeStart time.Time `json:"date_range_start"`
	DateRangeEnd   time.Time `json:"date_range_end"`
	FilePath       string    `json:"file_path"`
	GeneratedAt    time.Time `json:"generated_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// DeletionCounts reports how many records an account deletion removed
type DeletionCounts struct {
	SkinLogs int `json:"skin_logs"`
	Products int `json:"products"`
	Reports  int `json:"reports"`
	Blobs    int `json:"blobs"`
}
