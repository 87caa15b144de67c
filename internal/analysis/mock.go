package analysis

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/vcscsvcscs/skincare-journal/pkg/model"
)

var mockConcernCatalog = []model.AnalysisConcern{
	{Type: "Acne", Severity: "low", Location: "T-zone"},
	{Type: "Dryness", Severity: "medium", Location: "Cheeks"},
	{Type: "Redness", Severity: "low", Location: "Nose area"},
	{Type: "Dark Spots", Severity: "medium", Location: "Forehead"},
	{Type: "Fine Lines", Severity: "low", Location: "Eye area"},
	{Type: "Oiliness", Severity: "medium", Location: "T-zone"},
}

var mockRecommendations = []string{
	"Use a gentle cleanser twice daily",
	"Apply sunscreen with SPF 30+ every morning",
	"Stay hydrated - drink 8 glasses of water daily",
	"Consider adding a vitamin C serum to your routine",
	"Get 7-8 hours of sleep for better skin recovery",
	"Use a hydrating moisturizer morning and night",
	"Incorporate retinol products 2-3 times per week",
	"Avoid touching your face throughout the day",
}

var mockSkinTypes = []string{"oily", "dry", "combination", "normal"}

// MockAnalyzer produces plausible random analyses without a model. The same
// seed yields the same sequence of results.
type MockAnalyzer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewMockAnalyzer creates a MockAnalyzer with a fixed seed
func NewMockAnalyzer(seed int64) *MockAnalyzer {
	return &MockAnalyzer{rnd: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

// Analyze ignores the image and returns a random analysis: score 70-99,
// two to four catalog concerns with 80-100 confidence and four tips.
func (m *MockAnalyzer) Analyze(ctx context.Context, userID string, image []byte) (*model.SkinAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a := &model.SkinAnalysis{
		SkinScore: 70 + m.rnd.IntN(30),
		SkinType:  mockSkinTypes[m.rnd.IntN(len(mockSkinTypes))],
		DetectedFeatures: model.DetectedFeatures{
			Acne:      m.rnd.Float64() * 30,
			Texture:   60 + m.rnd.Float64()*40,
			Redness:   m.rnd.Float64() * 25,
			DarkSpots: m.rnd.Float64() * 20,
			Hydration: 70 + m.rnd.Float64()*30,
		},
	}

	concerns := m.pick(len(mockConcernCatalog), 2+m.rnd.IntN(3))
	a.Concerns = make([]model.AnalysisConcern, 0, len(concerns))
	for _, i := range concerns {
		c := mockConcernCatalog[i]
		c.Confidence = 80 + m.rnd.Float64()*20
		a.Concerns = append(a.Concerns, c)
	}

	for _, i := range m.pick(len(mockRecommendations), 4) {
		a.Recommendations = append(a.Recommendations, mockRecommendations[i])
	}

	return a, nil
}

// pick returns k distinct indexes of [0, n) in random order
func (m *MockAnalyzer) pick(n, k int) []int {
	return m.rnd.Perm(n)[:k]
}
