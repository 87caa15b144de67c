// Package analysis turns a selfie into a SkinAnalysis. Backends are
// interchangeable behind Analyzer.
package analysis

import (
	"context"
	"errors"

	"github.com/vcscsvcscs/skincare-journal/pkg/model"
)

// Analyzer inspects a face photo
type Analyzer interface {
	Analyze(ctx context.Context, userID string, image []byte) (*model.SkinAnalysis, error)
}

// ErrInvalidResponse is returned when a backend answers with something that
// cannot be read as an analysis
var ErrInvalidResponse = errors.New("analyzer returned invalid JSON response")

// Defaults applied to missing or zero fields of a backend response
const (
	DefaultSkinScore = 75
	DefaultSkinType  = "Normal"
)

// DefaultFeatures fills feature values a backend leaves out
var DefaultFeatures = model.DetectedFeatures{
	Hydration: 75,
	Acne:      20,
	Texture:   80,
	Redness:   15,
	DarkSpots: 25,
	Wrinkles:  10,
	Pores:     30,
	Oiliness:  40,
	SunDamage: 20,
}

// DefaultRecommendations are used when a backend sends none
var DefaultRecommendations = []string{
	"Use a hydrating serum daily",
	"Apply SPF 50+ sunscreen",
	"Maintain consistent skincare routine",
}

// rawFeatures mirrors the wire format of remote analyzers
type rawFeatures struct {
	Hydration *float64 `json:"hydration"`
	Acne      *float64 `json:"acne"`
	Texture   *float64 `json:"texture"`
	Redness   *float64 `json:"redness"`
	DarkSpots *float64 `json:"darkSpots"`
	Wrinkles  *float64 `json:"wrinkles"`
	Pores     *float64 `json:"pores"`
	Oiliness  *float64 `json:"oiliness"`
	SunDamage *float64 `json:"sunDamage"`
}

// rawAnalysis is what the webhook workflow and the vision model return
type rawAnalysis struct {
	SkinScore        *float64     `json:"skinScore"`
	SkinType         *string      `json:"skinType"`
	DetectedFeatures *rawFeatures `json:"detectedFeatures"`
	Concerns         []string     `json:"concerns"`
	Recommendations  []string     `json:"recommendations"`
}

// toModel maps a raw response, replacing missing or zero values with the
// defaults. The first concern is reported as moderate, the rest as mild.
func (r rawAnalysis) toModel() *model.SkinAnalysis {
	a := &model.SkinAnalysis{
		SkinScore: DefaultSkinScore,
		SkinType:  DefaultSkinType,
		Concerns:  make([]model.AnalysisConcern, 0, len(r.Concerns)),
	}

	if r.SkinScore != nil && *r.SkinScore != 0 {
		a.SkinScore = clampScore(*r.SkinScore)
	}
	if r.SkinType != nil && *r.SkinType != "" {
		a.SkinType = *r.SkinType
	}

	f := rawFeatures{}
	if r.DetectedFeatures != nil {
		f = *r.DetectedFeatures
	}
	a.DetectedFeatures = model.DetectedFeatures{
		Hydration: orDefault(f.Hydration, DefaultFeatures.Hydration),
		Acne:      orDefault(f.Acne, DefaultFeatures.Acne),
		Texture:   orDefault(f.Texture, DefaultFeatures.Texture),
		Redness:   orDefault(f.Redness, DefaultFeatures.Redness),
		DarkSpots: orDefault(f.DarkSpots, DefaultFeatures.DarkSpots),
		Wrinkles:  orDefault(f.Wrinkles, DefaultFeatures.Wrinkles),
		Pores:     orDefault(f.Pores, DefaultFeatures.Pores),
		Oiliness:  orDefault(f.Oiliness, DefaultFeatures.Oiliness),
		SunDamage: orDefault(f.SunDamage, DefaultFeatures.SunDamage),
	}

	for i, concern := range r.Concerns {
		severity := "mild"
		if i == 0 {
			severity = "moderate"
		}
		a.Concerns = append(a.Concerns, model.AnalysisConcern{
			Type:     concern,
			Severity: severity,
			Location: "forehead",
		})
	}

	// An explicit empty list is kept; only a missing one is defaulted.
	if r.Recommendations != nil {
		a.Recommendations = r.Recommendations
	} else {
		a.Recommendations = append([]string(nil), DefaultRecommendations...)
	}

	return a
}

func orDefault(v *float64, def float64) float64 {
	if v == nil || *v == 0 {
		return def
	}
	return *v
}

func clampScore(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return int(v)
}
