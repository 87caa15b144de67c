package handler

import (
	"github.com/vcscsvcscs/skincare-journal/internal/audit"
	"github.com/vcscsvcscs/skincare-journal/pkg/api"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
)

func toSkinLogResponse(l *model.SkinLog) api.SkinLogResponse {
	concerns := l.Concerns
	if concerns == nil {
		concerns = []string{}
	}
	resp := api.SkinLogResponse{
		Id:        stringToUUID(l.ID),
		Date:      l.Date,
		Condition: api.SkinCondition(l.Condition),
		Concerns:  concerns,
		Notes:     optionalString(l.Notes),
		PhotoUri:  optionalString(l.PhotoURI),
		SkinScore: l.SkinScore,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
	if l.Analysis != nil {
		a := toSkinAnalysis(l.Analysis)
		resp.Analysis = &a
	}
	return resp
}

func toSkinAnalysis(a *model.SkinAnalysis) api.SkinAnalysis {
	f := a.DetectedFeatures
	concerns := make([]api.AnalysisConcern, 0, len(a.Concerns))
	for _, c := range a.Concerns {
		concern := api.AnalysisConcern{
			Type:     c.Type,
			Severity: c.Severity,
			Location: optionalString(c.Location),
		}
		if c.Confidence != 0 {
			confidence := c.Confidence
			concern.Confidence = &confidence
		}
		concerns = append(concerns, concern)
	}
	recommendations := a.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}
	return api.SkinAnalysis{
		SkinScore: a.SkinScore,
		SkinType:  a.SkinType,
		DetectedFeatures: api.DetectedFeatures{
			Hydration: &f.Hydration,
			Acne:      &f.Acne,
			Texture:   &f.Texture,
			Redness:   &f.Redness,
			DarkSpots: &f.DarkSpots,
			Wrinkles:  &f.Wrinkles,
			Pores:     &f.Pores,
			Oiliness:  &f.Oiliness,
			SunDamage: &f.SunDamage,
		},
		Concerns:        concerns,
		Recommendations: recommendations,
	}
}

func toProductResponse(p *model.Product) api.ProductResponse {
	return api.ProductResponse{
		Id:        stringToUUID(p.ID),
		Name:      p.Name,
		Brand:     optionalString(p.Brand),
		Category:  api.ProductCategory(p.Category),
		StartDate: timeToDate(p.StartDate),
		IsActive:  p.IsActive,
		Notes:     optionalString(p.Notes),
		CreatedAt: p.CreatedAt,
	}
}

func toInsightResponse(i model.Insight) api.InsightResponse {
	return api.InsightResponse{
		Id:          i.ID,
		Type:        api.InsightType(i.Type),
		Title:       i.Title,
		Description: i.Description,
		Date:        i.Date,
		Priority:    api.InsightPriority(i.Priority),
	}
}

func toReportResponse(r *model.Report) api.ReportResponse {
	return api.ReportResponse{
		Id:             stringToUUID(r.ID),
		DateRangeStart: timeToDate(r.DateRangeStart),
		DateRangeEnd:   timeToDate(r.DateRangeEnd),
		GeneratedAt:    r.GeneratedAt,
	}
}

func toAuditEntry(e audit.Entry) api.AuditEntry {
	return api.AuditEntry{
		OperationType: string(e.OperationType),
		ResourceType:  string(e.ResourceType),
		ResourceId:    optionalString(e.ResourceID),
		Timestamp:     e.Timestamp,
		IpAddress:     optionalString(e.IPAddress),
	}
}
