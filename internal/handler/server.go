package handler

import "github.com/vcscsvcscs/skincare-journal/pkg/api"

// Server combines the per-domain handlers into one api.ServerInterface
type Server struct {
	*HealthHandler
	*SkinLogHandler
	*ProductHandler
	*InsightHandler
	*AnalysisHandler
	*ReportHandler
	*DataHandler
}

var _ api.ServerInterface = (*Server)(nil)
