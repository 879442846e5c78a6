package service

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout-backend/internal/market/biz"
	"github.com/leadscout/leadscout-backend/internal/pkg/logger"
	"github.com/leadscout/leadscout-backend/internal/pkg/response"
)

// MarketService exposes the research pipeline over HTTP.
type MarketService struct {
	coordinator *biz.DataCoordinator
	scanner     *biz.OpportunityScanner
	analyzer    *biz.CompetitorAnalyzer
	formatter   *biz.AgentDataFormatter
	logger      *logger.Logger
}

// NewMarketService creates a market service.
func NewMarketService(
	coordinator *biz.DataCoordinator,
	scanner *biz.OpportunityScanner,
	analyzer *biz.CompetitorAnalyzer,
	logger *logger.Logger,
) *MarketService {
	return &MarketService{
		coordinator: coordinator,
		scanner:     scanner,
		analyzer:    analyzer,
		formatter:   biz.NewAgentDataFormatter(),
		logger:      logger,
	}
}

// RegisterRoutes mounts the market endpoints under the given group.
func (s *MarketService) RegisterRoutes(r *gin.RouterGroup) {
	market := r.Group("/market")
	{
		market.POST("/research", s.Research)
		market.POST("/research/format", s.FormatForAgent)
		market.POST("/scan", s.Scan)
		market.POST("/competitors/analyze", s.AnalyzeCompetitor)
	}
}

// Research runs the full data pipeline for one keyword and returns the
// complete record. Cache hits skip the pipeline entirely.
func (s *MarketService) Research(c *gin.Context) {
	var req ResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	data := s.coordinator.Gather(c.Request.Context(), req.Keyword, req.Location)
	response.Success(c, data)
}

// FormatForAgent returns the agent-specific slice of a research record.
// Unknown agent names get the full record.
func (s *MarketService) FormatForAgent(c *gin.Context) {
	var req FormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	data := s.coordinator.Gather(c.Request.Context(), req.Keyword, req.Location)
	response.Success(c, s.formatter.Format(req.Agent, data))
}

// Scan researches every service x modifier combination for a location
// and returns the surviving opportunities sorted by revenue.
func (s *MarketService) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result := s.scanner.Scan(c.Request.Context(), &biz.ScanRequest{
		Location:  req.Location,
		Services:  req.Services,
		Modifiers: req.Modifiers,
	})

	s.logger.Info("scan completed",
		zap.String("job_id", result.JobID),
		zap.Int("scanned", result.Scanned),
		zap.Int("opportunities", len(result.Opportunities)),
	)

	response.Success(c, result)
}

// AnalyzeCompetitor scrapes one competitor site and extracts contacts,
// service areas and weaknesses.
func (s *MarketService) AnalyzeCompetitor(c *gin.Context) {
	var req AnalyzeCompetitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	intel, err := s.analyzer.Analyze(c.Request.Context(), req.URL)
	if err != nil {
		if errors.Is(err, biz.ErrScrapeEmpty) {
			response.ServiceUnavailable(c, "could not scrape site")
			return
		}
		s.logger.Error("competitor analysis failed",
			zap.String("url", req.URL),
			zap.Error(err),
		)
		response.InternalError(c, "competitor analysis failed")
		return
	}

	response.Success(c, intel)
}
