package biz

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout-backend/internal/market/types"
	"github.com/leadscout/leadscout-backend/internal/pkg/logger"
	"github.com/leadscout/leadscout-backend/internal/pkg/workerpool"
)

// Default scan grid. Services and urgency modifiers multiply into the
// money-keyword candidates for a location.
var (
	DefaultServices = []string{
		"plumber", "electrician", "hvac repair", "ac repair",
		"locksmith", "water heater repair", "garage door repair", "roofing",
	}
	DefaultModifiers = []string{
		"emergency", "24 hour", "weekend", "same day", "urgent",
	}
)

// ScanRequest describes one keyword grid scan
type ScanRequest struct {
	Location  string   `json:"location"`
	Services  []string `json:"services,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// ScanResult is the outcome of a grid scan, opportunities sorted by
// monthly revenue descending
type ScanResult struct {
	JobID         string                     `json:"job_id"`
	Location      string                     `json:"location"`
	Scanned       int                        `json:"scanned"`
	Opportunities []*types.MarketOpportunity `json:"opportunities"`
	StartedAt     time.Time                  `json:"started_at"`
	CompletedAt   time.Time                  `json:"completed_at"`
}

// OpportunityScanner fans a service x modifier grid out over the worker
// pool, one full research pass per keyword. Keyword analyses share no
// state, so the only coordination is the result collection.
type OpportunityScanner struct {
	coordinator *DataCoordinator
	estimator   *KeywordMetricsEstimator
	scorer      *OpportunityScorer
	pool        *workerpool.Pool
	maxKeywords int
	log         *logger.Logger
}

// NewOpportunityScanner creates a scanner. maxKeywords caps how many grid
// combinations a single scan researches; 0 means no cap.
func NewOpportunityScanner(
	coordinator *DataCoordinator,
	scorer *OpportunityScorer,
	pool *workerpool.Pool,
	maxKeywords int,
	log *logger.Logger,
) *OpportunityScanner {
	return &OpportunityScanner{
		coordinator: coordinator,
		estimator:   NewKeywordMetricsEstimator(),
		scorer:      scorer,
		pool:        pool,
		maxKeywords: maxKeywords,
		log:         log,
	}
}

// Scan researches every service x modifier combination for the location.
// Keywords whose SERP shows fewer weak competitors than the policy floor
// are skipped before scoring. Individual keyword failures only lose that
// keyword's entry.
func (s *OpportunityScanner) Scan(ctx context.Context, req *ScanRequest) *ScanResult {
	services := req.Services
	if len(services) == 0 {
		services = DefaultServices
	}
	modifiers := req.Modifiers
	if len(modifiers) == 0 {
		modifiers = DefaultModifiers
	}

	keywords := make([]string, 0, len(services)*len(modifiers))
	for _, service := range services {
		for _, modifier := range modifiers {
			keywords = append(keywords, modifier+" "+service)
		}
	}
	if s.maxKeywords > 0 && len(keywords) > s.maxKeywords {
		s.log.Warn("scan grid truncated",
			zap.Int("combinations", len(keywords)),
			zap.Int("max_keywords", s.maxKeywords),
		)
		keywords = keywords[:s.maxKeywords]
	}

	result := &ScanResult{
		JobID:         uuid.New().String(),
		Location:      req.Location,
		Opportunities: []*types.MarketOpportunity{},
		StartedAt:     time.Now(),
	}

	s.log.Info("starting opportunity scan",
		zap.String("job_id", result.JobID),
		zap.String("location", req.Location),
		zap.Int("combinations", len(keywords)),
	)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, keyword := range keywords {
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			opp := s.analyzeKeyword(ctx, keyword, req.Location)
			if opp == nil {
				return
			}
			mu.Lock()
			result.Opportunities = append(result.Opportunities, opp)
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			s.log.Warn("failed to schedule keyword analysis",
				zap.String("keyword", keyword),
				zap.Error(err),
			)
		}
	}

	wg.Wait()

	result.Scanned = len(keywords)
	result.CompletedAt = time.Now()

	sort.Slice(result.Opportunities, func(i, j int) bool {
		return result.Opportunities[i].MonthlyRevenue > result.Opportunities[j].MonthlyRevenue
	})

	s.log.Info("opportunity scan complete",
		zap.String("job_id", result.JobID),
		zap.Int("opportunities", len(result.Opportunities)),
	)

	return result
}

// analyzeKeyword runs the full pipeline for one keyword and returns nil
// when the market does not clear the weak-competitor floor.
func (s *OpportunityScanner) analyzeKeyword(ctx context.Context, keyword, location string) *types.MarketOpportunity {
	data := s.coordinator.Gather(ctx, keyword, location)

	if len(data.WeakCompetitors) < s.scorer.Policy().MinWeakCompetitors {
		s.log.Debug("keyword below weak-competitor floor",
			zap.String("keyword", keyword),
			zap.Int("weak_competitors", len(data.WeakCompetitors)),
		)
		return nil
	}

	metrics := s.estimator.Estimate(keyword, location, data.SERPResults)
	return s.scorer.Score(keyword, location, data.SERPResults, data.CompetitorData, metrics)
}
