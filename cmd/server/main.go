package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout-backend/internal/conf"
	"github.com/leadscout/leadscout-backend/internal/market/biz"
	marketdata "github.com/leadscout/leadscout-backend/internal/market/data"
	marketservice "github.com/leadscout/leadscout-backend/internal/market/service"
	"github.com/leadscout/leadscout-backend/internal/pkg/logger"
	"github.com/leadscout/leadscout-backend/internal/pkg/redis"
	"github.com/leadscout/leadscout-backend/internal/pkg/workerpool"
	"github.com/leadscout/leadscout-backend/internal/scrape"
	"github.com/leadscout/leadscout-backend/internal/server"
	"github.com/leadscout/leadscout-backend/internal/websearch/provider"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "config file path")
)

func main() {
	flag.Parse()

	// .env is optional; explicit environment always wins
	_ = godotenv.Load()

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logConfig := &logger.Config{
		Level:            config.Log.Level,
		Format:           config.Log.Format,
		Output:           config.Log.Output,
		EnableCaller:     config.Log.EnableCaller,
		EnableStacktrace: config.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	}

	log, err := logger.New(logConfig)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := logger.InitGlobal(logConfig); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	log.Info("config loaded successfully")

	// Search providers
	factory := provider.NewFactory()

	primaryCfg, ok := config.Search.Providers[config.Search.Primary]
	if !ok {
		log.Fatal("primary search provider not configured",
			zap.String("provider", config.Search.Primary))
	}
	primary, err := factory.Create(&primaryCfg)
	if err != nil {
		log.Fatal("failed to create primary search provider", zap.Error(err))
	}

	var fallback provider.Provider
	if len(config.Search.Fallbacks) > 0 {
		name := config.Search.Fallbacks[0]
		fallbackCfg := config.Search.Providers[name]
		fallback, err = factory.Create(&fallbackCfg)
		if err != nil {
			log.Fatal("failed to create fallback search provider",
				zap.String("provider", name),
				zap.Error(err))
		}
	}

	// Research cache
	var cache biz.ResearchCache
	if config.Cache.Enabled {
		redisClient, err := redis.New(&redis.Config{
			Addr:     config.Redis.Addr,
			Username: config.Redis.Username,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
			PoolSize: config.Redis.PoolSize,
		}, log)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()

		cache = marketdata.NewResearchCacheRepo(
			redisClient, config.Cache.Prefix, config.Cache.TTL, log)
	}

	// Scrape chain: Jina Reader first, plain HTTP next, headless
	// browser last because it is the slowest
	backends := []scrape.Scraper{}
	if config.Scrape.JinaReaderHost != "" {
		backends = append(backends,
			scrape.NewJinaReader(config.Scrape.JinaReaderHost, config.Scrape.JinaAPIKey, config.Scrape.Timeout))
	}
	backends = append(backends, scrape.NewHTTPFetcher(config.Scrape.Timeout))
	if config.Scrape.EnableBrowser {
		backends = append(backends, scrape.NewBrowserScraper(config.Scrape.Timeout, ""))
	}
	scrapeManager := scrape.NewManager(log, backends...)

	// Worker pool for grid scans
	pool, err := workerpool.New(&workerpool.Config{Workers: config.Scan.Workers}, log.Logger)
	if err != nil {
		log.Fatal("failed to create worker pool", zap.Error(err))
	}
	defer pool.Release()

	// Business layer
	coordinator := biz.NewDataCoordinator(primary, fallback, cache, log)
	scorer := biz.NewOpportunityScorer(biz.DecisionPolicy{
		MinMonthlyRevenue:  float64(config.Policy.MinMonthlyRevenue),
		MaxDaysToRank:      config.Policy.MaxDaysToRank,
		MinWeakCompetitors: config.Policy.MinWeakCompetitors,
	})
	scanner := biz.NewOpportunityScanner(coordinator, scorer, pool, config.Scan.MaxKeywords, log)
	analyzer := biz.NewCompetitorAnalyzer(scrapeManager, log)

	marketService := marketservice.NewMarketService(coordinator, scanner, analyzer, log)

	httpServer := server.NewHTTPServer(config, log, marketService)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
