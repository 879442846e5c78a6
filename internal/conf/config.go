package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	searchtypes "github.com/leadscout/leadscout-backend/internal/websearch/types"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Log    LogConfig    `mapstructure:"log"`
	Search SearchConfig `mapstructure:"search"`
	Scrape ScrapeConfig `mapstructure:"scrape"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Scan   ScanConfig   `mapstructure:"scan"`
	Policy PolicyConfig `mapstructure:"policy"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type LogConfig struct {
	Level            string        `mapstructure:"level"`
	Format           string        `mapstructure:"format"`
	Output           string        `mapstructure:"output"`
	File             FileLogConfig `mapstructure:"file"`
	EnableCaller     bool          `mapstructure:"enable_caller"`
	EnableStacktrace bool          `mapstructure:"enable_stacktrace"`
}

type FileLogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// SearchConfig selects the primary SERP provider and an ordered
// fallback list. Provider names must match entries in Providers.
type SearchConfig struct {
	Primary   string                                `mapstructure:"primary"`
	Fallbacks []string                              `mapstructure:"fallbacks"`
	Providers map[string]searchtypes.ProviderConfig `mapstructure:"providers"`
}

type ScrapeConfig struct {
	JinaReaderHost string        `mapstructure:"jina_reader_host"`
	JinaAPIKey     string        `mapstructure:"jina_api_key"`
	Timeout        time.Duration `mapstructure:"timeout"`
	EnableBrowser  bool          `mapstructure:"enable_browser"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
	Prefix  string        `mapstructure:"prefix"`
}

type ScanConfig struct {
	Workers     int `mapstructure:"workers"`
	MaxKeywords int `mapstructure:"max_keywords"`
}

type PolicyConfig struct {
	MinMonthlyRevenue  int `mapstructure:"min_monthly_revenue"`
	MaxDaysToRank      int `mapstructure:"max_days_to_rank"`
	MinWeakCompetitors int `mapstructure:"min_weak_competitors"`
}

func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	v := viper.New()
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(path), "."))
	v.AutomaticEnv()

	setDefaults(v)

	// ${VAR} references in the file resolve against the environment
	if err := v.ReadConfig(strings.NewReader(os.ExpandEnv(string(raw)))); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "console")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 2*time.Hour)
	v.SetDefault("cache.prefix", "leadscout:research")
	v.SetDefault("scan.workers", 5)
	v.SetDefault("scan.max_keywords", 100)
	v.SetDefault("scrape.timeout", 30*time.Second)
	v.SetDefault("policy.min_monthly_revenue", 1500)
	v.SetDefault("policy.max_days_to_rank", 30)
	v.SetDefault("policy.min_weak_competitors", 3)
}

// Validate checks cross-field constraints after unmarshalling.
func (c *Config) Validate() error {
	if c.Search.Primary == "" {
		return fmt.Errorf("search.primary is required")
	}
	if _, ok := c.Search.Providers[c.Search.Primary]; !ok {
		return fmt.Errorf("search.primary %q has no provider entry", c.Search.Primary)
	}
	for _, name := range c.Search.Fallbacks {
		if _, ok := c.Search.Providers[name]; !ok {
			return fmt.Errorf("search fallback %q has no provider entry", name)
		}
	}
	if c.Scan.Workers <= 0 {
		return fmt.Errorf("scan.workers must be positive")
	}
	if c.Policy.MinMonthlyRevenue < 0 || c.Policy.MaxDaysToRank < 0 {
		return fmt.Errorf("policy thresholds must not be negative")
	}
	return nil
}
