package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/2beens/weightrec/internal/model"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// model
	ModelPath        string       `toml:"model_path"`
	SyntheticSamples int          `toml:"synthetic_samples"`
	SyntheticSeed    uint64       `toml:"synthetic_seed"`
	TestFraction     float64      `toml:"test_fraction"`
	SplitSeed        uint64       `toml:"split_seed"`
	RetrainThreshold int          `toml:"retrain_threshold"`
	Model            model.Config `toml:"model"`

	// prediction cache
	PredictionCacheSizeMB int `toml:"prediction_cache_size_mb"`
	PredictionCacheTTLSec int `toml:"prediction_cache_ttl_sec"`

	// workout history, disabled when postgres_host is empty
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// /train rate limiting
	RedisHost            string `toml:"redis_host"`
	RedisPort            string `toml:"redis_port"`
	TrainRateLimitPerMin int    `toml:"train_rate_limit_per_min"`

	AllowedOrigins        []string `toml:"allowed_origins"`
	PrometheusMetricsHost string   `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string   `toml:"prometheus_metrics_port"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config for env: %s", env)
	}
	return cfg, nil
}

// Load reads the config for env from the TOML file at path. A .env file next to the
// working directory, if present, is loaded into the process environment first.
func Load(env, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}
	cfg.applyDefaults()

	if err := cfg.Model.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5000
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ModelPath == "" {
		c.ModelPath = "model.gob.gz"
	}
	if c.SyntheticSamples == 0 {
		c.SyntheticSamples = 3000
	}
	if c.SyntheticSeed == 0 {
		c.SyntheticSeed = 42
	}
	if c.TestFraction == 0 {
		c.TestFraction = 0.15
	}
	if c.SplitSeed == 0 {
		c.SplitSeed = 42
	}
	if c.RetrainThreshold == 0 {
		c.RetrainThreshold = 10
	}
	if c.PredictionCacheSizeMB == 0 {
		c.PredictionCacheSizeMB = 16
	}
	if c.PredictionCacheTTLSec == 0 {
		c.PredictionCacheTTLSec = 3600
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.PostgresDBName == "" {
		c.PostgresDBName = "weightrec"
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.TrainRateLimitPerMin == 0 {
		c.TrainRateLimitPerMin = 5
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}

	// an empty [model] table means the defaults; partial tables keep what was set
	defaults := model.DefaultConfig()
	m := &c.Model
	if m.Seed == 0 {
		m.Seed = defaults.Seed
	}
	if m.ForestWeight == 0 && m.BoostingWeight == 0 {
		m.ForestWeight = defaults.ForestWeight
		m.BoostingWeight = defaults.BoostingWeight
	}
	if m.CVFolds == 0 {
		m.CVFolds = defaults.CVFolds
	}
	if m.Forest.Trees == 0 {
		m.Forest.Trees = defaults.Forest.Trees
	}
	if m.Forest.MaxDepth == 0 {
		m.Forest.MaxDepth = defaults.Forest.MaxDepth
	}
	if m.Forest.MinSamplesLeaf == 0 {
		m.Forest.MinSamplesLeaf = defaults.Forest.MinSamplesLeaf
	}
	if m.Boosting.Stages == 0 {
		m.Boosting.Stages = defaults.Boosting.Stages
	}
	if m.Boosting.MaxDepth == 0 {
		m.Boosting.MaxDepth = defaults.Boosting.MaxDepth
	}
	if m.Boosting.MinSamplesLeaf == 0 {
		m.Boosting.MinSamplesLeaf = defaults.Boosting.MinSamplesLeaf
	}
	if m.Boosting.LearningRate == 0 {
		m.Boosting.LearningRate = defaults.Boosting.LearningRate
	}
	if m.Boosting.Subsample == 0 {
		m.Boosting.Subsample = defaults.Boosting.Subsample
	}
}
