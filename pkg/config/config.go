package config

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"vanity/pkg/client"
	"vanity/pkg/dictionary"
	"vanity/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	RedisEnabled       bool
	RedisURL           string
	RedisRetryAttempts int
	CandidateCacheTTL  time.Duration

	Port string

	ContactFlowSecret string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	DictionarySource     string
	DictionaryPath       string
	DictionaryS3Bucket   string
	DictionaryS3Key      string
	DictionaryS3Region   string
	DictionaryS3Endpoint string

	RankingOracle    string
	RankingTimeout   time.Duration
	MaxSelections    int
	BedrockModelID   string
	BedrockRegion    string
	BedrockMaxTokens int

	// BedrockPromptCandidates caps the heuristic shortlist sent to the
	// model. Zero sends every candidate.
	BedrockPromptCandidates int

	EngineWorkers  int
	AreaCodeLocked bool

	KafkaEnabled bool

	Log    *logger.Logger
	Client *client.Client
}

var dotEnvLoaded sync.Once

// Load reads the service configuration from the environment, after loading
// a .env file from the working directory if one exists. An invalid
// configuration is fatal.
func Load(serviceName string) *Config {
	dotEnvLoaded.Do(func() {
		_ = godotenv.Load()
	})

	cfg := fromEnv(serviceName)
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func fromEnv(serviceName string) *Config {
	return &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RedisEnabled:       getEnvBool(EnvRedisEnabled, DefaultRedisEnabled),
		RedisURL:           getEnvStr(EnvRedisURL, DefaultRedisURL),
		RedisRetryAttempts: getEnvNum(EnvRedisRetryAttempts, DefaultRedisRetryAttempts),
		CandidateCacheTTL:  getEnvDuration(EnvCandidateCacheTTL, DefaultCandidateCacheTTL),

		Port: getEnvStr(EnvPort, DefaultPort),

		ContactFlowSecret: getEnvStr(EnvContactFlowSecret, ""),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		DictionarySource:     strings.ToLower(getEnvStr(EnvDictionarySource, DefaultDictionarySource)),
		DictionaryPath:       getEnvStr(EnvDictionaryPath, ""),
		DictionaryS3Bucket:   getEnvStr(EnvDictionaryS3Bucket, ""),
		DictionaryS3Key:      getEnvStr(EnvDictionaryS3Key, ""),
		DictionaryS3Region:   getEnvStr(EnvDictionaryS3Region, ""),
		DictionaryS3Endpoint: getEnvStr(EnvDictionaryS3Endpoint, ""),

		RankingOracle:    strings.ToLower(getEnvStr(EnvRankingOracle, DefaultRankingOracle)),
		RankingTimeout:   getEnvDuration(EnvRankingTimeout, DefaultRankingTimeout),
		MaxSelections:    getEnvNum(EnvMaxSelections, DefaultMaxSelections),
		BedrockModelID:   getEnvStr(EnvBedrockModelID, DefaultBedrockModelID),
		BedrockRegion:    getEnvStr(EnvBedrockRegion, ""),
		BedrockMaxTokens: getEnvNum(EnvBedrockMaxTokens, DefaultBedrockMaxTokens),

		BedrockPromptCandidates: getEnvNum(EnvBedrockPromptCandidates, DefaultBedrockPromptCandidates),

		EngineWorkers:  getEnvNum(EnvEngineWorkers, DefaultEngineWorkers),
		AreaCodeLocked: getEnvBool(EnvAreaCodeLocked, DefaultAreaCodeLocked),

		KafkaEnabled: getEnvBool(EnvKafkaEnabled, DefaultKafkaEnabled),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, logger.INFO),
			Format:    getEnvStr(EnvLogFormat, logger.JSON),
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// SetRedis connects the candidate cache backend when Redis is enabled.
func (cfg *Config) SetRedis() {
	if !cfg.RedisEnabled {
		return
	}
	cfg.Client.SetRedis(cfg.Log, client.RedisConfig{
		URL:            cfg.RedisURL,
		ConnectTimeout: cfg.MongoConnTimeout,
		RetryAttempts:  cfg.RedisRetryAttempts,
		RetryInterval:  500 * time.Millisecond,
	})
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.RedisEnabled {
		if !regexp.MustCompile(`^rediss?://`).MatchString(cfg.RedisURL) {
			errors = append(errors, fmt.Sprintf("RedisURL must start with 'redis://' or 'rediss://', got: %s", redactURI(cfg.RedisURL)))
		}
		if cfg.RedisRetryAttempts <= 0 {
			errors = append(errors, fmt.Sprintf("RedisRetryAttempts must be positive, got: %d", cfg.RedisRetryAttempts))
		}
	}
	if cfg.CandidateCacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("CandidateCacheTTL must be positive, got: %s", cfg.CandidateCacheTTL))
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	switch cfg.DictionarySource {
	case dictionary.SourceEmbedded:
	case dictionary.SourceFile:
		if cfg.DictionaryPath == "" {
			errors = append(errors, "DictionaryPath is required when DictionarySource is 'file'")
		}
	case dictionary.SourceS3:
		if cfg.DictionaryS3Bucket == "" || cfg.DictionaryS3Key == "" {
			errors = append(errors, "DictionaryS3Bucket and DictionaryS3Key are required when DictionarySource is 's3'")
		}
	default:
		errors = append(errors, fmt.Sprintf("DictionarySource must be one of [embedded, file, s3], got: %s", cfg.DictionarySource))
	}

	if !slices.Contains([]string{OracleBedrock, OracleHeuristic, OracleNone}, cfg.RankingOracle) {
		errors = append(errors, fmt.Sprintf("RankingOracle must be one of [bedrock, heuristic, none], got: %s", cfg.RankingOracle))
	}
	if cfg.RankingTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RankingTimeout must be positive, got: %s", cfg.RankingTimeout))
	}
	if cfg.RankingTimeout >= cfg.RequestTimeout {
		errors = append(errors, fmt.Sprintf("RankingTimeout (%s) must be shorter than RequestTimeout (%s)", cfg.RankingTimeout, cfg.RequestTimeout))
	}
	if cfg.MaxSelections < 1 || cfg.MaxSelections > 5 {
		errors = append(errors, fmt.Sprintf("MaxSelections must be between 1 and 5, got: %d", cfg.MaxSelections))
	}
	if cfg.RankingOracle == OracleBedrock && cfg.BedrockModelID == "" {
		errors = append(errors, "BedrockModelID cannot be empty when RankingOracle is 'bedrock'")
	}
	if cfg.BedrockMaxTokens <= 0 {
		errors = append(errors, fmt.Sprintf("BedrockMaxTokens must be positive, got: %d", cfg.BedrockMaxTokens))
	}
	if cfg.BedrockPromptCandidates < 0 {
		errors = append(errors, fmt.Sprintf("BedrockPromptCandidates cannot be negative, got: %d", cfg.BedrockPromptCandidates))
	}

	if cfg.EngineWorkers < 1 || cfg.EngineWorkers > 64 {
		errors = append(errors, fmt.Sprintf("EngineWorkers must be between 1 and 64, got: %d", cfg.EngineWorkers))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"redis_enabled", cfg.RedisEnabled,
		"redis_url", redactURI(cfg.RedisURL),
		"candidate_cache_ttl", cfg.CandidateCacheTTL,
		"port", cfg.Port,
		"contact_flow_secret_set", cfg.ContactFlowSecret != "",
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"dictionary_source", cfg.DictionarySource,
		"ranking_oracle", cfg.RankingOracle,
		"ranking_timeout", cfg.RankingTimeout,
		"max_selections", cfg.MaxSelections,
		"bedrock_model_id", cfg.BedrockModelID,
		"bedrock_prompt_candidates", cfg.BedrockPromptCandidates,
		"engine_workers", cfg.EngineWorkers,
		"area_code_locked", cfg.AreaCodeLocked,
		"kafka_enabled", cfg.KafkaEnabled,
	)
}

func redactURI(uri string) string {
	credentialRegex := regexp.MustCompile(`^([a-z+]+://)[^@/]*:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = DefaultListLimit
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}
