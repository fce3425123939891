package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "vanity"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisEnabled       = false
	DefaultRedisURL           = "redis://localhost:6379/0"
	DefaultRedisRetryAttempts = 3
	DefaultCandidateCacheTTL  = 24 * time.Hour

	DefaultPort = "8080"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 64 * 1024 // 64KB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 35 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultDictionarySource = "embedded"

	DefaultRankingOracle    = OracleHeuristic
	DefaultRankingTimeout   = 8 * time.Second
	DefaultMaxSelections    = 5
	DefaultBedrockModelID   = "anthropic.claude-3-5-sonnet-20240620-v1:0"
	DefaultBedrockMaxTokens = 512

	DefaultBedrockPromptCandidates = 200

	DefaultEngineWorkers  = 4
	DefaultAreaCodeLocked = false

	DefaultKafkaEnabled = false

	DefaultPaginationLimit = 100
	DefaultListLimit       = 5
)

const (
	OracleBedrock   = "bedrock"
	OracleHeuristic = "heuristic"
	OracleNone      = "none"
)
