package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisEnabled       = "REDIS_ENABLED"
	EnvRedisURL           = "REDIS_URL"
	EnvRedisRetryAttempts = "REDIS_RETRY_ATTEMPTS"
	EnvCandidateCacheTTL  = "CANDIDATE_CACHE_TTL"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvContactFlowSecret = "CONTACT_FLOW_SECRET"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvDictionarySource     = "DICTIONARY_SOURCE"
	EnvDictionaryPath       = "DICTIONARY_PATH"
	EnvDictionaryS3Bucket   = "DICTIONARY_S3_BUCKET"
	EnvDictionaryS3Key      = "DICTIONARY_S3_KEY"
	EnvDictionaryS3Region   = "DICTIONARY_S3_REGION"
	EnvDictionaryS3Endpoint = "DICTIONARY_S3_ENDPOINT"

	EnvRankingOracle    = "RANKING_ORACLE"
	EnvRankingTimeout   = "RANKING_TIMEOUT"
	EnvMaxSelections    = "RANKING_MAX_SELECTIONS"
	EnvBedrockModelID   = "BEDROCK_MODEL_ID"
	EnvBedrockRegion    = "BEDROCK_REGION"
	EnvBedrockMaxTokens = "BEDROCK_MAX_TOKENS"

	EnvBedrockPromptCandidates = "BEDROCK_PROMPT_CANDIDATES"

	EnvEngineWorkers  = "ENGINE_WORKERS"
	EnvAreaCodeLocked = "AREA_CODE_LOCKED"

	EnvKafkaEnabled = "KAFKA_ENABLED"
)
