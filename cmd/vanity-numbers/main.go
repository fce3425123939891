package main

import (
	"context"
	"time"

	"vanity/internal/contact"
	"vanity/internal/ranking"
	"vanity/internal/vanitynumbers/cache"
	"vanity/internal/vanitynumbers/handler"
	"vanity/internal/vanitynumbers/repository"
	"vanity/internal/vanitynumbers/service"
	"vanity/internal/vanitynumbers/validator"
	"vanity/pkg/app"
	"vanity/pkg/client"
	"vanity/pkg/config"
	"vanity/pkg/dictionary"
	"vanity/pkg/kafka"
	kafka_config "vanity/pkg/kafka/config"
	kafkamw "vanity/pkg/kafka/middleware"
	"vanity/pkg/vanity"
)

const ServiceName = "vanity-numbers"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Vanity Numbers service")
	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown("clients", func() error {
		cfg.GracefulShutdown()
		return nil
	})

	var kafkaCfg *kafka_config.Config
	if cfg.KafkaEnabled {
		kafkaCfg = loadKafkaConfig(cfg)
	}

	words := initDictionary(cfg)
	vanityValidator := validator.NewVanityValidator()
	vanityService := initServices(cfg, words, vanityValidator, kafkaCfg, serverApp)
	processor := contact.NewProcessor(vanityService, cfg.Log)
	if kafkaCfg != nil {
		initContactConsumer(cfg, kafkaCfg, processor, serverApp)
	}

	checks := []handler.Check{handler.MongoCheck(cfg.Client.Mongo)}
	if cfg.Client.Redis != nil {
		checks = append(checks, handler.Check{Name: "cache", Fn: client.RedisHealthcheck(cfg.Client.Redis)})
	}

	serverApp.SetApp(
		handler.NewHealthHandler(cfg.Log, checks...),
		handler.NewVanityHandler(vanityService, vanityValidator, cfg.Log),
		contact.NewHandler(processor, cfg.Log),
	)
	serverApp.Run()
}

func initDictionary(cfg *config.Config) *dictionary.WordSet {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var src dictionary.Source
	switch cfg.DictionarySource {
	case dictionary.SourceFile:
		src = dictionary.FileSource{Path: cfg.DictionaryPath}
	case dictionary.SourceS3:
		s3src, err := dictionary.NewS3Source(ctx, dictionary.S3Config{
			Bucket:         cfg.DictionaryS3Bucket,
			Key:            cfg.DictionaryS3Key,
			Region:         cfg.DictionaryS3Region,
			Endpoint:       cfg.DictionaryS3Endpoint,
			ForcePathStyle: cfg.DictionaryS3Endpoint != "",
		})
		if err != nil {
			cfg.Log.Fatal("Failed to configure dictionary source", "error", err)
		}
		src = s3src
	default:
		src = dictionary.Embedded()
	}

	words, err := dictionary.Init(ctx, src)
	if err != nil {
		cfg.Log.Fatal("Failed to load dictionary", "source", src.Name(), "error", err)
	}
	cfg.Log.Info("Dictionary loaded",
		"source", src.Name(),
		"words", words.Len(),
		"fingerprint", words.Fingerprint(),
	)
	return words
}

func initOracle(cfg *config.Config) ranking.Oracle {
	switch cfg.RankingOracle {
	case config.OracleBedrock:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		promptCandidates := cfg.BedrockPromptCandidates
		if promptCandidates == 0 {
			promptCandidates = ranking.AllCandidates
		}
		oracle, err := ranking.NewBedrockOracle(ctx, ranking.BedrockConfig{
			ModelID:          cfg.BedrockModelID,
			Region:           cfg.BedrockRegion,
			MaxTokens:        int32(cfg.BedrockMaxTokens),
			PromptCandidates: promptCandidates,
		})
		if err != nil {
			cfg.Log.Fatal("Failed to configure ranking oracle", "error", err)
		}
		return oracle
	case config.OracleHeuristic:
		return ranking.NewHeuristicOracle()
	default:
		return nil
	}
}

func initServices(
	cfg *config.Config,
	words *dictionary.WordSet,
	vanityValidator *validator.VanityValidator,
	kafkaCfg *kafka_config.Config,
	serverApp *app.Application,
) service.VanityService {
	engineOpts := []vanity.Option{vanity.WithWorkers(cfg.EngineWorkers)}
	if cfg.AreaCodeLocked {
		engineOpts = append(engineOpts, vanity.WithAreaCodeLocked())
	}
	engine, err := vanity.NewEngine(words, engineOpts...)
	if err != nil {
		cfg.Log.Fatal("Failed to create vanity engine", "error", err)
	}

	ranker := ranking.NewRanker(initOracle(cfg), cfg.RankingTimeout, cfg.MaxSelections, cfg.Log)

	var opts []service.Option
	if cfg.Client.Redis != nil {
		opts = append(opts, service.WithCache(cache.NewRedisCandidateCache(cfg.Client.Redis, cfg.CandidateCacheTTL, words.Fingerprint())))
	}
	if kafkaCfg != nil {
		opts = append(opts, service.WithPublisher(initProducer(cfg, kafkaCfg, serverApp)))
	}

	vanityService := service.NewVanityService(
		repository.NewMongoVanityRepository(cfg),
		engine,
		ranker,
		vanityValidator,
		words.Fingerprint(),
		cfg.Log,
		opts...,
	)

	cfg.Log.Info("Vanity service initialized",
		"database", cfg.MongoDatabaseName,
		"layout", engine.Layout().String(),
		"oracle", ranker.Name(),
		"cache", cfg.Client.Redis != nil,
		"events", kafkaCfg != nil,
	)
	return vanityService
}

func loadKafkaConfig(cfg *config.Config) *kafka_config.Config {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)
	return kafkaCfg
}

func initProducer(cfg *config.Config, kafkaCfg *kafka_config.Config, serverApp *app.Application) *kafka.Producer {
	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.GeneratedTopic, "", cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	if kafkaCfg.EnableMiddleware {
		metrics := kafkamw.NewMetrics()
		producer.Use(kafkamw.LoggingProducerMiddleware(cfg.Log))
		producer.Use(metrics.ProducerMiddleware())
		serverApp.OnShutdown("producer metrics", func() error {
			metrics.Log(cfg.Log)
			return nil
		})
	}

	serverApp.OnShutdown("kafka producer", producer.Close)
	return producer
}

func initContactConsumer(cfg *config.Config, kafkaCfg *kafka_config.Config, processor *contact.Processor, serverApp *app.Application) {
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		kafkaCfg.ContactEventsTopic,
		kafkaCfg.ConsumerGroupID,
		kafkaCfg.ContactEventsDLQ,
		processor.HandleMessage,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	if kafkaCfg.EnableMiddleware {
		metrics := kafkamw.NewMetrics()
		consumer.Use(kafkamw.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(metrics.ConsumerMiddleware())
		serverApp.OnShutdown("consumer metrics", func() error {
			metrics.Log(cfg.Log)
			return nil
		})
	}

	serverApp.AddWorker(app.Worker{Name: "contact-events", Run: consumer.Start})
	serverApp.OnShutdown("kafka consumer", consumer.Close)
}
