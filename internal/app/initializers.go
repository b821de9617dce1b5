package app

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"legistar-dispatch/internal/dispatcher"
	"legistar-dispatch/internal/dispatcher/queue"
	"legistar-dispatch/internal/jurisdictions"
	"legistar-dispatch/internal/runlog"
	"legistar-dispatch/internal/runstates"
	"legistar-dispatch/internal/utils"

	"github.com/joho/godotenv"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	neoconfig "github.com/neo4j/neo4j-go-driver/v5/neo4j/config"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
	"go.uber.org/zap"
)

func InitApp() *DispatcherApp {
	initEnv()

	logger := initLogger()

	tp := initTracing()

	registry := initRegistry(logger)

	neo4jDriver := initNeo4jDriver(logger)
	runLedger := runlog.NewNeo4jRepo(logger, neo4jDriver)

	tasksQueue := initQueue(logger, "KAFKA_TASKS_CONSUMER_GROUP", "KAFKA_TOPIC_TASKS")
	runsQueue := initQueue(logger, "KAFKA_RUNS_CONSUMER_GROUP", "KAFKA_TOPIC_RUNS")

	redisURI := os.Getenv("REDIS_URI")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	if redisURI == "" {
		logger.Fatal("REDIS_URI is missing")
	}

	redisRunStateClient := initRedisClient(logger, redisURI, redisPassword, 0)

	nodeID, err := utils.GenerateID()
	if err != nil {
		logger.Fatal("Error generating node ID:", err)
	}

	runStateManager := runstates.NewRedisRunStateManager(redisRunStateClient, logger, nodeID)

	disp := dispatcher.NewQueueDispatcherKafka(logger, tasksQueue, runsQueue)

	return NewDispatcherApp(
		logger,
		registry,
		disp,
		tasksQueue,
		runsQueue,
		runStateManager,
		runLedger,
		tp,
		initDispatchInterval(logger),
	)
}

func initRegistry(logger *zap.SugaredLogger) *jurisdictions.Registry {
	defaults := jurisdictions.DefaultBase()

	if tz := os.Getenv("LEGISTAR_DEFAULT_TIMEZONE"); tz != "" {
		defaults.Timezone = tz
	}
	if div := os.Getenv("LEGISTAR_DEFAULT_DIVISION_ID"); div != "" {
		defaults.DivisionID = div
	}

	registry, err := jurisdictions.Builtin(defaults)
	if err != nil {
		logger.Fatalf("Error building jurisdiction registry: %v", err)
	}

	if path := os.Getenv("JURISDICTIONS_FILE"); path != "" {
		seeds, err := jurisdictions.LoadSeeds(path)
		if err != nil {
			logger.Fatalf("Error loading jurisdictions file: %v", err)
		}

		if err := registry.RegisterAll(seeds); err != nil {
			logger.Fatalf("Error registering jurisdictions from %s: %v", path, err)
		}

		logger.Infow("Loaded extra jurisdictions", "file", path, "count", len(seeds))
	}

	logger.Infow("Jurisdiction registry ready", "jurisdictions", registry.Len())

	return registry
}

func initDispatchInterval(logger *zap.SugaredLogger) time.Duration {
	raw := os.Getenv("DISPATCH_INTERVAL")
	if raw == "" {
		return DefaultDispatchInterval
	}

	interval, err := time.ParseDuration(raw)
	if err != nil {
		logger.Fatalf("Invalid DISPATCH_INTERVAL %q: %v", raw, err)
	}

	return interval
}

func initQueue(logger *zap.SugaredLogger, groupKey, topicKey string) queue.Queue {
	addr := os.Getenv("KAFKA_ADDR")
	consumerGroup := os.Getenv(groupKey)
	topic := os.Getenv(topicKey)

	if addr == "" || consumerGroup == "" || topic == "" {
		logger.Fatalf("Error initializing queue: KAFKA_ADDR, %s or %s missing", groupKey, topicKey)
	}

	cfg := queue.KafkaConfig{
		Seeds:         strings.Split(addr, ","),
		ConsumerGroup: consumerGroup,
		Topic:         topic,
		User:          os.Getenv("KAFKA_USERNAME"),
		Password:      os.Getenv("KAFKA_PASSWORD"),
	}

	q, err := queue.NewKafkaQueue(logger, &cfg)
	if err != nil {
		logger.Fatal("Error initializing queue:", err)
	}

	return q
}

func initRedisClient(logger *zap.SugaredLogger, uri, password string, db int) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     uri,
		Password: password,
		DB:       db,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		log.Fatalf("redisotel tracing err: %v", err)
	}

	if err := redisotel.InstrumentMetrics(rdb); err != nil {
		log.Fatalf("redisotel metrics err: %v", err)
	}

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}

	logger.Infow("Connected to Redis", "addr", uri, "db", db)
	return rdb
}

func initNeo4jDriver(logger *zap.SugaredLogger) neo4j.DriverWithContext {
	neo4jURI := os.Getenv("NEO4J_URI")
	neo4jUser := os.Getenv("NEO4J_USER")
	neo4jPassword := os.Getenv("NEO4J_PASSWORD")

	if neo4jURI == "" || neo4jUser == "" {
		logger.Fatal("Error initializing neo4j driver: NEO4J_URI or NEO4J_USER missing")
	}

	neo4jDriver, err := neo4j.NewDriverWithContext(neo4jURI, neo4j.BasicAuth(neo4jUser, neo4jPassword, ""), func(config *neoconfig.Config) {
		config.MaxConnectionPoolSize = DefaultSaverWorkers
	})

	if err != nil {
		logger.Fatal("Error initializing neo4j:", err)
	}

	return neo4jDriver
}

func initTracing() *trace.TracerProvider {
	otlpEndpoint := os.Getenv("OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		log.Fatalf("Error initializing tracing: OTLP_ENDPOINT missing")
	}

	exp, err := otlptracehttp.New(context.Background(), otlptracehttp.WithEndpoint(otlpEndpoint), otlptracehttp.WithInsecure())
	if err != nil {
		log.Fatalf("Error initializing otlp exporter: %v", err)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(semconv.ServiceNameKey.String("legistar-dispatch")),
	)
	if err != nil {
		log.Fatal("Error initializing otel resource:", err)
	}

	tracerProvider := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)

	otel.SetTracerProvider(tracerProvider)

	return tracerProvider
}

func initLogger() *zap.SugaredLogger {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Error initializing zap logger: %v", err)
		return nil
	}

	return zapLogger.Sugar()
}

func initEnv() {
	if os.Getenv("APP_ENV") == "prod" {
		return
	}

	err := godotenv.Load("main.env")

	if err != nil {
		log.Fatalf("Error loading .env file")
	}
}
