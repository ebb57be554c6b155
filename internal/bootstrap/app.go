package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"knowledge-assist/internal/ai"
	"knowledge-assist/internal/app"
	"knowledge-assist/internal/cache"
	"knowledge-assist/internal/config"
	"knowledge-assist/internal/history"
	"knowledge-assist/internal/model"
	mysqlClient "knowledge-assist/internal/platform/mysql"
	rabbitmqClient "knowledge-assist/internal/platform/rabbitmq"
	redisClient "knowledge-assist/internal/platform/redis"
	"knowledge-assist/internal/repository"
	"knowledge-assist/internal/sentiment"
	"knowledge-assist/internal/worker"
)

// App holds every long-lived component of the backend. Construction is
// fail-fast: an unreachable database, broker, or embedding provider aborts
// startup instead of degrading silently.
type App struct {
	Config *config.Config
	MySQL  *gorm.DB
	Redis  *redis.Client
	MQConn *amqp.Connection

	Auth      *app.AuthService
	Knowledge *app.KnowledgeService
	Assist    *app.AssistService
	Sentiment *sentiment.Service
	History   *history.Engine

	Publisher    *rabbitmqClient.DocumentPublisher
	IngestWorker *worker.IngestWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.KnowledgeChunk{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	embedder := ai.NewEmbeddingClient(cfg.Embedding.BaseURL, cfg.Embedding.APIKey, cfg.Embedding.Model)
	if err := embedder.Verify(ctx); err != nil {
		return nil, err
	}

	chunkRepo := repository.NewChunkRepository(mysqlDB)
	searchCache := cache.NewSearchCache(redisCli, time.Duration(cfg.Knowledge.CacheTTLSeconds)*time.Second)

	knowledgeSvc, err := app.NewKnowledgeService(chunkRepo, embedder, searchCache, cfg.Knowledge)
	if err != nil {
		return nil, fmt.Errorf("build knowledge service failed: %w", err)
	}

	sentimentSvc := sentiment.NewService(cfg.Sentiment)
	historyEngine := history.NewEngine()
	assistSvc := app.NewAssistService(knowledgeSvc, sentimentSvc)
	authSvc := app.NewAuthService(
		cfg.Auth.AdminPasswordHash,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute,
	)

	publisher := rabbitmqClient.NewDocumentPublisher(mqConn, cfg.RabbitMQ.IngestQueue)
	ingestWorker := worker.NewIngestWorker(mqConn, knowledgeSvc, cfg.RabbitMQ.IngestQueue)
	if err := ingestWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start ingest worker failed: %w", err)
	}

	return &App{
		Config:       cfg,
		MySQL:        mysqlDB,
		Redis:        redisCli,
		MQConn:       mqConn,
		Auth:         authSvc,
		Knowledge:    knowledgeSvc,
		Assist:       assistSvc,
		Sentiment:    sentimentSvc,
		History:      historyEngine,
		Publisher:    publisher,
		IngestWorker: ingestWorker,
		StartedAt:    time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.IngestWorker != nil {
		a.IngestWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
