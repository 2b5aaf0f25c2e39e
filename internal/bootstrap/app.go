package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"geocatch/internal/config"
	"geocatch/internal/model"
	mysqlClient "geocatch/internal/platform/mysql"
	rabbitmqClient "geocatch/internal/platform/rabbitmq"
	redisClient "geocatch/internal/platform/redis"
	"geocatch/internal/repository"
	"geocatch/internal/worker"
)

type App struct {
	Config      *config.Config
	MySQL       *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	EventWorker *worker.CacheEventWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	app := &App{Config: cfg, StartedAt: time.Now()}

	app.MySQL, err = mysqlClient.New(ctx, cfg.MySQLDSN(), gormLogLevel(cfg.App.Env))
	if err != nil {
		return nil, err
	}
	if err := app.MySQL.AutoMigrate(model.Models()...); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	app.Redis, err = redisClient.New(ctx, cfg.Redis)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.CacheEventQueue)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	eventRepo := repository.NewCacheEventRepository(app.MySQL)
	app.EventWorker = worker.NewCacheEventWorker(app.MQConn, eventRepo, cfg.RabbitMQ.CacheEventQueue)
	if err := app.EventWorker.Start(ctx); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("start cache event worker failed: %w", err)
	}

	return app, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.EventWorker != nil {
		a.EventWorker.Close()
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

func gormLogLevel(env string) logger.LogLevel {
	if env == "dev" {
		return logger.Info
	}
	return logger.Warn
}
