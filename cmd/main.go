package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/Koyo-os/template-service/internal/entity"
	"github.com/Koyo-os/template-service/internal/repository"
	"github.com/Koyo-os/template-service/internal/service"
	"github.com/Koyo-os/template-service/pkg/closer"
	"github.com/Koyo-os/template-service/pkg/config"
	"github.com/Koyo-os/template-service/pkg/health"
	"github.com/Koyo-os/template-service/pkg/logger"
	"github.com/Koyo-os/template-service/pkg/retrier"
	"github.com/Koyo-os/template-service/pkg/transport/casher"
	"github.com/Koyo-os/template-service/pkg/transport/consumer"
	"github.com/Koyo-os/template-service/pkg/transport/listener"
	"github.com/Koyo-os/template-service/pkg/transport/publisher"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const configPath = "config.yaml"

func openDialector(cfg *config.Config) gorm.Dialector {
	if cfg.Database.Driver == "mysql" {
		return mysql.Open(cfg.Database.DSN)
	}
	return sqlite.Open(cfg.Database.DSN)
}

func main() {
	_ = godotenv.Load()

	logCfg := logger.Config{
		LogFile:   "app.log",
		LogLevel:  "debug",
		AppName:   "template-service",
		AddCaller: true,
	}

	if err := logger.Init(logCfg); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.Get()

	cfg, err := config.Init(configPath)
	if err != nil {
		log.Error("error init config",
			zap.String("path", configPath),
			zap.Error(err))
		return
	}

	db, err := retrier.Connect(3, 5, func() (*gorm.DB, error) {
		return gorm.Open(openDialector(cfg), &gorm.Config{})
	})
	if err != nil {
		log.Error("error connect to database",
			zap.String("driver", cfg.Database.Driver),
			zap.Error(err))
		return
	}

	if err = db.AutoMigrate(&entity.Template{}); err != nil {
		log.Error("error migrate schema", zap.Error(err))
		return
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Urls.Redis})

	if err = retrier.Do(3, 5, func() error {
		return redisClient.Ping(context.Background()).Err()
	}); err != nil {
		log.Error("error connect to redis",
			zap.String("url", cfg.Urls.Redis),
			zap.Error(err))
		return
	}

	amqpConn, err := retrier.Connect(5, 5, func() (*amqp.Connection, error) {
		return amqp.Dial(cfg.Urls.Rabbitmq)
	})
	if err != nil {
		log.Error("error connect to rabbitmq",
			zap.String("url", cfg.Urls.Rabbitmq),
			zap.Error(err))
		return
	}

	repo := repository.Init(db, log)
	cash := casher.Init(redisClient, log)

	pub, err := publisher.Init(cfg, log, amqpConn)
	if err != nil {
		log.Error("error init publisher", zap.Error(err))
		return
	}

	cons, err := consumer.Init(cfg, log, amqpConn)
	if err != nil {
		log.Error("error init consumer", zap.Error(err))
		return
	}

	for _, routingKey := range []string{
		cfg.Reqs.CreateRequestType,
		cfg.Reqs.UpdateStatusRequestType,
		cfg.Reqs.DeleteRequestType,
		cfg.Reqs.SubmitRequestType,
	} {
		if err = cons.Subscribe(routingKey, cfg.Queue.Request); err != nil {
			log.Error("error subscribe",
				zap.String("routing_key", routingKey),
				zap.Error(err))
			return
		}
	}

	svc := service.Init(cash, repo, pub, 10*time.Second)

	events := make(chan entity.Event, 16)
	list := listener.Init(events, log, cfg, svc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checker := health.NewHealthChecker(log, repo, cash, pub)
	go checker.StartHealthCheckServer(cfg.Health.Port)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return cons.ListenForEvents(gctx, cfg.Queue.Request, events)
	})
	g.Go(func() error {
		list.Listen(gctx)
		return nil
	})

	log.Info("template service started")

	if err = g.Wait(); err != nil {
		log.Error("service stopped with error", zap.Error(err))
	}

	closers := closer.NewCloserGroup(cash, pub)
	if err = closers.Close(); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
}
