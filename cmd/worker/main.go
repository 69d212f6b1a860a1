package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ragner01/microjobs-marketplace/internal/config"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/infra/mongodb"
	"github.com/ragner01/microjobs-marketplace/internal/infra/queue"
	"github.com/ragner01/microjobs-marketplace/internal/infra/rabbitmq"
	"github.com/ragner01/microjobs-marketplace/internal/logging"
	"github.com/ragner01/microjobs-marketplace/internal/usecase"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/sync/errgroup"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)
	if envErr != nil {
		log.Debug().Msg(".env not found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create mongo client")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect mongo")
		}
	}()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = mongoClient.Ping(pingCtx, nil)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("mongo is not responding")
	}
	auditRepo := mongodb.NewAuditRepository(mongoClient, cfg.Mongo.Database)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to prepare audit collection")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")

	conn, err := amqp.DialConfig(cfg.RabbitMQ.URL, amqp.Config{
		Properties: amqp.Table{"connection_name": "EscrowAuditWorker_Consumer"},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}
	defer conn.Close()
	ch, err := conn.Channel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open rabbitmq channel")
	}
	defer ch.Close()

	consumer, err := rabbitmq.NewConsumer(ch, rabbitmq.ConsumerConfig{
		Exchange:   domain.EventsExchange,
		Queue:      cfg.Worker.AuditQueue,
		BindingKey: "escrow.transaction.#",
		Tag:        "escrow_audit_worker",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up audit consumer")
	}
	auditHandler := rabbitmq.NewAuditHandler(usecase.NewRecordAudit(auditRepo), cfg.Worker.HandlerTimeout)

	noticeServer := queue.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB},
		cfg.Worker.NoticeConcurrency,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Run(gctx, auditHandler)
	})
	g.Go(func() error {
		if err := noticeServer.Start(queue.NewServeMux(queue.LogSender{})); err != nil {
			return err
		}
		<-gctx.Done()
		noticeServer.Shutdown()
		return nil
	})

	log.Info().Str("queue", cfg.Worker.AuditQueue).Msg("worker started")
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("worker stopped")
	}
	log.Info().Msg("worker shut down")
}
