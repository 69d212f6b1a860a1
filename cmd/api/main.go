package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ragner01/microjobs-marketplace/internal/config"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
	"github.com/ragner01/microjobs-marketplace/internal/gateway"
	"github.com/ragner01/microjobs-marketplace/internal/infra/http/handler"
	"github.com/ragner01/microjobs-marketplace/internal/infra/memory"
	"github.com/ragner01/microjobs-marketplace/internal/infra/postgres"
	"github.com/ragner01/microjobs-marketplace/internal/infra/queue"
	"github.com/ragner01/microjobs-marketplace/internal/infra/rabbitmq"
	redisInfra "github.com/ragner01/microjobs-marketplace/internal/infra/redis"
	"github.com/ragner01/microjobs-marketplace/internal/logging"
	"github.com/ragner01/microjobs-marketplace/internal/usecase"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type repositories struct {
	transactions gateway.TransactionRepository
	accounts     gateway.AccountRepository
	ledger       gateway.LedgerRepository
	uow          gateway.TransactionManager
	ping         func(ctx context.Context) error
	close        func()
}

func main() {
	// Production sets real environment variables; .env is a dev convenience.
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

	repos, err := openStorage(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("failed to open storage")
	}
	defer repos.close()

	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer redisClient.Close()

	var idempotencyRepo gateway.IdempotencyRepository
	var notifier gateway.SettlementNotifier
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, idempotency and settlement notices disabled")
	} else {
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
		idempotencyRepo = redisInfra.NewIdempotencyRepository(redisClient)
		asynqClient := asynq.NewClient(redisOpt)
		defer asynqClient.Close()
		notifier = queue.NewNotifier(asynqClient)
	}

	var publisher gateway.EventPublisher
	rabbitConn, err := amqp.DialConfig(cfg.RabbitMQ.URL, amqp.Config{
		Properties: amqp.Table{"connection_name": "EscrowAPI_Publisher"},
	})
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq unavailable, events will not be published")
	} else {
		defer rabbitConn.Close()
		ch, err := rabbitConn.Channel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open rabbitmq channel")
		}
		defer ch.Close()
		if err := rabbitmq.DeclareExchange(ch, domain.EventsExchange); err != nil {
			log.Fatal().Err(err).Msg("failed to declare exchange")
		}
		publisher = rabbitmq.NewRabbitMQPublisher(ch)
		log.Info().Msg("connected to rabbitmq")
	}

	transactionHandler := handler.NewTransactionHandler(
		usecase.NewListTransactions(repos.transactions),
		usecase.NewGetTransaction(repos.transactions, repos.ledger),
		usecase.NewInitiateTransaction(repos.transactions, repos.accounts, repos.ledger, repos.uow, publisher),
		usecase.NewReleasePayment(repos.transactions, repos.accounts, repos.ledger, repos.uow, publisher, notifier),
		usecase.NewRefundPayment(repos.transactions, repos.accounts, repos.ledger, repos.uow, publisher, notifier),
	)
	accountHandler := handler.NewAccountHandler(
		usecase.NewListAccounts(repos.accounts),
		usecase.NewGetAccount(repos.accounts),
		usecase.NewOpenAccount(repos.accounts),
		usecase.NewDepositFunds(repos.accounts, repos.ledger, repos.uow),
		usecase.NewWithdrawFunds(repos.accounts, repos.ledger, repos.uow),
		usecase.NewChangeAccountStatus(repos.accounts, repos.uow),
	)

	if cfg.Auth.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set, operator actions are not authenticated")
	}
	router := handler.NewRouter(handler.RouterConfig{
		Transactions:   transactionHandler,
		Accounts:       accountHandler,
		Idempotency:    idempotencyRepo,
		JWTSecret:      []byte(cfg.Auth.JWTSecret),
		RequestTimeout: cfg.Server.RequestTimeout,
		Ready:          repos.ping,
	})

	server := &http.Server{Addr: cfg.Server.Addr, Handler: router}
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("storage", cfg.DB.Driver).Msg("escrow api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func openStorage(ctx context.Context, cfg config.DBConfig) (*repositories, error) {
	if cfg.Driver == config.StorageMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			transactions: memory.NewTransactionRepository(store),
			accounts:     memory.NewAccountRepository(store),
			ledger:       memory.NewLedgerRepository(store),
			uow:          memory.NewUow(store),
			ping:         func(context.Context) error { return nil },
			close:        func() {},
		}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Msg("connected to postgres")
	return &repositories{
		transactions: postgres.NewTransactionRepository(pool),
		accounts:     postgres.NewAccountRepository(pool),
		ledger:       postgres.NewLedgerRepository(pool),
		uow:          postgres.NewUow(pool),
		ping:         pool.Ping,
		close:        pool.Close,
	}, nil
}
