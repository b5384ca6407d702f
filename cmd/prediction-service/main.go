package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/bolao-predictions/internal/booster-usage/tally"
	"github.com/radieske/bolao-predictions/internal/prediction-service/auth"
	"github.com/radieske/bolao-predictions/internal/prediction-service/feed"
	phttp "github.com/radieske/bolao-predictions/internal/prediction-service/http"
	"github.com/radieske/bolao-predictions/internal/prediction-service/idempotency"
	"github.com/radieske/bolao-predictions/internal/prediction-service/producer"
	"github.com/radieske/bolao-predictions/internal/prediction-service/repo"
	"github.com/radieske/bolao-predictions/internal/prediction-service/submission"
	"github.com/radieske/bolao-predictions/internal/shared/cache"
	"github.com/radieske/bolao-predictions/internal/shared/config"
	"github.com/radieske/bolao-predictions/internal/shared/db"
	"github.com/radieske/bolao-predictions/internal/shared/kafka"
	"github.com/radieske/bolao-predictions/internal/shared/logger"
	"github.com/radieske/bolao-predictions/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Banco (Postgres em produção, sqlite em dev)
	sqldb, dialect, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer sqldb.Close()
	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, sqldb, dialect); err != nil {
			log.Fatal("db migrate", zap.Error(err))
		}
	}
	log.Info("db connected", zap.String("dialect", string(dialect)))

	// Redis: trava de idempotência, feed e contadores de boosters
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writers (predictions_submitted, boosters_consumed)
	predWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPredictionSubmitted)
	defer predWriter.Close()
	boosterWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBoosterConsumed)
	defer boosterWriter.Close()

	// deps
	store := repo.NewStore(sqldb, dialect)
	hub := feed.NewHub(phttp.OriginAllowed(cfg.AllowedOrigin), logger.Named(log, "feed"))
	if err := feed.StartRedisSubscriber(ctx, rdb, cfg.RedisFeedChannel, hub, logger.Named(log, "feed")); err != nil {
		log.Fatal("feed subscribe", zap.Error(err))
	}

	svc := &submission.Service{
		Store: store,
		Gate: &idempotency.Gate{
			Records: store,
			Locker:  idempotency.NewRedisLocker(rdb),
			TTL:     cfg.IdempotencyTTL,
			LockTTL: cfg.IdempotencyLockTTL,
			Log:     logger.Named(log, "idempotency"),
		},
		Events: producer.NewKafkaPublisher(predWriter, boosterWriter),
		Feed:   feed.NewRedisPublisher(rdb, cfg.RedisFeedChannel),
		Log:    logger.Named(log, "submission"),
	}

	go purgeIdempotency(ctx, store, log)

	// metrics/health
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("db: %w", err)
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	}, log)

	// HTTP público
	api := &phttp.Server{
		Log:           logger.Named(log, "http"),
		Submissions:   svc,
		Pools:         store,
		Auth:          auth.NewJWT(cfg.JWTSecret),
		Hub:           hub,
		Consumed:      tally.NewRedisTally(rdb),
		AllowedOrigin: cfg.AllowedOrigin,
	}
	apiSrv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		_ = apiSrv.Shutdown(shutdownCtx)
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	log.Info("prediction-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("api", zap.Error(err))
	}
	log.Info("prediction-service stopped")
}

// purgeIdempotency remove de hora em hora as chaves de idempotência vencidas.
func purgeIdempotency(ctx context.Context, store *repo.Store, log *zap.Logger) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := store.PurgeExpiredIdempotency(ctx, time.Now())
			if err != nil {
				log.Warn("idempotency purge failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("idempotency keys purged", zap.Int64("rows", n))
			}
		}
	}
}
