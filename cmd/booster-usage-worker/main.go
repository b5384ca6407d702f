package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/bolao-predictions/internal/booster-usage/consumer"
	"github.com/radieske/bolao-predictions/internal/booster-usage/tally"
	"github.com/radieske/bolao-predictions/internal/shared/cache"
	"github.com/radieske/bolao-predictions/internal/shared/config"
	"github.com/radieske/bolao-predictions/internal/shared/kafka"
	"github.com/radieske/bolao-predictions/internal/shared/logger"
	"github.com/radieske/bolao-predictions/internal/shared/metrics"
	ctopics "github.com/radieske/bolao-predictions/pkg/contracts/topics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Consumer Kafka (consumer group booster-usage)
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicBoosterConsumed, "booster-usage")
	defer reader.Close()

	// mensagens ilegíveis vão para a DLQ
	dlq := kafka.NewWriter(cfg.KafkaBrokers, ctopics.BoosterConsumedDLQ)
	defer dlq.Close()

	// Métricas Prometheus por estágio
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "booster_usage_messages_consumed_total", Help: "mensagens consumidas"})
	applied := prometheus.NewCounter(prometheus.CounterOpts{Name: "booster_usage_applied_total", Help: "consumos somados aos contadores"})
	duplicates := prometheus.NewCounter(prometheus.CounterOpts{Name: "booster_usage_duplicates_total", Help: "reentregas ignoradas"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "booster_usage_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, applied, duplicates, errorsBy)

	proc := &consumer.Processor{
		Log:         logger.Named(log, "consumer"),
		Reader:      reader,
		Tally:       tally.NewRedisTally(redisClient),
		DLQ:         dlq,
		OnConsumed:  func() { consumed.Inc() },
		OnApplied:   func() { applied.Inc() },
		OnDuplicate: func() { duplicates.Inc() },
		OnError:     func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	}, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("booster-usage-worker started", zap.String("topic", cfg.TopicBoosterConsumed))
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("booster-usage-worker stopped")
}
