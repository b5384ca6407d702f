package submission

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bolao_prediction_submissions_total",
		Help: "Envios de palpite por resultado",
	}, []string{"result"})

	windowStateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bolao_prediction_window_state_total",
		Help: "Classificação da janela no momento do envio",
	}, []string{"state"})

	boostersConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bolao_boosters_consumed_total",
		Help: "Boosters consumidos para liberar palpites",
	}, []string{"booster"})

	submitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bolao_prediction_submit_duration_seconds",
		Help:    "Duração do processamento de um envio",
		Buckets: prometheus.DefBuckets,
	})
)
