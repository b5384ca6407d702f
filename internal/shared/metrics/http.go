package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bolao_http_requests_total",
		Help: "Total de requisições HTTP, por rota e status",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bolao_http_request_duration_seconds",
		Help:    "Latência das requisições HTTP",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "route"})
)

// RouteFunc resolve o padrão da rota (ex.: "/pools/{poolIdOrCode}/predictions")
// para não explodir a cardinalidade com ids.
type RouteFunc func(r *http.Request) string

// StatusRecorder guarda o status escrito pelo handler.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (w *StatusRecorder) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}

// Hijack repassa para o writer original (upgrade de WebSocket).
func (w *StatusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	if w.Status == http.StatusOK {
		w.Status = http.StatusSwitchingProtocols
	}
	return h.Hijack()
}

func (w *StatusRecorder) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Instrument registra contagem e latência por rota.
func Instrument(route RouteFunc, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec, ok := w.(*StatusRecorder)
		if !ok {
			rec = &StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		}

		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if route != nil {
			if p := route(r); p != "" {
				path = p
			}
		}
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.Status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
