package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radieske/bolao-predictions/internal/prediction-service/auth"
	"github.com/radieske/bolao-predictions/internal/prediction-service/domain"
	"github.com/radieske/bolao-predictions/internal/prediction-service/feed"
	"github.com/radieske/bolao-predictions/internal/prediction-service/submission"
)

// Submitter é o motor de envio de palpites.
type Submitter interface {
	Submit(ctx context.Context, in submission.Input) (submission.Result, error)
}

// PoolResolver resolve o bolão do feed respeitando a participação do usuário.
type PoolResolver interface {
	ResolvePool(ctx context.Context, userID, ref string) (domain.PoolResolution, error)
}

// ConsumedCounter lê a projeção de boosters consumidos mantida pelo booster-usage-worker.
type ConsumedCounter interface {
	Counts(ctx context.Context, userID string) (map[string]int64, error)
}

// Server expõe a API pública do serviço de palpites.
type Server struct {
	Log           *zap.Logger
	Submissions   Submitter
	Pools         PoolResolver
	Auth          auth.Authenticator
	Hub           *feed.Hub       // opcional
	Consumed      ConsumedCounter // opcional
	AllowedOrigin string
}

// Router retorna o roteador HTTP com os endpoints REST e o WebSocket do feed
func (s *Server) Router() http.Handler {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(withCORS(s.AllowedOrigin))
	r.Use(s.requestLogger)
	r.Use(instrument)

	r.With(s.requireUser(false)).Post("/pools/{poolIdOrCode}/predictions", s.submitPrediction) // envia/atualiza palpite
	r.With(s.requireUser(true)).Get("/pools/{poolIdOrCode}/feed", s.poolFeed)                 // feed do bolão (WebSocket)
	r.With(s.requireUser(false)).Get("/me/boosters/consumed", s.consumedBoosters)             // boosters já consumidos
	return r
}
