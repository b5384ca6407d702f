package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/bolao-predictions/internal/prediction-service/dto"
	"github.com/radieske/bolao-predictions/internal/prediction-service/submission"
)

// poolFeed trata GET /pools/{poolIdOrCode}/feed: só membros do bolão assinam.
func (s *Server) poolFeed(w http.ResponseWriter, r *http.Request) {
	if s.Hub == nil {
		writeJSON(w, http.StatusNotImplemented, dto.ErrorResponse{Error: "feed disabled", Code: CodeInternal})
		return
	}
	pool, err := s.Pools.ResolvePool(r.Context(), UserFrom(r.Context()), chi.URLParam(r, "poolIdOrCode"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", submission.ErrPersistence, err))
		return
	}
	if !pool.Found() {
		s.writeError(w, r, submission.ErrPoolNotFound)
		return
	}
	s.Hub.Serve(w, r, pool.Pool.ID)
}
