package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/bolao-predictions/internal/prediction-service/dto"
	"github.com/radieske/bolao-predictions/internal/prediction-service/submission"
)

const maxBodyBytes = 16 << 10

// submitPrediction trata POST /pools/{poolIdOrCode}/predictions.
func (s *Server) submitPrediction(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitPredictionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, r, submission.ErrInvalidPayload)
		return
	}
	home, away, ok := req.Scores()
	if !ok {
		s.writeError(w, r, submission.ErrInvalidPayload)
		return
	}

	res, err := s.Submissions.Submit(r.Context(), submission.Input{
		UserID:         UserFrom(r.Context()),
		PoolRef:        chi.URLParam(r, "poolIdOrCode"),
		MatchID:        req.MatchID,
		HomePred:       home,
		AwayPred:       away,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// corpo devolvido como foi guardado, para o replay ser idêntico
	w.Header().Set("Content-Type", "application/json")
	if res.Replayed {
		w.Header().Set("Idempotent-Replayed", "true")
	}
	w.WriteHeader(res.StatusCode)
	_, _ = w.Write(res.Body)
}
