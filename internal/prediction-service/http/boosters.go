package httpapi

import (
	"net/http"

	"github.com/radieske/bolao-predictions/internal/prediction-service/dto"
)

// consumedBoosters trata GET /me/boosters/consumed.
func (s *Server) consumedBoosters(w http.ResponseWriter, r *http.Request) {
	if s.Consumed == nil {
		writeJSON(w, http.StatusNotImplemented, dto.ErrorResponse{Error: "booster tally disabled", Code: CodeInternal})
		return
	}
	userID := UserFrom(r.Context())
	counts, err := s.Consumed.Counts(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ConsumedBoostersResponse{UserID: userID, Consumed: counts})
}
