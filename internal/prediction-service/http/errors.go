package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/bolao-predictions/internal/prediction-service/dto"
	"github.com/radieske/bolao-predictions/internal/prediction-service/submission"
)

// Códigos estáveis devolvidos no campo "code".
const (
	CodeAuthRequired          = "AUTH_REQUIRED"
	CodeInvalidPayload        = "INVALID_PAYLOAD"
	CodeInvalidFixture        = "INVALID_FIXTURE"
	CodeWindowClosed          = "WINDOW_CLOSED"
	CodePoolNotFound          = "POOL_NOT_FOUND"
	CodeMatchNotFound         = "MATCH_NOT_FOUND"
	CodeIdempotencyConflict   = "IDEMPOTENCY_CONFLICT"
	CodeIdempotencyInProgress = "IDEMPOTENCY_IN_PROGRESS"
	CodePersistence           = "PERSISTENCE_ERROR"
	CodeInternal              = "INTERNAL"
)

// errorResponse traduz o erro do motor para status HTTP e corpo.
// Bolão inexistente e bolão de que o usuário não participa são o mesmo 404.
func errorResponse(err error) (int, dto.ErrorResponse) {
	var wc *submission.WindowClosedError
	switch {
	case errors.Is(err, submission.ErrAuthRequired):
		return http.StatusUnauthorized, dto.ErrorResponse{Error: "missing or invalid bearer token", Code: CodeAuthRequired}
	case errors.Is(err, submission.ErrInvalidPayload):
		return http.StatusBadRequest, dto.ErrorResponse{Error: "matchId, home_pred and away_pred (non-negative integers) are required", Code: CodeInvalidPayload}
	case errors.Is(err, submission.ErrInvalidFixture):
		return http.StatusBadRequest, dto.ErrorResponse{Error: "match has no valid start time", Code: CodeInvalidFixture}
	case errors.As(err, &wc):
		return http.StatusBadRequest, dto.ErrorResponse{Error: wc.Error(), Code: CodeWindowClosed, Reason: wc.Reason}
	case errors.Is(err, submission.ErrPoolNotFound):
		return http.StatusNotFound, dto.ErrorResponse{Error: "pool not found", Code: CodePoolNotFound}
	case errors.Is(err, submission.ErrMatchNotFound):
		return http.StatusNotFound, dto.ErrorResponse{Error: "match not found in pool", Code: CodeMatchNotFound}
	case errors.Is(err, submission.ErrIdempotencyConflict):
		return http.StatusConflict, dto.ErrorResponse{Error: "idempotency key already used with a different payload", Code: CodeIdempotencyConflict}
	case errors.Is(err, submission.ErrIdempotencyInProgress):
		return http.StatusConflict, dto.ErrorResponse{Error: "a request with this idempotency key is in progress", Code: CodeIdempotencyInProgress}
	case errors.Is(err, submission.ErrPersistence):
		return http.StatusInternalServerError, dto.ErrorResponse{Error: "could not save prediction", Code: CodePersistence}
	default:
		return http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error", Code: CodeInternal}
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		s.Log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, body)
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
