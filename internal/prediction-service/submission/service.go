package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/bolao-predictions/internal/prediction-service/domain"
	"github.com/radieske/bolao-predictions/internal/prediction-service/dto"
	"github.com/radieske/bolao-predictions/internal/prediction-service/idempotency"
	"github.com/radieske/bolao-predictions/internal/prediction-service/window"
	"github.com/radieske/bolao-predictions/pkg/contracts/events"
)

// Input é um envio já decodificado e autenticado.
type Input struct {
	UserID         string
	PoolRef        string // id ou código de convite
	MatchID        string
	HomePred       int
	AwayPred       int
	IdempotencyKey string
}

// Result carrega a resposta pronta. Em replay, Body é exatamente o que foi guardado.
type Result struct {
	StatusCode  int
	Body        []byte
	Replayed    bool
	Outcome     int
	BoosterUsed domain.BoosterKind
}

// Service é o motor de janela de palpites e consumo de boosters.
type Service struct {
	Store  Store
	Gate   *idempotency.Gate
	Events EventPublisher // opcional
	Feed   FeedNotifier   // opcional
	Log    *zap.Logger
	Now    func() time.Time
}

var errActivationTaken = errors.New("activation consumed concurrently")

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Submit executa o fluxo completo: gate, bolão, partida, janela, booster, escrita e registro.
func (s *Service) Submit(ctx context.Context, in Input) (res Result, err error) {
	start := time.Now()
	defer func() {
		submitDuration.Observe(time.Since(start).Seconds())
		submissionsTotal.WithLabelValues(resultLabel(res, err)).Inc()
	}()

	if in.UserID == "" {
		return Result{}, ErrAuthRequired
	}
	if in.MatchID == "" || in.HomePred < 0 || in.AwayPred < 0 {
		return Result{}, ErrInvalidPayload
	}

	hash := idempotency.RequestHash(in.MatchID, in.HomePred, in.AwayPred)
	ticket, err := s.Gate.Begin(ctx, in.UserID, in.IdempotencyKey, hash)
	if err != nil {
		return Result{}, err
	}
	if ticket.Replay != nil {
		return Result{
			StatusCode: ticket.Replay.ResponseStatus,
			Body:       ticket.Replay.ResponseBody,
			Replayed:   true,
		}, nil
	}
	defer ticket.Release(context.WithoutCancel(ctx))

	log := s.logger().With(zap.String("user_id", in.UserID), zap.String("match_id", in.MatchID))

	// 1) Bolão (id ou código), só visível para membros
	pool, err := s.Store.ResolvePool(ctx, in.UserID, in.PoolRef)
	if err != nil {
		return Result{}, fmt.Errorf("%w: resolve pool: %v", ErrPersistence, err)
	}
	if !pool.Found() {
		return Result{}, ErrPoolNotFound
	}
	poolID := pool.Pool.ID

	// 2) Partida do bolão
	match, err := s.Store.LoadMatch(ctx, poolID, in.MatchID)
	if errors.Is(err, domain.ErrNotFound) {
		return Result{}, ErrMatchNotFound
	}
	if err != nil {
		return Result{}, fmt.Errorf("%w: load match: %v", ErrPersistence, err)
	}
	if match.StartTime.IsZero() {
		return Result{}, ErrInvalidFixture
	}

	// 3) Janela
	existing, err := s.Store.HasActivePrediction(ctx, match.ID, in.UserID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: load prediction: %v", ErrPersistence, err)
	}
	now := s.now()
	state := window.Classify(now, match.StartTime, existing)
	windowStateTotal.WithLabelValues(state.String()).Inc()

	if state == window.StateClosed {
		reason := ReasonNoOverride
		if window.PhaseAt(now, match.StartTime) == window.PhaseClosed {
			reason = ReasonKickoffPassed
		}
		return Result{}, &WindowClosedError{Reason: reason}
	}

	// 4) Booster exigido pela janela
	var activation *domain.BoosterActivation
	if booster, needed := state.RequiredBooster(); needed {
		list, err := s.Store.ListActivations(ctx, in.UserID, booster)
		if err != nil {
			return Result{}, fmt.Errorf("%w: list activations: %v", ErrPersistence, err)
		}
		a, ok := SelectActivation(list, poolID, match.ID, now)
		if !ok {
			return Result{}, boosterRequired(state)
		}
		activation = &a
		log = log.With(zap.String("activation_id", a.ID), zap.String("booster", string(booster)))
	}

	// 5) Escrita do palpite + consumo do booster na mesma transação
	pred := domain.Prediction{
		MatchID:   match.ID,
		UserID:    in.UserID,
		HomePred:  in.HomePred,
		AwayPred:  in.AwayPred,
		Outcome:   domain.Outcome(in.HomePred, in.AwayPred),
		Market:    domain.MarketOneXTwo,
		Status:    domain.StatusActive,
		UpdatedAt: now,
	}
	var usage *domain.BoosterUsage
	if activation != nil {
		usage = &domain.BoosterUsage{
			ID:           uuid.NewString(),
			ActivationID: activation.ID,
			PoolID:       poolID,
			UserID:       in.UserID,
			MatchID:      match.ID,
			BoosterID:    activation.BoosterID,
			Status:       domain.StatusConsumed,
			CreatedAt:    now,
		}
	}

	err = s.Store.InTx(ctx, func(tx Tx) error {
		if activation != nil && activation.MatchScoped() {
			ok, err := tx.ExpireActivation(ctx, activation.ID, match.ID)
			if err != nil {
				return fmt.Errorf("expire activation: %w", err)
			}
			if !ok {
				return errActivationTaken
			}
		}
		if err := tx.UpsertPrediction(ctx, pred); err != nil {
			return fmt.Errorf("upsert prediction: %w", err)
		}
		if usage != nil {
			if err := tx.InsertUsage(ctx, *usage); err != nil {
				return fmt.Errorf("insert usage: %w", err)
			}
		}
		return nil
	})
	if errors.Is(err, errActivationTaken) {
		// outra requisição consumiu a ativação primeiro
		log.Info("activation already consumed, rejecting")
		return Result{}, boosterRequired(state)
	}
	if err != nil {
		log.Error("prediction write failed", zap.Error(err))
		return Result{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// 6) Resposta + registro de idempotência
	resp := dto.SubmitPredictionResponse{OK: true, Outcome: pred.Outcome}
	if usage != nil {
		resp.BoosterUsed = string(usage.BoosterID)
		boostersConsumedTotal.WithLabelValues(string(usage.BoosterID)).Inc()
	}
	body, err := json.Marshal(resp)
	if err != nil {
		return Result{}, err
	}
	ticket.Record(ctx, http.StatusOK, body)

	log.Info("prediction stored",
		zap.String("pool_id", poolID),
		zap.String("state", state.String()),
		zap.Int("outcome", pred.Outcome),
		zap.Bool("updated", existing),
	)

	s.publish(context.WithoutCancel(ctx), poolID, pred, existing, usage)

	res = Result{StatusCode: http.StatusOK, Body: body, Outcome: pred.Outcome}
	if usage != nil {
		res.BoosterUsed = usage.BoosterID
	}
	return res, nil
}

// publish é best-effort: o palpite já está gravado.
func (s *Service) publish(ctx context.Context, poolID string, p domain.Prediction, updated bool, u *domain.BoosterUsage) {
	ts := p.UpdatedAt.UnixMilli()
	booster := ""
	if u != nil {
		booster = string(u.BoosterID)
	}

	if s.Events != nil {
		if err := s.Events.PublishPredictionSubmitted(ctx, events.PredictionSubmitted{
			PoolID:    poolID,
			MatchID:   p.MatchID,
			UserID:    p.UserID,
			Outcome:   p.Outcome,
			Updated:   updated,
			BoosterID: booster,
			TsUnixMs:  ts,
		}); err != nil {
			s.logger().Warn("publish prediction_submitted failed", zap.Error(err))
		}
		if u != nil {
			if err := s.Events.PublishBoosterConsumed(ctx, events.BoosterConsumed{
				UsageID:      u.ID,
				ActivationID: u.ActivationID,
				PoolID:       poolID,
				MatchID:      u.MatchID,
				UserID:       u.UserID,
				BoosterID:    booster,
				TsUnixMs:     ts,
			}); err != nil {
				s.logger().Warn("publish booster_consumed failed", zap.Error(err))
			}
		}
	}

	if s.Feed != nil {
		a := Activity{Type: ActivityPredictionSubmitted, UserID: p.UserID, MatchID: p.MatchID, Booster: booster, At: p.UpdatedAt}
		if u != nil {
			a.Type = ActivityBoosterConsumed
		}
		if err := s.Feed.NotifyActivity(ctx, poolID, a); err != nil {
			s.logger().Warn("feed notify failed", zap.Error(err))
		}
	}
}

func boosterRequired(state window.State) *WindowClosedError {
	booster, _ := state.RequiredBooster()
	if state == window.StateExtendedInsertNeedsBooster {
		return &WindowClosedError{Reason: ReasonBoosterForInsert, Booster: booster}
	}
	return &WindowClosedError{Reason: ReasonBoosterForUpdate, Booster: booster}
}

func resultLabel(res Result, err error) string {
	var wc *WindowClosedError
	switch {
	case err == nil && res.Replayed:
		return "replayed"
	case err == nil:
		return "ok"
	case errors.As(err, &wc):
		return "window_closed"
	case errors.Is(err, ErrIdempotencyConflict), errors.Is(err, ErrIdempotencyInProgress):
		return "idempotency"
	case errors.Is(err, ErrPersistence):
		return "persistence_error"
	default:
		return "rejected"
	}
}
