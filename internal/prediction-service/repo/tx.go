package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/radieske/bolao-predictions/internal/prediction-service/domain"
	"github.com/radieske/bolao-predictions/internal/shared/db"
)

// storeTx implementa submission.Tx. Todas as queries passam pela mesma *sql.Tx.
type storeTx struct {
	tx      *sql.Tx
	dialect db.Dialect
}

// ExpireActivation marca a ativação da partida como expirada.
// O filtro status='active' faz a segunda requisição concorrente afetar zero linhas.
func (t *storeTx) ExpireActivation(ctx context.Context, activationID, matchID string) (bool, error) {
	res, err := t.tx.ExecContext(ctx, t.dialect.Rebind(`
		UPDATE booster_activations SET status = 'expired'
		WHERE id = ? AND match_id = ? AND status = 'active'`), activationID, matchID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// UpsertPrediction cria ou substitui o palpite de (partida, usuário).
func (t *storeTx) UpsertPrediction(ctx context.Context, p domain.Prediction) error {
	_, err := t.tx.ExecContext(ctx, t.dialect.Rebind(`
		INSERT INTO predictions (match_id, user_id, home_pred, away_pred, outcome, market, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (match_id, user_id) DO UPDATE SET
		  home_pred  = excluded.home_pred,
		  away_pred  = excluded.away_pred,
		  outcome    = excluded.outcome,
		  market     = excluded.market,
		  status     = excluded.status,
		  updated_at = excluded.updated_at`),
		p.MatchID, p.UserID, p.HomePred, p.AwayPred, p.Outcome, p.Market, p.Status, p.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert prediction: %w", err)
	}
	return nil
}

// InsertUsage acrescenta uma linha ao livro de consumo.
func (t *storeTx) InsertUsage(ctx context.Context, u domain.BoosterUsage) error {
	_, err := t.tx.ExecContext(ctx, t.dialect.Rebind(`
		INSERT INTO booster_usages (id, activation_id, pool_id, user_id, match_id, booster_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		u.ID, u.ActivationID, u.PoolID, u.UserID, u.MatchID, string(u.BoosterID), u.Status, u.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert usage: %w", err)
	}
	return nil
}
