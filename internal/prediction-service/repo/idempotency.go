package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/radieske/bolao-predictions/internal/prediction-service/domain"
)

// GetIdempotency devolve o registro da chave se ele ainda não expirou.
func (s *Store) GetIdempotency(ctx context.Context, userID, key string, now time.Time) (domain.IdempotencyRecord, bool, error) {
	rec := domain.IdempotencyRecord{UserID: userID, Key: key}
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT request_hash, response_status, response_body, expires_at, created_at
		FROM idempotency_keys
		WHERE user_id = ? AND idem_key = ?`), userID, key).
		Scan(&rec.RequestHash, &rec.ResponseStatus, &rec.ResponseBody, &rec.ExpiresAt, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.IdempotencyRecord{}, false, nil
	}
	if err != nil {
		return domain.IdempotencyRecord{}, false, fmt.Errorf("get idempotency: %w", err)
	}
	if !rec.ExpiresAt.After(now) {
		return domain.IdempotencyRecord{}, false, nil
	}
	return rec, true, nil
}

// SaveIdempotency grava (ou sobrescreve um registro expirado) a resposta da chave.
func (s *Store) SaveIdempotency(ctx context.Context, rec domain.IdempotencyRecord) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO idempotency_keys (user_id, idem_key, request_hash, response_status, response_body, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, idem_key) DO UPDATE SET
		  request_hash    = excluded.request_hash,
		  response_status = excluded.response_status,
		  response_body   = excluded.response_body,
		  expires_at      = excluded.expires_at,
		  created_at      = excluded.created_at`),
		rec.UserID, rec.Key, rec.RequestHash, rec.ResponseStatus, rec.ResponseBody, rec.ExpiresAt.UTC(), rec.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save idempotency: %w", err)
	}
	return nil
}

// PurgeExpiredIdempotency remove registros vencidos.
func (s *Store) PurgeExpiredIdempotency(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM idempotency_keys WHERE expires_at <= ?`), now.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge idempotency: %w", err)
	}
	return res.RowsAffected()
}
