package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate aplica o schema mínimo do serviço de palpites.
// Em produção o schema é gerido fora do serviço; aqui serve para dev local e testes.
func Migrate(ctx context.Context, sqldb *sql.DB, dialect Dialect) error {
	ts := "TIMESTAMPTZ"
	body := "BYTEA"
	if dialect == SQLite {
		ts = "TIMESTAMP"
		body = "BLOB"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS pools (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS pool_members (
			pool_id TEXT NOT NULL REFERENCES pools(id),
			user_id TEXT NOT NULL,
			PRIMARY KEY (pool_id, user_id)
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			pool_id TEXT NOT NULL REFERENCES pools(id),
			home_team TEXT NOT NULL DEFAULT '',
			away_team TEXT NOT NULL DEFAULT '',
			start_time %s NULL
		)`, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS predictions (
			match_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			home_pred INTEGER NOT NULL CHECK (home_pred >= 0),
			away_pred INTEGER NOT NULL CHECK (away_pred >= 0),
			outcome INTEGER NOT NULL,
			market TEXT NOT NULL DEFAULT '1x2',
			status TEXT NOT NULL DEFAULT 'active',
			updated_at %s NOT NULL,
			PRIMARY KEY (match_id, user_id)
		)`, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS booster_activations (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			booster_id TEXT NOT NULL,
			scope TEXT NOT NULL,
			match_id TEXT NULL,
			pool_id TEXT NULL,
			expires_at %s NULL,
			status TEXT NOT NULL DEFAULT 'active',
			created_at %s NOT NULL
		)`, ts, ts),
		`CREATE INDEX IF NOT EXISTS idx_booster_activations_lookup
			ON booster_activations(user_id, booster_id, status)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS booster_usages (
			id TEXT PRIMARY KEY,
			activation_id TEXT NOT NULL,
			pool_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			match_id TEXT NOT NULL,
			booster_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'consumed',
			created_at %s NOT NULL
		)`, ts),
		`CREATE INDEX IF NOT EXISTS idx_booster_usages_activation ON booster_usages(activation_id)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS idempotency_keys (
			user_id TEXT NOT NULL,
			idem_key TEXT NOT NULL,
			request_hash TEXT NOT NULL,
			response_status INTEGER NOT NULL,
			response_body %s NOT NULL,
			expires_at %s NOT NULL,
			created_at %s NOT NULL,
			PRIMARY KEY (user_id, idem_key)
		)`, body, ts, ts),
	}

	for _, stmt := range stmts {
		if _, err := sqldb.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
