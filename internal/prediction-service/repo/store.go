package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/radieske/bolao-predictions/internal/prediction-service/domain"
	"github.com/radieske/bolao-predictions/internal/prediction-service/submission"
	"github.com/radieske/bolao-predictions/internal/shared/db"
)

// Store implementa as operações de registro do serviço de palpites sobre database/sql.
// As queries usam '?' e são convertidas para o dialeto (Postgres em produção, sqlite em dev/testes).
type Store struct {
	db      *sql.DB
	dialect db.Dialect
}

// NewStore retorna o repositório para o dialeto informado.
func NewStore(sqldb *sql.DB, dialect db.Dialect) *Store {
	return &Store{db: sqldb, dialect: dialect}
}

func (s *Store) q(query string) string { return s.dialect.Rebind(query) }

// Ping verifica a conexão (healthz).
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// ResolvePool busca o bolão por id e, se não achar, por código de convite.
// Só retorna bolões em que o usuário é membro; o resto vira PoolNotFound.
func (s *Store) ResolvePool(ctx context.Context, userID, ref string) (domain.PoolResolution, error) {
	if ref == "" {
		return domain.PoolResolution{Kind: domain.PoolNotFound}, nil
	}

	const base = `
		SELECT p.id, p.code, p.name
		FROM pools p
		JOIN pool_members m ON m.pool_id = p.id
		WHERE m.user_id = ? AND `

	lookups := []struct {
		kind  domain.PoolMatchKind
		where string
	}{
		{domain.PoolByID, "p.id = ?"},
		{domain.PoolByCode, "p.code = ?"},
	}
	for _, l := range lookups {
		var p domain.Pool
		err := s.db.QueryRowContext(ctx, s.q(base+l.where), userID, ref).Scan(&p.ID, &p.Code, &p.Name)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return domain.PoolResolution{}, fmt.Errorf("resolve pool %s: %w", l.kind, err)
		}
		return domain.PoolResolution{Kind: l.kind, Pool: p}, nil
	}
	return domain.PoolResolution{Kind: domain.PoolNotFound}, nil
}

// LoadMatch carrega a partida somente se ela pertencer ao bolão.
func (s *Store) LoadMatch(ctx context.Context, poolID, matchID string) (domain.Match, error) {
	var (
		m     domain.Match
		start sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT id, pool_id, home_team, away_team, start_time
		FROM matches
		WHERE id = ? AND pool_id = ?`), matchID, poolID).
		Scan(&m.ID, &m.PoolID, &m.HomeTeam, &m.AwayTeam, &start)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Match{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Match{}, fmt.Errorf("load match: %w", err)
	}
	if start.Valid {
		m.StartTime = start.Time
	}
	return m, nil
}

// HasActivePrediction diz se o usuário já tem palpite ativo na partida.
func (s *Store) HasActivePrediction(ctx context.Context, matchID, userID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT COUNT(*) FROM predictions
		WHERE match_id = ? AND user_id = ? AND status = 'active'`), matchID, userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("has prediction: %w", err)
	}
	return n > 0, nil
}

// GetPrediction lê o palpite do usuário na partida.
func (s *Store) GetPrediction(ctx context.Context, matchID, userID string) (domain.Prediction, error) {
	var p domain.Prediction
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT match_id, user_id, home_pred, away_pred, outcome, market, status, updated_at
		FROM predictions
		WHERE match_id = ? AND user_id = ?`), matchID, userID).
		Scan(&p.MatchID, &p.UserID, &p.HomePred, &p.AwayPred, &p.Outcome, &p.Market, &p.Status, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Prediction{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("get prediction: %w", err)
	}
	return p, nil
}

// ListActivations devolve as ativações ativas do booster para o usuário, mais antigas primeiro.
// Expiração por data é filtrada em Go para manter a query igual nos dois dialetos.
func (s *Store) ListActivations(ctx context.Context, userID string, booster domain.BoosterKind) ([]domain.BoosterActivation, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, user_id, booster_id, scope, match_id, pool_id, expires_at, status, created_at
		FROM booster_activations
		WHERE user_id = ? AND booster_id = ? AND status = 'active'
		ORDER BY created_at, id`), userID, string(booster))
	if err != nil {
		return nil, fmt.Errorf("list activations: %w", err)
	}
	defer rows.Close()

	var out []domain.BoosterActivation
	for rows.Next() {
		a, err := scanActivation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetActivation lê uma ativação pelo id.
func (s *Store) GetActivation(ctx context.Context, id string) (domain.BoosterActivation, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, user_id, booster_id, scope, match_id, pool_id, expires_at, status, created_at
		FROM booster_activations WHERE id = ?`), id)
	if err != nil {
		return domain.BoosterActivation{}, fmt.Errorf("get activation: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.BoosterActivation{}, err
		}
		return domain.BoosterActivation{}, domain.ErrNotFound
	}
	return scanActivation(rows)
}

func scanActivation(rows *sql.Rows) (domain.BoosterActivation, error) {
	var (
		a               domain.BoosterActivation
		booster         string
		matchID, poolID sql.NullString
		expiresAt       sql.NullTime
	)
	if err := rows.Scan(&a.ID, &a.UserID, &booster, &a.Scope, &matchID, &poolID, &expiresAt, &a.Status, &a.CreatedAt); err != nil {
		return domain.BoosterActivation{}, fmt.Errorf("scan activation: %w", err)
	}
	a.BoosterID = domain.BoosterKind(booster)
	a.MatchID = matchID.String
	a.PoolID = poolID.String
	if expiresAt.Valid {
		t := expiresAt.Time
		a.ExpiresAt = &t
	}
	return a, nil
}

// CreateActivation grava uma ativação de booster. Campos vazios recebem os defaults.
func (s *Store) CreateActivation(ctx context.Context, a domain.BoosterActivation) error {
	var expires any
	if a.ExpiresAt != nil {
		expires = a.ExpiresAt.UTC()
	}
	scope := a.Scope
	if scope == "" {
		scope = domain.ScopeGlobal
		if a.MatchScoped() {
			scope = domain.ScopeMatch
		}
	}
	status := a.Status
	if status == "" {
		status = domain.StatusActive
	}
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO booster_activations (id, user_id, booster_id, scope, match_id, pool_id, expires_at, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		a.ID, a.UserID, string(a.BoosterID), scope, nullString(a.MatchID), nullString(a.PoolID), expires, status, created.UTC(),
	)
	if err != nil {
		return fmt.Errorf("create activation: %w", err)
	}
	return nil
}

// ListUsages devolve o livro de consumo de uma ativação.
func (s *Store) ListUsages(ctx context.Context, activationID string) ([]domain.BoosterUsage, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, activation_id, pool_id, user_id, match_id, booster_id, status, created_at
		FROM booster_usages WHERE activation_id = ? ORDER BY created_at, id`), activationID)
	if err != nil {
		return nil, fmt.Errorf("list usages: %w", err)
	}
	defer rows.Close()

	var out []domain.BoosterUsage
	for rows.Next() {
		var (
			u       domain.BoosterUsage
			booster string
		)
		if err := rows.Scan(&u.ID, &u.ActivationID, &u.PoolID, &u.UserID, &u.MatchID, &booster, &u.Status, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		u.BoosterID = domain.BoosterKind(booster)
		out = append(out, u)
	}
	return out, rows.Err()
}

// InTx executa fn numa transação; qualquer erro desfaz tudo.
func (s *Store) InTx(ctx context.Context, fn func(submission.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&storeTx{tx: tx, dialect: s.dialect}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
