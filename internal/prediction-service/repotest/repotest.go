// Package repotest sobe um banco sqlite em memória com o schema do serviço
// e oferece helpers de carga para os testes.
package repotest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/bolao-predictions/internal/prediction-service/domain"
	"github.com/radieske/bolao-predictions/internal/prediction-service/repo"
	"github.com/radieske/bolao-predictions/internal/shared/db"
)

// DB é um banco isolado por teste.
type DB struct {
	SQL   *sql.DB
	Store *repo.Store
	t     testing.TB
}

// New abre um sqlite em memória com nome único e aplica o schema.
func New(t testing.TB) *DB {
	t.Helper()
	sqldb, dialect, err := db.Connect("sqlite::memory:" + uuid.NewString())
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })

	if err := db.Migrate(context.Background(), sqldb, dialect); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &DB{SQL: sqldb, Store: repo.NewStore(sqldb, dialect), t: t}
}

func (d *DB) exec(query string, args ...any) {
	d.t.Helper()
	if _, err := d.SQL.ExecContext(context.Background(), query, args...); err != nil {
		d.t.Fatalf("exec %q: %v", query, err)
	}
}

// Pool cria o bolão e inscreve os membros.
func (d *DB) Pool(id, code string, members ...string) {
	d.t.Helper()
	d.exec(`INSERT INTO pools (id, code, name) VALUES (?, ?, ?)`, id, code, "Bolão "+code)
	for _, m := range members {
		d.exec(`INSERT INTO pool_members (pool_id, user_id) VALUES (?, ?)`, id, m)
	}
}

// Match cria a partida; start zero grava start_time NULL.
func (d *DB) Match(id, poolID string, start time.Time) {
	d.t.Helper()
	var st any
	if !start.IsZero() {
		st = start.UTC()
	}
	d.exec(`INSERT INTO matches (id, pool_id, home_team, away_team, start_time) VALUES (?, ?, ?, ?, ?)`,
		id, poolID, "Mandante", "Visitante", st)
}

// Prediction grava um palpite ativo já existente.
func (d *DB) Prediction(matchID, userID string, home, away int, at time.Time) {
	d.t.Helper()
	d.exec(`INSERT INTO predictions (match_id, user_id, home_pred, away_pred, outcome, market, status, updated_at)
		VALUES (?, ?, ?, ?, ?, '1x2', 'active', ?)`,
		matchID, userID, home, away, domain.Outcome(home, away), at.UTC())
}

// Activation grava uma ativação e devolve o id.
func (d *DB) Activation(a domain.BoosterActivation) string {
	d.t.Helper()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := d.Store.CreateActivation(context.Background(), a); err != nil {
		d.t.Fatalf("create activation: %v", err)
	}
	return a.ID
}

// Count conta linhas com um filtro simples (ex.: "booster_usages", "activation_id = ?", id).
func (d *DB) Count(table, where string, args ...any) int {
	d.t.Helper()
	q := `SELECT COUNT(*) FROM ` + table
	if where != "" {
		q += ` WHERE ` + where
	}
	var n int
	if err := d.SQL.QueryRowContext(context.Background(), q, args...).Scan(&n); err != nil {
		d.t.Fatalf("count %s: %v", table, err)
	}
	return n
}
