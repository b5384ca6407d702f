package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"  // driver "postgres"
	_ "modernc.org/sqlite" // driver "sqlite" (Go puro, usado em dev local e testes)
)

// Connect abre a conexão a partir de DATABASE_URL e devolve o dialeto correspondente.
// postgres:// usa lib/pq; sqlite:// (ou caminho de arquivo) usa modernc sqlite.
func Connect(databaseURL string) (*sql.DB, Dialect, error) {
	dialect, dsn := ParseDSN(databaseURL)

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, dialect, fmt.Errorf("open %s: %w", dialect, err)
	}

	// sqlite não suporta escrita concorrente entre conexões
	if dialect == SQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, dialect, fmt.Errorf("ping %s: %w", dialect, err)
	}

	return db, dialect, nil
}
