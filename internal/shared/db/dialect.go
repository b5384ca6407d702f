package db

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Dialect identifica o banco por trás do *sql.DB.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DriverName devolve o nome registrado no database/sql.
func (d Dialect) DriverName() string { return string(d) }

// Rebind converte placeholders '?' para o formato do dialeto.
// Postgres usa $1, $2, ...; sqlite aceita '?' sem alteração.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		c := query[i]
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ParseDSN interpreta DATABASE_URL e retorna o dialeto e o DSN aceito pelo driver.
// Esquemas: postgres://, postgresql://, sqlite://arquivo.db, sqlite::memory:<nome>.
// Qualquer outro valor é tratado como caminho de arquivo sqlite.
func ParseDSN(databaseURL string) (Dialect, string) {
	switch {
	case databaseURL == "":
		return SQLite, sqliteFile("bolao.db")
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return Postgres, databaseURL
	case strings.HasPrefix(databaseURL, "sqlite::memory:"):
		// banco em memória nomeado: conexões com o mesmo nome compartilham os dados
		name := strings.TrimPrefix(databaseURL, "sqlite::memory:")
		if name == "" {
			name = "bolao"
		}
		return SQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_time_format=sqlite", name)
	case strings.HasPrefix(databaseURL, "sqlite://"):
		path := strings.TrimPrefix(databaseURL, "sqlite://")
		return SQLite, sqliteFile(strings.TrimPrefix(path, "/"))
	}

	if u, err := url.Parse(databaseURL); err == nil && (u.Scheme == "postgres" || u.Scheme == "postgresql") {
		return Postgres, databaseURL
	}
	// DSN no formato key=value do lib/pq
	if strings.Contains(databaseURL, "host=") && strings.Contains(databaseURL, "dbname=") {
		return Postgres, databaseURL
	}
	return SQLite, sqliteFile(databaseURL)
}

func sqliteFile(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite", path)
}
