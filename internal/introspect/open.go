package introspect

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"  // registers "pgx"
	_ "github.com/lib/pq"               // registers "postgres"
	_ "github.com/microsoft/go-mssqldb" // registers "sqlserver" and "mssql"
	_ "github.com/sijms/go-ora/v2"      // registers "oracle"
	_ "modernc.org/sqlite"              // pure-Go SQLite driver, registers "sqlite"
)

// openDB opens t with driver-specific read options. The connection is not
// verified; callers ping it.
func openDB(t Target) (*sql.DB, error) {
	switch t.Driver {
	case "mysql":
		dsn, err := mysqlDSNWithReadOptions(t.DSN)
		if err != nil {
			return nil, err
		}
		return sql.Open("mysql", dsn)
	case "sqlite":
		uri, err := sqliteReadOnlyURI(t.DSN)
		if err != nil {
			return nil, err
		}
		db, err := sql.Open("sqlite", uri)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(1)
		return db, nil
	default:
		return sql.Open(t.Driver, t.DSN)
	}
}

func mysqlDSNWithReadOptions(baseDSN string) (string, error) {
	cfg, err := mysql.ParseDSN(baseDSN)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.InterpolateParams = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

func sqliteReadOnlyURI(dsn string) (string, error) {
	// Each sql.Open of :memory: gets its own empty database.
	if dsn == ":memory:" || dsn == "file::memory:" ||
		strings.Contains(dsn, "mode=memory") {
		return "", fmt.Errorf("in-memory SQLite databases are not supported")
	}

	// The path is kept verbatim; only the query is merged.
	path, rawQuery, _ := strings.Cut(dsn, "?")
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", fmt.Errorf("parse sqlite URI query: %w", err)
	}
	q.Set("mode", "ro")
	return path + "?" + q.Encode(), nil
}
