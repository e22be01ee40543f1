package schema_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"db-compare/internal/dialect"
	"db-compare/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T, stmts ...string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "analyze.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return db
}

func TestAnalyze_SQLite(t *testing.T) {
	db := openSQLite(t,
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			nick TEXT DEFAULT 'anon',
			score NUMERIC(10,2)
		)`,
		`CREATE TABLE order_items (
			order_id INTEGER NOT NULL,
			line_no INTEGER NOT NULL,
			sku CHAR(12),
			PRIMARY KEY (order_id, line_no)
		)`,
		`CREATE VIEW active_users AS SELECT id, email FROM users`,
	)

	steps := 0
	s, err := schema.Analyze(context.Background(), db, &dialect.SQLiteDialect{}, "", schema.AnalyzeOptions{
		OnStep: func() { steps++ },
	})
	require.NoError(t, err)

	assert.Equal(t, schema.AnalyzeSteps, steps)
	assert.Equal(t, "main", s.Name)
	assert.Equal(t, []string{"order_items", "users"}, s.TableNames(), "views are not tables")

	users := s.Tables["users"]
	assert.Equal(t, []string{"id", "email", "nick", "score"}, columnNames(users))

	id, _ := users.Column("id")
	assert.Equal(t, schema.Column{Name: "id", Type: "INTEGER", Nullable: true, PrimaryKey: true, AutoIncrement: true}, id)

	email, _ := users.Column("email")
	assert.Equal(t, schema.Column{Name: "email", Type: "VARCHAR", Size: 255}, email)

	nick, _ := users.Column("nick")
	require.NotNil(t, nick.DefaultValue)
	assert.Equal(t, "'anon'", *nick.DefaultValue)

	score, _ := users.Column("score")
	assert.Equal(t, "NUMERIC", score.Type)
	assert.Equal(t, 10, score.Size)

	items := s.Tables["order_items"]
	for _, name := range []string{"order_id", "line_no"} {
		c, ok := items.Column(name)
		require.True(t, ok)
		assert.True(t, c.PrimaryKey, name)
		assert.False(t, c.AutoIncrement, "composite keys are not rowid aliases")
	}
	sku, _ := items.Column("sku")
	assert.False(t, sku.PrimaryKey)
	assert.Equal(t, 12, sku.Size)
}

// caseSensitiveCatalog serves a fixed catalog where two tables differ only by
// case, as quoted identifiers allow in Postgres.
type caseSensitiveCatalog struct {
	dialect.SQLiteDialect
}

func (caseSensitiveCatalog) GetTablesQuery(string) string {
	return `SELECT name FROM (SELECT 'Users' AS name UNION ALL SELECT 'users') WHERE ? IS NOT NULL`
}

func (caseSensitiveCatalog) GetColumnsQuery(string) string {
	return `SELECT t, c, ty, ty, NULL, 'NO', NULL, '' FROM (
		SELECT 'Users' AS t, 'id' AS c, 'int' AS ty
		UNION ALL SELECT 'users', 'id', 'bigint'
		UNION ALL SELECT 'users', 'email', 'text'
	) WHERE ? IS NOT NULL`
}

func (caseSensitiveCatalog) GetPrimaryKeysQuery(string) string {
	return `SELECT 'users', 'id' WHERE ? IS NOT NULL`
}

func TestAnalyze_TableNamesDifferingByCase(t *testing.T) {
	db := openSQLite(t)

	s, err := schema.Analyze(context.Background(), db, &caseSensitiveCatalog{}, "main", schema.AnalyzeOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Users", "users"}, s.TableNames())
	assert.Equal(t, []string{"id"}, columnNames(s.Tables["Users"]))
	assert.Equal(t, []string{"id", "email"}, columnNames(s.Tables["users"]))

	upper, _ := s.Tables["Users"].Column("id")
	lower, _ := s.Tables["users"].Column("id")
	assert.Equal(t, "int", upper.Type)
	assert.False(t, upper.PrimaryKey)
	assert.Equal(t, "bigint", lower.Type)
	assert.True(t, lower.PrimaryKey)
}

func TestAnalyze_NormalizeTypes(t *testing.T) {
	db := openSQLite(t, `CREATE TABLE t (a INTEGER, b NVARCHAR(40), c REAL)`)

	s, err := schema.Analyze(context.Background(), db, &dialect.SQLiteDialect{}, "main", schema.AnalyzeOptions{NormalizeTypes: true})
	require.NoError(t, err)

	var types []string
	for _, c := range s.Tables["t"].Columns {
		types = append(types, c.Type)
	}
	assert.Equal(t, []string{"int", "varchar", "double"}, types)
}

func TestAnalyze_CancelledContext(t *testing.T) {
	db := openSQLite(t, `CREATE TABLE t (a INTEGER)`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := schema.Analyze(ctx, db, &dialect.SQLiteDialect{}, "", schema.AnalyzeOptions{})
	assert.Error(t, err)
}

func columnNames(t schema.Table) []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
