package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	q := "SELECT a FROM t WHERE x = ? AND y IN (?, ?)"

	assert.Equal(t, q, Rebind(SQLite, q))
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y IN ($2, $3)", Rebind(Postgres, q))
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{
		"":           SQLite,
		"sqlite":     SQLite,
		"Postgres":   Postgres,
		"pgx":        Postgres,
		"postgresql": Postgres,
	} {
		got, err := ParseDialect(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDialect("mysql")
	assert.Error(t, err)
}

func TestOpenSQLite(t *testing.T) {
	db, err := OpenSQLite(t.TempDir() + "/test.db")
	require.NoError(t, err)
	defer db.Close()

	var one int
	require.NoError(t, db.QueryRow("SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}
