package agentpay_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/agentpay/agentpay"
)

// setupTestRepo spins up an in-memory sqlite database with all tables
// created and returns a repository manager bound to it. One connection
// only, in-memory sqlite databases are per-connection.
func setupTestRepo(t *testing.T) agentpay.RepositoryManager {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, model := range []any{
		(*agentpay.User)(nil),
		(*agentpay.UserSettings)(nil),
		(*agentpay.CardPreferences)(nil),
		(*agentpay.Payment)(nil),
	} {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		require.NoError(t, err)
	}

	repo := agentpay.NewRepositoryManager(db)
	require.NoError(t, repo.Validate())

	return repo
}
