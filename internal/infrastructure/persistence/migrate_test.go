package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/factory-erp/internal/infrastructure/persistence"
	"github.com/oksasatya/factory-erp/internal/testutil"
	"github.com/oksasatya/factory-erp/pkg/helpers"
)

func TestMigrate_RerunLeavesSQLiteOpen(t *testing.T) {
	db := testutil.NewSQLite(t)

	require.NoError(t, persistence.Migrate(db, "", helpers.NewDiscardLogger()))
	require.NoError(t, db.PingContext(context.Background()))

	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Zero(t, n)
}

func TestMigrate_UnknownDriver(t *testing.T) {
	db := testutil.NewSQLite(t)
	other := &persistence.DB{DB: db.DB, Driver: "mysql"}
	assert.Error(t, persistence.Migrate(other, "", helpers.NewDiscardLogger()))
}
