// Package testutil opens throwaway databases for tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/factory-erp/internal/infrastructure/persistence"
	"github.com/oksasatya/factory-erp/pkg/helpers"
)

// NewSQLite returns a migrated in-memory SQLite database private to t.
func NewSQLite(t testing.TB) *persistence.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()[:8]
	db, err := persistence.Open(context.Background(), persistence.Options{
		Driver:     persistence.DriverSQLite,
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, persistence.Migrate(db, "", helpers.NewDiscardLogger()))
	return db
}
