// Package dbtest provides throwaway databases for repository tests.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"linkcook-go/internal/config"
	"linkcook-go/internal/db"
	"linkcook-go/pkg/logger"
)

var counter atomic.Int64

// NewSQLite returns a migrated in-memory SQLite database that is closed when
// the test ends.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:dbtest%d?mode=memory&cache=shared", counter.Add(1))
	gormDB, err := db.NewSQLite(name, logger.Discard())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB, config.DBConfig{Driver: config.DriverSQLite}, logger.Discard()))

	t.Cleanup(func() {
		sqlDB, err := gormDB.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}
