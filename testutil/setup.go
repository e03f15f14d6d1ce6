package testutil

import (
	"testing"

	"github.com/kawasemi/dungeon-crawler/server/config"
	dbadapter "github.com/kawasemi/dungeon-crawler/server/db"
	"github.com/kawasemi/dungeon-crawler/server/model"
	"github.com/kawasemi/dungeon-crawler/server/save"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupTestDB creates an in-memory embedded DB and runs AutoMigrate.
// It requires no external services and is safe to use in parallel tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dbadapter.Open(config.DatabaseConfig{
		Mode: dbadapter.ModeEmbeddedMemory,
	})
	require.NoError(t, err, "SetupTestDB: Open")
	require.NoError(t, model.AutoMigrate(db), "SetupTestDB: AutoMigrate")
	return db
}

// SetupTestStore opens a save store on an in-memory embedded engine with
// snapshot persistence disabled.
func SetupTestStore(t *testing.T) *save.Store {
	t.Helper()
	db, err := dbadapter.Open(config.DatabaseConfig{
		Mode: dbadapter.ModeEmbeddedMemory,
	})
	require.NoError(t, err, "SetupTestStore: Open")
	st, err := save.OpenWith(db, zap.NewNop())
	require.NoError(t, err, "SetupTestStore: OpenWith")
	t.Cleanup(func() { st.Close() })
	return st
}
