package save_test

import (
	"context"
	"encoding/base64"
	"errors"
	"path/filepath"
	"testing"

	"github.com/kawasemi/dungeon-crawler/server/blob"
	"github.com/kawasemi/dungeon-crawler/server/config"
	dbadapter "github.com/kawasemi/dungeon-crawler/server/db"
	"github.com/kawasemi/dungeon-crawler/server/save"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBlobStore(t *testing.T) blob.Store {
	t.Helper()
	s, err := blob.NewStore(blob.Config{LocalDir: t.TempDir()})
	require.NoError(t, err)
	return s
}

func openSQLiteStore(t *testing.T, blobs blob.Store) *save.Store {
	t.Helper()
	cfg := config.DatabaseConfig{
		Mode:       dbadapter.ModeSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "game.db"),
	}
	st, err := save.Open(context.Background(), cfg, blobs, zap.NewNop())
	require.NoError(t, err)
	return st
}

func TestSnapshotRoundTripAcrossReopen(t *testing.T) {
	ctx := context.Background()
	blobs := newBlobStore(t)

	st := openSQLiteStore(t, blobs)
	_, err := st.CreateSave(ctx, 1)
	require.NoError(t, err)
	name := "テスト勇者"
	require.NoError(t, st.UpdatePlayer(ctx, 1, save.PlayerUpdate{Name: &name}))
	require.NoError(t, st.Close())

	// A new working file in a different directory restores from the blob.
	st2 := openSQLiteStore(t, blobs)
	defer st2.Close()

	player, err := st2.GetPlayer(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, player)
	assert.Equal(t, "テスト勇者", player.Name)
}

func TestOpenWithoutSnapshotStartsFresh(t *testing.T) {
	st := openSQLiteStore(t, newBlobStore(t))
	defer st.Close()

	saves, err := st.ListSaves(context.Background())
	require.NoError(t, err)
	assert.Empty(t, saves)
}

func TestOpenWithCorruptSnapshotStartsFresh(t *testing.T) {
	ctx := context.Background()
	blobs := newBlobStore(t)
	require.NoError(t, blobs.Write(ctx, save.SnapshotKey, "!!! not base64 !!!"))

	st := openSQLiteStore(t, blobs)
	defer st.Close()

	saves, err := st.ListSaves(ctx)
	require.NoError(t, err)
	assert.Empty(t, saves)
}

func TestOpenWithNonDatabaseSnapshotStartsFresh(t *testing.T) {
	ctx := context.Background()
	blobs := newBlobStore(t)

	// Decodes fine, but the bytes are not a database image.
	garbage := base64.StdEncoding.EncodeToString([]byte("this is not a database image"))
	require.NoError(t, blobs.Write(ctx, save.SnapshotKey, garbage))

	st := openSQLiteStore(t, blobs)
	defer st.Close()

	saves, err := st.ListSaves(ctx)
	require.NoError(t, err)
	assert.Empty(t, saves)

	// The store is fully usable after the fallback.
	_, err = st.CreateSave(ctx, 1)
	require.NoError(t, err)
}

// failingBlobStore simulates a backend that is out of quota: every write
// fails, every read reports absence.
type failingBlobStore struct{}

func (failingBlobStore) Read(context.Context, string) (string, error) {
	return "", blob.ErrNotFound
}

func (failingBlobStore) Write(context.Context, string, string) error {
	return errors.New("quota exceeded")
}

func (failingBlobStore) Delete(context.Context, string) error {
	return errors.New("quota exceeded")
}

func TestMutationsSucceedWhenPersistenceFails(t *testing.T) {
	ctx := context.Background()
	st := openSQLiteStore(t, failingBlobStore{})
	defer st.Close()

	_, err := st.CreateSave(ctx, 1)
	require.NoError(t, err)
	gold := 500
	require.NoError(t, st.UpdatePlayer(ctx, 1, save.PlayerUpdate{Gold: &gold}))

	player, err := st.GetPlayer(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 500, player.Gold)

	// Flush reports the failure the mutating path swallowed.
	assert.Error(t, st.Flush())
}
