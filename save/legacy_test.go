package save_test

import (
	"context"
	"testing"

	"github.com/kawasemi/dungeon-crawler/server/blob"
	"github.com/kawasemi/dungeon-crawler/server/model"
	"github.com/kawasemi/dungeon-crawler/server/save"
	"github.com/kawasemi/dungeon-crawler/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const legacyJSON = `{
  "floor": 2,
  "playerPos": {"x": 4, "y": 6},
  "playerDir": "E",
  "level": 8,
  "exp": 210,
  "hp": 140,
  "gold": 320,
  "steps": 999,
  "potions": 5,
  "builtBases": ["0:3,4"],
  "bossDefeated": true,
  "lastRestedBase": {"x": 3, "y": 4, "floor": 0}
}`

func TestMigrateLegacy(t *testing.T) {
	ctx := context.Background()
	st := testutil.SetupTestStore(t)
	blobs := newBlobStore(t)
	require.NoError(t, blobs.Write(ctx, save.LegacyKey, legacyJSON))

	require.NoError(t, save.MigrateLegacy(ctx, blobs, st, zap.NewNop()))

	full, err := st.LoadFull(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, full)

	assert.Equal(t, 8, full.Player.Level)
	assert.Equal(t, 210, full.Player.Exp)
	assert.Equal(t, 140, full.Player.HP)
	assert.Equal(t, 320, full.Player.Gold)
	assert.Equal(t, 999, full.Player.Steps)

	assert.Contains(t, full.Items, save.ItemData{ItemType: "potion", Quantity: 5})

	assert.Equal(t, 2, full.Progress.Floor)
	assert.Equal(t, 4, full.Progress.PlayerX)
	assert.Equal(t, 6, full.Progress.PlayerY)
	assert.Equal(t, model.DirEast, full.Progress.PlayerDir)
	assert.True(t, full.Progress.BossDefeated)
	assert.Equal(t, []string{"0:3,4"}, full.Progress.BuiltBases)
	assert.Empty(t, full.Progress.OpenedChests)
	assert.Equal(t, &save.RestPoint{X: 3, Y: 4, Floor: 0}, full.Progress.LastRestedBase)

	// The legacy record is consumed.
	_, err = blobs.Read(ctx, save.LegacyKey)
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestMigrateLegacyAbsentKeyIsNoop(t *testing.T) {
	ctx := context.Background()
	st := testutil.SetupTestStore(t)

	require.NoError(t, save.MigrateLegacy(ctx, newBlobStore(t), st, zap.NewNop()))

	full, err := st.LoadFull(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, full)
}

func TestMigrateLegacyCorruptRecordIsSkipped(t *testing.T) {
	ctx := context.Background()
	st := testutil.SetupTestStore(t)
	blobs := newBlobStore(t)
	require.NoError(t, blobs.Write(ctx, save.LegacyKey, "{not json"))

	require.NoError(t, save.MigrateLegacy(ctx, blobs, st, zap.NewNop()))

	// Nothing imported, nothing destroyed.
	full, err := st.LoadFull(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, full)
	_, err = blobs.Read(ctx, save.LegacyKey)
	require.NoError(t, err)
}
