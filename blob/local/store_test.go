package local_test

import (
	"context"
	"testing"

	"github.com/kawasemi/dungeon-crawler/server/blob/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteDelete(t *testing.T) {
	s, err := local.NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Read(ctx, "db")
	assert.ErrorIs(t, err, local.ErrNotFound)

	require.NoError(t, s.Write(ctx, "db", "payload-1"))
	v, err := s.Read(ctx, "db")
	require.NoError(t, err)
	assert.Equal(t, "payload-1", v)

	// Overwrite in place.
	require.NoError(t, s.Write(ctx, "db", "payload-2"))
	v, err = s.Read(ctx, "db")
	require.NoError(t, err)
	assert.Equal(t, "payload-2", v)

	require.NoError(t, s.Delete(ctx, "db"))
	_, err = s.Read(ctx, "db")
	assert.ErrorIs(t, err, local.ErrNotFound)
}

func TestDeleteMissingKeyIsNoop(t *testing.T) {
	s, err := local.NewStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, s.Delete(context.Background(), "never-written"))
}

func TestKeysAreEscaped(t *testing.T) {
	s, err := local.NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := "../outside/dungeon-crawler-db"
	require.NoError(t, s.Write(ctx, key, "x"))
	v, err := s.Read(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}
