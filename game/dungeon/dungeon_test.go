package dungeon_test

import (
	"math/rand"
	"testing"

	"github.com/kawasemi/dungeon-crawler/server/game/dungeon"
	"github.com/kawasemi/dungeon-crawler/server/model"
	"github.com/stretchr/testify/assert"
)

func TestWalkable(t *testing.T) {
	m := dungeon.New(nil)

	assert.True(t, m.Walkable(1, 1))
	assert.False(t, m.Walkable(0, 0))   // corner wall
	assert.False(t, m.Walkable(3, 2))   // inner wall
	assert.False(t, m.Walkable(-1, 1))  // out of bounds
	assert.False(t, m.Walkable(1, 100)) // out of bounds
}

func TestStep(t *testing.T) {
	m := dungeon.New(nil)

	// Start position of a new game, facing the open tile to the south.
	x, y, moved := m.Step(1, 1, model.DirSouth)
	assert.True(t, moved)
	assert.Equal(t, 1, x)
	assert.Equal(t, 2, y)

	// North of (1,1) is the border wall: no movement.
	x, y, moved = m.Step(1, 1, model.DirNorth)
	assert.False(t, moved)
	assert.Equal(t, 1, x)
	assert.Equal(t, 1, y)
}

func TestTurns(t *testing.T) {
	dir := model.DirNorth
	for i, want := range []model.Direction{model.DirWest, model.DirSouth, model.DirEast, model.DirNorth} {
		dir = dungeon.TurnLeft(dir)
		assert.Equal(t, want, dir, "left turn %d", i)
	}
	dir = model.DirNorth
	for i, want := range []model.Direction{model.DirEast, model.DirSouth, model.DirWest, model.DirNorth} {
		dir = dungeon.TurnRight(dir)
		assert.Equal(t, want, dir, "right turn %d", i)
	}
}

func TestRollEncounterRate(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	hits := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if dungeon.RollEncounter(0.15, rng) {
			hits++
		}
	}
	assert.InDelta(t, int(0.15*n), hits, n/20)

	assert.False(t, dungeon.RollEncounter(0, rng))
}
