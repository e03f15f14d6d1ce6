package battle_test

import (
	"math/rand"
	"testing"

	"github.com/kawasemi/dungeon-crawler/server/game/battle"
	"github.com/stretchr/testify/assert"
)

func TestDamageWithinVarianceBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		dmg := battle.Damage(20, 10, rng) // base 15
		assert.GreaterOrEqual(t, dmg, 12)
		assert.LessOrEqual(t, dmg, 18)
	}
}

func TestDamageNeverBelowOne(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		assert.GreaterOrEqual(t, battle.Damage(1, 100, rng), 1)
		assert.GreaterOrEqual(t, battle.DefendedDamage(1, 100, rng), 1)
	}
}

func TestDefendedDamageIsHalved(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		dmg := battle.DefendedDamage(20, 10, rng)
		assert.GreaterOrEqual(t, dmg, 6)
		assert.LessOrEqual(t, dmg, 9)
	}
}

func TestFleeRoughlyEven(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	success := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if battle.Flee(rng) {
			success++
		}
	}
	assert.InDelta(t, n/2, success, n/20)
}
