package level_test

import (
	"testing"

	"github.com/kawasemi/dungeon-crawler/server/game/level"
	"github.com/stretchr/testify/assert"
)

func TestExpToNext(t *testing.T) {
	assert.Equal(t, 25, level.ExpToNext(1))
	assert.Equal(t, 250, level.ExpToNext(10))
}

func TestMaxHP(t *testing.T) {
	assert.Equal(t, 100, level.MaxHP(1))
	assert.Equal(t, 190, level.MaxHP(10))
}

func TestCombatStats(t *testing.T) {
	assert.Equal(t, 10, level.Attack(1))
	assert.Equal(t, 28, level.Attack(10))
	assert.Equal(t, 5, level.Defense(1))
	assert.Equal(t, 14, level.Defense(10))
}

func TestApply(t *testing.T) {
	tests := []struct {
		name                  string
		lvl, exp, gained      int
		wantLvl, wantExp, wantGained int
	}{
		{"no level up", 1, 0, 10, 1, 10, 0},
		{"exact threshold", 1, 0, 25, 2, 0, 1},
		{"single level with remainder", 1, 20, 10, 2, 5, 1},
		{"multi level", 1, 0, 80, 3, 5, 2},
		{"zero gain", 5, 99, 0, 5, 99, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl, exp, gained := level.Apply(tt.lvl, tt.exp, tt.gained)
			assert.Equal(t, tt.wantLvl, lvl)
			assert.Equal(t, tt.wantExp, exp)
			assert.Equal(t, tt.wantGained, gained)
		})
	}
}
