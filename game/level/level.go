package level

// ExpToNext returns the experience needed to go from the given level to the
// next one.
func ExpToNext(lvl int) int {
	return lvl * 25
}

// MaxHP returns the hit point cap at the given level.
func MaxHP(lvl int) int {
	return 100 + (lvl-1)*10
}

// Attack returns the player's attack stat at the given level.
func Attack(lvl int) int {
	return 10 + (lvl-1)*2
}

// Defense returns the player's defense stat at the given level.
func Defense(lvl int) int {
	return 5 + (lvl - 1)
}

// Apply adds gained experience and returns the resulting level, remaining
// exp and how many levels were gained. Exp resets against each threshold as
// levels are crossed.
func Apply(lvl, exp, gained int) (newLevel, newExp, levelsGained int) {
	newLevel = lvl
	newExp = exp + gained
	for newExp >= ExpToNext(newLevel) {
		newExp -= ExpToNext(newLevel)
		newLevel++
		levelsGained++
	}
	return newLevel, newExp, levelsGained
}
