package battle

import "math/rand"

// Damage computes the hit inflicted by an attacker with atk against a
// defender with def. The base value atk - def/2 gets ±20% variance and
// never drops below 1: every hit chips.
func Damage(atk, def int, rng *rand.Rand) int {
	base := atk - def/2
	if base < 1 {
		base = 1
	}
	// variance in [0.8, 1.2)
	v := 0.8 + rng.Float64()*0.4
	dmg := int(float64(base) * v)
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// DefendedDamage halves an incoming hit when the target is guarding.
func DefendedDamage(atk, def int, rng *rand.Rand) int {
	dmg := Damage(atk, def, rng) / 2
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// FleeChance is the probability an escape attempt succeeds.
const FleeChance = 0.5

// Flee rolls an escape attempt.
func Flee(rng *rand.Rand) bool {
	return rng.Float64() < FleeChance
}
