package enemy

import "math/rand"

// Kind identifies an enemy template.
type Kind string

const (
	KindSlime    Kind = "slime"
	KindBat      Kind = "bat"
	KindSkeleton Kind = "skeleton"
)

// Enemy is a spawned encounter opponent.
type Enemy struct {
	Name       string `json:"name"`
	Kind       Kind   `json:"kind"`
	HP         int    `json:"hp"`
	MaxHP      int    `json:"max_hp"`
	Attack     int    `json:"attack"`
	Defense    int    `json:"defense"`
	ExpReward  int    `json:"exp_reward"`
	GoldReward int    `json:"gold_reward"`
}

// templates are the base enemies encountered on floor 0.
var templates = []Enemy{
	{Name: "スライム", Kind: KindSlime, MaxHP: 30, Attack: 8, Defense: 2, ExpReward: 5, GoldReward: 3},
	{Name: "コウモリ", Kind: KindBat, MaxHP: 20, Attack: 12, Defense: 1, ExpReward: 7, GoldReward: 5},
	{Name: "スケルトン", Kind: KindSkeleton, MaxHP: 50, Attack: 14, Defense: 5, ExpReward: 12, GoldReward: 10},
}

// Spawn picks a random template and scales it for the given floor.
// Stats grow 30% per floor below the surface.
func Spawn(floor int, rng *rand.Rand) Enemy {
	e := templates[rng.Intn(len(templates))]
	scale := 1.0 + float64(floor)*0.3
	e.MaxHP = int(float64(e.MaxHP) * scale)
	e.HP = e.MaxHP
	e.Attack = int(float64(e.Attack) * scale)
	e.Defense = int(float64(e.Defense) * scale)
	e.ExpReward = int(float64(e.ExpReward) * scale)
	e.GoldReward = int(float64(e.GoldReward) * scale)
	return e
}
