package dungeon

import (
	"math/rand"

	"github.com/kawasemi/dungeon-crawler/server/model"
)

// DefaultMap is the fixed floor layout: '#' walls, '.' floor tiles.
var DefaultMap = []string{
	"##########",
	"#........#",
	"#..####..#",
	"#..#.....#",
	"#..#..#..#",
	"#.....#..#",
	"#..####..#",
	"#........#",
	"##########",
}

// Map is a rectangular tile grid.
type Map struct {
	rows []string
}

// New returns a Map over the given rows; nil rows means the default layout.
func New(rows []string) *Map {
	if rows == nil {
		rows = DefaultMap
	}
	return &Map{rows: rows}
}

// Walkable reports whether (x, y) is a floor tile inside the map.
func (m *Map) Walkable(x, y int) bool {
	if y < 0 || y >= len(m.rows) {
		return false
	}
	row := m.rows[y]
	if x < 0 || x >= len(row) {
		return false
	}
	return row[x] == '.'
}

// Delta returns the coordinate offset of one step facing dir.
// Screen coordinates: north decreases y.
func Delta(dir model.Direction) (dx, dy int) {
	switch dir {
	case model.DirNorth:
		return 0, -1
	case model.DirSouth:
		return 0, 1
	case model.DirEast:
		return 1, 0
	case model.DirWest:
		return -1, 0
	}
	return 0, 0
}

// Step attempts one step from (x, y) facing dir. It returns the resulting
// position and whether the move happened; a wall leaves the position as is.
func (m *Map) Step(x, y int, dir model.Direction) (nx, ny int, moved bool) {
	dx, dy := Delta(dir)
	nx, ny = x+dx, y+dy
	if !m.Walkable(nx, ny) {
		return x, y, false
	}
	return nx, ny, true
}

// TurnLeft returns the direction after a 90° counter-clockwise turn.
func TurnLeft(dir model.Direction) model.Direction {
	switch dir {
	case model.DirNorth:
		return model.DirWest
	case model.DirWest:
		return model.DirSouth
	case model.DirSouth:
		return model.DirEast
	default:
		return model.DirNorth
	}
}

// TurnRight returns the direction after a 90° clockwise turn.
func TurnRight(dir model.Direction) model.Direction {
	switch dir {
	case model.DirNorth:
		return model.DirEast
	case model.DirEast:
		return model.DirSouth
	case model.DirSouth:
		return model.DirWest
	default:
		return model.DirNorth
	}
}

// RollEncounter reports whether a random encounter triggers after a step.
func RollEncounter(rate float64, rng *rand.Rand) bool {
	return rng.Float64() < rate
}
