package model

import "gorm.io/datatypes"

// Direction is a compass facing for the player.
type Direction string

const (
	DirNorth Direction = "N"
	DirSouth Direction = "S"
	DirEast  Direction = "E"
	DirWest  Direction = "W"
)

// Valid reports whether d is one of the four compass directions.
func (d Direction) Valid() bool {
	switch d {
	case DirNorth, DirSouth, DirEast, DirWest:
		return true
	}
	return false
}

// GameProgress holds dungeon progression for a save slot.
// The last_rested_base_* columns are jointly null: either all three are set
// or all three are NULL, never a mix.
type GameProgress struct {
	ID                  int64          `gorm:"primaryKey;autoIncrement" json:"-"`
	SaveID              int64          `gorm:"uniqueIndex;not null" json:"-"`
	Floor               int            `gorm:"not null;default:0;check:floor >= 0" json:"floor"`
	PlayerX             int            `gorm:"not null;default:1" json:"player_x"`
	PlayerY             int            `gorm:"not null;default:1" json:"player_y"`
	PlayerDir           Direction      `gorm:"size:1;not null;default:N;check:player_dir IN ('N','S','E','W')" json:"player_dir"`
	BossDefeated        bool           `gorm:"not null;default:false" json:"boss_defeated"`
	BuiltBases          datatypes.JSON `gorm:"not null;default:'[]'" json:"built_bases"`
	OpenedChests        datatypes.JSON `gorm:"not null;default:'[]'" json:"opened_chests"`
	LastRestedBaseX     *int           `json:"last_rested_base_x"`
	LastRestedBaseY     *int           `json:"last_rested_base_y"`
	LastRestedBaseFloor *int           `json:"last_rested_base_floor"`
}

func (GameProgress) TableName() string { return "game_progress" }
