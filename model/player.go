package model

// DefaultPlayerName is the name given to a freshly created player.
const DefaultPlayerName = "冒険者"

// Player holds the stats of the one player attached to a save slot.
type Player struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	SaveID int64  `gorm:"uniqueIndex;not null" json:"-"`
	Name   string `gorm:"size:32;not null;default:冒険者" json:"name"`
	Level  int    `gorm:"not null;default:1;check:level >= 1" json:"level"`
	Exp    int    `gorm:"not null;default:0;check:exp >= 0" json:"exp"`
	HP     int    `gorm:"not null;default:100;check:hp >= 0" json:"hp"`
	Gold   int    `gorm:"not null;default:0;check:gold >= 0" json:"gold"`
	Steps  int    `gorm:"not null;default:0;check:steps >= 0" json:"steps"`
}

func (Player) TableName() string { return "players" }
